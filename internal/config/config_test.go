package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Note: these tests mutate process env, so none of them run in parallel.

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ENV")
	os.Unsetenv("TOTPVAULT_STORE")
	os.Unsetenv("TOTPVAULT_LOG_LEVEL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "development" {
		t.Errorf("Env: got %q", cfg.Env)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
	if filepath.Base(cfg.StorePath) != "accounts.json" {
		t.Errorf("StorePath: got %q", cfg.StorePath)
	}
}

func TestLoad_StoreOverride(t *testing.T) {
	t.Setenv("TOTPVAULT_STORE", "/tmp/custom/accounts.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorePath != "/tmp/custom/accounts.json" {
		t.Errorf("StorePath: got %q", cfg.StorePath)
	}
}

func TestLoadDotEnvIfPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n" +
		"TOTPVAULT_TEST_A=plain\n" +
		"TOTPVAULT_TEST_B=\"quoted value\"\n" +
		"TOTPVAULT_TEST_C='single'\n" +
		"not a pair\n" +
		"TOTPVAULT_TEST_D=kept\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TOTPVAULT_TEST_D", "preexisting")
	for _, key := range []string{"TOTPVAULT_TEST_A", "TOTPVAULT_TEST_B", "TOTPVAULT_TEST_C"} {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	if err := LoadDotEnvIfPresent(path); err != nil {
		t.Fatalf("LoadDotEnvIfPresent: %v", err)
	}

	if got := os.Getenv("TOTPVAULT_TEST_A"); got != "plain" {
		t.Errorf("A: got %q", got)
	}
	if got := os.Getenv("TOTPVAULT_TEST_B"); got != "quoted value" {
		t.Errorf("B: got %q", got)
	}
	if got := os.Getenv("TOTPVAULT_TEST_C"); got != "single" {
		t.Errorf("C: got %q", got)
	}
	// Existing vars win over the file.
	if got := os.Getenv("TOTPVAULT_TEST_D"); got != "preexisting" {
		t.Errorf("D: got %q", got)
	}
}

func TestLoadDotEnvIfPresent_Missing(t *testing.T) {
	if err := LoadDotEnvIfPresent(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing file must not error: %v", err)
	}
}
