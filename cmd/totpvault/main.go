package main

import (
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"totpvault/internal/config"
)

func main() {
	// Convenience for local dev: load .env if present (does not override
	// existing env vars).
	if os.Getenv("ENV") != "production" {
		_ = config.LoadDotEnvIfPresent(".env")
	}

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	deps := Deps{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Now:         time.Now,
		StorePath:   cfg.StorePath,
		LogLevel:    cfg.LogLevel,
		IsTTY:       func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		IsStdoutTTY: func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
		ReadPass: func(prompt string, w io.Writer) (string, error) {
			_, _ = io.WriteString(w, prompt)
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			_, _ = io.WriteString(w, "\n")
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
	}
	os.Exit(run(os.Args, deps))
}
