package main

import (
	"encoding/json"
	"fmt"
	"os"

	"totpvault/internal/otpauth"
	"totpvault/internal/qr"
	"totpvault/internal/totp"
)

func runQR(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printQRHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}
	if len(pa.args) != 1 {
		writeError(deps.Stderr, pa.json, "account key is required")
		return 2
	}
	key := pa.args[0]

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	rec, ok := s.Get(key)
	if !ok {
		writeError(deps.Stderr, pa.json, fmt.Sprintf("account not found: %s", key))
		return 1
	}

	// Legacy bare-secret records have no labels; reuse the listing
	// fallbacks so the URI stays scannable.
	account, issuer := rec.Account, rec.Issuer
	if account == "" {
		account = key
	}
	if issuer == "" {
		issuer = otpauth.DefaultIssuer
	}

	uri := totp.URI(issuer, account, rec.Secret)
	img, err := qr.PNG(uri, pa.size)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	out := pa.out
	if out == "" {
		out = key + ".png"
	}
	if err := os.WriteFile(out, img, 0o600); err != nil {
		writeError(deps.Stderr, pa.json, fmt.Sprintf("write %s: %v", out, err))
		return 1
	}

	if pa.json {
		_ = json.NewEncoder(deps.Stdout).Encode(map[string]string{"file": out})
		return 0
	}
	fmt.Fprintf(deps.Stdout, "wrote %s\n", out)
	return 0
}
