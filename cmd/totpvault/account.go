package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"totpvault/internal/otpauth"
	"totpvault/internal/store"
	"totpvault/internal/totp"
)

func runAdd(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printAddHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}

	raw, err := readURI(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}

	payload, ok := otpauth.Parse(raw)
	if !ok {
		writeError(deps.Stderr, pa.json, "not a usable otpauth://totp/ URI")
		return 1
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	key, err := s.AddFromQR(payload)
	if err != nil {
		writeError(deps.Stderr, pa.json, addErrorMessage(err))
		return 1
	}
	if err := s.Save(); err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	printAdded(pa, deps, s, key)
	return 0
}

func runAddManual(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printAddManualHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}
	if len(pa.args) != 1 {
		writeError(deps.Stderr, pa.json, "account name is required")
		return 2
	}
	account := pa.args[0]

	secret, err := readSecret(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	key, err := s.AddManual(account, secret, pa.issuer)
	if err != nil {
		writeError(deps.Stderr, pa.json, addErrorMessage(err))
		return 1
	}
	if err := s.Save(); err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	printAdded(pa, deps, s, key)
	return 0
}

// readURI takes the otpauth URI from the first positional argument or, if
// absent, from stdin (where a QR decoder pipeline would put it).
func readURI(pa parsedArgs, deps Deps) (string, error) {
	if len(pa.args) >= 1 {
		return pa.args[0], nil
	}
	if deps.IsTTY() {
		fmt.Fprint(deps.Stderr, "Paste otpauth:// URI:\n")
	}
	sc := bufio.NewScanner(deps.Stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return "", errors.New("no URI provided")
	}
	return strings.TrimSpace(sc.Text()), nil
}

// readSecret takes the secret from --secret, an interactive no-echo
// prompt, or a line on stdin, in that order of preference.
func readSecret(pa parsedArgs, deps Deps) (string, error) {
	if pa.secret != "" {
		return pa.secret, nil
	}

	if deps.IsTTY() {
		if deps.ReadPass == nil {
			return "", errors.New("secret prompt not available; use --secret")
		}
		secret, err := deps.ReadPass("Secret: ", deps.Stderr)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		if secret == "" {
			return "", errors.New("secret must not be empty")
		}
		return secret, nil
	}

	sc := bufio.NewScanner(deps.Stdin)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return "", errors.New("no secret provided")
	}
	secret := strings.TrimSpace(sc.Text())
	if secret == "" {
		return "", errors.New("secret must not be empty")
	}
	return secret, nil
}

func addErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrSecretTooShort):
		return fmt.Sprintf("secret too short: need at least %d characters after normalization", store.MinSecretLength)
	case errors.Is(err, totp.ErrInvalidSecret):
		return "invalid secret: not usable base32 TOTP material"
	default:
		return err.Error()
	}
}

func printAdded(pa parsedArgs, deps Deps, s *store.Store, key string) {
	rec, _ := s.Get(key)
	if pa.json {
		out := map[string]any{
			"key":     key,
			"account": rec.Account,
			"issuer":  rec.Issuer,
		}
		_ = json.NewEncoder(deps.Stdout).Encode(out)
		return
	}
	fmt.Fprintf(deps.Stdout, "added %s (%s - %s)\n", key, rec.Issuer, rec.Account)
}
