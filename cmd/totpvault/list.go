package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"totpvault/internal/totp"
)

func runList(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	entries := s.List()
	if pa.json {
		_ = json.NewEncoder(deps.Stdout).Encode(entries)
		return 0
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "no accounts enrolled")
		return 0
	}

	keys := sortedKeys(entries)
	w := tabwriter.NewWriter(deps.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tISSUER\tACCOUNT\tADDED")
	for _, key := range keys {
		e := entries[key]
		added := "unknown"
		if e.Added > 0 {
			added = time.Unix(e.Added, 0).Format("2006-01-02")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", key, e.Issuer, e.Account, added)
	}
	_ = w.Flush()
	return 0
}

func runCode(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printHelp(deps)
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

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	now := deps.Now()
	code, err := s.Code(pa.args[0], now)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	if pa.json {
		out := map[string]any{
			"code":              code,
			"seconds_remaining": totp.Remaining(now),
		}
		_ = json.NewEncoder(deps.Stdout).Encode(out)
		return 0
	}
	fmt.Fprintln(deps.Stdout, code)
	return 0
}

func runCodes(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	now := deps.Now()
	entries := s.List()
	keys := sortedKeys(entries)

	type row struct {
		Code             string `json:"code"`
		SecondsRemaining int    `json:"seconds_remaining"`
	}

	if pa.json {
		out := make(map[string]row, len(keys))
		for _, key := range keys {
			code, err := s.Code(key, now)
			if err != nil {
				continue // unusable record; listing the rest still helps
			}
			out[key] = row{Code: code, SecondsRemaining: totp.Remaining(now)}
		}
		_ = json.NewEncoder(deps.Stdout).Encode(out)
		return 0
	}

	if len(keys) == 0 {
		fmt.Fprintln(deps.Stdout, "no accounts enrolled")
		return 0
	}

	w := tabwriter.NewWriter(deps.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "KEY\tCODE\tEXPIRES\n")
	for _, key := range keys {
		code, err := s.Code(key, now)
		if err != nil {
			code = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%ds\n", key, code, totp.Remaining(now))
	}
	_ = w.Flush()
	return 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
