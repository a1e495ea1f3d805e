package main

import (
	"encoding/json"
	"fmt"
)

func runRename(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}
	if len(pa.args) != 3 {
		writeError(deps.Stderr, pa.json, "usage: totpvault rename <key> <new-issuer> <new-account>")
		return 2
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	newKey, err := s.Rename(pa.args[0], pa.args[1], pa.args[2])
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}
	if err := s.Save(); err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	if pa.json {
		_ = json.NewEncoder(deps.Stdout).Encode(map[string]string{"key": newKey})
		return 0
	}
	fmt.Fprintf(deps.Stdout, "renamed to %s\n", newKey)
	return 0
}

func runRemove(args []string, deps Deps) int {
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

	if !s.Remove(pa.args[0]) {
		writeError(deps.Stderr, pa.json, fmt.Sprintf("account not found: %s", pa.args[0]))
		return 1
	}
	if err := s.Save(); err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	if pa.json {
		_ = json.NewEncoder(deps.Stdout).Encode(map[string]string{"removed": pa.args[0]})
		return 0
	}
	fmt.Fprintf(deps.Stdout, "removed %s\n", pa.args[0])
	return 0
}
