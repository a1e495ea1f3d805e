package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"totpvault/internal/portable"
)

func runExport(args []string, deps Deps) int {
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
	if s.Len() == 0 {
		writeError(deps.Stderr, pa.json, "no accounts to export")
		return 1
	}

	doc := portable.Export(s, deps.Now())

	if pa.out == "" {
		if err := portable.EncodeTo(deps.Stdout, doc); err != nil {
			writeError(deps.Stderr, pa.json, err.Error())
			return 1
		}
		return 0
	}

	f, err := os.OpenFile(pa.out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		writeError(deps.Stderr, pa.json, fmt.Sprintf("open export file: %v", err))
		return 1
	}
	defer f.Close()

	if err := portable.EncodeTo(f, doc); err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	if pa.json {
		_ = json.NewEncoder(deps.Stdout).Encode(map[string]any{
			"file":     pa.out,
			"accounts": s.Len(),
		})
		return 0
	}
	fmt.Fprintf(deps.Stdout, "exported %d accounts to %s\n", s.Len(), pa.out)
	return 0
}

func runImport(args []string, deps Deps) int {
	pa, err := parseFlags(args)
	if err == errShowHelp {
		printImportHelp(deps)
		return 0
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 2
	}
	if len(pa.args) != 1 {
		writeError(deps.Stderr, pa.json, "import file is required")
		return 2
	}

	policy := portable.Abort
	if pa.onConflict != "" {
		policy, err = portable.ParsePolicy(pa.onConflict)
		if err != nil {
			writeError(deps.Stderr, pa.json, err.Error())
			return 2
		}
	}

	f, err := os.Open(pa.args[0])
	if err != nil {
		writeError(deps.Stderr, pa.json, fmt.Sprintf("open import file: %v", err))
		return 1
	}
	defer f.Close()

	doc, err := portable.Decode(f)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	s, err := openStore(pa, deps)
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	res, err := portable.Import(s, doc, policy)
	if errors.Is(err, portable.ErrAborted) {
		msg := fmt.Sprintf("%d conflicting accounts (%s); rerun with --on-conflict replace or skip",
			len(res.Conflicts), strings.Join(res.Conflicts, ", "))
		writeError(deps.Stderr, pa.json, msg)
		return 1
	}
	if err != nil {
		writeError(deps.Stderr, pa.json, err.Error())
		return 1
	}

	if pa.json {
		_ = json.NewEncoder(deps.Stdout).Encode(map[string]any{
			"imported":  res.Imported,
			"conflicts": res.Conflicts,
		})
		return 0
	}
	fmt.Fprintf(deps.Stdout, "imported %d accounts", res.Imported)
	if len(res.Conflicts) > 0 {
		fmt.Fprintf(deps.Stdout, " (%d conflicts)", len(res.Conflicts))
	}
	fmt.Fprintln(deps.Stdout)
	return 0
}
