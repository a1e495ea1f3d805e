package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"totpvault/internal/store"
)

const version = "2.0.0"

// Deps holds injectable dependencies for testing.
type Deps struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Now         func() time.Time
	StorePath   string // default account file location
	LogLevel    string
	IsTTY       func() bool // stdin is a terminal
	IsStdoutTTY func() bool // stdout is a terminal (controls color)
	ReadPass    func(prompt string, w io.Writer) (string, error)
}

// parsedArgs holds parsed global and command-specific flags.
type parsedArgs struct {
	args []string // positional args after flags

	// Global
	json  bool
	store string

	// add-manual
	issuer string
	secret string

	// export / qr
	out  string
	size int

	// import
	onConflict string
}

var errShowHelp = fmt.Errorf("show help")

// run is the main entry point. Returns exit code.
func run(args []string, deps Deps) int {
	if len(args) < 2 {
		printUsage(deps)
		return 2
	}

	switch args[1] {
	case "--version", "-v":
		fmt.Fprintf(deps.Stdout, "totpvault %s\n", version)
		return 0
	case "--help", "-h":
		printHelp(deps)
		return 0
	}

	command := args[1]
	remaining := args[2:]

	switch command {
	case "version":
		fmt.Fprintf(deps.Stdout, "totpvault %s\n", version)
		return 0
	case "help":
		return runHelp(remaining, deps)
	case "completion":
		return runCompletion(remaining, deps)
	case "add":
		return runAdd(remaining, deps)
	case "add-manual":
		return runAddManual(remaining, deps)
	case "list":
		return runList(remaining, deps)
	case "code":
		return runCode(remaining, deps)
	case "codes":
		return runCodes(remaining, deps)
	case "rename":
		return runRename(remaining, deps)
	case "remove":
		return runRemove(remaining, deps)
	case "export":
		return runExport(remaining, deps)
	case "import":
		return runImport(remaining, deps)
	case "qr":
		return runQR(remaining, deps)
	case "watch":
		return runWatch(remaining, deps)
	default:
		fmt.Fprintf(deps.Stderr, "error: unknown command %q\n", command)
		printUsage(deps)
		return 2
	}
}

func runHelp(args []string, deps Deps) int {
	if len(args) == 0 {
		printHelp(deps)
		return 0
	}
	switch args[0] {
	case "add":
		printAddHelp(deps)
	case "add-manual":
		printAddManualHelp(deps)
	case "import":
		printImportHelp(deps)
	case "qr":
		printQRHelp(deps)
	default:
		printHelp(deps)
	}
	return 0
}

func runCompletion(args []string, deps Deps) int {
	if len(args) != 1 {
		fmt.Fprintf(deps.Stderr, "error: specify a shell (supported: bash, zsh, fish)\n")
		return 2
	}
	switch args[0] {
	case "bash":
		fmt.Fprint(deps.Stdout, bashCompletion)
	case "zsh":
		fmt.Fprint(deps.Stdout, zshCompletion)
	case "fish":
		fmt.Fprint(deps.Stdout, fishCompletion)
	default:
		fmt.Fprintf(deps.Stderr, "error: unsupported shell %q (supported: bash, zsh, fish)\n", args[0])
		return 2
	}
	return 0
}

// parseFlags parses command-specific flags from args.
func parseFlags(args []string) (parsedArgs, error) {
	var pa parsedArgs
	var positional []string

	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			positional = append(positional, arg)
			i++
			continue
		}

		switch arg {
		case "--help", "-h":
			pa.args = nil
			return pa, errShowHelp
		case "--json":
			pa.json = true
		case "--store":
			if i+1 >= len(args) {
				return pa, fmt.Errorf("--store requires a value")
			}
			i++
			pa.store = args[i]
		case "--issuer":
			if i+1 >= len(args) {
				return pa, fmt.Errorf("--issuer requires a value")
			}
			i++
			pa.issuer = args[i]
		case "--secret":
			if i+1 >= len(args) {
				return pa, fmt.Errorf("--secret requires a value")
			}
			i++
			pa.secret = args[i]
		case "--out":
			if i+1 >= len(args) {
				return pa, fmt.Errorf("--out requires a value")
			}
			i++
			pa.out = args[i]
		case "--size":
			if i+1 >= len(args) {
				return pa, fmt.Errorf("--size requires a value")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n <= 0 {
				return pa, fmt.Errorf("--size must be a positive integer")
			}
			pa.size = n
		case "--on-conflict":
			if i+1 >= len(args) {
				return pa, fmt.Errorf("--on-conflict requires a value")
			}
			i++
			pa.onConflict = args[i]
		default:
			return pa, fmt.Errorf("unknown flag: %s", arg)
		}
		i++
	}

	pa.args = positional
	return pa, nil
}

// openStore resolves the account file location and loads it. A corrupt
// file degrades to an empty store with a warning; it never blocks the
// command.
func openStore(pa parsedArgs, deps Deps) (*store.Store, error) {
	path := pa.store
	if path == "" {
		if env := deps.Getenv("TOTPVAULT_STORE"); env != "" {
			path = env
		} else {
			path = deps.StorePath
		}
	}
	if path == "" {
		return nil, fmt.Errorf("no account store path configured (set TOTPVAULT_STORE or use --store)")
	}

	logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(deps.LogLevel),
	}))

	s := store.New(path, logger)
	if err := s.Load(); err != nil {
		// Already logged by the store; the command proceeds on empty.
		fmt.Fprintf(deps.Stderr, "warning: starting with an empty store: %v\n", err)
	}
	return s, nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func writeError(w io.Writer, jsonMode bool, msg string) {
	if jsonMode {
		fmt.Fprintf(w, `{"error":%q}`+"\n", msg)
	} else {
		fmt.Fprintf(w, "error: %s\n", msg)
	}
}

// colorFunc returns a function that wraps text in ANSI escape codes when
// stdout is a terminal.
func colorFunc(isTTY bool) func(code, text string) string {
	if isTTY {
		return func(code, text string) string {
			return fmt.Sprintf("\033[%sm%s\033[0m", code, text)
		}
	}
	return func(_, text string) string {
		return text
	}
}

// --- Help text ---

func printUsage(deps Deps) {
	c := colorFunc(deps.IsStdoutTTY())
	fmt.Fprintf(deps.Stderr, "%s — TOTP account manager\n\nRun '%s' for usage.\n",
		c("36", "totpvault"), c("36", "totpvault help"))
}

func printHelp(deps Deps) {
	c := colorFunc(deps.IsStdoutTTY())
	fmt.Fprintf(deps.Stderr, `%s — TOTP account manager

%s
  %s %s %s

%s
  %s         Enroll an account from an otpauth:// URI
  %s  Enroll an account from a hand-typed secret
  %s        List enrolled accounts
  %s        Print the current code for one account
  %s       Print current codes for all accounts
  %s      Change an account's issuer and name
  %s      Delete an account
  %s      Write all accounts to a portable document
  %s      Merge accounts from an exported document
  %s          Render an account's enrollment QR code as PNG
  %s       Live code view, refreshed every second
  %s     Show version
  %s        Show this help
  %s  Output shell completion script

%s
  %s %s  Account file (default: user config dir)
  %s              Output as JSON
  %s          Show help
  %s       Show version

%s
  %s %s "otpauth://totp/Example:alice?secret=..."
  %s %s bob --issuer Example
  %s %s
`,
		c("36", "totpvault"),
		c("1", "USAGE"),
		c("36", "totpvault"), c("36", "<command>"), c("2", "[options]"),
		c("1", "COMMANDS"),
		c("36", "add"),
		c("36", "add-manual"),
		c("36", "list"),
		c("36", "code"),
		c("36", "codes"),
		c("36", "rename"),
		c("36", "remove"),
		c("36", "export"),
		c("36", "import"),
		c("36", "qr"),
		c("36", "watch"),
		c("36", "version"),
		c("36", "help"),
		c("36", "completion"),
		c("1", "GLOBAL OPTIONS"),
		c("33", "--store"), c("2", "<path>"),
		c("33", "--json"),
		c("33", "-h, --help"),
		c("33", "-v, --version"),
		c("1", "EXAMPLES"),
		c("36", "totpvault"), c("36", "add"),
		c("36", "totpvault"), c("36", "add-manual"),
		c("36", "totpvault"), c("36", "watch"),
	)
}

func printAddHelp(deps Deps) {
	c := colorFunc(deps.IsStdoutTTY())
	fmt.Fprintf(deps.Stderr, `%s %s — Enroll an account from an otpauth:// URI

%s
  %s %s %s %s

The URI is the payload of a 2FA enrollment QR code. Pass it as an argument
or pipe it on stdin. Only otpauth://totp/ URIs are accepted.

%s
  %s %s  Account file
  %s              Output as JSON
  %s          Show help

%s
  %s %s "otpauth://totp/Example:alice?secret=JBSWY3DPEHPK3PXP&issuer=Example"
  zbarimg -q --raw enroll.png | %s %s
`,
		c("36", "totpvault"), c("36", "add"),
		c("1", "USAGE"),
		c("36", "totpvault"), c("36", "add"), c("2", "[uri]"), c("2", "[options]"),
		c("1", "OPTIONS"),
		c("33", "--store"), c("2", "<path>"),
		c("33", "--json"),
		c("33", "-h, --help"),
		c("1", "EXAMPLES"),
		c("36", "totpvault"), c("36", "add"),
		c("36", "totpvault"), c("36", "add"),
	)
}

func printAddManualHelp(deps Deps) {
	c := colorFunc(deps.IsStdoutTTY())
	fmt.Fprintf(deps.Stderr, `%s %s — Enroll an account from a hand-typed secret

%s
  %s %s %s %s

The secret is prompted for without echo unless %s is given. Spaces and
hyphens are stripped and case is ignored; the normalized secret must be at
least 16 characters of valid base32.

%s
  %s %s   Issuer label (default: Manual)
  %s %s  Secret value (visible in shell history)
  %s %s    Account file
  %s                Output as JSON
  %s            Show help

%s
  %s %s bob --issuer Example
`,
		c("36", "totpvault"), c("36", "add-manual"),
		c("1", "USAGE"),
		c("36", "totpvault"), c("36", "add-manual"), c("2", "<account>"), c("2", "[options]"),
		c("33", "--secret"),
		c("1", "OPTIONS"),
		c("33", "--issuer"), c("2", "<name>"),
		c("33", "--secret"), c("2", "<value>"),
		c("33", "--store"), c("2", "<path>"),
		c("33", "--json"),
		c("33", "-h, --help"),
		c("1", "EXAMPLES"),
		c("36", "totpvault"), c("36", "add-manual"),
	)
}

func printImportHelp(deps Deps) {
	c := colorFunc(deps.IsStdoutTTY())
	fmt.Fprintf(deps.Stderr, `%s %s — Merge accounts from an exported document

%s
  %s %s %s %s

%s
  %s %s  What to do with accounts that already exist:
                            replace, skip, or abort (default: abort)
  %s %s       Account file
  %s                   Output as JSON
  %s               Show help

%s
  %s %s backup.2fa %s replace
`,
		c("36", "totpvault"), c("36", "import"),
		c("1", "USAGE"),
		c("36", "totpvault"), c("36", "import"), c("2", "<file>"), c("2", "[options]"),
		c("1", "OPTIONS"),
		c("33", "--on-conflict"), c("2", "<policy>"),
		c("33", "--store"), c("2", "<path>"),
		c("33", "--json"),
		c("33", "-h, --help"),
		c("1", "EXAMPLES"),
		c("36", "totpvault"), c("36", "import"), c("33", "--on-conflict"),
	)
}

func printQRHelp(deps Deps) {
	c := colorFunc(deps.IsStdoutTTY())
	fmt.Fprintf(deps.Stderr, `%s %s — Render an account's enrollment QR code as PNG

%s
  %s %s %s %s

Writes a QR code of the account's otpauth:// URI, scannable by any
authenticator app. The PNG contains the secret; treat it like one.

%s
  %s %s   Output file (default: <key>.png)
  %s %s   Image side length in pixels (default: 256)
  %s %s  Account file
  %s             Show help

%s
  %s %s Example_alice %s alice.png
`,
		c("36", "totpvault"), c("36", "qr"),
		c("1", "USAGE"),
		c("36", "totpvault"), c("36", "qr"), c("2", "<key>"), c("2", "[options]"),
		c("1", "OPTIONS"),
		c("33", "--out"), c("2", "<path>"),
		c("33", "--size"), c("2", "<px>"),
		c("33", "--store"), c("2", "<path>"),
		c("33", "-h, --help"),
		c("1", "EXAMPLES"),
		c("36", "totpvault"), c("36", "qr"), c("33", "--out"),
	)
}
