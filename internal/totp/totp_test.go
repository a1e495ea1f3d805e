package totp

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// rfcSecret is the RFC 6238 appendix B seed ("12345678901234567890") in base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"jbsw y3dp ehpk 3pxp", "JBSWY3DPEHPK3PXP"},
		{"jbsw-y3dp-ehpk-3pxp", "JBSWY3DPEHPK3PXP"},
		{"JBSWY3DPEHPK3PXP", "JBSWY3DPEHPK3PXP"},
		{" j b- s w ", "JBSW"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := Validate("JBSWY3DPEHPK3PXP"); err != nil {
		t.Errorf("valid secret rejected: %v", err)
	}
	if err := Validate(""); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("empty secret: got %v, want ErrInvalidSecret", err)
	}
	if err := Validate("not base32 at all!!"); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("bad alphabet: got %v, want ErrInvalidSecret", err)
	}
	if err := Validate("1890"); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("invalid base32 digits: got %v, want ErrInvalidSecret", err)
	}
}

func TestCode_KnownVector(t *testing.T) {
	t.Parallel()

	// RFC 6238 appendix B: T=59 produces 94287082; the 6-digit code is the
	// low 6 digits.
	code, err := Code(rfcSecret, time.Unix(59, 0))
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if code != "287082" {
		t.Errorf("code at T=59: got %q, want %q", code, "287082")
	}
}

func TestCode_StableWithinWindow(t *testing.T) {
	t.Parallel()

	first, err := Code(rfcSecret, time.Unix(30, 0))
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	last, err := Code(rfcSecret, time.Unix(59, 0))
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if first != last {
		t.Errorf("codes differ within one window: %q vs %q", first, last)
	}

	next, err := Code(rfcSecret, time.Unix(60, 0))
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if next == last {
		t.Errorf("code did not change across window boundary: %q", next)
	}
}

func TestCode_Shape(t *testing.T) {
	t.Parallel()

	code, err := Code("JBSWY3DPEHPK3PXP", time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if len(code) != Digits {
		t.Fatalf("code length: got %d, want %d", len(code), Digits)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit in code %q", code)
		}
	}
}

func TestCode_InvalidSecret(t *testing.T) {
	t.Parallel()

	if _, err := Code("", time.Now()); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("empty secret: got %v, want ErrInvalidSecret", err)
	}
	if _, err := Code("!!!!", time.Now()); !errors.Is(err, ErrInvalidSecret) {
		t.Errorf("garbage secret: got %v, want ErrInvalidSecret", err)
	}
}

func TestRemaining(t *testing.T) {
	t.Parallel()

	cases := []struct {
		unix int64
		want int
	}{
		{0, 30},
		{1, 29},
		{29, 1},
		{30, 30},
		{59, 1},
		{60, 30},
		{1700000007, 23},
	}
	for _, tc := range cases {
		if got := Remaining(time.Unix(tc.unix, 0)); got != tc.want {
			t.Errorf("Remaining(%d): got %d, want %d", tc.unix, got, tc.want)
		}
	}
}

func TestRemaining_Bounds(t *testing.T) {
	t.Parallel()

	for unix := int64(1000); unix < 1100; unix++ {
		got := Remaining(time.Unix(unix, 0))
		if got < 1 || got > 30 {
			t.Fatalf("Remaining(%d) = %d, out of [1,30]", unix, got)
		}
	}
}

func TestURI(t *testing.T) {
	t.Parallel()

	uri := URI("Example", "alice@example.com", "JBSWY3DPEHPK3PXP")
	if !strings.HasPrefix(uri, "otpauth://totp/Example:alice@example.com?") {
		t.Errorf("unexpected label: %q", uri)
	}
	if !strings.Contains(uri, "secret=JBSWY3DPEHPK3PXP") {
		t.Errorf("missing secret param: %q", uri)
	}
	if !strings.Contains(uri, "issuer=Example") {
		t.Errorf("missing issuer param: %q", uri)
	}

	// No issuer: bare account label, no issuer param.
	uri = URI("", "alice", "JBSWY3DPEHPK3PXP")
	if !strings.HasPrefix(uri, "otpauth://totp/alice?") {
		t.Errorf("unexpected label without issuer: %q", uri)
	}
	if strings.Contains(uri, "issuer=") {
		t.Errorf("unexpected issuer param: %q", uri)
	}
}
