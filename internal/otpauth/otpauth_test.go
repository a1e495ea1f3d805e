package otpauth

import "testing"

func TestParse_FullURI(t *testing.T) {
	t.Parallel()

	p, ok := Parse("otpauth://totp/Example:alice@example.com?secret=JBSWY3DPEHPK3PXP&issuer=Example")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Secret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("secret: got %q", p.Secret)
	}
	if p.Account != "alice@example.com" {
		t.Errorf("account: got %q", p.Account)
	}
	if p.Issuer != "Example" {
		t.Errorf("issuer: got %q", p.Issuer)
	}
}

func TestParse_Misses(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-totp-uri",
		"https://example.com",
		"otpauth://hotp/Example:alice?secret=JBSWY3DPEHPK3PXP",
		"otpauth://totp/Example:alice", // no secret parameter
		"otpauth://totp/Example:alice?issuer=Example",
	}
	for _, raw := range cases {
		if _, ok := Parse(raw); ok {
			t.Errorf("Parse(%q): expected miss", raw)
		}
	}
}

func TestParse_IssuerFromLabel(t *testing.T) {
	t.Parallel()

	// No issuer parameter: the label issuer fills in.
	p, ok := Parse("otpauth://totp/GitHub:octocat?secret=JBSWY3DPEHPK3PXP")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Issuer != "GitHub" || p.Account != "octocat" {
		t.Errorf("got issuer=%q account=%q", p.Issuer, p.Account)
	}

	// issuer=Unknown is treated the same as absent.
	p, ok = Parse("otpauth://totp/GitHub:octocat?secret=JBSWY3DPEHPK3PXP&issuer=Unknown")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Issuer != "GitHub" {
		t.Errorf("issuer: got %q, want GitHub", p.Issuer)
	}

	// An explicit issuer parameter wins over the label.
	p, ok = Parse("otpauth://totp/GitHub:octocat?secret=JBSWY3DPEHPK3PXP&issuer=Corp")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Issuer != "Corp" {
		t.Errorf("issuer: got %q, want Corp", p.Issuer)
	}
	if p.Account != "octocat" {
		t.Errorf("account: got %q, want octocat", p.Account)
	}
}

func TestParse_NoLabelIssuer(t *testing.T) {
	t.Parallel()

	p, ok := Parse("otpauth://totp/alice?secret=JBSWY3DPEHPK3PXP")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Issuer != DefaultIssuer {
		t.Errorf("issuer: got %q, want %q", p.Issuer, DefaultIssuer)
	}
	if p.Account != "alice" {
		t.Errorf("account: got %q", p.Account)
	}

	// Only the first colon splits the label.
	p, ok = Parse("otpauth://totp/Work:alice:backup?secret=JBSWY3DPEHPK3PXP")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Issuer != "Work" || p.Account != "alice:backup" {
		t.Errorf("got issuer=%q account=%q", p.Issuer, p.Account)
	}
}

func TestParse_IgnoresOtherParams(t *testing.T) {
	t.Parallel()

	p, ok := Parse("otpauth://totp/Example:alice?secret=JBSWY3DPEHPK3PXP&issuer=Example&algorithm=SHA1&digits=6&period=30")
	if !ok {
		t.Fatalf("expected payload")
	}
	if p.Secret != "JBSWY3DPEHPK3PXP" || p.Issuer != "Example" || p.Account != "alice" {
		t.Errorf("unexpected payload: %+v", p)
	}
}
