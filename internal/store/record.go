package store

import "encoding/json"

// Record is one enrolled TOTP credential as persisted on disk.
//
// Secret is kept in normalized base32 form. Added is the creation time in
// seconds since the epoch and never changes after enrollment.
type Record struct {
	Secret  string `json:"secret"`
	Account string `json:"account"`
	Issuer  string `json:"issuer"`
	Added   int64  `json:"added"`
}

// UnmarshalJSON accepts both the structured record shape and the legacy
// bare-string shape, where the stored value is the secret itself. Bare
// records are upgraded to the structured form on the next save.
func (r *Record) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var secret string
		if err := json.Unmarshal(data, &secret); err != nil {
			return err
		}
		*r = Record{Secret: secret}
		return nil
	}

	// Earlier versions wrote Added as a fractional float.
	var raw struct {
		Secret  string  `json:"secret"`
		Account string  `json:"account"`
		Issuer  string  `json:"issuer"`
		Added   float64 `json:"added"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{
		Secret:  raw.Secret,
		Account: raw.Account,
		Issuer:  raw.Issuer,
		Added:   int64(raw.Added),
	}
	return nil
}

// Entry is the read-only projection of a Record handed out by List. It
// never includes the secret.
type Entry struct {
	Account string `json:"account"`
	Issuer  string `json:"issuer"`
	Added   int64  `json:"added"`
}
