package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Field names the provider is known to use. Only some are present on any
// given record.
var (
	identityKeys    = []string{"id", "account_id", "provider_account_id", "teller_account_id"}
	descriptorKeys  = []string{"name", "official_name", "display_name", "subtitle"}
	lastFourKeys    = []string{"last_four", "lastFour", "last4", "mask"}
	institutionKeys = []string{"institution", "institution_name", "provider"}
	classifierKeys  = []string{"type", "subtype", "account_type"}
	balanceKeys     = []string{"ledger", "available", "current"}
)

// ExternalAccount is an account record as reported by the bank-data provider.
// The shape varies between providers, so the record is kept as decoded JSON
// and read through accessors that tolerate missing or oddly typed fields.
type ExternalAccount struct {
	fields map[string]any
}

// NewExternalAccount wraps already-decoded fields.
func NewExternalAccount(fields map[string]any) ExternalAccount {
	return ExternalAccount{fields: fields}
}

// UnmarshalJSON decodes a JSON object, keeping numbers exact.
func (a *ExternalAccount) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decoding external account: %w", err)
	}
	a.fields = fields
	return nil
}

// MarshalJSON encodes the original fields.
func (a ExternalAccount) MarshalJSON() ([]byte, error) {
	if a.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.fields)
}

// Field returns a raw top-level field.
func (a ExternalAccount) Field(key string) (any, bool) {
	v, ok := a.fields[key]
	return v, ok
}

// ID returns the primary provider id, or "" if absent.
func (a ExternalAccount) ID() string {
	return stringField(a.fields, "id")
}

// Label returns a human-readable description for diagnostics.
func (a ExternalAccount) Label() string {
	if d := a.Descriptors(); len(d) > 0 {
		return d[0]
	}
	return a.ID()
}

// IdentityCandidates returns every id-like string the record exposes, top
// level first and then under "metadata", without duplicates.
func (a ExternalAccount) IdentityCandidates() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(fields map[string]any) {
		for _, key := range identityKeys {
			s := stringField(fields, key)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	add(a.fields)
	if meta, ok := a.fields["metadata"].(map[string]any); ok {
		add(meta)
	}
	return out
}

// Descriptors returns the descriptive names of the record. A field holding an
// object such as {"name": "..."} is unwrapped one level.
func (a ExternalAccount) Descriptors() []string {
	return collect(a.fields, descriptorKeys, "name")
}

// LastFour returns the account's last-four-digit field, or "".
func (a ExternalAccount) LastFour() string {
	for _, key := range lastFourKeys {
		if s := stringField(a.fields, key); s != "" {
			return s
		}
	}
	return ""
}

// Institution returns every institution hint: names, ids and provider labels.
func (a ExternalAccount) Institution() []string {
	var out []string
	for _, key := range institutionKeys {
		switch v := a.fields[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			for _, inner := range []string{"name", "id"} {
				if s := stringField(v, inner); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// Classifiers returns the type/subtype style fields.
func (a ExternalAccount) Classifiers() []string {
	return collect(a.fields, classifierKeys, "name", "type", "subtype")
}

// RawBalance returns the balance embedded in the account record itself.
func (a ExternalAccount) RawBalance() decimal.NullDecimal {
	return ParseBalance(a.fields["balance"])
}

// ParseBalance interprets a decoded balance value: a number, a numeric string,
// or an object carrying ledger, available or current (first present wins).
func ParseBalance(v any) decimal.NullDecimal {
	switch b := v.(type) {
	case json.Number:
		return nullDecimal(b.String())
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(b))
	case string:
		return nullDecimal(b)
	case map[string]any:
		for _, key := range balanceKeys {
			if d := ParseBalance(b[key]); d.Valid {
				return d
			}
		}
	}
	return decimal.NullDecimal{}
}

func nullDecimal(s string) decimal.NullDecimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// stringField returns fields[key] trimmed if it is a string.
func stringField(fields map[string]any, key string) string {
	s, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// collect gathers string values for keys, unwrapping objects via innerKeys.
func collect(fields map[string]any, keys []string, innerKeys ...string) []string {
	var out []string
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			for _, inner := range innerKeys {
				if s := stringField(v, inner); s != "" {
					out = append(out, s)
					break
				}
			}
		}
	}
	return out
}
