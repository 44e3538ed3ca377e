// Package handler contains the HTTP handlers of the API. Handlers bind and
// validate the request, call into the repositories, and translate
// repository errors into HTTP status codes.
package handler

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
)

// decimal is a JSON field that accepts either a number or a numeric string
// and normalizes it to a two-decimal string (the representation the rest of
// the system carries, e.g. "120.00"). The zero value "" means the field was
// absent.
type decimal string

func (d *decimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var quoted string
		if err := json.Unmarshal(b, &quoted); err != nil {
			return err
		}
		s = quoted
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal value %q", s)
	}
	*d = decimal(strconv.FormatFloat(f, 'f', 2, 64))
	return nil
}

// Float parses the normalized decimal back into a float64, e.g. for the
// gateway payload. Must only be called on a non-empty value.
func (d decimal) Float() float64 {
	f, _ := strconv.ParseFloat(string(d), 64)
	return f
}

// validEmail reports whether s parses as a single RFC 5322 address.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}
