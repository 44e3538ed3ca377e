package handler

import (
	"encoding/json"
	"testing"
)

func TestDecimalUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want decimal
		bad  bool
	}{
		{"number", `120`, "120.00", false},
		{"number with decimals", `120.5`, "120.50", false},
		{"numeric string", `"120.00"`, "120.00", false},
		{"string without decimals", `"90"`, "90.00", false},
		{"null leaves zero value", `null`, "", false},
		{"not a number", `"twelve"`, "", true},
	}
	for _, tc := range cases {
		var d decimal
		err := json.Unmarshal([]byte(tc.in), &d)
		if tc.bad {
			if err == nil {
				t.Fatalf("%s: expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
		if d != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, d)
		}
	}
}

func TestValidEmail(t *testing.T) {
	good := []string{"jane@example.com", "a.b+tag@sub.example.org"}
	bad := []string{"", "not-an-email", "jane@", "Jane Doe <jane@example.com>"}
	for _, s := range good {
		if !validEmail(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range bad {
		if validEmail(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
