package output

import (
	"strings"
	"testing"
	"time"

	"github.com/gtfel/sat-invoices/internal/database"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten..", 13, "exactly ten.."},
		{"this one is far too long", 10, "this on..."},
		{"abcdef", 3, "abc"},
		{"abcdef", 1, "a"},
		{"abcdef", 0, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}

func TestTableToInvoices(t *testing.T) {
	invoices := []database.Invoice{
		{
			AuthorizationNumber: "AEFD9E7A-AEF3-4DE2-A05F-0123456789AB",
			DocumentType:        "FACT",
			Total:               1120.00,
			Currency:            "GTQ",
			EmissionDate:        time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC),
			Issuer:              &database.Issuer{NIT: "12345678", Name: "ACME SOCIEDAD ANONIMA"},
		},
	}

	var sb strings.Builder
	if err := TableTo(&sb, invoices); err != nil {
		t.Fatalf("TableTo failed: %v", err)
	}

	out := sb.String()
	if !strings.Contains(out, "2025-05-20") || !strings.Contains(out, "FACT") {
		t.Errorf("unexpected table output:\n%s", out)
	}
}

func TestTableToEmptyInvoices(t *testing.T) {
	var sb strings.Builder
	if err := TableTo(&sb, []database.Invoice{}); err != nil {
		t.Fatalf("TableTo failed: %v", err)
	}
	if !strings.Contains(sb.String(), "No invoices found") {
		t.Errorf("output = %q", sb.String())
	}
}

func TestTableToUnsupportedType(t *testing.T) {
	var sb strings.Builder
	if err := TableTo(&sb, 42); err == nil {
		t.Error("expected error for unsupported type")
	}
}
