package services

import (
	"strings"
	"testing"
)

func statements(caps ...bool) []StatementInput {
	out := make([]StatementInput, len(caps))
	for i, isCap := range caps {
		out[i] = StatementInput{Text: "statement", IsCap: isCap}
	}
	return out
}

func TestValidateStatements(t *testing.T) {
	tests := []struct {
		name    string
		input   []StatementInput
		wantErr string
	}{
		{"three with one cap", statements(false, true, false), ""},
		{"ten with one cap", statements(true, false, false, false, false, false, false, false, false, false), ""},
		{"too few", statements(true, false), "between 3 and 10"},
		{"too many", statements(true, false, false, false, false, false, false, false, false, false, false), "between 3 and 10"},
		{"no cap", statements(false, false, false), "exactly one"},
		{"two caps", statements(true, true, false), "exactly one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatements(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}
