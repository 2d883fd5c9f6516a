package model

import "testing"

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    ID
		wantErr bool
	}{
		{raw: "123456789012345678", want: 123456789012345678},
		{raw: "  42 ", want: 42},
		{raw: "-1001234567890", want: -1001234567890},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "12x", wantErr: true},
		{raw: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseID(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseID(%q): expected error, got %d", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseID(%q): unexpected error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseID(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestIDString(t *testing.T) {
	if got := ID(-42).String(); got != "-42" {
		t.Fatalf("unexpected string: %q", got)
	}
}
