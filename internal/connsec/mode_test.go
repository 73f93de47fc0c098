package connsec

import (
	"errors"
	"testing"
)

func TestClassifyMode(t *testing.T) {
	tests := []struct {
		name    string
		code    int64
		want    Mode
		wantErr error
	}{
		{"psk", 0, ModePreSharedKey, nil},
		{"raw public key rejected", 1, 0, ErrUnsupportedMode},
		{"certificate", 2, ModeCertificate, nil},
		{"nosec", 3, ModeNoSec, nil},
		{"est", 4, ModeEST, nil},
		{"out of range", 5, 0, ErrMalformedMode},
		{"negative", -1, 0, ErrMalformedMode},
		{"far out of range", 250, 0, ErrMalformedMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyMode(tt.code)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ClassifyMode(%d) error = %v, want %v", tt.code, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ClassifyMode(%d) error = %v", tt.code, err)
			}
			if got != tt.want {
				t.Errorf("ClassifyMode(%d) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModePreSharedKey, "psk"},
		{ModeRawPublicKey, "rpk"},
		{ModeCertificate, "certificate"},
		{ModeNoSec, "nosec"},
		{ModeEST, "est"},
		{Mode(42), "mode(42)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int64(tt.mode), got, tt.want)
		}
	}
}
