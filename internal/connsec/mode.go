package connsec

import "fmt"

// Mode is a classified security mode. The numeric values match the
// codes stored in the Security object's mode resource.
type Mode int64

const (
	// ModePreSharedKey secures the connection with a pre-shared
	// identity/key pair.
	ModePreSharedKey Mode = 0

	// ModeRawPublicKey is recognised but always rejected as
	// unsupported.
	ModeRawPublicKey Mode = 1

	// ModeCertificate secures the connection with an X.509 client
	// certificate and private key.
	ModeCertificate Mode = 2

	// ModeNoSec runs over plain text with no security at all.
	ModeNoSec Mode = 3

	// ModeEST is certificate mode bootstrapped via enrollment over
	// secure transport.
	ModeEST Mode = 4
)

// String returns a short human-readable form for logging.
func (m Mode) String() string {
	switch m {
	case ModePreSharedKey:
		return "psk"
	case ModeRawPublicKey:
		return "rpk"
	case ModeCertificate:
		return "certificate"
	case ModeNoSec:
		return "nosec"
	case ModeEST:
		return "est"
	default:
		return fmt.Sprintf("mode(%d)", int64(m))
	}
}

// ClassifyMode validates a stored security-mode code.
//
// Raw public key is recognised but rejected with ErrUnsupportedMode;
// codes outside the enumeration fail with ErrMalformedMode. Both are
// terminal for the connection attempt.
func ClassifyMode(code int64) (Mode, error) {
	switch Mode(code) {
	case ModeRawPublicKey:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedMode, code)
	case ModeNoSec, ModePreSharedKey, ModeCertificate, ModeEST:
		return Mode(code), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrMalformedMode, code)
	}
}
