package connsec

import "errors"

// Domain errors for connection-security resolution.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, connsec.ErrUnsupportedMode) {
//	    // skip this server until reconfigured
//	}
var (
	// ErrMalformedMode is returned when the stored security-mode code
	// is outside the known enumeration.
	ErrMalformedMode = errors.New("connsec: invalid security mode")

	// ErrUnsupportedMode is returned for mode codes that are
	// recognised but not supported (raw public key).
	ErrUnsupportedMode = errors.New("connsec: unsupported security mode")

	// ErrModeTransportMismatch is returned when the security mode and
	// the URI scheme's transport security disagree.
	ErrModeTransportMismatch = errors.New("connsec: security mode does not match transport")

	// ErrMissingCredential is returned when a required key-material
	// resource cannot be read.
	ErrMissingCredential = errors.New("connsec: missing credential")

	// ErrInvalidServerURI is returned when the stored server URI
	// cannot be parsed or uses an unknown scheme.
	ErrInvalidServerURI = errors.New("connsec: invalid server URI")
)
