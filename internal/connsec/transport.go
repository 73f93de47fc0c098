package connsec

import (
	"fmt"
	"net/url"
)

// TransportSecurity is the security property implied by a URI scheme.
type TransportSecurity int

const (
	// TransportSecurityUndefined means the scheme does not constrain
	// security; any mode is acceptable.
	TransportSecurityUndefined TransportSecurity = iota

	// TransportPlainText means the scheme carries no encryption.
	TransportPlainText

	// TransportEncrypted means the scheme mandates encryption.
	TransportEncrypted
)

// TransportInfo describes the transport implied by a server URI.
type TransportInfo struct {
	URIScheme string
	Security  TransportSecurity
}

// transportByScheme maps the supported URI schemes to their transport
// descriptors.
var transportByScheme = map[string]TransportInfo{
	"coap":      {URIScheme: "coap", Security: TransportPlainText},
	"coaps":     {URIScheme: "coaps", Security: TransportEncrypted},
	"coap+tcp":  {URIScheme: "coap+tcp", Security: TransportPlainText},
	"coaps+tcp": {URIScheme: "coaps+tcp", Security: TransportEncrypted},
}

// TransportByScheme returns the transport descriptor for a URI scheme.
func TransportByScheme(scheme string) (*TransportInfo, bool) {
	info, ok := transportByScheme[scheme]
	if !ok {
		return nil, false
	}
	return &info, true
}

// ParseServerURI parses a raw server URI and derives its transport
// descriptor. Embedded credentials and an empty explicit port are
// rejected, as is any scheme without a transport mapping.
func ParseServerURI(raw string) (*url.URL, *TransportInfo, error) {
	uri, err := url.Parse(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q: %v", ErrInvalidServerURI, raw, err)
	}

	info, ok := TransportByScheme(uri.Scheme)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown scheme %q", ErrInvalidServerURI, uri.Scheme)
	}
	if uri.User != nil {
		return nil, nil, fmt.Errorf("%w: URI must not carry credentials", ErrInvalidServerURI)
	}
	// A trailing colon with no port ("coap://host:") parses cleanly
	// but is not a usable address.
	if uri.Host != "" && uri.Port() == "" && uri.Host[len(uri.Host)-1] == ':' {
		return nil, nil, fmt.Errorf("%w: empty port in %q", ErrInvalidServerURI, raw)
	}

	return uri, info, nil
}

// CheckTransport cross-validates a classified mode against the
// transport's security property.
//
// An undefined security property accepts every mode. Otherwise an
// encrypted transport pairs with any mode except NoSec, and a
// plain-text transport pairs exactly with NoSec. The check is skipped
// entirely when info is nil (no transport descriptor known yet).
func CheckTransport(mode Mode, info *TransportInfo) error {
	if info == nil || info.Security == TransportSecurityUndefined {
		return nil
	}

	isSecure := info.Security == TransportEncrypted
	needsSecure := mode != ModeNoSec
	if isSecure != needsSecure {
		return fmt.Errorf("%w: mode %s over scheme %q", ErrModeTransportMismatch, mode, info.URIScheme)
	}
	return nil
}
