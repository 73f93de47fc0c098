package connsec

import (
	"fmt"
	"net/url"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// Logger defines the logging interface used by the Resolver.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Resolver turns the resources of one Security instance into a
// validated Config for the transport layer.
type Resolver struct {
	reader ResourceReader
	logger Logger
}

// NewResolver creates a resolver over a resource reader, typically the
// object registry.
func NewResolver(reader ResourceReader) *Resolver {
	return &Resolver{
		reader: reader,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the resolver.
func (r *Resolver) SetLogger(logger Logger) {
	r.logger = logger
}

// ServerURI reads and parses the server URI of a Security instance,
// returning the parsed URI and its transport descriptor.
func (r *Resolver) ServerURI(securityIID dm.IID) (*url.URL, *TransportInfo, error) {
	raw, err := r.reader.ReadResourceString(oidSecurity, securityIID, ridServerURI)
	if err != nil {
		r.logger.Error("could not read server URI",
			"path", resourcePath(securityIID, ridServerURI), "error", err)
		return nil, nil, fmt.Errorf("reading server URI: %w", err)
	}

	uri, info, err := ParseServerURI(raw)
	if err != nil {
		r.logger.Error("could not parse server URI", "uri", raw, "error", err)
		return nil, nil, err
	}
	return uri, info, nil
}

// Resolve derives the security configuration for a connection to the
// server described by the given Security instance.
//
// The pipeline is: classify the stored mode, cross-validate it against
// the transport descriptor (skipped when transport is nil), extract
// the key material, and build the descriptor. The first failing stage
// aborts the attempt; later stages are not consulted.
func (r *Resolver) Resolve(securityIID dm.IID, transport *TransportInfo) (*Config, error) {
	code, err := r.reader.ReadResourceInt(oidSecurity, securityIID, ridSecurityMode)
	if err != nil {
		r.logger.Error("could not read security mode",
			"path", resourcePath(securityIID, ridSecurityMode), "error", err)
		return nil, fmt.Errorf("reading security mode: %w", err)
	}

	mode, err := ClassifyMode(code)
	if err != nil {
		r.logger.Error("security mode rejected",
			"path", resourcePath(securityIID, ridSecurityMode), "error", err)
		return nil, err
	}

	if err := CheckTransport(mode, transport); err != nil {
		r.logger.Warn("security mode incompatible with transport",
			"mode", mode.String(), "error", err)
		return nil, err
	}

	creds, err := ExtractCredentials(r.reader, securityIID, mode)
	if err != nil {
		r.logger.Warn("credential extraction failed",
			"iid", uint16(securityIID), "error", err)
		return nil, err
	}

	config, err := BuildConfig(mode, creds)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("security config resolved",
		"path", fmt.Sprintf("/%d/%d", oidSecurity, securityIID),
		"mode", mode.String(),
	)
	return config, nil
}

func resourcePath(iid dm.IID, rid dm.RID) string {
	return fmt.Sprintf("/%d/%d/%d", oidSecurity, iid, rid)
}
