// Package connsec resolves the secure-transport configuration for a
// server connection from the resources stored in the Security object.
//
// # Resolution pipeline
//
//	mode code ──▶ classifier ──▶ transport check ──▶ credential
//	 (RID 2)      (mode.go)      (transport.go)      extraction ──▶ config
//	                                                 (credentials.go) (config.go)
//
// The classifier validates the stored mode code. The transport check
// cross-validates the mode against the security property implied by
// the server URI's scheme (skipped when no transport descriptor is
// known yet). The extractor copies key material into bounded buffers
// under per-mode requirement rules. The builder assembles the final
// Config handed to the transport layer.
//
// Every failure is recoverable: it aborts only the current
// connection-establishment attempt and carries the object/resource
// path it originated from.
package connsec
