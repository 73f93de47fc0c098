package connsec

import (
	"fmt"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

// Security object path constants used by the resolver. These mirror
// the Security object's resource layout without importing it, so the
// resolver stays usable against any reader.
const (
	oidSecurity           dm.OID = 0
	ridServerURI          dm.RID = 0
	ridSecurityMode       dm.RID = 2
	ridPKOrIdentity       dm.RID = 3
	ridServerPKOrIdentity dm.RID = 4
	ridSecretKey          dm.RID = 5
)

// Capacity limits for extracted key material.
const (
	MaxPKOrIdentitySize       = 2048
	MaxServerPKOrIdentitySize = 2048
	MaxSecretKeySize          = 256
)

// ResourceReader reads stored resources by full path. *dm.Registry
// satisfies this.
type ResourceReader interface {
	ReadResourceString(oid dm.OID, iid dm.IID, rid dm.RID) (string, error)
	ReadResourceInt(oid dm.OID, iid dm.IID, rid dm.RID) (int64, error)
	ReadResourceBytes(oid dm.OID, iid dm.IID, rid dm.RID) ([]byte, error)
}

// Credentials holds the key material extracted for one connection
// attempt. Zero-length fields are semantically absent. Never persisted
// beyond the attempt.
type Credentials struct {
	PKOrIdentity       []byte
	ServerPKOrIdentity []byte
	SecretKey          []byte
}

// requirement is the per-field extraction rule.
type requirement int

const (
	skip requirement = iota
	optional
	required
)

// ExtractCredentials reads the key-material resources of the given
// Security instance into bounded buffers.
//
// For NoSec extraction is a no-op success. Otherwise the client
// identity/key material and the secret key are required; the server
// identity/key material is required except in PSK mode, where a read
// failure is treated as present-but-empty. A value exceeding its
// capacity fails with ErrBufferOverflow rather than truncating.
func ExtractCredentials(reader ResourceReader, iid dm.IID, mode Mode) (*Credentials, error) {
	creds := &Credentials{}
	if mode == ModeNoSec {
		return creds, nil
	}

	serverPKRequirement := required
	if mode == ModePreSharedKey {
		serverPKRequirement = optional
	}

	fields := []struct {
		requirement requirement
		rid         dm.RID
		capacity    int
		dst         *[]byte
	}{
		{required, ridPKOrIdentity, MaxPKOrIdentitySize, &creds.PKOrIdentity},
		{serverPKRequirement, ridServerPKOrIdentity, MaxServerPKOrIdentitySize, &creds.ServerPKOrIdentity},
		{required, ridSecretKey, MaxSecretKeySize, &creds.SecretKey},
	}

	for _, field := range fields {
		if field.requirement == skip {
			continue
		}
		data, err := reader.ReadResourceBytes(oidSecurity, iid, field.rid)
		if err != nil {
			if field.requirement == required {
				return nil, fmt.Errorf("%w: /%d/%d/%d: %v",
					ErrMissingCredential, oidSecurity, iid, field.rid, err)
			}
			// Optional: present but empty.
			continue
		}
		if len(data) > field.capacity {
			return nil, fmt.Errorf("%w: /%d/%d/%d holds %d bytes, capacity %d",
				dm.ErrBufferOverflow, oidSecurity, iid, field.rid, len(data), field.capacity)
		}
		*field.dst = data
	}

	return creds, nil
}
