package connsec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/nerrad567/gray-m2m-core/internal/dm"
)

func TestResolver_ServerURI(t *testing.T) {
	reader := &fakeReader{strings: map[dm.RID]string{
		ridServerURI: "coaps://server.example.com:5684",
	}}
	r := NewResolver(reader)

	uri, info, err := r.ServerURI(0)
	if err != nil {
		t.Fatalf("ServerURI() error = %v", err)
	}
	if uri.Hostname() != "server.example.com" || uri.Port() != "5684" {
		t.Errorf("uri = %v", uri)
	}
	if info.Security != TransportEncrypted {
		t.Errorf("security = %v, want encrypted", info.Security)
	}
}

func TestResolver_ServerURIErrors(t *testing.T) {
	t.Run("missing resource", func(t *testing.T) {
		r := NewResolver(&fakeReader{})
		_, _, err := r.ServerURI(0)
		if !errors.Is(err, dm.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unparseable uri", func(t *testing.T) {
		r := NewResolver(&fakeReader{strings: map[dm.RID]string{
			ridServerURI: "mailto:ops@example.com",
		}})
		_, _, err := r.ServerURI(0)
		if !errors.Is(err, ErrInvalidServerURI) {
			t.Errorf("error = %v, want ErrInvalidServerURI", err)
		}
	})
}

func TestResolver_ResolvePSKEndToEnd(t *testing.T) {
	reader := &fakeReader{
		ints: map[dm.RID]int64{ridSecurityMode: 0},
		bytes: map[dm.RID][]byte{
			ridPKOrIdentity: []byte("device-01"),
			ridSecretKey:    []byte{0xAA, 0xBB},
		},
	}
	r := NewResolver(reader)

	cfg, err := r.Resolve(0, &TransportInfo{URIScheme: "coaps", Security: TransportEncrypted})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Mode != ModePreSharedKey || cfg.PSK == nil {
		t.Fatalf("config = %+v", cfg)
	}
	if !bytes.Equal(cfg.PSK.Identity, []byte("device-01")) {
		t.Errorf("identity = %q", cfg.PSK.Identity)
	}
}

func TestResolver_ResolveNoSecOverPlainText(t *testing.T) {
	reader := &fakeReader{ints: map[dm.RID]int64{ridSecurityMode: 3}}
	r := NewResolver(reader)

	cfg, err := r.Resolve(0, &TransportInfo{URIScheme: "coap", Security: TransportPlainText})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Mode != ModeNoSec || cfg.PSK != nil || cfg.Certificate != nil {
		t.Errorf("config = %+v", cfg)
	}
}

func TestResolver_TransportMismatchAbortsBeforeExtraction(t *testing.T) {
	// Certificate mode over a plain-text scheme: the pipeline must
	// fail at the transport check without reading any key material.
	reader := &fakeReader{
		ints: map[dm.RID]int64{ridSecurityMode: 2},
		bytes: map[dm.RID][]byte{
			ridPKOrIdentity:       []byte("client-cert"),
			ridServerPKOrIdentity: []byte("server-cert"),
			ridSecretKey:          []byte("private-key"),
		},
	}
	r := NewResolver(reader)

	_, err := r.Resolve(0, &TransportInfo{URIScheme: "coap", Security: TransportPlainText})
	if !errors.Is(err, ErrModeTransportMismatch) {
		t.Fatalf("Resolve() error = %v, want ErrModeTransportMismatch", err)
	}

	for _, rid := range reader.reads {
		if rid != ridSecurityMode {
			t.Errorf("resource /%d read after transport mismatch", rid)
		}
	}
}

func TestResolver_UnsupportedModeAborts(t *testing.T) {
	reader := &fakeReader{ints: map[dm.RID]int64{ridSecurityMode: 1}}
	r := NewResolver(reader)

	_, err := r.Resolve(0, nil)
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("Resolve(rpk) error = %v, want ErrUnsupportedMode", err)
	}
}

func TestResolver_MalformedModeAborts(t *testing.T) {
	reader := &fakeReader{ints: map[dm.RID]int64{ridSecurityMode: 77}}
	r := NewResolver(reader)

	_, err := r.Resolve(0, nil)
	if !errors.Is(err, ErrMalformedMode) {
		t.Errorf("Resolve() error = %v, want ErrMalformedMode", err)
	}
}

func TestResolver_MissingCredentialSurfaces(t *testing.T) {
	reader := &fakeReader{ints: map[dm.RID]int64{ridSecurityMode: 0}}
	r := NewResolver(reader)

	_, err := r.Resolve(0, nil)
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("Resolve() error = %v, want ErrMissingCredential", err)
	}
}

func TestResolver_NilTransportSkipsCheck(t *testing.T) {
	// Certificate mode with no transport descriptor: the check is
	// skipped and resolution proceeds to extraction.
	reader := &fakeReader{
		ints: map[dm.RID]int64{ridSecurityMode: 2},
		bytes: map[dm.RID][]byte{
			ridPKOrIdentity:       []byte("client-cert"),
			ridServerPKOrIdentity: []byte("server-cert"),
			ridSecretKey:          []byte("private-key"),
		},
	}
	r := NewResolver(reader)

	cfg, err := r.Resolve(0, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Certificate == nil || !cfg.Certificate.DANE {
		t.Errorf("config = %+v, want pinned certificate credentials", cfg)
	}
}
