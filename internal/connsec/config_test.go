package connsec

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuildConfig_NoSec(t *testing.T) {
	cfg, err := BuildConfig(ModeNoSec, &Credentials{})
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}
	if cfg.Mode != ModeNoSec || cfg.PSK != nil || cfg.Certificate != nil {
		t.Errorf("NoSec config = %+v", cfg)
	}
}

func TestBuildConfig_PSK(t *testing.T) {
	creds := &Credentials{
		PKOrIdentity: []byte("identity"),
		SecretKey:    []byte("secret"),
	}

	cfg, err := BuildConfig(ModePreSharedKey, creds)
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}
	if cfg.PSK == nil {
		t.Fatal("PSK credentials not set")
	}
	if cfg.Certificate != nil {
		t.Error("certificate credentials set in PSK mode")
	}
	if !bytes.Equal(cfg.PSK.Identity, []byte("identity")) || !bytes.Equal(cfg.PSK.Key, []byte("secret")) {
		t.Errorf("PSK = %+v", cfg.PSK)
	}
}

func TestBuildConfig_CertificateWithPinning(t *testing.T) {
	creds := &Credentials{
		PKOrIdentity:       []byte("client-cert"),
		ServerPKOrIdentity: []byte("server-cert"),
		SecretKey:          []byte("private-key"),
	}

	cfg, err := BuildConfig(ModeCertificate, creds)
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}
	cert := cfg.Certificate
	if cert == nil {
		t.Fatal("certificate credentials not set")
	}
	if !cert.ServerCertValidation || !cert.IgnoreSystemTrustStore {
		t.Errorf("validation flags = %+v", cert)
	}
	if !cert.DANE || cert.Pinning == nil {
		t.Fatal("stored server key material did not enable pinning")
	}
	if cert.Pinning.CertificateUsage != CertificateUsageDomainIssued {
		t.Errorf("certificate usage = %d, want %d", cert.Pinning.CertificateUsage, CertificateUsageDomainIssued)
	}
	if !bytes.Equal(cert.Pinning.AssociationData, []byte("server-cert")) {
		t.Errorf("association data = %q", cert.Pinning.AssociationData)
	}
}

func TestBuildConfig_CertificateWithoutPinning(t *testing.T) {
	creds := &Credentials{
		PKOrIdentity: []byte("client-cert"),
		SecretKey:    []byte("private-key"),
	}

	cfg, err := BuildConfig(ModeEST, creds)
	if err != nil {
		t.Fatalf("BuildConfig() error = %v", err)
	}
	cert := cfg.Certificate
	if cert == nil {
		t.Fatal("certificate credentials not set")
	}
	if cert.DANE || cert.Pinning != nil {
		t.Error("pinning enabled with no stored server key material")
	}
}

func TestBuildConfig_RejectsRawPublicKey(t *testing.T) {
	_, err := BuildConfig(ModeRawPublicKey, &Credentials{})
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("BuildConfig(rpk) error = %v, want ErrUnsupportedMode", err)
	}
}
