package connsec

import "fmt"

// CertificateUsage selects the DANE matching semantics for a pinning
// record.
type CertificateUsage int

// CertificateUsageDomainIssued pins the end-entity certificate issued
// for the peer (DANE-EE equivalent).
const CertificateUsageDomainIssued CertificateUsage = 3

// PSKCredentials is the pre-shared identity/key pair of a PSK
// connection.
type PSKCredentials struct {
	Identity []byte
	Key      []byte
}

// DANERecord pins an expected peer certificate/identity instead of
// relying solely on chain-of-trust validation.
type DANERecord struct {
	CertificateUsage CertificateUsage
	AssociationData  []byte
}

// CertificateCredentials is the certificate-mode half of a Config.
type CertificateCredentials struct {
	// ClientCert is the client certificate chain, DER or PEM as
	// stored.
	ClientCert []byte

	// PrivateKey is the matching private key.
	PrivateKey []byte

	// ServerCertValidation requires the peer certificate to be
	// validated. Always true in certificate modes.
	ServerCertValidation bool

	// DANE marks validation as DANE-assisted through Pinning.
	DANE bool

	// Pinning is set when server key material was stored; its
	// presence alone enables pinning.
	Pinning *DANERecord

	// IgnoreSystemTrustStore excludes the system CA set; trust comes
	// from the stored material only.
	IgnoreSystemTrustStore bool
}

// Config is the resolver's output: the security descriptor a transport
// layer needs to configure a socket. Immutable once built; ownership
// passes to the caller. Exactly one of PSK and Certificate is set for
// the respective modes, neither for NoSec.
type Config struct {
	Mode        Mode
	PSK         *PSKCredentials
	Certificate *CertificateCredentials
}

// BuildConfig assembles the security descriptor for a classified mode
// from extracted credentials.
//
// NoSec yields an empty descriptor. PSK maps the local identity and
// secret key to the PSK pair. Certificate and EST map the local
// identity to the client certificate chain and the secret key to the
// private key; non-empty server key material additionally sets a
// DANE pinning record. Raw public key never reaches this stage.
func BuildConfig(mode Mode, creds *Credentials) (*Config, error) {
	switch mode {
	case ModeNoSec:
		return &Config{Mode: mode}, nil

	case ModePreSharedKey:
		return &Config{
			Mode: mode,
			PSK: &PSKCredentials{
				Identity: creds.PKOrIdentity,
				Key:      creds.SecretKey,
			},
		}, nil

	case ModeCertificate, ModeEST:
		cert := &CertificateCredentials{
			ClientCert:             creds.PKOrIdentity,
			PrivateKey:             creds.SecretKey,
			ServerCertValidation:   true,
			IgnoreSystemTrustStore: true,
		}
		if len(creds.ServerPKOrIdentity) > 0 {
			cert.DANE = true
			cert.Pinning = &DANERecord{
				CertificateUsage: CertificateUsageDomainIssued,
				AssociationData:  creds.ServerPKOrIdentity,
			}
		}
		return &Config{Mode: mode, Certificate: cert}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
}
