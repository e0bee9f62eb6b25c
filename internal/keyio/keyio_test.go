package keyio

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateRSAKeyPair(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}
	if key.N.BitLen() != RSAKeySize {
		t.Errorf("key size = %d bits, want %d", key.N.BitLen(), RSAKeySize)
	}
}

func TestNewSelfSignedCertificate(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}

	certificate, err := NewSelfSignedCertificate(key, "Acme SpA", 24*time.Hour)
	if err != nil {
		t.Fatalf("could not create certificate: %v", err)
	}

	if certificate.Subject.CommonName != "Acme SpA" {
		t.Errorf("common name = %q, want Acme SpA", certificate.Subject.CommonName)
	}
	if time.Until(certificate.NotAfter) > 25*time.Hour {
		t.Errorf("certificate valid too long: NotAfter=%v", certificate.NotAfter)
	}
	if certificate.KeyUsage&x509.KeyUsageDigitalSignature == 0 {
		t.Error("certificate must allow digital signatures")
	}
}

func TestPrivateKeyPEMRoundTrip(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}

	dir := t.TempDir()
	if err := SaveRSAPrivateKeyToPEMFile(key, dir, "private.pem"); err != nil {
		t.Fatalf("could not save key: %v", err)
	}

	loaded, err := ReadRSAPrivateKeyFromPEMFile(filepath.Join(dir, "private.pem"))
	if err != nil {
		t.Fatalf("could not load key: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 || loaded.E != key.E {
		t.Error("loaded key does not match the saved key")
	}
}

func TestParseRSAPrivateKeyPKCS1(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}

	pemData := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	loaded, err := ParseRSAPrivateKey(pemData)
	if err != nil {
		t.Fatalf("could not parse PKCS#1 key: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 {
		t.Error("parsed key does not match")
	}
}

func TestParseRSAPrivateKeyRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"no PEM", []byte("not pem at all")},
		{"wrong block type", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{1, 2, 3}})},
		{"corrupt DER", pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte{1, 2, 3}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRSAPrivateKey(tt.data); err == nil {
				t.Error("expected parse to fail")
			}
		})
	}
}

func TestCertificatePEMRoundTrip(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}
	certificate, err := NewSelfSignedCertificate(key, "round trip", 24*time.Hour)
	if err != nil {
		t.Fatalf("could not create certificate: %v", err)
	}

	dir := t.TempDir()
	if err := SaveCertificateToPEMFile(certificate, dir, "cert.pem"); err != nil {
		t.Fatalf("could not save certificate: %v", err)
	}

	loaded, err := ReadCertificateFromPEMFile(filepath.Join(dir, "cert.pem"))
	if err != nil {
		t.Fatalf("could not load certificate: %v", err)
	}
	if !loaded.Equal(certificate) {
		t.Error("loaded certificate does not match the saved one")
	}
}

func TestParseCertificateChainBundle(t *testing.T) {
	var bundle []byte
	var certs []*x509.Certificate

	for _, name := range []string{"first", "second", "third"} {
		key, err := GenerateRSAKeyPair()
		if err != nil {
			t.Fatalf("could not generate key pair: %v", err)
		}
		certificate, err := NewSelfSignedCertificate(key, name, 24*time.Hour)
		if err != nil {
			t.Fatalf("could not create certificate: %v", err)
		}
		certs = append(certs, certificate)
		bundle = append(bundle, pem.EncodeToMemory(&pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Raw,
		})...)
	}

	parsed, err := ParseCertificateChain(bundle)
	if err != nil {
		t.Fatalf("could not parse bundle: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("expected 3 certificates, got %d", len(parsed))
	}
	for i := range parsed {
		if !parsed[i].Equal(certs[i]) {
			t.Errorf("certificate %d does not match (order must be preserved)", i)
		}
	}
}

func TestParseCertificateChainRejectsEmptyInput(t *testing.T) {
	if _, err := ParseCertificateChain([]byte("no certs here")); err == nil {
		t.Error("expected parse of certificate-free data to fail")
	}
}

func TestPrivateKeyJWKRoundTrip(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}

	dir := t.TempDir()
	if err := SaveRSAPrivateKeyToJWKFile(key, dir, "private.jwk"); err != nil {
		t.Fatalf("could not save JWK: %v", err)
	}

	// The JWK file must not be world readable
	info, err := os.Stat(filepath.Join(dir, "private.jwk"))
	if err != nil {
		t.Fatalf("could not stat JWK file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("JWK file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := ReadRSAPrivateKeyFromJWKFile(filepath.Join(dir, "private.jwk"))
	if err != nil {
		t.Fatalf("could not load JWK: %v", err)
	}
	if loaded.N.Cmp(key.N) != 0 || loaded.D.Cmp(key.D) != 0 {
		t.Error("loaded key does not match the saved key")
	}
}

func TestGenerateKeyIDFromRSAKey(t *testing.T) {
	key, err := GenerateRSAKeyPair()
	if err != nil {
		t.Fatalf("could not generate key pair: %v", err)
	}

	keyID, err := GenerateKeyIDFromRSAKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("could not generate key id: %v", err)
	}
	if len(keyID) != 16 {
		t.Errorf("key id %q has length %d, want 16", keyID, len(keyID))
	}

	// Same key, same id
	again, err := GenerateKeyIDFromRSAKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("could not regenerate key id: %v", err)
	}
	if keyID != again {
		t.Errorf("key id is not deterministic: %q vs %q", keyID, again)
	}

	if _, err := GenerateKeyIDFromRSAKey(nil); err == nil {
		t.Error("expected nil key to fail")
	}
}
