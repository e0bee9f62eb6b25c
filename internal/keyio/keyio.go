// Package keyio loads and stores the RSA keys and X.509 certificates used to
// sign and verify Shinkansen messages.
//
// The signing and verification engines only accept already-decoded
// *rsa.PrivateKey and *x509.Certificate values; every external storage format
// (PEM files, JWK files) is handled here.
//
// PEM private keys are accepted in PKCS#1 or PKCS#8 form and written in
// PKCS#8 (https://datatracker.ietf.org/doc/html/rfc5208). Generated keys can
// also be saved in JWK format for tooling that prefers RFC 7517.
package keyio

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// RSAKeySize is the modulus size of generated signing keys.
const RSAKeySize = 2048

// GenerateRSAKeyPair generates a new RSA private key of RSAKeySize bits.
func GenerateRSAKeyPair() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, RSAKeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return key, nil
}

// NewSelfSignedCertificate creates a self-signed certificate for the key,
// valid from now for the given duration.
//
// Self-signed certificates are the normal case on this network: trust comes
// from the counterparty whitelisting the certificate, not from a CA chain.
func NewSelfSignedCertificate(key *rsa.PrivateKey, commonName string, validFor time.Duration) (*x509.Certificate, error) {
	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject:      pkix.Name{CommonName: commonName},
		Issuer:       pkix.Name{CommonName: commonName},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}
	return x509.ParseCertificate(certDER)
}

// ParseRSAPrivateKey parses an RSA private key from PEM-encoded data in
// PKCS#8 or PKCS#1 form.
func ParseRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in private key data")
	}

	switch block.Type {
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("expected RSA private key, got %T", parsed)
		}
		return key, nil
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#1 private key: %w", err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

// ReadRSAPrivateKeyFromPEMFile loads an RSA private key from a PEM file.
func ReadRSAPrivateKeyFromPEMFile(path string) (*rsa.PrivateKey, error) {
	pemData, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRSAPrivateKey(pemData)
}

// SaveRSAPrivateKeyToPEMFile saves an RSA private key to a PEM file in
// PKCS#8 format. The key is not encrypted.
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./keys")
//   - filename: The filename within the base directory (e.g., "private.pem")
func SaveRSAPrivateKeyToPEMFile(key *rsa.PrivateKey, baseDir, filename string) error {
	keyBytes, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	}

	root, err := os.OpenRoot(baseDir)
	if err != nil {
		return fmt.Errorf("failed to open root directory %s: %w", baseDir, err)
	}
	defer root.Close()

	file, err := root.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := pem.Encode(file, pemBlock); err != nil {
		return fmt.Errorf("failed to encode PEM: %w", err)
	}
	return nil
}

// ParseCertificateChain parses one or more X.509 certificates from
// PEM-encoded data, in the order they appear.
//
// Useful for loading whitelist bundles where several certificates are
// concatenated in a single PEM file.
func ParseCertificateChain(pemData []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	var block *pem.Block
	remaining := pemData

	for {
		block, remaining = pem.Decode(remaining)
		if block == nil {
			break
		}

		// Skip non-certificate blocks
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, fmt.Errorf("no certificates found in PEM data")
	}
	return certs, nil
}

// ReadCertificatesFromPEMFile loads the certificates from a PEM file, in the
// order they appear.
func ReadCertificatesFromPEMFile(path string) ([]*x509.Certificate, error) {
	pemData, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCertificateChain(pemData)
}

// ReadCertificateFromPEMFile loads the first certificate from a PEM file.
func ReadCertificateFromPEMFile(path string) (*x509.Certificate, error) {
	certs, err := ReadCertificatesFromPEMFile(path)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// SaveCertificateToPEMFile saves a certificate to a PEM file.
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./keys")
//   - filename: The filename within the base directory (e.g., "cert.pem")
func SaveCertificateToPEMFile(certificate *x509.Certificate, baseDir, filename string) error {
	pemBlock := &pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certificate.Raw,
	}

	root, err := os.OpenRoot(baseDir)
	if err != nil {
		return fmt.Errorf("failed to open root directory %s: %w", baseDir, err)
	}
	defer root.Close()

	file, err := root.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := pem.Encode(file, pemBlock); err != nil {
		return fmt.Errorf("failed to encode PEM: %w", err)
	}
	return nil
}

// RSAPrivateKeyToJWK converts an RSA private key to JWK format, with the
// PS256 algorithm and a thumbprint-derived key id.
func RSAPrivateKeyToJWK(privateKey *rsa.PrivateKey) (jwk.Key, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}

	key, err := jwk.Import(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWK from RSA private key: %w", err)
	}

	keyID, err := GenerateKeyIDFromRSAKey(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("failed to set key ID: %w", err)
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.PS256()); err != nil {
		return nil, fmt.Errorf("failed to set algorithm: %w", err)
	}
	if err := key.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, fmt.Errorf("failed to set key usage: %w", err)
	}

	return key, nil
}

// SaveRSAPrivateKeyToJWKFile saves an RSA private key as a single-key JWK
// set. The key is not encrypted.
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./keys")
//   - filename: The filename within the base directory (e.g., "private.jwk")
func SaveRSAPrivateKeyToJWKFile(privateKey *rsa.PrivateKey, baseDir, filename string) error {
	jwkKey, err := RSAPrivateKeyToJWK(privateKey)
	if err != nil {
		return fmt.Errorf("failed to create JWK: %w", err)
	}

	jwkSet := jwk.NewSet()
	if err := jwkSet.AddKey(jwkKey); err != nil {
		return fmt.Errorf("failed to add key to JWK set: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(jwkSet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JWK set: %w", err)
	}

	root, err := os.OpenRoot(baseDir)
	if err != nil {
		return fmt.Errorf("failed to open root directory %s: %w", baseDir, err)
	}
	defer root.Close()

	if err := root.WriteFile(filename, jsonBytes, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadRSAPrivateKeyFromJWKFile loads an RSA private key from a JWK file.
func ReadRSAPrivateKeyFromJWKFile(path string) (*rsa.PrivateKey, error) {
	jsonBytes, err := readFile(path)
	if err != nil {
		return nil, err
	}

	jwkSet, err := jwk.Parse(jsonBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWK set: %w", err)
	}
	if jwkSet.Len() == 0 {
		return nil, fmt.Errorf("JWK set is empty")
	}

	jwkKey, ok := jwkSet.Key(0)
	if !ok {
		return nil, fmt.Errorf("failed to get key from JWK set")
	}

	var raw any
	if err := jwk.Export(jwkKey, &raw); err != nil {
		return nil, fmt.Errorf("failed to export key: %w", err)
	}

	privateKey, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not an RSA private key")
	}
	return privateKey, nil
}

// GenerateKeyIDFromRSAKey generates a key ID from an RSA public key using its
// RFC 7638 SHA-256 thumbprint. Returns the first 16 characters of the
// hex-encoded thumbprint.
func GenerateKeyIDFromRSAKey(publicKey *rsa.PublicKey) (string, error) {
	if publicKey == nil {
		return "", fmt.Errorf("public key is nil")
	}

	jwkKey, err := jwk.Import(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to import key: %w", err)
	}

	thumbprint, err := jwkKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("failed to generate thumbprint: %w", err)
	}

	return fmt.Sprintf("%x", thumbprint)[:16], nil
}

// readFile reads a file with access scoped to its parent directory.
func readFile(path string) ([]byte, error) {
	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	defer root.Close()

	data, err := root.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
