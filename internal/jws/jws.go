// jws.go - Functions for signing and verifying the detached JWS format used
// on Shinkansen payment messages.
//
// The protocol fixes every knob of RFC 7515/7797:
//
//   - alg is always PS256 (RSASSA-PSS with SHA-256)
//   - b64 is always false (the payload octets are signed as-is, per RFC 7797)
//   - crit is always ["b64"]
//   - x5c carries exactly one certificate: the signer's leaf
//
// The serialized form is "<base64url(header)>..<base64url(signature)>". The
// payload segment is elided because the payload travels separately as the
// HTTP request or response body; the verifier must supply the same octets.
//
// Signing and verification are performed with github.com/go-jose/go-jose/v4,
// which implements the unencoded-payload option natively. The protected
// header is additionally decoded here to pin the algorithm and extract the
// x5c leaf, which the whitelist step needs before trust can be decided.
package jws

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v4"
)

// Algorithm is the JWS signature algorithm of this profile. It is not
// negotiable: verification rejects any header that claims something else.
const Algorithm = "PS256"

// protectedHeader is the subset of the JOSE protected header inspected
// before cryptographic verification.
type protectedHeader struct {
	Algorithm string   `json:"alg"`
	X5C       []string `json:"x5c"`
}

// Sign signs the payload with the private key and returns a compact detached
// JWS with the certificate embedded in the x5c header.
//
// The certificate must embed the public half of the key. A mismatched pair
// fails with ErrCodeKeyMismatch before any cryptographic operation, so a
// signature that can never be matched to its own attached certificate is
// never produced.
//
// The key is used only for the duration of the call and is not retained.
func Sign(payload []byte, key *rsa.PrivateKey, certificate *x509.Certificate) (string, error) {
	if key == nil {
		return "", NewKeyMismatchError("private key is required")
	}
	if certificate == nil {
		return "", NewKeyMismatchError("certificate is required")
	}
	if err := certificateMatchesKey(certificate, &key.PublicKey); err != nil {
		return "", err
	}

	// WithBase64(false) emits b64:false plus crit:["b64"] and signs the raw
	// payload octets per RFC 7797
	options := (&jose.SignerOptions{}).
		WithBase64(false).
		WithHeader("x5c", []string{base64.StdEncoding.EncodeToString(certificate.Raw)})

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.PS256, Key: key}, options)
	if err != nil {
		return "", WrapInternalError(err, "failed to create signer")
	}

	signed, err := signer.Sign(payload)
	if err != nil {
		return "", WrapInternalError(err, "failed to sign payload")
	}

	detachedJWS, err := signed.DetachedCompactSerialize()
	if err != nil {
		return "", WrapInternalError(err, "failed to serialize detached JWS")
	}
	return detachedJWS, nil
}

// VerifyDetached verifies a compact detached JWS against the supplied payload
// octets and certificate whitelist.
//
// The signer certificate is taken from the signature's own x5c header; the
// whitelist then decides whether that signer is trusted. The whitelist should
// be limited to the current certificate rotation set of the expected
// counterparty - it is a pin set, not a trust store, and expiry or revocation
// are intentionally not checked here.
//
// The order of checks is part of the contract:
//
//  1. compact structure and protected header decode (ErrCodeInvalidJWS)
//  2. alg is PS256; x5c present, non-empty, first entry parses as a
//     certificate (ErrCodeInvalidJWS)
//  3. PS256 verification of the signing input (ErrCodeInvalidSignature,
//     with no further detail about what was tampered)
//  4. byte-for-byte DER comparison against the whitelist
//     (ErrCodeCertificateNotWhitelisted)
func VerifyDetached(payload []byte, detachedJWS string, whitelist []*x509.Certificate) error {
	protected, err := splitDetached(detachedJWS)
	if err != nil {
		return err
	}

	certificate, err := signerCertificate(protected)
	if err != nil {
		return err
	}
	publicKey, ok := certificate.PublicKey.(*rsa.PublicKey)
	if !ok {
		return NewInvalidSignatureError("signature verification failed")
	}

	// Any failure from here to the whitelist check surfaces as the same
	// ErrCodeInvalidSignature so the error cannot be used as a tampering
	// oracle.
	signed, err := jose.ParseDetached(detachedJWS, payload, []jose.SignatureAlgorithm{jose.PS256})
	if err != nil {
		return NewInvalidSignatureError("signature verification failed")
	}
	if _, err := signed.Verify(publicKey); err != nil {
		return NewInvalidSignatureError("signature verification failed")
	}

	// Whitelisting is only meaningful once the signature itself is known to
	// be valid for the attached certificate.
	for _, trusted := range whitelist {
		if bytes.Equal(certificate.Raw, trusted.Raw) {
			return nil
		}
	}
	return NewCertificateNotWhitelistedError("signature valid, but certificate not in whitelist")
}

// splitDetached checks the compact detached structure and returns the
// protected-header segment. The payload segment must be empty.
func splitDetached(detachedJWS string) (protected string, err error) {
	parts := strings.Split(detachedJWS, ".")
	if len(parts) != 3 {
		return "", NewInvalidJWSError(fmt.Sprintf("invalid detached JWS: expected 3 segments, got %d", len(parts)))
	}
	if parts[1] != "" {
		return "", NewInvalidJWSError("invalid detached JWS: payload segment must be empty")
	}
	if parts[0] == "" || parts[2] == "" {
		return "", NewInvalidJWSError("invalid detached JWS: missing header or signature segment")
	}
	return parts[0], nil
}

// signerCertificate decodes the protected header, pins the algorithm and
// extracts the candidate signer: the first certificate of the x5c chain.
func signerCertificate(protected string) (*x509.Certificate, error) {
	headerBytes, err := base64.RawURLEncoding.DecodeString(protected)
	if err != nil {
		return nil, WrapInvalidJWSError(err, "failed to decode protected header")
	}

	var header protectedHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, WrapInvalidJWSError(err, "failed to parse protected header JSON")
	}
	if header.Algorithm != Algorithm {
		return nil, NewInvalidJWSError(fmt.Sprintf("unsupported algorithm %q: only %s is accepted", header.Algorithm, Algorithm))
	}
	if len(header.X5C) == 0 {
		return nil, NewInvalidJWSError("x5c not found in JWS header")
	}

	// NB: x5c entries use standard base64, not the URL encoding of the
	// surrounding segments (RFC 7515 §4.1.6).
	certDER, err := base64.StdEncoding.DecodeString(header.X5C[0])
	if err != nil {
		return nil, WrapInvalidJWSError(err, "failed to decode x5c certificate")
	}
	certificate, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, WrapInvalidJWSError(err, "failed to parse x5c certificate")
	}
	return certificate, nil
}

// certificateMatchesKey checks that the certificate embeds the given RSA
// public key, comparing modulus and exponent the way the key would serialize.
func certificateMatchesKey(certificate *x509.Certificate, publicKey *rsa.PublicKey) error {
	certKey, ok := certificate.PublicKey.(*rsa.PublicKey)
	if !ok {
		return NewKeyMismatchError(fmt.Sprintf("certificate contains %T key, but expected *rsa.PublicKey", certificate.PublicKey))
	}
	if certKey.N.Cmp(publicKey.N) != 0 || certKey.E != publicKey.E {
		return NewKeyMismatchError("certificate public key does not match signing key")
	}
	return nil
}
