package idjwt

import (
	"crypto"
	"fmt"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

// KeyType identifies the kind of key configured for signing or encryption.
type KeyType string

const (
	// KeyTypeRSA selects RS256 signing and RSA-OAEP encryption.
	KeyTypeRSA KeyType = "RSA"
	// KeyTypeEC selects ES256 signing and ECDH-ES encryption.
	KeyTypeEC KeyType = "EC"
)

// Signer signs auth results as a compact JWS.
type Signer struct {
	method jwt.SigningMethod
	key    crypto.PrivateKey
}

// NewSigner parses a PEM private key of the given type.
// Error messages never include the key material.
func NewSigner(keyType KeyType, pemKey []byte) (*Signer, error) {
	switch keyType {
	case KeyTypeRSA:
		key, err := jwt.ParseRSAPrivateKeyFromPEM(pemKey)
		if err != nil {
			return nil, fmt.Errorf("%w: parse RSA signing key", ErrInvalidKey)
		}
		return &Signer{method: jwt.SigningMethodRS256, key: key}, nil
	case KeyTypeEC:
		key, err := jwt.ParseECPrivateKeyFromPEM(pemKey)
		if err != nil {
			return nil, fmt.Errorf("%w: parse EC signing key", ErrInvalidKey)
		}
		return &Signer{method: jwt.SigningMethodES256, key: key}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, keyType)
	}
}

// Encrypter encrypts signed tokens as a compact JWE.
type Encrypter struct {
	algorithm jose.KeyAlgorithm
	key       any
}

// NewEncrypter parses a PEM public key of the given type.
// Error messages never include the key material.
func NewEncrypter(keyType KeyType, pemKey []byte) (*Encrypter, error) {
	switch keyType {
	case KeyTypeRSA:
		key, err := jwt.ParseRSAPublicKeyFromPEM(pemKey)
		if err != nil {
			return nil, fmt.Errorf("%w: parse RSA encryption key", ErrInvalidKey)
		}
		return &Encrypter{algorithm: jose.RSA_OAEP, key: key}, nil
	case KeyTypeEC:
		key, err := jwt.ParseECPublicKeyFromPEM(pemKey)
		if err != nil {
			return nil, fmt.Errorf("%w: parse EC encryption key", ErrInvalidKey)
		}
		return &Encrypter{algorithm: jose.ECDH_ES, key: key}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyType, keyType)
	}
}
