package idjwt

import (
	"fmt"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

// contentEncryption is fixed for ID Contact auth result tokens.
const contentEncryption = jose.A128CBC_HS256

// SignAndEncrypt produces the auth result token: the result's claims signed
// as a compact JWS, then encrypted as a compact JWE with cty "JWT".
func SignAndEncrypt(result *AuthResult, signer *Signer, encrypter *Encrypter) (string, error) {
	claims := jwt.MapClaims{
		"status": string(result.Status),
		"iat":    time.Now().Unix(),
	}
	if result.Attributes != nil {
		claims["attributes"] = result.Attributes
	}
	if result.SessionURL != "" {
		claims["session_url"] = result.SessionURL
	}

	signed, err := jwt.NewWithClaims(signer.method, claims).SignedString(signer.key)
	if err != nil {
		return "", fmt.Errorf("sign auth result: %w", err)
	}

	opts := (&jose.EncrypterOptions{}).WithContentType("JWT")
	enc, err := jose.NewEncrypter(contentEncryption, jose.Recipient{
		Algorithm: encrypter.algorithm,
		Key:       encrypter.key,
	}, opts)
	if err != nil {
		return "", fmt.Errorf("create encrypter: %w", err)
	}

	obj, err := enc.Encrypt([]byte(signed))
	if err != nil {
		return "", fmt.Errorf("encrypt auth result: %w", err)
	}

	token, err := obj.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("serialize auth result: %w", err)
	}
	return token, nil
}

// DecryptAndVerify is the inverse of SignAndEncrypt. The plugin itself only
// produces tokens; this is used by tests and by tooling inspecting results.
func DecryptAndVerify(token string, decryptionKey any, verificationKey any) (*AuthResult, error) {
	obj, err := jose.ParseEncrypted(token,
		[]jose.KeyAlgorithm{jose.RSA_OAEP, jose.ECDH_ES},
		[]jose.ContentEncryption{contentEncryption})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	signed, err := obj.Decrypt(decryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt auth result: %w", err)
	}

	parsed, err := jwt.Parse(string(signed), func(t *jwt.Token) (any, error) {
		return verificationKey, nil
	}, jwt.WithValidMethods([]string{"RS256", "ES256"}))
	if err != nil {
		return nil, fmt.Errorf("verify auth result: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	result := &AuthResult{}
	if status, ok := claims["status"].(string); ok {
		result.Status = AuthStatus(status)
	}
	if sessionURL, ok := claims["session_url"].(string); ok {
		result.SessionURL = sessionURL
	}
	if raw, ok := claims["attributes"].(map[string]any); ok {
		result.Attributes = make(map[string]string, len(raw))
		for name, value := range raw {
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: attribute %s is not a string", ErrInvalidToken, name)
			}
			result.Attributes[name] = s
		}
	}
	return result, nil
}
