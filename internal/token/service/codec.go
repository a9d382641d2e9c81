package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/allisson/cardpay/internal/errors"
)

// ivSize is the AES block size; one fresh IV per token.
const ivSize = 16

// aesCBCCodec implements Codec using AES-CBC with PKCS#5 padding for payload
// encryption and HMAC-SHA256 for signatures.
//
// The signing key is derived from the configured signing secret with
// HKDF-SHA256 so encryption and signing key material never overlap, even if an
// operator configures the same bytes for both.
//
// The codec is stateless after construction and safe for concurrent use.
type aesCBCCodec struct {
	block      cipher.Block
	signingKey []byte
}

// NewCodec creates the token codec. The key must be 16, 24 or 32 bytes (the
// three valid AES key sizes); anything else is a configuration fault and the
// caller is expected to treat it as fatal at startup, not per request.
func NewCodec(key, signingSecret []byte) (Codec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, apperrors.Wrap(
			apperrors.ErrInvalidInput,
			fmt.Sprintf("payment key must be 16, 24 or 32 bytes, got %d", len(key)),
		)
	}
	if len(signingSecret) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "payment signing secret is empty")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create AES cipher")
	}

	signingKey, err := deriveSigningKey(signingSecret)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}

	return &aesCBCCodec{block: block, signingKey: signingKey}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte HMAC key from the
// configured signing secret. Info parameter is versioned for future algorithm
// changes.
func deriveSigningKey(secret []byte) ([]byte, error) {
	info := []byte("payment-token-signing-v1")
	reader := hkdf.New(sha256.New, secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// Encrypt encrypts plaintext with AES-CBC and PKCS#5 padding under the given
// raw 16-byte IV, returning standard-base64 ciphertext.
func (c *aesCBCCodec) Encrypt(plaintext string, iv []byte) (string, error) {
	if len(iv) != ivSize {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "iv must be 16 bytes")
	}

	padded := pkcs5Pad([]byte(plaintext), c.block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any format or padding mismatch fails; callers
// must collapse the failure into a generic invalid outcome.
func (c *aesCBCCodec) Decrypt(ciphertext string, iv []byte) (string, error) {
	if len(iv) != ivSize {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "iv must be 16 bytes")
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", apperrors.Wrap(err, "ciphertext is not valid base64")
	}
	if len(raw) == 0 || len(raw)%c.block.BlockSize() != 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "ciphertext length is not a block multiple")
	}

	plaintext := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plaintext, raw)

	unpadded, ok := pkcs5Unpad(plaintext, c.block.BlockSize())
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "invalid padding")
	}

	return string(unpadded), nil
}

// Sign computes HMAC-SHA256 over data and returns the base64 signature.
func (c *aesCBCCodec) Sign(data string) string {
	mac := hmac.New(sha256.New, c.signingKey)
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature and compares in constant time.
func (c *aesCBCCodec) Verify(data, signature string) bool {
	expected := c.Sign(data)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// GenerateIV returns 16 random bytes and their base64 encoding.
func (c *aesCBCCodec) GenerateIV() ([]byte, string, error) {
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, "", apperrors.Wrap(err, "failed to generate iv")
	}
	return iv, base64.StdEncoding.EncodeToString(iv), nil
}

// pkcs5Pad appends PKCS#5/PKCS#7 padding up to blockSize.
func pkcs5Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs5Unpad strips PKCS#5/PKCS#7 padding, rejecting malformed padding.
func pkcs5Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, false
		}
	}

	return data[:len(data)-padLen], true
}
