// Package encryption protects secret payloads with a password.
//
// The key is derived with PBKDF2-SHA512 from the password and an application
// salt. Payloads are encrypted with AES-256-CBC under a random IV and encoded
// as hex(iv) ":" hex(ciphertext).
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultSalt is used when no salt override is configured
	DefaultSalt = "hush-salt"

	iterations = 1000
	keyLength  = 32
)

// ErrDecrypt indicates a payload that could not be decrypted with the given password
var ErrDecrypt = errors.New("secret could not be decrypted — wrong password?")

// Encrypter encrypts and decrypts strings with password derived keys
type Encrypter struct {
	salt []byte
}

// New returns an Encrypter using salt, or DefaultSalt when salt is empty
func New(salt string) *Encrypter {
	if salt == "" {
		salt = DefaultSalt
	}
	return &Encrypter{salt: []byte(salt)}
}

func (e *Encrypter) key(password string) []byte {
	return pbkdf2.Key([]byte(password), e.salt, iterations, keyLength, sha512.New)
}

// Encrypt encrypts input with a key derived from password
func (e *Encrypter) Encrypt(input, password string) (string, error) {
	block, err := aes.NewCipher(e.key(password))
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	plaintext := pad([]byte(input), aes.BlockSize)
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt for any input bytes. Any failure is reported as
// ErrDecrypt. A wrong password usually fails the padding check, but can yield
// garbage with valid padding, so callers validate the plaintext themselves.
func (e *Encrypter) Decrypt(input, password string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(input, ":")
	if !ok {
		return "", fmt.Errorf("%w: missing IV separator", ErrDecrypt)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: invalid IV", ErrDecrypt)
	}

	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: invalid ciphertext", ErrDecrypt)
	}

	block, err := aes.NewCipher(e.key(password))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}

// pad applies PKCS#7 padding
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding size")
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}

	return data[:len(data)-n], nil
}
