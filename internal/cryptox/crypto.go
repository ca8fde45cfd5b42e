// Package cryptox seals byte blobs with AES-256-GCM under a key derived
// from an operator passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/docdrop/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = 32

var ErrMalformedCiphertext = errors.New("ciphertext too short")

// DeriveKey stretches passphrase into a KeySize key with Argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext and returns nonce||ciphertext. A fresh random
// nonce is drawn for every call.
func Seal(plaintext, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(aesgcm.NonceSize())

	return aesgcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. Tampered input or a wrong key yields an error.
func Open(sealed, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	ns := aesgcm.NonceSize()
	if len(sealed) < ns+aesgcm.Overhead() {
		return nil, ErrMalformedCiphertext
	}

	return aesgcm.Open(nil, sealed[:ns], sealed[ns:], nil)
}
