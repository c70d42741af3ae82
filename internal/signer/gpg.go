package signer

import (
	"bytes"
	"crypto"
	"fmt"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// GPGSigner implements Signer interface using an OpenPGP private key
type GPGSigner struct {
	entity *openpgp.Entity
}

// NewGPGSigner creates a new GPG signer from an armored or binary private key file
func NewGPGSigner(keyPath, passphrase string) (*GPGSigner, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	entityList, err := readKeyRing(keyPath)
	if err != nil {
		return nil, err
	}
	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}

	entity := entityList[0]
	if entity.PrivateKey == nil {
		return nil, fmt.Errorf("key file holds no private key")
	}
	if err := decryptKeys(entity, passphrase); err != nil {
		return nil, err
	}

	return &GPGSigner{entity: entity}, nil
}

func readKeyRing(keyPath string) (openpgp.EntityList, error) {
	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored key first
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err == nil {
		return entityList, nil
	}

	// Try as binary key
	if _, err := keyFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind key file: %w", err)
	}
	entityList, err = openpgp.ReadKeyRing(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return entityList, nil
}

// decryptKeys unlocks the primary key and every subkey that is encrypted.
func decryptKeys(entity *openpgp.Entity, passphrase string) error {
	keys := []*packet.PrivateKey{entity.PrivateKey}
	for _, subkey := range entity.Subkeys {
		keys = append(keys, subkey.PrivateKey)
	}

	for _, key := range keys {
		if key == nil || !key.Encrypted {
			continue
		}
		if passphrase == "" {
			return fmt.Errorf("private key %s is encrypted and no passphrase was given", key.KeyIdString())
		}
		if err := key.Decrypt([]byte(passphrase)); err != nil {
			return fmt.Errorf("failed to decrypt key %s: %w", key.KeyIdString(), err)
		}
	}
	return nil
}

// SignDetached creates an armored detached signature of data
func (s *GPGSigner) SignDetached(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), &packet.Config{
		DefaultHash: crypto.SHA512,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detached signature: %w", err)
	}

	return buf.Bytes(), nil
}

// GetPublicKey returns the public key in armored format
func (s *GPGSigner) GetPublicKey() ([]byte, error) {
	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}

	if err := s.entity.Serialize(w); err != nil {
		_ = w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Fingerprint returns the upper-case hex fingerprint of the signing key
func (s *GPGSigner) Fingerprint() string {
	return strings.ToUpper(fmt.Sprintf("%x", s.entity.PrimaryKey.Fingerprint))
}
