package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	qerrors "github.com/qcmd/q/internal/errors"
)

// Prefix marks a stored value as encrypted. Values without it are
// treated as plaintext so a hand-edited config file keeps working.
const Prefix = "enc:"

const (
	saltFileName  = ".secret_key"
	saltSize      = 32
	keyIterations = 100000
	keyLength     = 32
)

// Store encrypts small credential values with a machine-scoped key.
// The key is derived from a host fingerprint and a per-install random
// salt kept next to the config file, so an encrypted value only
// decrypts on the machine that wrote it.
type Store struct {
	aead cipher.AEAD
}

// NewStore opens (or initializes) the store for the given config directory.
func NewStore(configDir string) (*Store, error) {
	salt, err := loadOrCreateSalt(filepath.Join(configDir, saltFileName))
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(machineFingerprint()), salt, keyIterations, keyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, qerrors.ErrSecretStoreFailed("init", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, qerrors.ErrSecretStoreFailed("init", err)
	}

	return &Store{aead: aead}, nil
}

// IsEncrypted reports whether a stored value carries the encryption prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Encrypt seals a plaintext value. Empty input stays empty.
func (s *Store) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", qerrors.ErrSecretStoreFailed("encrypt", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. The input must carry the prefix.
func (s *Store) Decrypt(stored string) (string, error) {
	if stored == "" {
		return "", nil
	}
	if !IsEncrypted(stored) {
		return "", qerrors.ErrSecretStoreFailed("decrypt", fmt.Errorf("value is not encrypted"))
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, Prefix))
	if err != nil {
		return "", qerrors.ErrSecretStoreFailed("decrypt", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", qerrors.ErrSecretStoreFailed("decrypt", fmt.Errorf("ciphertext too short"))
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", qerrors.ErrSecretStoreFailed("decrypt", err)
	}

	return string(plaintext), nil
}

// loadOrCreateSalt reads the per-install salt, generating it on first use.
func loadOrCreateSalt(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil && len(data) == saltSize {
		return data, nil
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, qerrors.ErrSecretStoreFailed("init", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, qerrors.ErrFileSystemError("create_dir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, salt, 0600); err != nil {
		return nil, qerrors.ErrFileSystemError("write", path, err)
	}

	return salt, nil
}

// machineFingerprint combines stable host characteristics. It is a
// tamper deterrent, not a hardware-bound secret.
func machineFingerprint() string {
	var components []string

	if hostname, err := os.Hostname(); err == nil {
		components = append(components, hostname)
	}
	if home, err := os.UserHomeDir(); err == nil {
		components = append(components, home)
	}
	if user := os.Getenv("USER"); user != "" {
		components = append(components, user)
	}
	if logname := os.Getenv("LOGNAME"); logname != "" {
		components = append(components, logname)
	}
	if len(components) == 0 {
		components = append(components, "q-default-machine-key")
	}

	hash := sha256.Sum256([]byte(strings.Join(components, "|")))
	return fmt.Sprintf("%x", hash)
}
