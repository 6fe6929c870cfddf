package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ramanasai/magicmind/internal/encryption"
)

var (
	// ErrWrongPassphrase is returned when the passphrase does not match the
	// one the database was first encrypted with.
	ErrWrongPassphrase = errors.New("wrong passphrase")
	// ErrLocked is returned when an encrypted entry is read without a passphrase.
	ErrLocked = errors.New("entry is encrypted; set MAGICMIND_ENCRYPTION_PASSPHRASE")
)

const (
	metaSalt     = "encryption.salt"
	metaVerifier = "encryption.verifier"
)

// EncryptionManager seals and opens entry text for one unlocked database.
type EncryptionManager struct {
	encryptor *encryption.Encryptor
}

func (em *EncryptionManager) Seal(text string) (string, error) {
	out, err := em.encryptor.Encrypt(text)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt text: %w", err)
	}
	return out, nil
}

func (em *EncryptionManager) Open(text string) (string, error) {
	out, err := em.encryptor.Decrypt(text)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt text: %w", err)
	}
	return out, nil
}

// unlock loads the salt and passphrase verifier from the meta table, creating
// both on first use, and checks the passphrase against the verifier.
func unlock(ctx context.Context, s *Store, passphrase string) (*EncryptionManager, error) {
	// bcrypt only looks at 72 bytes; hash first so long passphrases still count.
	digest := sha256.Sum256([]byte(passphrase))
	probe := []byte(hex.EncodeToString(digest[:]))

	saltText, err := s.getMeta(ctx, metaSalt)
	if err != nil {
		return nil, err
	}
	verifier, err := s.getMeta(ctx, metaVerifier)
	if err != nil {
		return nil, err
	}

	var salt []byte
	if saltText == "" {
		if salt, err = encryption.NewSalt(); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword(probe, bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash passphrase: %w", err)
		}
		if err := s.setMeta(ctx, metaSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
			return nil, err
		}
		if err := s.setMeta(ctx, metaVerifier, string(hash)); err != nil {
			return nil, err
		}
		s.log.Info("encryption initialised")
	} else {
		if salt, err = base64.StdEncoding.DecodeString(saltText); err != nil {
			return nil, fmt.Errorf("corrupt salt in meta table: %w", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(verifier), probe); err != nil {
			return nil, ErrWrongPassphrase
		}
	}

	enc, err := encryption.NewEncryptor(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to create encryptor: %w", err)
	}
	return &EncryptionManager{encryptor: enc}, nil
}

func (s *Store) getMeta(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT value FROM meta WHERE key = ?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) setMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
		key, value)
	if err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}
