package redis

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"time"
)

// ErrSessionValueMissing is returned when a session or session value does not exist
var ErrSessionValueMissing = errors.New("session value not found")

// SessionData holds the auth tokens stored for a session login
type SessionData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionStore handles encrypted, browser-session scoped storage in Redis
type SessionStore struct {
	encryptionKey []byte
}

var (
	setSessionValue    = Set
	getSessionValue    = Get
	delSessionValue    = Del
	marshalSessionJSON = json.Marshal
)

// NewSessionStore creates a new session store
func NewSessionStore(encryptionKeyHex string) (*SessionStore, error) {
	key, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, errors.New("invalid encryption key hex")
	}
	if len(key) != 32 {
		return nil, errors.New("encryption key must be 32 bytes (64 hex chars)")
	}
	return &SessionStore{encryptionKey: key}, nil
}

// CreateSession stores encrypted auth tokens for a session login
func (s *SessionStore) CreateSession(ctx context.Context, sessionID string, data *SessionData, expiration time.Duration) error {
	jsonData, err := marshalSessionJSON(data)
	if err != nil {
		return err
	}
	return s.put(ctx, "session:"+sessionID, jsonData, expiration)
}

// GetSession retrieves and decrypts the auth tokens of a session login
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*SessionData, error) {
	plain, err := s.get(ctx, "session:"+sessionID)
	if err != nil {
		return nil, err
	}

	var data SessionData
	if err := json.Unmarshal(plain, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DeleteSession removes a session login
func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return delSessionValue(ctx, "session:"+sessionID)
}

// PutValue stores one named value inside a browser session
func (s *SessionStore) PutValue(ctx context.Context, sessionID, key, value string, expiration time.Duration) error {
	return s.put(ctx, valueKey(sessionID, key), []byte(value), expiration)
}

// GetValue reads one named value of a browser session
func (s *SessionStore) GetValue(ctx context.Context, sessionID, key string) (string, error) {
	plain, err := s.get(ctx, valueKey(sessionID, key))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// DeleteValue removes one named value of a browser session
func (s *SessionStore) DeleteValue(ctx context.Context, sessionID, key string) error {
	return delSessionValue(ctx, valueKey(sessionID, key))
}

func valueKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}

func (s *SessionStore) put(ctx context.Context, key string, plaintext []byte, expiration time.Duration) error {
	encryptedData, err := s.encrypt(plaintext)
	if err != nil {
		return err
	}
	return setSessionValue(ctx, key, encryptedData, expiration)
}

func (s *SessionStore) get(ctx context.Context, key string) ([]byte, error) {
	encryptedDataStr, err := getSessionValue(ctx, key)
	if err != nil {
		if IsNil(err) {
			return nil, ErrSessionValueMissing
		}
		return nil, err
	}
	return s.decrypt(encryptedDataStr)
}

func (s *SessionStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *SessionStore) decrypt(ciphertextHex string) ([]byte, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
