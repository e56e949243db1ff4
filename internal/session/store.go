package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"spot-the-spy-bot/internal/model"
)

// keyPrefix namespaces every session key in the shared store.
const keyPrefix = "spotthespy"

// ErrSessionNotFound is returned when no session exists for the key.
var ErrSessionNotFound = errors.New("session not found")

// KV is the minimal key-value surface the store needs. RedisKV implements it
// for production; memoryKV backs the tests.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ErrKeyNotFound is the KV-level miss; the store translates it.
var ErrKeyNotFound = errors.New("key not found")

// Store persists per-user bot sessions (chat id, message id, locale, scene
// stack) across restarts, keyed by user UUID with a Telegram-id index.
type Store struct {
	kv KV
}

// NewStore creates a Store over the given key-value backend.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func userKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:bot_user:%s", keyPrefix, id)
}

func telegramKey(telegramID int64) string {
	return fmt.Sprintf("%s:telegram_id:%d", keyPrefix, telegramID)
}

// Get loads a session by user id.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*model.BotUser, error) {
	raw, err := s.kv.Get(ctx, userKey(userID))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var user model.BotUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

// GetByTelegramID loads a session through the Telegram-id index.
func (s *Store) GetByTelegramID(ctx context.Context, telegramID int64) (*model.BotUser, error) {
	raw, err := s.kv.Get(ctx, telegramKey(telegramID))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt telegram index for %d: %w", telegramID, err)
	}
	return s.Get(ctx, userID)
}

// Set saves a session and maintains the Telegram-id index.
func (s *Store) Set(ctx context.Context, user *model.BotUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, userKey(user.ID), string(raw)); err != nil {
		return err
	}
	return s.kv.Set(ctx, telegramKey(user.TelegramID), user.ID.String())
}

// Exists reports whether a session is stored for the user.
func (s *Store) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.kv.Exists(ctx, userKey(userID))
}

// Remove deletes a session and its Telegram-id index entry.
func (s *Store) Remove(ctx context.Context, user *model.BotUser) error {
	if err := s.kv.Del(ctx, telegramKey(user.TelegramID)); err != nil {
		return err
	}
	return s.kv.Del(ctx, userKey(user.ID))
}

// memoryKV is an in-process KV used by tests.
type memoryKV struct {
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memoryKV) Del(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *memoryKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}
