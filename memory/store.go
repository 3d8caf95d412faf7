package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

const (
	memoryKeyPrefix   = "zzonde:memory:"
	contactsKeyPrefix = "zzonde:contacts:"
)

// RedisStore persists ledger exports and emergency contacts per user.
// It is the persistence collaborator: the ledger itself never talks to it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already-connected redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save stores a ledger export under the user's key. Callers serialize
// via Ledger.Export while they hold their ledger lock, then hand the
// bytes here so the redis round trip happens outside it.
func (s *RedisStore) Save(ctx context.Context, userID string, export []byte) error {
	if err := s.client.Set(ctx, memoryKeyPrefix+userID, export, 0).Err(); err != nil {
		return fmt.Errorf("failed to save memory for %s: %w", userID, err)
	}
	return nil
}

// Load restores a previously saved export into the ledger. A missing key
// is not an error: the ledger simply starts empty.
func (s *RedisStore) Load(ctx context.Context, userID string, ledger *Ledger) error {
	data, err := s.client.Get(ctx, memoryKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		zap.L().Debug("No stored memory for user", zap.String("user_id", userID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load memory for %s: %w", userID, err)
	}
	return ledger.Import(data)
}

// SaveContacts stores the user's emergency contact list.
func (s *RedisStore) SaveContacts(ctx context.Context, userID string, contacts []models.EmergencyContact) error {
	data, err := json.Marshal(contacts)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}
	if err := s.client.Set(ctx, contactsKeyPrefix+userID, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save contacts for %s: %w", userID, err)
	}
	return nil
}

// LoadContacts returns the user's emergency contacts, falling back to the
// defaults when none are stored.
func (s *RedisStore) LoadContacts(ctx context.Context, userID string) ([]models.EmergencyContact, error) {
	data, err := s.client.Get(ctx, contactsKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DefaultEmergencyContacts(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts for %s: %w", userID, err)
	}

	var contacts []models.EmergencyContact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts: %w", err)
	}
	return contacts, nil
}
