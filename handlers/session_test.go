package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/memory"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// memoryStore keeps every persisted export so tests can check that each
// snapshot was a complete, parseable serialization.
type memoryStore struct {
	mu      sync.Mutex
	exports [][]byte
}

func (s *memoryStore) Save(ctx context.Context, userID string, export []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports = append(s.exports, export)
	return nil
}

func (s *memoryStore) Load(ctx context.Context, userID string, ledger *memory.Ledger) error {
	return nil
}

func (s *memoryStore) SaveContacts(ctx context.Context, userID string, contacts []models.EmergencyContact) error {
	return nil
}

func (s *memoryStore) LoadContacts(ctx context.Context, userID string) ([]models.EmergencyContact, error) {
	return models.DefaultEmergencyContacts(), nil
}

func TestRecordExchangePersistsSnapshot(t *testing.T) {
	store := &memoryStore{}
	session := &CompanionSession{
		UserID: "user-1",
		Logger: zap.NewNop(),
		Ledger: memory.NewLedger(10),
		Store:  store,
	}

	entry := session.RecordExchange("오늘 산책했어요", "잘 하셨어요", nil)
	assert.NotEmpty(t, entry.ID)

	require.Len(t, store.exports, 1)
	var payload struct {
		Memories []models.ConversationEntry `json:"memories"`
	}
	require.NoError(t, json.Unmarshal(store.exports[0], &payload))
	require.Len(t, payload.Memories, 1)
	assert.Equal(t, "오늘 산책했어요", payload.Memories[0].Utterance)
}

// The websocket message loop and the speech-transcript goroutine both
// record exchanges, so concurrent writers must leave the ledger and every
// persisted snapshot consistent.
func TestRecordExchangeConcurrentWriters(t *testing.T) {
	store := &memoryStore{}
	session := &CompanionSession{
		UserID: "user-1",
		Logger: zap.NewNop(),
		Ledger: memory.NewLedger(200),
		Store:  store,
	}

	const writers = 2
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				session.RecordExchange(fmt.Sprintf("작성자 %d 메시지 %d", w, i), "네", nil)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, writers*perWriter, session.Ledger.Len())

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.exports, writers*perWriter)
	for _, export := range store.exports {
		var payload struct {
			Memories []models.ConversationEntry `json:"memories"`
		}
		require.NoError(t, json.Unmarshal(export, &payload))
		assert.NotEmpty(t, payload.Memories)
	}
}
