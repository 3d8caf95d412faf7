package memory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// exportPayload is the flat persistence shape: entries plus context.
// No schema versioning beyond this shape.
type exportPayload struct {
	Memories   []models.ConversationEntry `json:"memories"`
	Context    models.UserContext         `json:"context"`
	ExportDate time.Time                  `json:"export_date"`
}

// Export serializes the ledger and its user context to JSON so the host
// application can persist them across process restarts. Memories are
// written most-recent-first regardless of the internal layout.
func (l *Ledger) Export() ([]byte, error) {
	memories := make([]models.ConversationEntry, len(l.entries))
	for i, entry := range l.entries {
		memories[len(l.entries)-1-i] = entry
	}
	payload := exportPayload{
		Memories:   memories,
		Context:    l.Context(),
		ExportDate: time.Now(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger export: %w", err)
	}
	return data, nil
}

// Import restores a previously exported ledger. Malformed JSON fails
// loudly and leaves the in-memory state untouched. Restored entries are
// trimmed to the ledger's capacity, oldest first.
func (l *Ledger) Import(data []byte) error {
	var payload exportPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal ledger import: %w", err)
	}

	memories := payload.Memories
	if len(memories) > l.capacity {
		memories = memories[:l.capacity]
	}
	entries := make([]models.ConversationEntry, len(memories))
	for i, entry := range memories {
		entries[len(memories)-1-i] = entry
	}

	l.entries = entries
	l.context = payload.Context
	if l.context.Name == "" {
		l.context.Name = DefaultUserName
	}
	return nil
}
