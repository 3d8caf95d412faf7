package models

import (
	"time"
)

// ConversationEntry is one recorded exchange. Entries are immutable once
// recorded; the ledger evicts them oldest-first past its capacity.
type ConversationEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Utterance string    `json:"utterance"`
	Response  string    `json:"response"`
	Emotion   Emotion   `json:"emotion"`
	Category  Category  `json:"category"`
	Keywords  []string  `json:"keywords,omitempty"`
}

// EntryMetadata optionally pre-supplies classification for Record. Empty
// fields are filled in by the classifier.
type EntryMetadata struct {
	Emotion  Emotion  `json:"emotion,omitempty"`
	Category Category `json:"category,omitempty"`
}

// Concern is a sad or worried utterance the user has not yet been
// checked in about.
type Concern struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Resolved  bool      `json:"resolved"`
}

// UserContext is the slowly-mutated projection the ledger maintains over
// recorded exchanges: who the user is and what keeps coming up.
type UserContext struct {
	Name           string    `json:"name"`
	HealthKeywords []string  `json:"health_keywords"`
	FamilyKeywords []string  `json:"family_keywords"`
	Concerns       []Concern `json:"concerns"`
	LastUpdated    time.Time `json:"last_updated"`
}

// EmergencyContact is one entry in the user's emergency call list.
type EmergencyContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Type  string `json:"type"` // "emergency" or "family"
}

// DefaultEmergencyContacts returns the contact list used before the user
// registers their own.
func DefaultEmergencyContacts() []EmergencyContact {
	return []EmergencyContact{
		{Name: "119", Phone: "119", Type: "emergency"},
		{Name: "가족", Phone: "", Type: "family"},
	}
}

// EmergencyEvent records a triage hit and whether it has been resolved.
type EmergencyEvent struct {
	ID         string              `json:"id"`
	Timestamp  time.Time           `json:"timestamp"`
	Assessment EmergencyAssessment `json:"assessment"`
	Text       string              `json:"text"`
	Resolved   bool                `json:"resolved"`
	ResolvedAt time.Time           `json:"resolved_at,omitempty"`
}
