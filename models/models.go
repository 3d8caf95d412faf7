package models

import (
	"time"
)

const (
	SESSION_END   = "<SESSION_END>"
	END_OF_SPEECH = "<END_OF_SPEECH>"
)

// Intent is the single resolved navigational/UI action for a voice command.
type Intent string

const (
	IntentJobs           Intent = "jobs"
	IntentCommunity      Intent = "community"
	IntentMarketplace    Intent = "marketplace"
	IntentMedicine       Intent = "medicine"
	IntentTodo           Intent = "todo"
	IntentNews           Intent = "news"
	IntentWeather        Intent = "weather"
	IntentHealth         Intent = "health"
	IntentTextSizeLarge  Intent = "text_size_large"
	IntentTextSizeSmall  Intent = "text_size_small"
	IntentTextSizeMedium Intent = "text_size_medium"
	IntentSettings       Intent = "settings"
	IntentHome           Intent = "home"
	IntentUnknown        Intent = "unknown"
)

// NormalizeIntent maps a raw string (e.g. from the remote classifier) onto
// the closed Intent set. Anything unrecognized becomes IntentUnknown.
func NormalizeIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentJobs, IntentCommunity, IntentMarketplace, IntentMedicine,
		IntentTodo, IntentNews, IntentWeather, IntentHealth,
		IntentTextSizeLarge, IntentTextSizeSmall, IntentTextSizeMedium,
		IntentSettings, IntentHome:
		return Intent(raw)
	default:
		return IntentUnknown
	}
}

// Emotion is the single resolved affect category for an utterance.
type Emotion string

const (
	EmotionSad     Emotion = "sad"
	EmotionHappy   Emotion = "happy"
	EmotionAngry   Emotion = "angry"
	EmotionWorried Emotion = "worried"
	EmotionNeutral Emotion = "neutral"
)

// IsNegative reports whether the emotion counts toward the sustained
// negative-emotion triage rules.
func (e Emotion) IsNegative() bool {
	return e == EmotionSad || e == EmotionWorried
}

// Category is the topic classification of an utterance.
type Category string

const (
	CategoryHealth  Category = "health"
	CategoryFamily  Category = "family"
	CategoryEmotion Category = "emotion"
	CategoryDaily   Category = "daily"
	CategoryWork    Category = "work"
	CategorySocial  Category = "social"
	CategoryGeneral Category = "general"
)

// EmergencyLevel is the triage severity for an exchange.
type EmergencyLevel string

const (
	EmergencyNone     EmergencyLevel = "none"
	EmergencyWarning  EmergencyLevel = "warning"
	EmergencyCritical EmergencyLevel = "critical"
)

// EmergencyAssessment is the result of running triage on an utterance.
// Keyword is set only for critical assessments; Reason only for warnings.
type EmergencyAssessment struct {
	Level   EmergencyLevel `json:"level"`
	Emotion Emotion        `json:"emotion"`
	Keyword string         `json:"keyword,omitempty"`
	Reason  string         `json:"reason,omitempty"`
}

// IsEmergency reports whether the assessment needs any caller action.
func (a EmergencyAssessment) IsEmergency() bool {
	return a.Level != EmergencyNone
}

// IntentResult is what the remote classifier returns for a command.
// Fallback signals that the caller must re-run the deterministic resolver.
type IntentResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// ResolvedCommand is handed to the navigation collaborator. The engine
// never navigates; it only reports the route the intent maps to.
type ResolvedCommand struct {
	Command    string    `json:"command"`
	Intent     Intent    `json:"intent"`
	Route      string    `json:"route"`
	Response   string    `json:"response"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"` // "remote" or "rules"
	Timestamp  time.Time `json:"timestamp"`
}
