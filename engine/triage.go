package engine

import (
	"strings"

	"github.com/zzonde-labs/zzonde-go-sdk/lexicon"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// Triage windows. The inline per-message check and the periodic background
// check use different windows and thresholds on purpose; they are separate
// operations and must not be conflated.
const (
	inlineWindow      = 3
	inlineThreshold   = 2
	periodicWindow    = 5
	periodicThreshold = 3
)

// ReasonSustainedNegative is the warning reason for repeated sad/worried
// exchanges without an explicit emergency keyword.
const ReasonSustainedNegative = "지속적인 부정적 감정"

// AssessEmergency triages one utterance against recent history. An
// emergency keyword always yields critical, regardless of emotion or
// history. Otherwise a sad/worried utterance escalates to warning when at
// least 2 of the 3 most recent entries were also sad/worried. Everything
// else is none. The function only classifies; surfacing UI, dialing, or
// logging is the caller's job.
//
// recent must be in most-recent-first order, as returned by Ledger.Recent.
func AssessEmergency(text string, recent []models.ConversationEntry) models.EmergencyAssessment {
	emotion := ClassifyEmotion(text)

	lower := strings.ToLower(text)
	if kw, ok := lexicon.FirstMatch(lower, lexicon.Emergency); ok {
		return models.EmergencyAssessment{
			Level:   models.EmergencyCritical,
			Emotion: emotion,
			Keyword: kw,
		}
	}

	if emotion.IsNegative() && countNegative(recent, inlineWindow) >= inlineThreshold {
		return models.EmergencyAssessment{
			Level:   models.EmergencyWarning,
			Emotion: emotion,
			Reason:  ReasonSustainedNegative,
		}
	}

	return models.EmergencyAssessment{
		Level:   models.EmergencyNone,
		Emotion: emotion,
	}
}

// PeriodicAssess is the coarser background check: 3 or more sad/worried
// entries among the 5 most recent escalate to warning. It looks at history
// only, with no current utterance.
func PeriodicAssess(recent []models.ConversationEntry) models.EmergencyAssessment {
	if countNegative(recent, periodicWindow) >= periodicThreshold {
		return models.EmergencyAssessment{
			Level:   models.EmergencyWarning,
			Emotion: models.EmotionNeutral,
			Reason:  ReasonSustainedNegative,
		}
	}
	return models.EmergencyAssessment{
		Level:   models.EmergencyNone,
		Emotion: models.EmotionNeutral,
	}
}

func countNegative(recent []models.ConversationEntry, window int) int {
	if len(recent) > window {
		recent = recent[:window]
	}
	count := 0
	for _, entry := range recent {
		if entry.Emotion.IsNegative() {
			count++
		}
	}
	return count
}
