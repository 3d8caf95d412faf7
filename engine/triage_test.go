package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

func entriesWithEmotions(emotions ...models.Emotion) []models.ConversationEntry {
	entries := make([]models.ConversationEntry, len(emotions))
	for i, e := range emotions {
		entries[i] = models.ConversationEntry{Emotion: e}
	}
	return entries
}

func TestAssessEmergencyKeywordIsCritical(t *testing.T) {
	result := AssessEmergency("살려주세요 도와주세요", nil)

	assert.Equal(t, models.EmergencyCritical, result.Level)
	assert.Equal(t, "살려", result.Keyword)
	// 살려 is also a sad-table keyword; the emotion still gets classified
	assert.Equal(t, models.EmotionSad, result.Emotion)
}

func TestAssessEmergencyKeywordIgnoresLedgerState(t *testing.T) {
	// Critical on keyword match regardless of history
	happy := entriesWithEmotions(models.EmotionHappy, models.EmotionHappy, models.EmotionHappy)
	result := AssessEmergency("119 불러줘", happy)

	assert.Equal(t, models.EmergencyCritical, result.Level)
	assert.Equal(t, "119", result.Keyword)
}

func TestAssessEmergencyNeutralTextEmptyLedger(t *testing.T) {
	result := AssessEmergency("오늘 날씨 어때요", nil)

	assert.Equal(t, models.EmergencyNone, result.Level)
	assert.Equal(t, models.EmotionNeutral, result.Emotion)
	assert.Empty(t, result.Keyword)
}

func TestAssessEmergencySustainedNegative(t *testing.T) {
	recent := entriesWithEmotions(models.EmotionWorried, models.EmotionWorried, models.EmotionWorried)

	result := AssessEmergency("자꾸 불안해요", recent)

	assert.Equal(t, models.EmergencyWarning, result.Level)
	assert.Equal(t, models.EmotionWorried, result.Emotion)
	assert.Equal(t, ReasonSustainedNegative, result.Reason)
}

func TestAssessEmergencySingleNegativeIsNone(t *testing.T) {
	recent := entriesWithEmotions(models.EmotionWorried, models.EmotionHappy, models.EmotionNeutral)

	result := AssessEmergency("자꾸 불안해요", recent)

	assert.Equal(t, models.EmergencyNone, result.Level)
	assert.Equal(t, models.EmotionWorried, result.Emotion)
}

func TestAssessEmergencyPositiveEmotionSkipsHistory(t *testing.T) {
	// A happy utterance never escalates, however negative the history
	recent := entriesWithEmotions(models.EmotionSad, models.EmotionSad, models.EmotionSad)

	result := AssessEmergency("오늘은 기뻐요", recent)

	assert.Equal(t, models.EmergencyNone, result.Level)
	assert.Equal(t, models.EmotionHappy, result.Emotion)
}

func TestAssessEmergencyWindowIsThreeEntries(t *testing.T) {
	// Negatives beyond the 3 most recent entries do not count
	recent := entriesWithEmotions(
		models.EmotionNeutral, models.EmotionNeutral, models.EmotionWorried,
		models.EmotionSad, models.EmotionSad,
	)

	result := AssessEmergency("계속 걱정돼요", recent)

	assert.Equal(t, models.EmergencyNone, result.Level)
}

func TestPeriodicAssess(t *testing.T) {
	warning := entriesWithEmotions(
		models.EmotionSad, models.EmotionNeutral, models.EmotionWorried,
		models.EmotionSad, models.EmotionHappy,
	)
	assert.Equal(t, models.EmergencyWarning, PeriodicAssess(warning).Level)
	assert.Equal(t, ReasonSustainedNegative, PeriodicAssess(warning).Reason)

	calm := entriesWithEmotions(
		models.EmotionSad, models.EmotionNeutral, models.EmotionWorried,
		models.EmotionHappy, models.EmotionHappy,
	)
	assert.Equal(t, models.EmergencyNone, PeriodicAssess(calm).Level)

	assert.Equal(t, models.EmergencyNone, PeriodicAssess(nil).Level)
}

func TestPeriodicAssessWindowIsFiveEntries(t *testing.T) {
	// Two negatives in the window, two more beyond it: still none
	recent := entriesWithEmotions(
		models.EmotionSad, models.EmotionWorried, models.EmotionNeutral,
		models.EmotionNeutral, models.EmotionNeutral,
		models.EmotionSad, models.EmotionSad,
	)

	assert.Equal(t, models.EmergencyNone, PeriodicAssess(recent).Level)
}
