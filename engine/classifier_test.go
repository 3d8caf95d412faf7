package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

func TestClassifyEmotion(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Emotion
	}{
		{"happy keyword only", "오늘 정말 행복해요", models.EmotionHappy},
		{"sad keyword only", "너무 외로워요", models.EmotionSad},
		{"angry keyword", "정말 짜증나요", models.EmotionAngry},
		{"worried keyword", "수술이 걱정돼요", models.EmotionWorried},
		{"no keywords", "점심 먹었어요", models.EmotionNeutral},
		{"empty string", "", models.EmotionNeutral},
		// sad is checked before happy, so a text with both is sad
		{"sad beats happy by table order", "슬퍼도 웃어요", models.EmotionSad},
		// happy is checked before angry
		{"happy beats angry by table order", "좋아하는데 짜증나", models.EmotionHappy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyEmotion(tt.text))
		})
	}
}

func TestClassifyEmotionPreservesWhitespace(t *testing.T) {
	// The emotion path keeps whitespace, so a keyword split by a space
	// does not match. The intent path strips whitespace and would.
	assert.Equal(t, models.EmotionNeutral, ClassifyEmotion("힘 들어요"))
	assert.Equal(t, models.EmotionSad, ClassifyEmotion("힘들어요"))
}

func TestClassifyEmotionIdempotent(t *testing.T) {
	for _, text := range []string{"슬퍼요", "행복해요", "", "아무말 대잔치"} {
		assert.Equal(t, ClassifyEmotion(text), ClassifyEmotion(text))
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Category
	}{
		{"health", "허리가 너무 아파요", models.CategoryHealth},
		{"family", "아들이 전화를 안 해요", models.CategoryFamily},
		{"daily with case folding", "TV 보면서 쉬었어요", models.CategoryDaily},
		{"work", "월급이 너무 적어요", models.CategoryWork},
		{"social", "이웃들과 모임이 있어요", models.CategorySocial},
		{"no match", "그냥 그래요", models.CategoryGeneral},
		{"empty", "", models.CategoryGeneral},
		// health is checked before emotion, so 아파 wins over 외로
		{"health beats emotion by table order", "외로워서 머리가 아파요", models.CategoryHealth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.text))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	// Stopwords and single-rune tokens are dropped, duplicates collapse
	got := ExtractKeywords("날씨 가 좋아요 날씨 은")
	assert.Equal(t, []string{"날씨", "좋아요"}, got)
}

func TestExtractKeywordsLowercasesTokens(t *testing.T) {
	got := ExtractKeywords("TV 샀어요")
	assert.Equal(t, []string{"tv", "샀어요"}, got)
}

func TestExtractKeywordsEmpty(t *testing.T) {
	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("은 는 이 가"))
}
