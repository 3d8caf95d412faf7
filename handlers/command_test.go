package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

type fakeClassifier struct {
	result *models.IntentResult
	err    error
}

func (f *fakeClassifier) ClassifyCommand(ctx context.Context, command string) (*models.IntentResult, error) {
	return f.result, f.err
}

func newTestCommandHandler(classifier CommandClassifier) *CommandHandler {
	return &CommandHandler{
		session:    &CompanionSession{Logger: zap.NewNop()},
		classifier: classifier,
		isActive:   true,
	}
}

func TestResolveUsesRemoteResult(t *testing.T) {
	h := newTestCommandHandler(&fakeClassifier{
		result: &models.IntentResult{
			Intent:     models.IntentCommunity,
			Confidence: 0.9,
			Response:   "동네 이야기 페이지로 안내할게요.",
		},
	})

	resolved := h.resolve("이웃들이랑 수다 떨고 싶어")

	assert.Equal(t, "remote", resolved.Source)
	assert.Equal(t, models.IntentCommunity, resolved.Intent)
	assert.Equal(t, "/community", resolved.Route)
	assert.Equal(t, 0.9, resolved.Confidence)
	assert.Equal(t, "동네 이야기 페이지로 안내할게요.", resolved.Response)
}

func TestResolveFallsBackOnError(t *testing.T) {
	h := newTestCommandHandler(&fakeClassifier{err: errors.New("upstream timeout")})

	resolved := h.resolve("일자리 좀 찾아줘")

	assert.Equal(t, "rules", resolved.Source)
	assert.Equal(t, models.IntentJobs, resolved.Intent)
	assert.Equal(t, "/jobs", resolved.Route)
	assert.Equal(t, 1.0, resolved.Confidence)
	assert.NotEmpty(t, resolved.Response)
}

func TestResolveFallsBackOnLowConfidence(t *testing.T) {
	h := newTestCommandHandler(&fakeClassifier{
		result: &models.IntentResult{Intent: models.IntentNews, Confidence: 0.5},
	})

	resolved := h.resolve("뉴스 보여줘")

	assert.Equal(t, "rules", resolved.Source)
	assert.Equal(t, models.IntentNews, resolved.Intent)
}

func TestResolveFallsBackOnExplicitFallbackSignal(t *testing.T) {
	h := newTestCommandHandler(&fakeClassifier{
		result: &models.IntentResult{Intent: models.IntentWeather, Confidence: 0.95, Fallback: true},
	})

	resolved := h.resolve("날씨 어때")

	assert.Equal(t, "rules", resolved.Source)
	assert.Equal(t, models.IntentWeather, resolved.Intent)
}

func TestResolveFallsBackOnRemoteUnknown(t *testing.T) {
	h := newTestCommandHandler(&fakeClassifier{
		result: &models.IntentResult{Intent: models.IntentUnknown, Confidence: 0.99},
	})

	resolved := h.resolve("글씨 크게 해줘")

	assert.Equal(t, "rules", resolved.Source)
	assert.Equal(t, models.IntentTextSizeLarge, resolved.Intent)
	// Text-size intents change the UI in place, no navigation
	assert.Equal(t, "", resolved.Route)
}

func TestRouteForIntent(t *testing.T) {
	tests := []struct {
		intent models.Intent
		route  string
	}{
		{models.IntentJobs, "/jobs"},
		{models.IntentCommunity, "/community"},
		{models.IntentMarketplace, "/marketplace"},
		{models.IntentMedicine, "/health"},
		{models.IntentTodo, "/health"},
		{models.IntentHealth, "/health"},
		{models.IntentNews, "/news"},
		{models.IntentWeather, "/weather"},
		{models.IntentSettings, "/settings"},
		{models.IntentHome, "/"},
		{models.IntentTextSizeLarge, ""},
		{models.IntentUnknown, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.route, routeForIntent(tt.intent), "intent %s", tt.intent)
	}
}

func TestSpokenResponses(t *testing.T) {
	knowns := []models.Intent{
		models.IntentJobs, models.IntentCommunity, models.IntentMarketplace,
		models.IntentMedicine, models.IntentTodo,
		models.IntentTextSizeLarge, models.IntentTextSizeSmall, models.IntentTextSizeMedium,
		models.IntentNews, models.IntentWeather, models.IntentHealth,
		models.IntentSettings, models.IntentHome,
	}
	for _, intent := range knowns {
		assert.NotEmpty(t, spokenResponse(intent), "intent %s", intent)
	}
	assert.Empty(t, spokenResponse(models.IntentUnknown))
}

func TestClarifyingResponseEchoesCommand(t *testing.T) {
	resp := clarifyingResponse("무슨 말인지 모르겠는 명령")
	require.Contains(t, resp, "무슨 말인지 모르겠는 명령")
	assert.Contains(t, resp, "다시 말씀해주시")
}
