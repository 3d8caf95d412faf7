package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

func TestResolveIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Intent
	}{
		{"jobs", "일자리 좀 찾아줘", models.IntentJobs},
		{"community", "심심한데 누구 없나", models.IntentCommunity},
		{"marketplace", "장터에서 뭐 좀 사고싶어", models.IntentMarketplace},
		{"medicine", "복약 시간 알려줘", models.IntentMedicine},
		{"news", "뉴스 보여줘", models.IntentNews},
		{"weather", "오늘 날씨 어때요", models.IntentWeather},
		{"health", "건강 상태 확인해줘", models.IntentHealth},
		{"settings", "설정 열어줘", models.IntentSettings},
		{"home", "처음으로 가줘", models.IntentHome},
		{"no match", "고양이 귀엽다", models.IntentUnknown},
		{"empty", "", models.IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveIntent(tt.text))
		})
	}
}

func TestResolveIntentTextSize(t *testing.T) {
	assert.Equal(t, models.IntentTextSizeLarge, ResolveIntent("글씨 크게 해줘"))
	assert.Equal(t, models.IntentTextSizeLarge, ResolveIntent("글자 좀 키워줘"))
	assert.Equal(t, models.IntentTextSizeSmall, ResolveIntent("글씨 작게 해줘"))
	assert.Equal(t, models.IntentTextSizeSmall, ResolveIntent("글자 줄여줘"))
	assert.Equal(t, models.IntentTextSizeMedium, ResolveIntent("글씨 보통으로 해줘"))

	// Size words without the generic gate term never resolve to text size
	assert.Equal(t, models.IntentUnknown, ResolveIntent("크게 말해줘"))

	// Gate term without a size word falls through past the text-size group
	assert.Equal(t, models.IntentUnknown, ResolveIntent("글씨가 잘 안 보여"))
}

func TestResolveIntentGroupPriority(t *testing.T) {
	// jobs is checked before news: a command with both resolves to jobs
	assert.Equal(t, models.IntentJobs, ResolveIntent("일자리 뉴스 보여줘"))

	// community is checked before news
	assert.Equal(t, models.IntentCommunity, ResolveIntent("심심한데 뉴스나 볼까"))

	// 일 is a jobs trigger, so schedule phrases containing it (할일,
	// 일정) resolve to jobs by group order
	assert.Equal(t, models.IntentJobs, ResolveIntent("오늘 할 일 알려줘"))
	assert.Equal(t, models.IntentJobs, ResolveIntent("오늘 일정 알려줘"))
}

func TestResolveIntentTodoCompound(t *testing.T) {
	// 계획 is the one schedule word without the 일 syllable, so the
	// compound todo trigger resolves when paired with 오늘
	assert.Equal(t, models.IntentTodo, ResolveIntent("오늘 계획 알려줘"))

	// Either half of the compound alone is not a todo command
	assert.Equal(t, models.IntentUnknown, ResolveIntent("계획 알려줘"))
	assert.Equal(t, models.IntentUnknown, ResolveIntent("오늘 뭐 하지"))
}

func TestResolveIntentNormalization(t *testing.T) {
	// The intent path strips all whitespace before matching
	assert.Equal(t, models.IntentTextSizeLarge, ResolveIntent("글 씨 크 게"))
	assert.Equal(t, models.IntentMedicine, ResolveIntent("약 먹을 시간이야"))
}

func TestResolveIntentTotalAndIdempotent(t *testing.T) {
	inputs := []string{
		"", " ", "일자리", "🙂", "abcdef", "글씨", "오늘 날씨 어때요",
		"살려주세요", "아무 의미 없는 문장",
	}

	valid := map[models.Intent]bool{
		models.IntentJobs: true, models.IntentCommunity: true,
		models.IntentMarketplace: true, models.IntentMedicine: true,
		models.IntentTodo: true, models.IntentNews: true,
		models.IntentWeather: true, models.IntentHealth: true,
		models.IntentTextSizeLarge: true, models.IntentTextSizeSmall: true,
		models.IntentTextSizeMedium: true, models.IntentSettings: true,
		models.IntentHome: true, models.IntentUnknown: true,
	}

	for _, text := range inputs {
		first := ResolveIntent(text)
		assert.True(t, valid[first], "unexpected intent %q for %q", first, text)
		assert.Equal(t, first, ResolveIntent(text))
	}
}
