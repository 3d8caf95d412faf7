package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCategoriesTableOrder(t *testing.T) {
	table := Table{
		{Category: "first", Keywords: []string{"없음", "사과"}},
		{Category: "second", Keywords: []string{"바나나"}},
		{Category: "third", Keywords: []string{"포도"}},
	}

	matches := LookupCategories("바나나와 사과를 샀어요", table)
	require.Len(t, matches, 2)

	// Matches come back in table order, not text order
	assert.Equal(t, "first", matches[0].Category)
	assert.Equal(t, "사과", matches[0].Keyword)
	assert.Equal(t, "second", matches[1].Category)
	assert.Equal(t, "바나나", matches[1].Keyword)
}

func TestLookupCategoriesFirstKeywordPerEntry(t *testing.T) {
	table := Table{
		{Category: "emotion", Keywords: []string{"슬퍼", "우울"}},
	}

	matches := LookupCategories("우울하고 슬퍼요", table)
	require.Len(t, matches, 1)
	// The entry's first matching keyword in declared order wins
	assert.Equal(t, "슬퍼", matches[0].Keyword)
}

func TestLookupCategoriesEmptyInputs(t *testing.T) {
	assert.Empty(t, LookupCategories("아무 말", Table{}))
	assert.Empty(t, LookupCategories("", Emotions))
	assert.Empty(t, LookupCategories("no korean keywords here", Emotions))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("은"))
	assert.True(t, IsStopword("있습니다"))
	assert.False(t, IsStopword("건강"))
	assert.False(t, IsStopword(""))
}

func TestContainsAnyAndFirstMatch(t *testing.T) {
	assert.True(t, ContainsAny("일자리 찾아줘", JobsKeywords))
	assert.False(t, ContainsAny("날씨 어때", JobsKeywords))

	kw, ok := FirstMatch("살려주세요 도와주세요", Emergency)
	require.True(t, ok)
	assert.Equal(t, "살려", kw)

	_, ok = FirstMatch("좋은 아침입니다", Emergency)
	assert.False(t, ok)
}
