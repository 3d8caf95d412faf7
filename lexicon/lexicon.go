// Package lexicon holds the static keyword tables consumed by
// classification. Each table is an ordered list of (category, keywords)
// entries; order is the tie-break contract: the first entry with a
// matching keyword wins wherever a table is scanned front to back.
// Tables are loaded once and shared read-only.
package lexicon

import (
	"strings"

	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// Entry maps one category name to its trigger substrings.
type Entry struct {
	Category string
	Keywords []string
}

// Table is an ordered list of entries. Earlier entries outrank later ones.
type Table []Entry

// Match is one table hit: the category plus the keyword that fired.
type Match struct {
	Category string
	Keyword  string
}

// LookupCategories returns every table entry with a keyword occurring in
// text, in table order, with the first matching keyword per entry. Pure;
// any string is valid input and an empty table yields no matches.
func LookupCategories(text string, table Table) []Match {
	var matches []Match
	for _, entry := range table {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				matches = append(matches, Match{Category: entry.Category, Keyword: kw})
				break
			}
		}
	}
	return matches
}

// Emotions is scanned in declared order: the first category with any hit
// wins, so a text with both a sad and a happy keyword classifies sad.
var Emotions = Table{
	{Category: string(models.EmotionSad), Keywords: []string{"슬퍼", "우울", "외로", "힘들", "아파", "고통", "살려"}},
	{Category: string(models.EmotionHappy), Keywords: []string{"기뻐", "행복", "좋아", "즐거", "신나", "재밌", "웃"}},
	{Category: string(models.EmotionAngry), Keywords: []string{"화나", "짜증", "열받", "싫어", "미워"}},
	{Category: string(models.EmotionWorried), Keywords: []string{"걱정", "불안", "두려", "무서", "겁나"}},
}

// Topics is scanned in declared order; no hit means general.
var Topics = Table{
	{Category: string(models.CategoryHealth), Keywords: []string{"아파", "건강", "병원", "약", "아프", "통증", "허리", "무릎", "머리", "배", "열"}},
	{Category: string(models.CategoryFamily), Keywords: []string{"가족", "자식", "아들", "딸", "손주", "배우자", "남편", "아내", "부모"}},
	{Category: string(models.CategoryEmotion), Keywords: []string{"외로", "슬퍼", "우울", "불안", "화나", "기뻐", "행복"}},
	{Category: string(models.CategoryDaily), Keywords: []string{"날씨", "식사", "산책", "운동", "텔레비전", "tv"}},
	{Category: string(models.CategoryWork), Keywords: []string{"일", "일자리", "알바", "돈", "월급", "직장"}},
	{Category: string(models.CategorySocial), Keywords: []string{"친구", "이웃", "모임", "동네", "이야기"}},
}

// Emergency triggers: explicit distress terms plus emergency-service
// references. Any hit is critical regardless of emotion or history.
// Multi-word triggers keep their internal space, so the emergency scan
// runs on case-folded text with whitespace preserved.
var Emergency = []string{
	"살려", "도와줘", "119", "응급", "넘어졌", "쓰러", "심장", "호흡",
	"너무 아파", "죽겠", "안 돼", "위험", "위급",
}

// Intent keyword groups, in resolution priority order. Overlaps between
// groups (e.g. 일 appearing in both jobs commands and schedule words) are
// resolved by this order alone.
var (
	JobsKeywords        = []string{"일", "일자리", "돈", "알바", "직장", "구인", "아르바이트"}
	CommunityKeywords   = []string{"심심", "이야기", "대화", "채팅", "친구", "동네", "이웃"}
	MarketplaceKeywords = []string{"장터", "사고싶", "주문", "구매", "판매", "나눔", "중고", "쇼핑"}
	MedicineKeywords    = []string{"복약", "약", "먹을시간", "약시간"}

	// Todo fires only on the compound: a "today" term plus a schedule term.
	TodoRequired = []string{"오늘"}
	TodoKeywords = []string{"할일", "일정", "계획"}

	// Text-size commands are gated on a generic size term; without it the
	// size words alone never resolve to a text-size intent.
	TextSizeGate   = []string{"글씨", "글자"}
	TextSizeLarge  = []string{"크게", "키워"}
	TextSizeSmall  = []string{"작게", "줄여"}
	TextSizeMedium = []string{"보통"}

	NewsKeywords     = []string{"뉴스"}
	WeatherKeywords  = []string{"날씨"}
	HealthKeywords   = []string{"건강"}
	SettingsKeywords = []string{"설정"}
	HomeKeywords     = []string{"홈", "처음"}
)

// Stopwords are particles and fillers dropped during keyword extraction.
var Stopwords = []string{
	"은", "는", "이", "가", "을", "를", "의", "에", "와", "과", "도", "만",
	"하고", "있어", "있습니다", "해요", "요",
}

// IsStopword reports whether the token is filtered from keyword extraction.
func IsStopword(token string) bool {
	for _, s := range Stopwords {
		if token == s {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any keyword occurs in text.
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// FirstMatch returns the first keyword occurring in text.
func FirstMatch(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}
