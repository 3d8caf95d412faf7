// Package engine is the deterministic classification core: emotion and
// topic classification, intent resolution, and emergency triage. Every
// function here is pure and total over arbitrary strings, with no I/O and
// no shared state, so the surrounding handlers can call it from a
// single-threaded session loop and tests can call it bare.
package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zzonde-labs/zzonde-go-sdk/lexicon"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// ClassifyEmotion returns exactly one emotion for the text. Tables are
// checked in declared order and the first category with any matching
// keyword wins; a text containing both a sad and a happy keyword is sad
// because that table is checked first. Default is neutral.
//
// The emotion path case-folds but keeps whitespace, unlike the intent
// path (see ResolveIntent). The asymmetry is deliberate: multi-word
// distress phrases match with their spaces intact, and collapsing it
// would change classification on whitespace-containing input.
func ClassifyEmotion(text string) models.Emotion {
	lower := strings.ToLower(text)
	for _, entry := range lexicon.Emotions {
		if lexicon.ContainsAny(lower, entry.Keywords) {
			return models.Emotion(entry.Category)
		}
	}
	return models.EmotionNeutral
}

// Categorize returns exactly one topic category for the text, first match
// wins over the ordered topic tables. Default is general.
func Categorize(text string) models.Category {
	lower := strings.ToLower(text)
	for _, entry := range lexicon.Topics {
		if lexicon.ContainsAny(lower, entry.Keywords) {
			return models.Category(entry.Category)
		}
	}
	return models.CategoryGeneral
}

// ExtractKeywords lowercases the text, splits on whitespace, and keeps
// tokens of at least two runes that are not stopwords, deduplicated in
// first-seen order.
func ExtractKeywords(text string) []string {
	words := strings.Fields(strings.ToLower(text))

	var keywords []string
	seen := make(map[string]bool, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) < 2 || lexicon.IsStopword(word) {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}
	return keywords
}

// normalizeCommand case-folds and strips all whitespace. Used by the
// intent path only.
func normalizeCommand(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, text)
}
