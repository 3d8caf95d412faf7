package engine

import (
	"github.com/zzonde-labs/zzonde-go-sdk/lexicon"
	"github.com/zzonde-labs/zzonde-go-sdk/models"
)

// intentRule is one step of the resolution order. resolve reports the
// intent the rule produces for the normalized command, or false to fall
// through to the next rule.
type intentRule struct {
	name    string
	resolve func(cmd string) (models.Intent, bool)
}

// intentRules is the resolution priority order. The order is the contract:
// overlapping keywords across groups (일 in jobs vs 일정 in todo, 약 in
// medicine vs the health topic) resolve to whichever group appears first.
var intentRules = []intentRule{
	{"jobs", matchGroup(models.IntentJobs, lexicon.JobsKeywords)},
	{"community", matchGroup(models.IntentCommunity, lexicon.CommunityKeywords)},
	{"marketplace", matchGroup(models.IntentMarketplace, lexicon.MarketplaceKeywords)},
	{"medicine", matchGroup(models.IntentMedicine, lexicon.MedicineKeywords)},
	{"todo", resolveTodo},
	{"text_size", resolveTextSize},
	{"news", matchGroup(models.IntentNews, lexicon.NewsKeywords)},
	{"weather", matchGroup(models.IntentWeather, lexicon.WeatherKeywords)},
	{"health", matchGroup(models.IntentHealth, lexicon.HealthKeywords)},
	{"settings", matchGroup(models.IntentSettings, lexicon.SettingsKeywords)},
	{"home", matchGroup(models.IntentHome, lexicon.HomeKeywords)},
}

// ResolveIntent maps a raw voice/text command to exactly one intent. The
// command is case-folded and stripped of all whitespace, then the rules
// run in priority order; the first rule that matches wins. No match
// returns unknown. Deterministic and side-effect-free.
func ResolveIntent(text string) models.Intent {
	cmd := normalizeCommand(text)
	for _, rule := range intentRules {
		if intent, ok := rule.resolve(cmd); ok {
			return intent
		}
	}
	return models.IntentUnknown
}

func matchGroup(intent models.Intent, keywords []string) func(string) (models.Intent, bool) {
	return func(cmd string) (models.Intent, bool) {
		if lexicon.ContainsAny(cmd, keywords) {
			return intent, true
		}
		return models.IntentUnknown, false
	}
}

// resolveTodo requires the compound trigger: a "today" term plus a
// schedule term.
func resolveTodo(cmd string) (models.Intent, bool) {
	if lexicon.ContainsAny(cmd, lexicon.TodoRequired) && lexicon.ContainsAny(cmd, lexicon.TodoKeywords) {
		return models.IntentTodo, true
	}
	return models.IntentUnknown, false
}

// resolveTextSize is gated on a generic size term (글씨/글자); once gated
// it sub-resolves large, then small, then medium. If the gate matches but
// no size sub-keyword does, the command falls through to later groups
// rather than producing a text-size intent.
func resolveTextSize(cmd string) (models.Intent, bool) {
	if !lexicon.ContainsAny(cmd, lexicon.TextSizeGate) {
		return models.IntentUnknown, false
	}
	switch {
	case lexicon.ContainsAny(cmd, lexicon.TextSizeLarge):
		return models.IntentTextSizeLarge, true
	case lexicon.ContainsAny(cmd, lexicon.TextSizeSmall):
		return models.IntentTextSizeSmall, true
	case lexicon.ContainsAny(cmd, lexicon.TextSizeMedium):
		return models.IntentTextSizeMedium, true
	}
	return models.IntentUnknown, false
}
