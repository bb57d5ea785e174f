// internal/game/rules.go
//
// Rule text handling: the case/whitespace-insensitive key used to match rule
// phrases, candidate-rule normalization, and the fixed contradiction table.

package game

import (
	"regexp"
	"strings"
)

var ruleSpaces = regexp.MustCompile(`\s+`)

// ruleExamples are sent to the judge as inspiration for invented rules.
var ruleExamples = []string{
	"start with a consonant",
	"start with a vowel",
	"be alive",
	"be food",
	"fit in one hand",
	"have wheels",
	"be made of metal",
	"be a household item",
	"be found outdoors",
	"be used every day",
	"fit in a backpack",
	"be colorful",
}

// contradictions lists phrase pairs that may not both be active. Matching is
// by ruleKey on either side.
var contradictions = [][2]string{
	{"start with a consonant", "start with a vowel"},
	{"be alive", "be an object"},
	{"be food", "not be food"},
	{"Starts with consonant", "Starts with vowel"},
	{"Object, not alive", "Is alive"},
	{"Is food", "Not food"},
}

// ruleKey collapses whitespace and lowercases so rule phrases compare by
// content rather than formatting.
func ruleKey(value string) string {
	return strings.ToLower(ruleSpaces.ReplaceAllString(strings.TrimSpace(value), " "))
}

// normalizeRule cleans a candidate rule phrase. The second return is false
// when the candidate is unusable: too short/long, too wordy, or a null
// phrase.
func normalizeRule(rule string) (string, bool) {
	normalized := ruleSpaces.ReplaceAllString(strings.TrimSpace(rule), " ")
	normalized = strings.Trim(normalized, " .;:!?")
	if normalized == "" {
		return "", false
	}
	if len(normalized) < 3 || len(normalized) > 64 {
		return "", false
	}
	if len(strings.Split(normalized, " ")) > 8 {
		return "", false
	}
	switch strings.ToLower(normalized) {
	case "none", "n/a", "same", "no rule":
		return "", false
	}
	return normalized, true
}

// isContradictory reports whether candidate matches one side of a
// contradiction pair while the other side is already present.
func isContradictory(candidate string, existing []string) bool {
	candidateKey := ruleKey(candidate)
	existingKeys := map[string]bool{}
	for _, rule := range existing {
		existingKeys[ruleKey(rule)] = true
	}
	for _, pair := range contradictions {
		aKey, bKey := ruleKey(pair[0]), ruleKey(pair[1])
		if (candidateKey == aKey && existingKeys[bKey]) || (candidateKey == bKey && existingKeys[aKey]) {
			return true
		}
	}
	return false
}

// containsRule reports a case/whitespace-insensitive duplicate.
func containsRule(rules []string, candidate string) bool {
	key := ruleKey(candidate)
	for _, rule := range rules {
		if ruleKey(rule) == key {
			return true
		}
	}
	return false
}
