// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import (
	"regexp"
	"strings"
)

// FactKind labels a piece of information a user revealed about themselves.
type FactKind string

const (
	FactName       FactKind = "الاسم"
	FactInterest   FactKind = "اهتمام"
	FactProfession FactKind = "مهنة/دراسة"
	FactLocation   FactKind = "الموقع"
	FactPreference FactKind = "تفضيل"
)

// Fact is a single extracted user fact.
type Fact struct {
	Kind  FactKind `json:"kind" yaml:"kind"`
	Value string   `json:"value" yaml:"value"`
}

// factRule extracts one kind of fact. The first matching pattern wins.
type factRule struct {
	kind     FactKind
	patterns []*regexp.Regexp
}

// Go's \w is ASCII-only, so name captures use explicit letter classes.
var factRules = []factRule{
	{FactName, []*regexp.Regexp{
		regexp.MustCompile(`اسمي هو\s+([\p{L}\p{N}_]+)`),
		regexp.MustCompile(`اسمي\s+([\p{L}\p{N}_]+)`),
		regexp.MustCompile(`(?i)my name is\s+([\p{L}\p{N}_]+)`),
	}},
	{FactInterest, []*regexp.Regexp{
		regexp.MustCompile(`أحب\s+(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`مهتم ب(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`هوايتي\s+(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`(?i)i like\s+(.+?)(?:\.|,|$)`),
	}},
	{FactProfession, []*regexp.Regexp{
		regexp.MustCompile(`أعمل\s+(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`مهنتي\s+(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`أدرس\s+(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`(?i)i work as\s+(.+?)(?:\.|,|$)`),
		regexp.MustCompile(`(?i)i study\s+(.+?)(?:\.|,|$)`),
	}},
	{FactLocation, []*regexp.Regexp{
		regexp.MustCompile(`أعيش في\s+(.+?)(?:\.|،|$)`),
		regexp.MustCompile(`(?i)i live in\s+(.+?)(?:\.|,|$)`),
		regexp.MustCompile(`(?i)i am from\s+(.+?)(?:\.|,|$)`),
	}},
}

// ExtractFacts scans a user message for self-descriptions: name, interests,
// profession or field of study, location, and stated preferences. At most
// one fact of each kind is returned, in the order listed above.
func ExtractFacts(message string) []Fact {
	var facts []Fact
	for _, rule := range factRules {
		for _, re := range rule.patterns {
			m := re.FindStringSubmatch(message)
			if m == nil {
				continue
			}
			if value := strings.TrimSpace(m[1]); value != "" {
				facts = append(facts, Fact{Kind: rule.kind, Value: value})
			}
			break
		}
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "أفضل") || strings.Contains(lower, "prefer") {
		facts = append(facts, Fact{Kind: FactPreference, Value: strings.TrimSpace(message)})
	}
	return facts
}
