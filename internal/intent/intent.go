// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package intent classifies user queries with fixed keyword lists. Every
// function here is pure: no I/O, no shared state, linear in the number of
// configured keywords. Swapping the matching strategy means changing this
// package only.
package intent

import "strings"

// searchTriggers are substrings that suggest a query benefits from live
// web results: search verbs, temporal words, and interrogatives, in Arabic
// and English.
var searchTriggers = []string{
	"ابحث", "بحث", "search", "find",
	"أخبار", "news", "جديد", "latest", "أحدث",
	"الآن", "now", "حالياً", "currently",
	"ما هو", "what is", "من هو", "who is",
	"أين", "where", "متى", "when",
	"كيف", "how", "لماذا", "why",
	"معلومات عن", "information about",
	"تعريف", "definition", "define", "شرح", "explain",
}

var identityTriggers = []string{
	"من أنت", "من انت", "اسمك", "مين أنت", "مين انت",
	"من صنعك", "من طورك", "من مطورك", "من صممك",
	"who are you", "who made you", "who created you",
	"شركتك", "مطورك", "مخترعك", "صانعك",
}

var harmfulKeywords = []string{
	"فيروس", "اختراق", "تخريب", "سرقة", "احتيال",
	"virus", "hack", "malware", "exploit", "crack",
}

// Intent is the outcome of classifying one query.
type Intent struct {
	// NeedsSearch is true when live web search should inform the answer.
	NeedsSearch bool `json:"needs_search" yaml:"needs_search"`

	// Identity is true when the user asks who the assistant is.
	Identity bool `json:"identity" yaml:"identity"`

	// Harmful is true when the query matches a blocked keyword.
	Harmful bool `json:"harmful" yaml:"harmful"`

	// HarmfulKeyword is the first blocked keyword found, if any.
	HarmfulKeyword string `json:"harmful_keyword,omitempty" yaml:"harmful_keyword,omitempty"`
}

// Classify runs every matcher against query.
func Classify(query string) Intent {
	lower := strings.ToLower(query)
	keyword, harmful := firstMatch(lower, harmfulKeywords)
	_, identity := firstMatch(lower, identityTriggers)
	_, search := firstMatch(lower, searchTriggers)
	return Intent{
		NeedsSearch:    search,
		Identity:       identity,
		Harmful:        harmful,
		HarmfulKeyword: keyword,
	}
}

// NeedsSearch reports whether the lower-cased query contains any search
// trigger. False negatives only mean the answer relies on the model's own
// knowledge; false positives cost one extra round trip.
func NeedsSearch(query string) bool {
	_, ok := firstMatch(strings.ToLower(query), searchTriggers)
	return ok
}

// RefusalMessage is the reply given for a query flagged as harmful.
func RefusalMessage(keyword string) string {
	return "عذراً، لا أستطيع المساعدة في طلبات تتعلق بـ '" + keyword +
		"'. أنا ملتزم بالأخلاقيات والقيم، ولا أساعد في أي شيء قد يضر الآخرين."
}

func firstMatch(lower string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}
