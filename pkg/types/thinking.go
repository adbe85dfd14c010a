// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ThinkingStep is the trace left by one stage of the reasoning pipeline.
// Steps are created once and never modified.
type ThinkingStep struct {
	// Index is the 1-based stage number.
	Index int `json:"index" yaml:"index"`

	// Title is the human-readable stage name.
	Title string `json:"title" yaml:"title"`

	// Content is the text produced by the stage.
	Content string `json:"content" yaml:"content"`

	// Duration is the wall time spent in the stage.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// DeepThinkingResult is the terminal artifact of one pipeline run. It is
// owned by the caller that requested the run.
type DeepThinkingResult struct {
	// Thinking is the concatenated transcript of all step contents.
	Thinking string `json:"thinking" yaml:"thinking"`

	// Steps is the ordered audit trail. Empty when the degraded strategy answered.
	Steps []ThinkingStep `json:"steps" yaml:"steps"`

	// Answer is the final answer text shown to the user.
	Answer string `json:"answer" yaml:"answer"`

	// Confidence is the self-reported confidence in [0,100].
	Confidence int `json:"confidence" yaml:"confidence"`

	// UsedWebSearch reports whether live search results informed the answer.
	UsedWebSearch bool `json:"used_web_search" yaml:"used_web_search"`

	// SearchResults is the formatted search digest, if a search ran.
	SearchResults string `json:"search_results,omitempty" yaml:"search_results,omitempty"`

	// Degraded is true when the answer came from the two-call fallback
	// or is the terminal apology.
	Degraded bool `json:"degraded" yaml:"degraded"`
}
