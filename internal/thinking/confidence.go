// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultConfidence is reported when the text carries no percentage.
const DefaultConfidence = 85

// MaxConfidence caps parsed values.
const MaxConfidence = 100

// percentPattern matches ASCII or Arabic-Indic digits immediately followed
// by a Latin or Arabic percent sign.
var percentPattern = regexp.MustCompile(`([0-9٠-٩]+)[%٪]`)

var arabicIndicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// ExtractConfidence returns the first percentage in text, clamped to
// [0,100], or DefaultConfidence when none is present.
func ExtractConfidence(text string) int {
	m := percentPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultConfidence
	}
	n, err := strconv.Atoi(arabicIndicDigits.Replace(m[1]))
	if err != nil || n > MaxConfidence {
		// Atoi only fails here on overflow.
		return MaxConfidence
	}
	return n
}
