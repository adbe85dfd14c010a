// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"

	"github.com/sevencode/deepthink/pkg/types"
)

// NoResultsText is the digest rendered for an empty response.
const NoResultsText = "لم يتم العثور على نتائج بحث."

// FormatResults renders a numbered digest of resp for inclusion in a prompt.
func FormatResults(resp types.SearchResponse) string {
	if len(resp.Results) == 0 {
		return NoResultsText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "نتائج البحث عن \"%s\":\n\n", resp.Query)
	for i, r := range resp.Results {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.Title)
		fmt.Fprintf(&b, "   المصدر: %s\n", r.Source)
		fmt.Fprintf(&b, "   %s\n", r.Snippet)
		fmt.Fprintf(&b, "   الرابط: %s\n\n", r.URL)
	}
	return b.String()
}
