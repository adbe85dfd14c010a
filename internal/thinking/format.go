// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"fmt"
	"strings"

	"github.com/sevencode/deepthink/pkg/types"
)

const (
	formatHeader    = "🧠 **عملية التفكير العميق المتقدم**\n\n"
	formatSeparator = "---\n\n"
	formatWebBanner = "🌐 **تم استخدام البحث على الويب**\n\n"
)

// Format renders the step trace of result. It reads nothing but result,
// so repeated calls produce identical text.
func Format(result types.DeepThinkingResult) string {
	var b strings.Builder
	b.WriteString(formatHeader)

	for _, step := range result.Steps {
		fmt.Fprintf(&b, "**%d. %s** (%dms)\n", step.Index, step.Title, step.Duration.Milliseconds())
		fmt.Fprintf(&b, "%s\n\n", step.Content)
		b.WriteString(formatSeparator)
	}

	if result.UsedWebSearch {
		b.WriteString(formatWebBanner)
	}

	fmt.Fprintf(&b, "📊 **مستوى الثقة**: %d%%\n\n", result.Confidence)
	return b.String()
}
