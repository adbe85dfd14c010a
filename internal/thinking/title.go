// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"context"
	"fmt"
	"strings"

	"github.com/sevencode/deepthink/internal/llm"
	"github.com/sevencode/deepthink/pkg/types"
)

// DefaultTitle is used when no title could be generated.
const DefaultTitle = "محادثة جديدة"

const (
	maxTitleRunes = 50
	titleSystem   = "ولّد عنواناً قصيراً (3-5 كلمات) للمحادثة. الرد يجب أن يكون العنوان فقط."
)

// GenerateTitle asks the oracle for a short conversation title. Any failure
// yields DefaultTitle.
func GenerateTitle(ctx context.Context, completer llm.Completer, firstMessage string) string {
	text, err := completer.Complete(ctx, []types.Message{
		types.SystemMessage(titleSystem),
		types.UserMessage(fmt.Sprintf("عنوان لـ: \"%s\"", firstMessage)),
	})
	if err != nil {
		return DefaultTitle
	}
	title := strings.Trim(strings.TrimSpace(text), "\"«»")
	if title == "" {
		return DefaultTitle
	}
	if r := []rune(title); len(r) > maxTitleRunes {
		title = strings.TrimSpace(string(r[:maxTitleRunes]))
	}
	return title
}
