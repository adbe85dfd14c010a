// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package thinking

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevencode/deepthink/internal/llm"
	"github.com/sevencode/deepthink/pkg/types"
)

func TestGenerateTitle(t *testing.T) {
	long := strings.Repeat("كلمة ", 20)
	tests := []struct {
		name  string
		reply string
		err   error
		want  string
	}{
		{"plain", "  تطورات الذكاء الاصطناعي \n", nil, "تطورات الذكاء الاصطناعي"},
		{"quoted", "\"قصة قصيرة\"", nil, "قصة قصيرة"},
		{"empty", "", nil, DefaultTitle},
		{"error", "", errors.New("down"), DefaultTitle},
		{"truncated", long, nil, strings.TrimSpace(string([]rune(strings.TrimSpace(long))[:maxTitleRunes]))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []types.Message
			completer := llm.CompleterFunc(func(_ context.Context, msgs []types.Message) (string, error) {
				got = msgs
				return tt.reply, tt.err
			})

			title := GenerateTitle(context.Background(), completer, "ما هي أحدث تطورات الذكاء الاصطناعي؟")
			assert.Equal(t, tt.want, title)
			assert.LessOrEqual(t, len([]rune(title)), maxTitleRunes)

			require.Len(t, got, 2)
			assert.Equal(t, types.RoleSystem, got[0].Role)
			assert.Equal(t, types.RoleUser, got[1].Role)
			assert.Contains(t, got[1].Content, "أحدث تطورات")
		})
	}
}
