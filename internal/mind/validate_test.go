package mind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	require.True(t, ValidateInput(""))
	require.True(t, ValidateInput("kèo hôm nay ngon không"))
	require.False(t, ValidateInput("<script>alert(1)</script>"))
	require.False(t, ValidateInput("click javascript:void(0)"))
	require.False(t, ValidateInput("onerror=alert(1)"))
	require.False(t, ValidateInput("eval(document.cookie)"))
}

func TestValidateInputLength(t *testing.T) {
	// The limit counts runes, not bytes.
	require.True(t, ValidateInput(strings.Repeat("ă", 4000)))
	require.False(t, ValidateInput(strings.Repeat("ă", 4001)))
}

func TestTopicTokens(t *testing.T) {
	// Three-rune words and stop words are dropped.
	require.Equal(t, []string{"ngon"}, TopicTokens("kèo này đang ngon quá"))
	require.Equal(t, []string{"manchester", "thắng"}, TopicTokens("manchester thắng đậm"))
	require.Empty(t, TopicTokens("uh thôi nhỉ"))
}
