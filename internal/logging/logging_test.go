package logging

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogWritesFileAndTail(t *testing.T) {
	dir := t.TempDir()
	tl, err := New(dir, "TestLogWritesFileAndTail")
	require.NoError(t, err)

	tl.Logger.Info().Str("step", "open login page").Msg("navigating")
	require.NoError(t, tl.Close())

	raw, err := os.ReadFile(tl.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "open login page")
	assert.Contains(t, tl.Tail(), "open login page")
}

func TestSecretsNeverAppearInAnyOutput(t *testing.T) {
	dir := t.TempDir()
	tl, err := New(dir, "TestSecretsNeverAppear")
	require.NoError(t, err)

	tl.RegisterSecret("testpassword123")
	tl.Logger.Info().Str("value", "testpassword123").Msg("typing password")
	tl.Logger.Info().Msg("literal testpassword123 in message")
	require.NoError(t, tl.Close())

	raw, err := os.ReadFile(tl.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "testpassword123")
	assert.Contains(t, string(raw), "[redacted]")
	assert.NotContains(t, tl.Tail(), "testpassword123")
}

func TestShortSecretsAreIgnored(t *testing.T) {
	dir := t.TempDir()
	tl, err := New(dir, "TestShortSecrets")
	require.NoError(t, err)

	tl.RegisterSecret("ab")
	tl.Logger.Info().Msg("table has rows")
	require.NoError(t, tl.Close())

	raw, err := os.ReadFile(tl.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "table has rows", "two-char secret must not mangle output")
}

func TestTailIsBounded(t *testing.T) {
	dir := t.TempDir()
	tl, err := New(dir, "TestTailBounded")
	require.NoError(t, err)

	for i := 0; i < tailLines+50; i++ {
		tl.Logger.Info().Int("i", i).Msg("line")
	}
	require.NoError(t, tl.Close())

	lines := strings.Split(tl.Tail(), "\n")
	assert.LessOrEqual(t, len(lines), tailLines)
	assert.Contains(t, lines[len(lines)-1], fmt.Sprintf(`"i":%d`, tailLines+49))
}

func TestSanitizeTestNames(t *testing.T) {
	assert.Equal(t, "TestA_SubCase_1", sanitize("TestA/SubCase 1"))
}

func TestDiscardSinkIsSafe(t *testing.T) {
	tl := Discard()
	tl.RegisterSecret("somepassword")
	tl.Logger.Info().Msg("goes nowhere")
	assert.Empty(t, tl.Path())
	require.NoError(t, tl.Close())
}
