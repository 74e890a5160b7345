package cmd

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// TestTruncateLabel tests that bar descriptions are cut on rune boundaries
func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short prompt", truncateLabel("short prompt", 40))

	long := "a very long prompt about rainy nights and slow jazz piano"
	cut := truncateLabel(long, 40)
	assert.Len(t, []rune(cut), 40)
	assert.Equal(t, "...", cut[len(cut)-3:])

	// a multi-byte rune straddling the old byte cut must survive intact
	multibyte := "ジャズピアノと雨の夜のためのとても長いプロンプトですジャズピアノと雨の夜のためのとても長いプロンプトです"
	cut = truncateLabel(multibyte, 40)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, []rune(cut), 40)
}
