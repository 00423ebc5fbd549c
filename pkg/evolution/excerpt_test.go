package evolution

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelevantExcerptKeepsMatchingSentences(t *testing.T) {
	content := "The cache uses an LRU policy. Lookups are constant time! Writes are batched? Nothing else matters."
	excerpt := relevantExcerpt(content, "cache performance")

	assert.Equal(t, "The cache uses an LRU policy.", excerpt)
}

func TestRelevantExcerptJoinsMultipleSegments(t *testing.T) {
	content := "Latency stays low under load. Memory use is bounded. Latency spikes are logged."
	excerpt := relevantExcerpt(content, "low latency")

	assert.Equal(t, "Latency stays low under load. Latency spikes are logged.", excerpt)
}

func TestRelevantExcerptCaseInsensitive(t *testing.T) {
	excerpt := relevantExcerpt("LATENCY is excellent. Other stuff.", "improve latency")
	assert.Equal(t, "LATENCY is excellent.", excerpt)
}

func TestRelevantExcerptIgnoresShortTokens(t *testing.T) {
	// Tokens of three characters or fewer are not keywords; "the", "is" and
	// "for" must not match anything.
	excerpt := relevantExcerpt("This is the one. A second sentence here.", "is the for")
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestRelevantExcerptFallback(t *testing.T) {
	content := "Completely unrelated text without the terms."
	excerpt := relevantExcerpt(content, "throughput scaling")

	assert.Equal(t, content+"...", excerpt)
}

func TestRelevantExcerptFallbackTruncatesAt200(t *testing.T) {
	content := strings.Repeat("z", 500)
	excerpt := relevantExcerpt(content, "throughput")

	assert.Len(t, excerpt, 203)
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestSplitSentencesDiscardsEmptySegments(t *testing.T) {
	segments := splitSentences("One... Two!  ! Three?")
	assert.Equal(t, []string{"One", "Two", "Three"}, segments)
}

func TestRelevantExcerptEmptyContent(t *testing.T) {
	assert.Equal(t, "...", relevantExcerpt("", "anything relevant"))
}
