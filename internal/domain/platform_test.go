package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatform(t *testing.T) {
	for _, p := range Platforms() {
		platform, err := ParsePlatform(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, platform)
	}

	_, err := ParsePlatform("MySpace")
	assert.Error(t, err)

	// Platform names are case sensitive.
	_, err = ParsePlatform("twitter")
	assert.Error(t, err)
}

func TestParseSentimentLabel(t *testing.T) {
	for _, l := range SentimentLabels() {
		label, err := ParseSentimentLabel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, label)
	}

	_, err := ParseSentimentLabel("positive")
	assert.Error(t, err)
}
