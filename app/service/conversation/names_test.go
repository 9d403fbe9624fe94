package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNameCandidate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Add contact John Smith, phone 555-1234", "John Smith"},
		{"Sarah Williams", "Sarah Williams"},
		{"Sarah", "Sarah"},
		{"Schedule showing at 789 Pine Ave Saturday 10am", ""},
		{"789 Pine Ave", ""},
		{"321 Elm St", ""},
		{"yes", ""},
		{"", ""},
		{"set a reminder for tomorrow", ""},
		{"meet Maria Garcia at 321 Elm St", "Maria Garcia"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNameCandidate(tt.text))
		})
	}
}

func TestNameTokens_ExcludesAddresses(t *testing.T) {
	tokens := NameTokens("meet Sarah at 789 Pine Ave tomorrow")

	assert.Contains(t, tokens, "Sarah")
	assert.NotContains(t, tokens, "Pine")
	assert.NotContains(t, tokens, "Ave")
	assert.NotContains(t, tokens, "789")
}

func TestNameTokens_SuffixVariants(t *testing.T) {
	for _, text := range []string{
		"100 Main St",
		"100 Main St.",
		"100 Oak Blvd",
		"42 Cherry Ln",
		"9 River Rd",
	} {
		assert.Empty(t, NameTokens(text), text)
	}
}

func TestIsAffirmation(t *testing.T) {
	assert.True(t, IsAffirmation("yes"))
	assert.True(t, IsAffirmation("Yes!"))
	assert.True(t, IsAffirmation("ok"))
	assert.True(t, IsAffirmation("sí"))
	assert.False(t, IsAffirmation("yes please do that"))
	assert.False(t, IsAffirmation("no"))
}

func TestOrdinalIndex(t *testing.T) {
	index, ok := OrdinalIndex("the first one")
	assert.True(t, ok)
	assert.Equal(t, 0, index)

	index, ok = OrdinalIndex("second")
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	index, ok = OrdinalIndex("3rd")
	assert.True(t, ok)
	assert.Equal(t, 2, index)

	_, ok = OrdinalIndex("cancel everything")
	assert.False(t, ok)
}

func TestRefersToLast(t *testing.T) {
	assert.True(t, RefersToLast("cancel the last one"))
	assert.True(t, RefersToLast("the most recent appointment"))
	assert.False(t, RefersToLast("the first one"))
}

func TestIsSelectAll(t *testing.T) {
	assert.True(t, IsSelectAll("both"))
	assert.True(t, IsSelectAll("all of them"))
	assert.False(t, IsSelectAll("the first one"))
}
