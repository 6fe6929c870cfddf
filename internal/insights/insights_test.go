package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOneOfEach(t *testing.T) {
	got := Classify([]string{"I feel stuck and don't know why", "big win today", "so scattered"})

	require.Len(t, got, 3)
	assert.Equal(t, Cluster{
		Name:  "Rumination",
		Tip:   "Challenge: Is this thought a fact, or just a feeling?",
		Texts: []string{"I feel stuck and don't know why"},
	}, got[0])
	assert.Equal(t, Cluster{
		Name:  "Progress",
		Tip:   "Great! What helped create this shift?",
		Texts: []string{"big win today"},
	}, got[1])
	assert.Equal(t, Cluster{
		Name:  "Overwhelm",
		Tip:   "Break one overwhelming thing into a tiny step.",
		Texts: []string{"so scattered"},
	}, got[2])
}

func TestClassifyNoMatches(t *testing.T) {
	assert.Empty(t, Classify([]string{"nothing special"}))
	assert.Empty(t, Classify(nil))
}

func TestClassifyFirstMatchWins(t *testing.T) {
	got := Classify([]string{"I'm stuck but it's a win"})
	require.Len(t, got, 1)
	assert.Equal(t, "Rumination", got[0].Name)
	assert.Equal(t, []string{"I'm stuck but it's a win"}, got[0].Texts)
}

func TestClassifyCaseInsensitiveAndOrdered(t *testing.T) {
	texts := []string{"Feeling SCATTERED", "WHY me", "Doing Better", "overwhelmed again", "why not"}
	got := Classify(texts)

	require.Len(t, got, 3)
	assert.Equal(t, "Rumination", got[0].Name)
	assert.Equal(t, []string{"WHY me", "why not"}, got[0].Texts)
	assert.Equal(t, "Progress", got[1].Name)
	assert.Equal(t, []string{"Doing Better"}, got[1].Texts)
	assert.Equal(t, "Overwhelm", got[2].Name)
	assert.Equal(t, []string{"Feeling SCATTERED", "overwhelmed again"}, got[2].Texts)
}

func TestClassifyOmitsEmptyCategories(t *testing.T) {
	got := Classify([]string{"a small win", "nothing"})
	require.Len(t, got, 1)
	assert.Equal(t, "Progress", got[0].Name)
}

func TestClassifySubstringSemantics(t *testing.T) {
	// "window" contains "win"; matching is plain substring search.
	got := Classify([]string{"cleaned the window"})
	require.Len(t, got, 1)
	assert.Equal(t, "Progress", got[0].Name)
}

func TestClassifyIsIdempotentAndDoesNotMutate(t *testing.T) {
	texts := []string{"Stuck", "win", "meh"}
	before := append([]string(nil), texts...)

	assert.Equal(t, Classify(texts), Classify(texts))
	assert.Equal(t, before, texts)
}

func TestTip(t *testing.T) {
	assert.Equal(t, "Great! What helped create this shift?", Tip("Progress"))
	assert.Equal(t, "", Tip("Unknown"))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 10))
	assert.Equal(t, "abc…", Preview("abcdef", 3))
	assert.Equal(t, "héé…", Preview("hééllo", 3))
	assert.Equal(t, "whole", Preview("whole", 0))
}
