package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "golden_gate_bridge", Slugify("  The Golden  Gate Bridge! "))
	assert.Equal(t, "cat", Slugify("cat"))
	assert.Equal(t, "a_b-c", Slugify("a b-c"))
	assert.Equal(t, "", Slugify("!!!"))
	assert.Equal(t, "", Slugify(""))
}

func TestSingularize(t *testing.T) {
	cases := map[string]string{
		"cats":    "cat",
		"berries": "berry",
		"glasses": "glass",
		"buses":   "bus", // ...ses trims the trailing "es"
		"glass":   "glass",
		"bus":     "bus", // too short to touch
		"ies":     "ies",
		"s":       "s",
	}
	for in, want := range cases {
		assert.Equal(t, want, Singularize(in), "Singularize(%q)", in)
	}
}

func TestNiceRoundWeight(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 1},
		{1, 1},
		{0.4, 1},
		{1.4, 1},
		{1.5, 2},
		{3.4, 2},
		{3.5, 5},
		{7.4, 5},
		{7.5, 10},
		{12, 10},
		{149, 100},
		{160, 200},
		{2_000_000, 2_000_000},
		{8_000_000, 10_000_000},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NiceRoundWeight(c.in), "NiceRoundWeight(%v)", c.in)
	}
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "cat", Canonicalize("The Cats"))
	assert.Equal(t, "cat", Canonicalize("2 cats"))
	assert.Equal(t, "golden_gate_bridge", Canonicalize("the Golden Gate Bridge"))
	assert.Equal(t, "unknown_item", Canonicalize("  !!! "))
	assert.Equal(t, "unknown_item", Canonicalize(""))
	// Leading article is only stripped at the front.
	assert.Equal(t, "house_of_the_rising_sun", Canonicalize("A House of the Rising Sun"))
}

func TestCanonicalizeIdempotent(t *testing.T) {
	samples := []string{
		"cat", "cats", "The Golden Gate Bridge", "500g rice", "a bicycle",
		"unknown_item", "  spaced   out  thing ", "berries", "",
	}
	for _, s := range samples {
		once := Canonicalize(s)
		assert.Equal(t, once, Canonicalize(once), "Canonicalize not idempotent for %q", s)
	}
}
