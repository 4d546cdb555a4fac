package dup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsLineComments(t *testing.T) {
	assert.Equal(t, "x := 1", normalize("x := 1 // a trailing comment"))
}

func TestNormalizeStripsBlockCommentsAcrossLines(t *testing.T) {
	raw := "a := 1\n/* this\nspans lines */\nb := 2"
	assert.Equal(t, "a := 1 b := 2", normalize(raw))
}

func TestNormalizeElidesStringLiteralsOfEachQuoteStyle(t *testing.T) {
	assert.Equal(t, `fmt.println("")`, normalize(`fmt.Println("hello world")`))
	assert.Equal(t, `x := ''`, normalize(`x := 'y'`))
	assert.Equal(t, "q := ``", normalize("q := `raw`"))
}

func TestNormalizeHonorsEscapesInsideLiterals(t *testing.T) {
	assert.Equal(t, `s := ""`, normalize(`s := "escaped \" quote"`))
}

func TestNormalizeCollapsesWhitespaceAndLowercases(t *testing.T) {
	assert.Equal(t, "foo bar", normalize("  FOO\t\n  BAR  "))
}

func TestFingerprintIsStableAndContentAddressed(t *testing.T) {
	a := fingerprint(normalize("same code"))
	b := fingerprint(normalize("same code"))
	c := fingerprint(normalize("different code"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
