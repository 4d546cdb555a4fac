package dup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePatchEmpty(t *testing.T) {
	assert.Nil(t, parsePatch(""))
}

func TestParsePatchAddedLinesGetPostImageNumbers(t *testing.T) {
	patch := "@@ -10,3 +20,4 @@\n" +
		" context line\n" +
		"+added one\n" +
		"+added two\n" +
		"-removed line\n" +
		" trailing context\n"

	added := parsePatch(patch)

	assert.Equal(t, []AddedLine{
		{LineNumber: 21, Content: "added one"},
		{LineNumber: 22, Content: "added two"},
	}, added)
}

func TestParsePatchResetsCursorOnEachHunk(t *testing.T) {
	patch := "@@ -1,2 +1,2 @@\n" +
		"+first\n" +
		"@@ -50,2 +80,2 @@\n" +
		"+second\n"

	added := parsePatch(patch)

	assert.Equal(t, []AddedLine{
		{LineNumber: 1, Content: "first"},
		{LineNumber: 80, Content: "second"},
	}, added)
}

func TestParsePatchMalformedHeaderLeavesCursorUnchanged(t *testing.T) {
	patch := "@@ not a real header @@\n+line after bad header\n"

	added := parsePatch(patch)

	assert.Equal(t, []AddedLine{
		{LineNumber: 0, Content: "line after bad header"},
	}, added)
}

func TestParsePatchIgnoresFileHeaders(t *testing.T) {
	patch := "--- a/file.go\n+++ b/file.go\n@@ -1,1 +1,1 @@\n+only line\n"

	added := parsePatch(patch)

	assert.Equal(t, []AddedLine{{LineNumber: 1, Content: "only line"}}, added)
}
