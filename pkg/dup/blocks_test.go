package dup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func addedPatch(startLine int, lines ...string) string {
	body := "@@ -1,1 +" + itoa(startLine) + ",1 @@\n"
	for _, l := range lines {
		body += "+" + l + "\n"
	}
	return body
}

func itoa(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var sb strings.Builder
	var stack []byte
	for n > 0 {
		stack = append(stack, digits[n%10])
		n /= 10
	}
	for i := len(stack) - 1; i >= 0; i-- {
		sb.WriteByte(stack[i])
	}
	return sb.String()
}

func tenNonTrivialLines(prefix string) []string {
	lines := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		lines = append(lines, prefix+" line number filler content goes here "+itoa(i))
	}
	return lines
}

func TestExtractBlocksSkipsFilteredFilenames(t *testing.T) {
	cfg := DefaultConfig()
	f := FileDescriptor{
		Filename: "data.json",
		Patch:    addedPatch(1, tenNonTrivialLines("x")...),
	}
	assert.Empty(t, cfg.extractBlocks(f))
}

func TestExtractBlocksSkipsFilesShorterThanMinBlockSize(t *testing.T) {
	cfg := DefaultConfig()
	f := FileDescriptor{
		Filename: "main.go",
		Patch:    addedPatch(1, "one short line"),
	}
	assert.Empty(t, cfg.extractBlocks(f))
}

func TestExtractBlocksProducesSlidingWindows(t *testing.T) {
	cfg := DefaultConfig()
	lines := tenNonTrivialLines("alpha")
	f := FileDescriptor{Filename: "main.go", Patch: addedPatch(1, lines...)}

	blocks := cfg.extractBlocks(f)

	assert.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].Lines.Start)
	assert.Equal(t, 10, blocks[0].Lines.End)
}

func TestExtractBlocksDiscardsTrivialWindows(t *testing.T) {
	cfg := DefaultConfig()
	lines := []string{"{", "}", "(", ")", "{", "}", "(", ")", "{", "}"}
	f := FileDescriptor{Filename: "main.go", Patch: addedPatch(1, lines...)}

	assert.Empty(t, cfg.extractBlocks(f))
}
