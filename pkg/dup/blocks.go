package dup

import (
	"regexp"
	"strings"
)

var classAttrRe = regexp.MustCompile(`classname|class=`)

// shouldSkip reports whether filename matches any configured skip
// pattern. Matching is case-sensitive.
func (c Config) shouldSkip(filename string) bool {
	for _, p := range c.SkipPatterns {
		if p.MatchString(filename) {
			return true
		}
	}
	return false
}

// isTrivial filters out normalized blocks too short or too boilerplate
// (import statements, bare braces, markup-heavy fragments) to be a
// meaningful duplication signal.
func isTrivial(normalized string) bool {
	if len(normalized) < 30 {
		return true
	}
	if len(classAttrRe.FindAllString(normalized, -1)) > 2 && len(normalized) < 100 {
		return true
	}
	if strings.HasPrefix(normalized, "import ") ||
		strings.HasPrefix(normalized, "export ") ||
		constRequireRe.MatchString(normalized) {
		return true
	}
	switch strings.TrimSpace(normalized) {
	case "{", "}", "(", ")":
		return true
	}
	return false
}

var constRequireRe = regexp.MustCompile(`^const\s+\w+\s*=\s*require`)

// extractBlocks runs stages 1-2 of the pipeline for a single file: parse
// the patch, slide a MinBlockSize window over the added lines, normalize
// and fingerprint each window, and discard trivial ones.
func (c Config) extractBlocks(file FileDescriptor) []Block {
	if c.shouldSkip(file.Filename) {
		return nil
	}
	if file.Patch == "" {
		return nil
	}

	lines := parsePatch(file.Patch)
	if len(lines) < c.MinBlockSize {
		return nil
	}

	var blocks []Block
	for i := 0; i <= len(lines)-c.MinBlockSize; i++ {
		window := lines[i : i+c.MinBlockSize]

		rawParts := make([]string, len(window))
		for j, l := range window {
			rawParts[j] = l.Content
		}
		rawCode := strings.Join(rawParts, "\n")
		normalizedCode := normalize(rawCode)

		if isTrivial(normalizedCode) {
			continue
		}

		blocks = append(blocks, Block{
			File: file.Filename,
			Lines: LineRange{
				Start: window[0].LineNumber,
				End:   window[len(window)-1].LineNumber,
			},
			RawCode:        rawCode,
			NormalizedCode: normalizedCode,
			Fingerprint:    fingerprint(normalizedCode),
		})
	}

	return blocks
}
