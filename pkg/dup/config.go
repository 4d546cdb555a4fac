package dup

import "regexp"

// Config holds the analyzer's tunable constants. The zero value is not
// meaningful; use DefaultConfig or New with Options.
type Config struct {
	MinBlockSize              int
	SimilarityThreshold       float64
	ClusterSimilarityThreshold float64
	OverlapSlack              int
	HighSeverityPercent       float64
	MediumSeverityPercent     float64
	SkipPatterns              []*regexp.Regexp
}

// Option configures an Analyzer constructed with New.
type Option func(*Config)

// WithMinBlockSize overrides the minimum added-line window size a block
// must span.
func WithMinBlockSize(n int) Option {
	return func(c *Config) { c.MinBlockSize = n }
}

// WithSimilarityThreshold overrides the fuzzy-pass similarity cutoff.
func WithSimilarityThreshold(t float64) Option {
	return func(c *Config) { c.SimilarityThreshold = t }
}

// WithClusterSimilarityThreshold overrides the raw-code similarity
// cutoff used when unioning pairs into clusters.
func WithClusterSimilarityThreshold(t float64) Option {
	return func(c *Config) { c.ClusterSimilarityThreshold = t }
}

// WithSkipPatterns replaces the default skip-filter pattern list.
func WithSkipPatterns(patterns []*regexp.Regexp) Option {
	return func(c *Config) { c.SkipPatterns = patterns }
}

var defaultSkipPatterns = mustCompileAll(
	`\.json$`, `\.md$`, `\.txt$`, `\.yaml$`, `\.yml$`, `\.lock$`,
	`package-lock\.json$`, `yarn\.lock$`, `\.min\.js$`, `\.test\.`,
	`\.spec\.`, `/__tests__/`, `/node_modules/`, `/dist/`, `/build/`,
)

func mustCompileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// DefaultConfig returns the analyzer's baseline thresholds and the
// default skip-pattern list.
func DefaultConfig() Config {
	return Config{
		MinBlockSize:               10,
		SimilarityThreshold:        0.85,
		ClusterSimilarityThreshold: 0.90,
		OverlapSlack:               2,
		HighSeverityPercent:        30,
		MediumSeverityPercent:      15,
		SkipPatterns:               defaultSkipPatterns,
	}
}

// Analyzer runs the duplication pipeline with a fixed Config. Analyze is
// the package-level convenience entry point using DefaultConfig.
type Analyzer struct {
	config Config
}

// New builds an Analyzer, applying Options over DefaultConfig.
func New(opts ...Option) *Analyzer {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Analyzer{config: cfg}
}

// Analyze runs the six-stage pipeline with the default configuration.
func Analyze(files []FileDescriptor) DuplicationReport {
	return New().Analyze(files)
}
