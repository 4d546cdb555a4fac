// Package config loads optional on-disk overrides for the analyzer's
// thresholds and an ignore list of blocked pattern hashes. Nothing in
// pkg/dup depends on this package; it exists purely for the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/patchdup/patchdup/pkg/dup"
)

// Thresholds mirrors the subset of dup.Config exposed to a YAML override
// file.
type Thresholds struct {
	MinBlockSize               int     `koanf:"min_block_size"`
	SimilarityThreshold        float64 `koanf:"similarity_threshold"`
	ClusterSimilarityThreshold float64 `koanf:"cluster_similarity_threshold"`
	OverlapSlack               int     `koanf:"overlap_slack"`
	HighSeverityPercent        float64 `koanf:"high_severity_percent"`
	MediumSeverityPercent      float64 `koanf:"medium_severity_percent"`
}

// Config is the on-disk shape of a patchdup.yaml file.
type Config struct {
	Thresholds Thresholds `koanf:"thresholds"`
	// Ignore lists pattern hashes (ClusteredFinding.PatternHash values, or
	// dup.Fingerprint of a pairwise-only finding's Code) to drop from a report after
	// Analyze returns. The scanner's analogue is ignore.json /
	// LoadIgnoredHashes.
	Ignore []string `koanf:"ignore"`
}

func defaultsFrom(c dup.Config) Thresholds {
	return Thresholds{
		MinBlockSize:               c.MinBlockSize,
		SimilarityThreshold:        c.SimilarityThreshold,
		ClusterSimilarityThreshold: c.ClusterSimilarityThreshold,
		OverlapSlack:               c.OverlapSlack,
		HighSeverityPercent:        c.HighSeverityPercent,
		MediumSeverityPercent:      c.MediumSeverityPercent,
	}
}

// Load reads a YAML config file into Config, seeded with dup.DefaultConfig
// values so a partially-specified file only overrides what it names.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := &Config{Thresholds: defaultsFrom(dup.DefaultConfig())}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault searches the standard file names and falls back to
// dup.DefaultConfig with no ignore list if none is found. Absence of a
// config file is never an error.
func LoadOrDefault(searchDir string) *Config {
	names := []string{"patchdup.yaml", "patchdup.yml", ".patchdup.yaml", ".patchdup.yml"}
	for _, name := range names {
		path := filepath.Join(searchDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return &Config{Thresholds: defaultsFrom(dup.DefaultConfig())}
}

// Options converts the loaded thresholds into dup.Options for dup.New.
func (c *Config) Options() []dup.Option {
	t := c.Thresholds
	return []dup.Option{
		dup.WithMinBlockSize(t.MinBlockSize),
		dup.WithSimilarityThreshold(t.SimilarityThreshold),
		dup.WithClusterSimilarityThreshold(t.ClusterSimilarityThreshold),
		func(dc *dup.Config) {
			dc.OverlapSlack = t.OverlapSlack
			dc.HighSeverityPercent = t.HighSeverityPercent
			dc.MediumSeverityPercent = t.MediumSeverityPercent
		},
	}
}

// IgnoreSet returns the configured ignore list as a lookup set.
func (c *Config) IgnoreSet() map[string]bool {
	set := make(map[string]bool, len(c.Ignore))
	for _, h := range c.Ignore {
		set[h] = true
	}
	return set
}

// FilterIgnored removes findings whose PatternHash (or, for pairwise-only
// findings, the fingerprint of their Code) is in the ignore set. This
// runs strictly outside pkg/dup, after Analyze has already returned, per
// SPEC_FULL.md's supplemented-features note that the core stays
// input-only.
func FilterIgnored(findings []dup.ClusteredFinding, ignored map[string]bool) []dup.ClusteredFinding {
	if len(ignored) == 0 {
		return findings
	}
	out := make([]dup.ClusteredFinding, 0, len(findings))
	for _, f := range findings {
		hash := f.PatternHash
		if hash == "" {
			hash = dup.Fingerprint(f.Code)
		}
		if ignored[hash] {
			continue
		}
		out = append(out, f)
	}
	return out
}
