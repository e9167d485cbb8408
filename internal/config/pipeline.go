package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rbaliester/flowdesk/internal/entity"
)

// CategoryRule maps a product/service category to its trigger keywords.
// Rules are ordered: the first category with a keyword hit wins.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// PipelineConfig is the data the pipeline would otherwise hard-code: category
// keyword tables and the board title candidate lists. New categories are a
// config change, not a code change.
type PipelineConfig struct {
	// SubjectCategories match against the email subject.
	SubjectCategories []CategoryRule `yaml:"subject_categories"`
	// IndustryCategories match against the derived company name when the
	// subject gave nothing.
	IndustryCategories []CategoryRule `yaml:"industry_categories"`
	// BoardTitles overrides the candidate title lists per board role.
	BoardTitles map[entity.BoardRole][]string `yaml:"board_titles"`
}

// DefaultCategory is returned when no keyword table matches.
const DefaultCategory = "General Inquiry"

func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		SubjectCategories: []CategoryRule{
			{Category: "Tank Cleaning", Keywords: []string{"tank", "cleaning", "maintenance", "vessel", "degassing"}},
			{Category: "Industrial Equipment", Keywords: []string{"equipment", "machinery", "pump", "valve", "compressor", "spare part"}},
			{Category: "Chemical Supply", Keywords: []string{"chemical", "solvent", "coating", "lubricant", "additive"}},
			{Category: "Logistics Services", Keywords: []string{"logistics", "transport", "shipping", "freight", "warehousing"}},
			{Category: "Safety & Compliance", Keywords: []string{"safety", "compliance", "inspection", "audit", "certification"}},
		},
		IndustryCategories: []CategoryRule{
			{Category: "Tank Cleaning", Keywords: []string{"petroleum", "refinery", "oil", "gas", "terminal"}},
			{Category: "Chemical Supply", Keywords: []string{"chemical", "pharma", "laboratory"}},
			{Category: "Logistics Services", Keywords: []string{"logistics", "shipping", "freight", "cargo"}},
			{Category: "Industrial Equipment", Keywords: []string{"manufacturing", "engineering", "industrial", "machinery"}},
		},
		BoardTitles: entity.DefaultBoardTitles,
	}
}

// LoadPipelineConfig reads the YAML at path, filling any omitted section from
// the defaults. An empty path returns the defaults unchanged.
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline config: %w", err)
	}

	var loaded PipelineConfig
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return nil, fmt.Errorf("parse pipeline config: %w", err)
	}

	if len(loaded.SubjectCategories) > 0 {
		cfg.SubjectCategories = loaded.SubjectCategories
	}
	if len(loaded.IndustryCategories) > 0 {
		cfg.IndustryCategories = loaded.IndustryCategories
	}
	for role, titles := range loaded.BoardTitles {
		if len(titles) > 0 {
			cfg.BoardTitles[role] = titles
		}
	}
	return cfg, nil
}
