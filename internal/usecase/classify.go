package usecase

import (
	"strings"

	"github.com/rbaliester/flowdesk/internal/config"
)

// Classifier maps free-text subject/company strings onto the fixed category
// set using the configured keyword tables. Pure string matching, no I/O.
type Classifier struct {
	subject  []config.CategoryRule
	industry []config.CategoryRule
}

func NewClassifier(cfg *config.PipelineConfig) *Classifier {
	return &Classifier{
		subject:  cfg.SubjectCategories,
		industry: cfg.IndustryCategories,
	}
}

// DetermineProductCategory returns the first category whose keywords hit the
// subject; failing that, the first industry category hitting the company name;
// failing that, the default category.
func (c *Classifier) DetermineProductCategory(subject, companyName string) string {
	if category := matchRules(c.subject, subject); category != "" {
		return category
	}
	if category := matchRules(c.industry, companyName); category != "" {
		return category
	}
	return config.DefaultCategory
}

func matchRules(rules []config.CategoryRule, text string) string {
	lowered := strings.ToLower(text)
	if lowered == "" {
		return ""
	}
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return rule.Category
			}
		}
	}
	return ""
}
