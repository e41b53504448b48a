package ai

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/recipebox/internal/recipes/domain"
	"gopkg.in/yaml.v3"
)

const maxTitleRunes = 120

var typeTagRE = regexp.MustCompile(`(?i)\[\[TYPE:(QUESTION|CONFIRM|RECIPE)\]\]\s*$`)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// Keywords drive classification of replies that carry no type tag.
type Keywords struct {
	MinRecipeSections int                 `yaml:"min_recipe_sections"`
	RecipeSections    map[string][]string `yaml:"recipe_sections"`
	Confirm           []string            `yaml:"confirm"`
}

// ParseKeywords reads a keyword file in the embedded format.
func ParseKeywords(data []byte) (Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("parse keywords: %w", err)
	}
	if kw.MinRecipeSections <= 0 {
		kw.MinRecipeSections = 2
	}
	return kw, nil
}

// DefaultKeywords returns the embedded keyword lists.
func DefaultKeywords() Keywords {
	kw, err := ParseKeywords(defaultKeywordsYAML)
	if err != nil {
		panic(err)
	}
	return kw
}

// Classify decides the reply type and returns the text with any tag removed.
func (kw Keywords) Classify(text string) (domain.ReplyType, string) {
	text = strings.TrimSpace(text)

	if m := typeTagRE.FindStringSubmatch(text); m != nil {
		cleaned := strings.TrimSpace(typeTagRE.ReplaceAllString(text, ""))
		switch strings.ToUpper(m[1]) {
		case "RECIPE":
			return domain.ReplyRecipe, cleaned
		case "CONFIRM":
			return domain.ReplyConfirm, cleaned
		default:
			return domain.ReplyQuestion, cleaned
		}
	}

	lower := strings.ToLower(text)
	sections := 0
	for _, words := range kw.RecipeSections {
		if containsAny(lower, words) {
			sections++
		}
	}
	switch {
	case sections >= kw.MinRecipeSections:
		return domain.ReplyRecipe, text
	case containsAny(lower, kw.Confirm):
		return domain.ReplyConfirm, text
	}
	return domain.ReplyQuestion, text
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if w != "" && strings.Contains(s, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// Title is the first non-empty line of a recipe reply, nil for other types.
func Title(t domain.ReplyType, cleaned string) *string {
	if t != domain.ReplyRecipe {
		return nil
	}
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleRunes {
			line = string([]rune(line)[:maxTitleRunes])
		}
		return &line
	}
	return nil
}
