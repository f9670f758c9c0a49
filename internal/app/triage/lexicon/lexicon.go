// Package lexicon classifies free-text civic reports with static keyword
// tables: category, fallback sentiment, key phrases and a place-type hint.
//
// Classification is a pure function of the input text and the tables. The
// default tables ship embedded as lexicon.yaml.
package lexicon

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/dalemusser/adarshgram/internal/domain/models"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultTables []byte

// Tables is the on-disk shape of a lexicon.
type Tables struct {
	Priority      []string            `yaml:"priority"`
	Categories    map[string][]string `yaml:"categories"`
	Positive      []string            `yaml:"positive"`
	Negative      []string            `yaml:"negative"`
	Places        []string            `yaml:"places"`
	Stopwords     []string            `yaml:"stopwords"`
	MaxKeyPhrases int                 `yaml:"max_key_phrases"`
}

// Result is the outcome of classifying one text.
type Result struct {
	Category     string
	Sentiment    string
	KeyPhrases   []string
	LocationHint string // empty when no place term occurs
}

// term is a keyword split into lowercase words.
type term struct {
	text  string
	words []string
}

type category struct {
	name  string
	terms []term
}

// Classifier holds compiled tables. It is immutable and safe for concurrent use.
type Classifier struct {
	categories    []category // in priority order
	positive      []term
	negative      []term
	places        []term
	stopwords     map[string]struct{}
	maxKeyPhrases int
}

var (
	defaultOnce sync.Once
	defaultC    *Classifier
)

// Default returns the classifier built from the embedded tables.
func Default() *Classifier {
	defaultOnce.Do(func() {
		c, err := Parse(defaultTables)
		if err != nil {
			panic("lexicon: embedded tables invalid: " + err.Error())
		}
		defaultC = c
	})
	return defaultC
}

// Parse decodes YAML tables and compiles them.
func Parse(data []byte) (*Classifier, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("lexicon: decode tables: %w", err)
	}
	return New(t)
}

// New compiles t. The priority list must name every category exactly once,
// and keyword tables may only reference known categories.
func New(t Tables) (*Classifier, error) {
	if len(t.Priority) != len(models.Categories) {
		return nil, fmt.Errorf("lexicon: priority must list %d categories, got %d", len(models.Categories), len(t.Priority))
	}
	seen := make(map[string]bool, len(t.Priority))
	for _, name := range t.Priority {
		if !models.IsValidCategory(name) {
			return nil, fmt.Errorf("lexicon: unknown category %q in priority", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("lexicon: category %q listed twice in priority", name)
		}
		seen[name] = true
	}
	for name := range t.Categories {
		if !models.IsValidCategory(name) {
			return nil, fmt.Errorf("lexicon: unknown category %q in keyword table", name)
		}
	}

	c := &Classifier{
		positive:      compile(t.Positive),
		negative:      compile(t.Negative),
		places:        compile(t.Places),
		stopwords:     make(map[string]struct{}, len(t.Stopwords)),
		maxKeyPhrases: t.MaxKeyPhrases,
	}
	if c.maxKeyPhrases <= 0 {
		c.maxKeyPhrases = 5
	}
	for _, name := range t.Priority {
		c.categories = append(c.categories, category{name: name, terms: compile(t.Categories[name])})
	}
	for _, w := range t.Stopwords {
		c.stopwords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return c, nil
}

// Classify runs every lexicon analysis over text.
func (c *Classifier) Classify(text string) Result {
	words := tokenize(text)
	return Result{
		Category:     c.category(words),
		Sentiment:    c.sentiment(words),
		KeyPhrases:   c.keyPhrases(words),
		LocationHint: c.locationHint(words),
	}
}

// Category returns the best-scoring category for text, or "other".
func (c *Classifier) Category(text string) string {
	return c.category(tokenize(text))
}

// Sentiment returns the lexicon polarity of text.
func (c *Classifier) Sentiment(text string) string {
	return c.sentiment(tokenize(text))
}

// KeyPhrases returns up to the configured number of distinct non-stopword
// tokens, in order of first occurrence.
func (c *Classifier) KeyPhrases(text string) []string {
	return c.keyPhrases(tokenize(text))
}

// LocationHint returns the earliest place-type term in text, or "".
func (c *Classifier) LocationHint(text string) string {
	return c.locationHint(tokenize(text))
}

func (c *Classifier) category(words []string) string {
	best, bestScore := models.CategoryOther, 0
	for _, cat := range c.categories {
		score := 0
		for _, t := range cat.terms {
			score += countTerm(words, t)
		}
		// strict > keeps the earlier (higher priority) category on ties
		if score > bestScore {
			best, bestScore = cat.name, score
		}
	}
	return best
}

func (c *Classifier) sentiment(words []string) string {
	pos, neg := 0, 0
	for _, t := range c.positive {
		pos += countTerm(words, t)
	}
	for _, t := range c.negative {
		neg += countTerm(words, t)
	}
	switch {
	case neg > pos:
		return models.SentimentNegative
	case pos > neg:
		return models.SentimentPositive
	default:
		return models.SentimentNeutral
	}
}

func (c *Classifier) keyPhrases(words []string) []string {
	out := make([]string, 0, c.maxKeyPhrases)
	seen := make(map[string]bool)
	for _, w := range words {
		if len(out) == c.maxKeyPhrases {
			break
		}
		if len([]rune(w)) < 3 || seen[w] {
			continue
		}
		if _, stop := c.stopwords[w]; stop {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func (c *Classifier) locationHint(words []string) string {
	for i := range words {
		var hit *term
		for j := range c.places {
			p := &c.places[j]
			if matchAt(words, i, *p) && (hit == nil || len(p.words) > len(hit.words)) {
				hit = p
			}
		}
		if hit != nil {
			return hit.text
		}
	}
	return ""
}

/* ------------------------------ matching ------------------------------ */

func compile(raw []string) []term {
	out := make([]term, 0, len(raw))
	for _, r := range raw {
		words := tokenize(r)
		if len(words) == 0 {
			continue
		}
		out = append(out, term{text: strings.Join(words, " "), words: words})
	}
	return out
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countTerm(words []string, t term) int {
	n := 0
	for i := range words {
		if matchAt(words, i, t) {
			n++
		}
	}
	return n
}

// matchAt reports whether t occurs at words[i]. Leading words must match
// exactly; the last word matches as a prefix.
func matchAt(words []string, i int, t term) bool {
	if i+len(t.words) > len(words) {
		return false
	}
	last := len(t.words) - 1
	for k, tw := range t.words {
		w := words[i+k]
		if k == last {
			if !strings.HasPrefix(w, tw) {
				return false
			}
		} else if w != tw {
			return false
		}
	}
	return true
}
