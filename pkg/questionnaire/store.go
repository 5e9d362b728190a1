// pkg/questionnaire/store.go
package questionnaire

import (
	"fmt"
	"sort"
)

// Store is the validated, read-only questionnaire and tone matrix.
// Accessors return copies so a *Store can be shared across goroutines.
type Store struct {
	def        *Definition
	tone       ToneMatrix
	index      map[string]questionRef
	tierLabels []string
}

type questionRef struct {
	category string
	question Question
}

// QuestionsDocument is the public questionnaire view. Assessment groups
// questions by category name for clients that render sections.
type QuestionsDocument struct {
	Version    string                `json:"version"`
	Tiers      TierBands             `json:"tiers"`
	Categories []Category            `json:"categories"`
	Assessment map[string][]Question `json:"assessment"`
}

// New validates def and tone and takes private copies of both.
func New(def *Definition, tone ToneMatrix) (*Store, error) {
	if def == nil {
		return nil, fmt.Errorf("questionnaire definition is nil")
	}
	d := def.clone()
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("invalid questionnaire: %w", err)
	}
	if err := tone.validate(); err != nil {
		return nil, fmt.Errorf("invalid tone matrix: %w", err)
	}

	s := &Store{
		def:   d,
		tone:  tone.clone(),
		index: make(map[string]questionRef),
	}

	seen := make(map[string]bool)
	addLabels := func(b TierBands) {
		for _, l := range b.Labels() {
			if !seen[l] {
				seen[l] = true
				s.tierLabels = append(s.tierLabels, l)
			}
		}
	}
	addLabels(d.Tiers)
	for _, c := range d.Categories {
		addLabels(c.Tiers)
		for _, q := range c.Questions {
			s.index[q.ID] = questionRef{category: c.Name, question: q}
		}
	}
	return s, nil
}

func (s *Store) Version() string { return s.def.Version }

// Categories returns the categories in configuration order.
func (s *Store) Categories() []Category {
	out := make([]Category, len(s.def.Categories))
	for i, c := range s.def.Categories {
		out[i] = c.clone()
	}
	return out
}

// Lookup returns the question with id and the name of its category.
func (s *Store) Lookup(id string) (Question, string, bool) {
	ref, ok := s.index[id]
	if !ok {
		return Question{}, "", false
	}
	return ref.question.clone(), ref.category, true
}

func (s *Store) GlobalTiers() TierBands {
	return append(TierBands(nil), s.def.Tiers...)
}

// TiersFor returns the category's own bands, or the global bands.
func (s *Store) TiersFor(category string) TierBands {
	for _, c := range s.def.Categories {
		if c.Name == category && len(c.Tiers) > 0 {
			return append(TierBands(nil), c.Tiers...)
		}
	}
	return s.GlobalTiers()
}

// TierLabels lists every configured tier label, global bands first.
func (s *Store) TierLabels() []string {
	return append([]string(nil), s.tierLabels...)
}

// Tone returns the exact tone matrix entry, if any.
func (s *Store) Tone(catalyst, category, tier string) (string, bool) {
	text, ok := s.tone[catalyst][category][tier]
	return text, ok
}

func (s *Store) Catalysts() []string {
	out := make([]string, 0, len(s.tone))
	for k := range s.tone {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Store) ToneMatrix() ToneMatrix { return s.tone.clone() }

func (s *Store) Definition() *Definition { return s.def.clone() }

func (s *Store) QuestionsDocument() QuestionsDocument {
	d := s.def.clone()
	doc := QuestionsDocument{
		Version:    d.Version,
		Tiers:      d.Tiers,
		Categories: d.Categories,
		Assessment: make(map[string][]Question, len(d.Categories)),
	}
	for _, c := range s.def.Categories {
		doc.Assessment[c.Name] = c.clone().Questions
	}
	return doc
}

// MissingFallbacks lists categories with no default/<category>/default
// entry. Recommendations for those can fail for unlisted catalysts or tiers.
func (s *Store) MissingFallbacks() []string {
	var missing []string
	for _, c := range s.def.Categories {
		if _, ok := s.tone[DefaultKey][c.Name][DefaultKey]; !ok {
			missing = append(missing, c.Name)
		}
	}
	return missing
}
