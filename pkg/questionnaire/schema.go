// pkg/questionnaire/schema.go
package questionnaire

// DefaultKey is the tone matrix wildcard for catalyst and tier.
const DefaultKey = "default"

type Definition struct {
	Version    string     `json:"version" yaml:"version"`
	Tiers      TierBands  `json:"tiers" yaml:"tiers"`
	Categories []Category `json:"categories" yaml:"categories"`
}

type Category struct {
	Name      string     `json:"name" yaml:"name"`
	Weight    float64    `json:"weight" yaml:"weight"`
	Tiers     TierBands  `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	Questions []Question `json:"questions" yaml:"questions"`
}

type Question struct {
	ID           string            `json:"id" yaml:"id"`
	Prompt       string            `json:"question" yaml:"question"`
	ScoringScale map[string]string `json:"scoring_scale" yaml:"scoring_scale"`
	ScaleMin     float64           `json:"scale_min,omitempty" yaml:"scale_min,omitempty"`
	ScaleMax     float64           `json:"scale_max,omitempty" yaml:"scale_max,omitempty"`
}

// TierBand covers [Min, Max); the last band of a table also includes Max.
type TierBand struct {
	Label string  `json:"label" yaml:"label"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

type TierBands []TierBand

// ToneMatrix maps catalyst -> category -> tier -> recommendation template.
type ToneMatrix map[string]map[string]map[string]string

// Tier returns the label of the band containing score. Scores outside
// [0,100] are clamped first.
func (b TierBands) Tier(score float64) string {
	if len(b) == 0 {
		return ""
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	last := len(b) - 1
	for i, band := range b {
		if score >= band.Min && (score < band.Max || (i == last && score <= band.Max)) {
			return band.Label
		}
	}
	return b[last].Label
}

// Labels returns band labels in band order.
func (b TierBands) Labels() []string {
	labels := make([]string, len(b))
	for i, band := range b {
		labels[i] = band.Label
	}
	return labels
}

func (d *Definition) clone() *Definition {
	out := &Definition{
		Version:    d.Version,
		Tiers:      append(TierBands(nil), d.Tiers...),
		Categories: make([]Category, len(d.Categories)),
	}
	for i, c := range d.Categories {
		out.Categories[i] = c.clone()
	}
	return out
}

func (c Category) clone() Category {
	out := c
	out.Tiers = append(TierBands(nil), c.Tiers...)
	out.Questions = make([]Question, len(c.Questions))
	for i, q := range c.Questions {
		out.Questions[i] = q.clone()
	}
	return out
}

func (q Question) clone() Question {
	out := q
	out.ScoringScale = make(map[string]string, len(q.ScoringScale))
	for k, v := range q.ScoringScale {
		out.ScoringScale[k] = v
	}
	return out
}

func (m ToneMatrix) clone() ToneMatrix {
	out := make(ToneMatrix, len(m))
	for catalyst, categories := range m {
		cc := make(map[string]map[string]string, len(categories))
		for category, tiers := range categories {
			tc := make(map[string]string, len(tiers))
			for tier, text := range tiers {
				tc[tier] = text
			}
			cc[category] = tc
		}
		out[catalyst] = cc
	}
	return out
}
