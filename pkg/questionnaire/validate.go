// pkg/questionnaire/validate.go
package questionnaire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validate checks that a band table is ordered, starts at 0, ends at 100
// and leaves no gaps or overlaps.
func (b TierBands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if b[0].Min != 0 {
		return fmt.Errorf("first tier %q must start at 0, got %v", b[0].Label, b[0].Min)
	}
	if last := b[len(b)-1]; last.Max != 100 {
		return fmt.Errorf("last tier %q must end at 100, got %v", last.Label, last.Max)
	}

	seen := make(map[string]bool, len(b))
	for i, band := range b {
		if strings.TrimSpace(band.Label) == "" {
			return fmt.Errorf("tier %d has no label", i)
		}
		if seen[band.Label] {
			return fmt.Errorf("duplicate tier label %q", band.Label)
		}
		seen[band.Label] = true

		if band.Min >= band.Max {
			return fmt.Errorf("tier %q: min %v must be below max %v", band.Label, band.Min, band.Max)
		}
		if i > 0 && band.Min != b[i-1].Max {
			prev := b[i-1]
			if band.Min > prev.Max {
				return fmt.Errorf("gap between tier %q (ends %v) and %q (starts %v)", prev.Label, prev.Max, band.Label, band.Min)
			}
			return fmt.Errorf("tier %q overlaps %q", band.Label, prev.Label)
		}
	}
	return nil
}

// normalize fills ScaleMin/ScaleMax from the scoring scale keys when absent.
func (q *Question) normalize() error {
	if q.ScaleMax != 0 {
		return nil
	}
	if len(q.ScoringScale) == 0 {
		return fmt.Errorf("question %q: scoring_scale or scale_max required", q.ID)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for key := range q.ScoringScale {
		v, err := strconv.ParseFloat(strings.TrimSpace(key), 64)
		if err != nil {
			return fmt.Errorf("question %q: scale value %q is not numeric", q.ID, key)
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	q.ScaleMin, q.ScaleMax = lo, hi
	return nil
}

func (q Question) validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question without id")
	}
	if q.ScaleMin < 0 {
		return fmt.Errorf("question %q: scale minimum must not be negative", q.ID)
	}
	if q.ScaleMax <= 0 || q.ScaleMin >= q.ScaleMax {
		return fmt.Errorf("question %q: invalid scale [%v,%v]", q.ID, q.ScaleMin, q.ScaleMax)
	}
	return nil
}

func (d *Definition) validate() error {
	if err := d.Tiers.Validate(); err != nil {
		return fmt.Errorf("global tiers: %w", err)
	}
	if len(d.Categories) == 0 {
		return fmt.Errorf("questionnaire has no categories")
	}

	names := make(map[string]bool, len(d.Categories))
	ids := make(map[string]string)
	for ci := range d.Categories {
		c := &d.Categories[ci]
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("category %d has no name", ci)
		}
		if names[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		names[c.Name] = true

		if c.Weight <= 0 {
			return fmt.Errorf("category %q: weight must be positive", c.Name)
		}
		if len(c.Tiers) > 0 {
			if err := c.Tiers.Validate(); err != nil {
				return fmt.Errorf("category %q tiers: %w", c.Name, err)
			}
		}
		if len(c.Questions) == 0 {
			return fmt.Errorf("category %q has no questions", c.Name)
		}

		for qi := range c.Questions {
			q := &c.Questions[qi]
			if err := q.normalize(); err != nil {
				return err
			}
			if err := q.validate(); err != nil {
				return err
			}
			if owner, dup := ids[q.ID]; dup {
				return fmt.Errorf("question %q appears in %q and %q", q.ID, owner, c.Name)
			}
			ids[q.ID] = c.Name
		}
	}
	return nil
}

func (m ToneMatrix) validate() error {
	if len(m) == 0 {
		return fmt.Errorf("tone matrix is empty")
	}
	for catalyst, categories := range m {
		for category, tiers := range categories {
			for tier, text := range tiers {
				if strings.TrimSpace(text) == "" {
					return fmt.Errorf("tone entry %s/%s/%s is empty", catalyst, category, tier)
				}
			}
		}
	}
	return nil
}
