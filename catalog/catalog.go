// Package catalog holds the declarative award specification registry: one
// Spec per (code, tier), each carrying display text, a removability flag, and
// the eligibility requirement for that tier. The catalogue is built once at
// startup and passed explicitly to the engine; nothing here is global state.
package catalog

import (
	"fmt"
	"sort"

	"awardkit/core"
	"awardkit/requirements"
)

// Spec declares one tier of one award. All specs sharing a Code must have
// distinct Tier values and the same Position. Tier 0 marks a one-shot,
// non-leveled award.
type Spec struct {
	Code             core.AwardCode
	Tier             int
	Position         int
	Title            string
	Description      string
	GuideDescription string
	CanBeRemoved     bool
	Requirement      requirements.Requirement
}

// Catalog is an immutable, validated collection of award specs.
type Catalog struct {
	specs  []Spec
	byCode map[core.AwardCode][]Spec
	codes  []core.AwardCode
}

// New builds a Catalog from specs, failing fast on catalogue-level integrity
// violations: an invalid code, a duplicate (code, tier), specs of one code
// disagreeing on position, or display positions not covering 1..N densely.
// These are programming errors in the award definitions, not runtime
// conditions.
func New(specs []Spec) (Catalog, error) {
	byCode := make(map[core.AwardCode][]Spec)
	positionByCode := make(map[core.AwardCode]int)
	for _, s := range specs {
		if err := core.ValidateAwardCode(s.Code); err != nil {
			return Catalog{}, fmt.Errorf("spec %q: %w", s.Code, err)
		}
		if s.Requirement == nil {
			return Catalog{}, fmt.Errorf("spec %q tier %d: nil requirement", s.Code, s.Tier)
		}
		for _, prev := range byCode[s.Code] {
			if prev.Tier == s.Tier {
				return Catalog{}, fmt.Errorf("spec %q: duplicate tier %d", s.Code, s.Tier)
			}
		}
		if pos, ok := positionByCode[s.Code]; ok && pos != s.Position {
			return Catalog{}, fmt.Errorf("spec %q: conflicting positions %d and %d", s.Code, pos, s.Position)
		}
		positionByCode[s.Code] = s.Position
		byCode[s.Code] = append(byCode[s.Code], s)
	}

	// Distinct positions across codes must be exactly 1..N.
	seen := make(map[int]core.AwardCode, len(positionByCode))
	for code, pos := range positionByCode {
		if other, dup := seen[pos]; dup {
			return Catalog{}, fmt.Errorf("specs %q and %q share position %d", other, code, pos)
		}
		seen[pos] = code
	}
	for i := 1; i <= len(positionByCode); i++ {
		if _, ok := seen[i]; !ok {
			return Catalog{}, fmt.Errorf("no spec at position %d", i)
		}
	}

	codes := make([]core.AwardCode, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
		sort.Slice(byCode[code], func(i, j int) bool {
			return byCode[code][i].Tier < byCode[code][j].Tier
		})
	}
	sort.Slice(codes, func(i, j int) bool {
		return positionByCode[codes[i]] < positionByCode[codes[j]]
	})

	out := make([]Spec, len(specs))
	copy(out, specs)
	return Catalog{specs: out, byCode: byCode, codes: codes}, nil
}

// MustNew is New panicking on error, for source-declared catalogues.
func MustNew(specs []Spec) Catalog {
	c, err := New(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// Specs returns all specs in declaration order.
func (c Catalog) Specs() []Spec {
	out := make([]Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Codes returns the distinct award codes in display-position order.
func (c Catalog) Codes() []core.AwardCode {
	out := make([]core.AwardCode, len(c.codes))
	copy(out, c.codes)
	return out
}

// SpecsFor returns the specs sharing code, sorted by ascending tier.
func (c Catalog) SpecsFor(code core.AwardCode) []Spec {
	specs := c.byCode[code]
	out := make([]Spec, len(specs))
	copy(out, specs)
	return out
}

// Len returns the number of specs (tiers, not codes).
func (c Catalog) Len() int { return len(c.specs) }
