// Package requirements implements the boolean eligibility algebra awards are
// defined over: leaf predicates that query a user's activity snapshot, and
// Not/And/Or combinators composing them into compound rules. Requirements are
// immutable after construction and free of side effects.
package requirements

import (
	"context"

	"awardkit/core"
)

// Requirement is a boolean-valued eligibility rule over a user's activity.
type Requirement interface {
	CheckEligible(ctx context.Context, s core.Snapshot) (bool, error)
}

type not struct{ r Requirement }

type and struct{ lhs, rhs Requirement }

type or struct{ lhs, rhs Requirement }

// Not negates a requirement.
func Not(r Requirement) Requirement { return not{r: r} }

// And is eligible iff both children are eligible. Evaluation short-circuits
// on the first false child; children are side-effect-free so order does not
// matter for correctness.
func And(lhs, rhs Requirement) Requirement { return and{lhs: lhs, rhs: rhs} }

// Or is eligible iff either child is eligible.
func Or(lhs, rhs Requirement) Requirement { return or{lhs: lhs, rhs: rhs} }

func (n not) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	ok, err := n.r.CheckEligible(ctx, s)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (a and) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	ok, err := a.lhs.CheckEligible(ctx, s)
	if err != nil || !ok {
		return false, err
	}
	return a.rhs.CheckEligible(ctx, s)
}

func (o or) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	ok, err := o.lhs.CheckEligible(ctx, s)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return o.rhs.CheckEligible(ctx, s)
}
