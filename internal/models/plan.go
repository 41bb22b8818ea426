package models

import "fmt"

type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

// PlanLimits describes what a plan unlocks. ValidityDays is zero for plans
// that never expire.
type PlanLimits struct {
	MaxPhotos    int
	HasYoutube   bool
	ValidityDays int
	PriceCents   int64
}

var planLimits = map[Plan]PlanLimits{
	PlanBasic: {
		MaxPhotos:    3,
		HasYoutube:   false,
		ValidityDays: 30,
		PriceCents:   2990,
	},
	PlanPremium: {
		MaxPhotos:    7,
		HasYoutube:   true,
		ValidityDays: 0,
		PriceCents:   4990,
	},
}

func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if _, ok := planLimits[p]; !ok {
		return "", fmt.Errorf("unknown plan %q", s)
	}
	return p, nil
}

func (p Plan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limits returns the limits for p. Unknown plans get the basic limits.
func (p Plan) Limits() PlanLimits {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanBasic]
}

func (p Plan) MaxPhotos() int {
	return p.Limits().MaxPhotos
}
