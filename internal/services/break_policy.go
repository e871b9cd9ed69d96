package services

import (
	"fmt"

	"freight-break-service/internal/domain"
)

// Break durations in hours.
const (
	ShortBreakHours = 0.75
	RestPeriodHours = 9.0
)

// BreakPolicy decides the kind and duration of the nth mandated break on a
// path. Policies are stateless and n is 1-based, so planning stays a pure
// function of the path length.
//
// The regulation being approximated rotates short breaks and rest periods;
// which rotation applies is a modelling choice, so it is pluggable rather
// than hard-coded.
type BreakPolicy interface {
	// Event returns the kind and duration in hours of break number n.
	Event(n int) (domain.BreakKind, float64)

	// Name identifies the policy in cache keys, logs and API requests.
	Name() string
}

// AlternatingPolicy schedules one short break and one rest period in strict
// alternation at successive driving-limit boundaries: breaks 1, 3, 5, ... are
// short breaks and 2, 4, 6, ... rest periods.
type AlternatingPolicy struct {
	ShortHours float64
	RestHours  float64
}

func NewAlternatingPolicy() AlternatingPolicy {
	return AlternatingPolicy{ShortHours: ShortBreakHours, RestHours: RestPeriodHours}
}

func (p AlternatingPolicy) Event(n int) (domain.BreakKind, float64) {
	if n%2 == 1 {
		return domain.ShortBreak, p.ShortHours
	}
	return domain.RestPeriod, p.RestHours
}

func (AlternatingPolicy) Name() string { return "alternating" }

// TwoShortOneRestPolicy schedules two short breaks followed by one rest
// period, the rotation of EU regulation 561/2006: breaks 3, 6, 9, ... are
// rest periods, all others short breaks.
type TwoShortOneRestPolicy struct {
	ShortHours float64
	RestHours  float64
}

func NewTwoShortOneRestPolicy() TwoShortOneRestPolicy {
	return TwoShortOneRestPolicy{ShortHours: ShortBreakHours, RestHours: RestPeriodHours}
}

func (p TwoShortOneRestPolicy) Event(n int) (domain.BreakKind, float64) {
	if n%3 == 0 {
		return domain.RestPeriod, p.RestHours
	}
	return domain.ShortBreak, p.ShortHours
}

func (TwoShortOneRestPolicy) Name() string { return "two-short-one-rest" }

// PolicyByName resolves a policy identifier from configuration or an API
// request. The empty string selects the default alternating policy.
func PolicyByName(name string) (BreakPolicy, error) {
	switch name {
	case "", "alternating":
		return NewAlternatingPolicy(), nil
	case "two-short-one-rest":
		return NewTwoShortOneRestPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown break policy %q", name)
	}
}
