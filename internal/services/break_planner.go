package services

import "freight-break-service/internal/domain"

const (
	// DefaultSpeedKmh is the assumed freight travel speed.
	DefaultSpeedKmh = 80.0

	// MaxContinuousDrivingHours is the driving time permitted before a break
	// becomes mandatory.
	MaxContinuousDrivingHours = 4.5
)

// BreakPlanner derives the ordered break schedule mandated along a path of a
// given driving length.
//
// Planning is pure: the output depends only on the path length and the
// planner's parameters. Break n targets n driving-limit windows of distance,
// and no break is planned at or beyond the destination.
type BreakPlanner struct {
	SpeedKmh        float64
	MaxDrivingHours float64
	Policy          BreakPolicy
}

// NewBreakPlanner builds a planner, substituting defaults for unset
// parameters.
func NewBreakPlanner(speedKmh float64, policy BreakPolicy) BreakPlanner {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	if policy == nil {
		policy = NewAlternatingPolicy()
	}
	return BreakPlanner{
		SpeedKmh:        speedKmh,
		MaxDrivingHours: MaxContinuousDrivingHours,
		Policy:          policy,
	}
}

// IntervalKm returns the driving distance covered in one continuous-driving
// window at the planner speed (360 km at the 80 km/h default).
func (p BreakPlanner) IntervalKm() float64 {
	return p.SpeedKmh * p.MaxDrivingHours
}

// Plan returns the breaks mandated on a path of totalKm driving distance.
// Paths shorter than one driving-limit window yield no breaks.
func (p BreakPlanner) Plan(totalKm float64) []domain.BreakEvent {
	interval := p.IntervalKm()
	if totalKm <= 0 || interval <= 0 {
		return nil
	}

	var events []domain.BreakEvent
	for n := 1; ; n++ {
		target := float64(n) * interval
		if target >= totalKm-domain.DistanceTolKm {
			break
		}

		kind, duration := p.Policy.Event(n)
		events = append(events, domain.BreakEvent{
			Number:             n,
			Kind:               kind,
			DurationHours:      duration,
			TargetKm:           target,
			TargetDrivingHours: float64(n) * p.MaxDrivingHours,
		})
	}
	return events
}

// TargetDistances extracts the target cumulative distances of planned events,
// the form the path augmenter consumes.
func TargetDistances(events []domain.BreakEvent) []float64 {
	if len(events) == 0 {
		return nil
	}
	targets := make([]float64, len(events))
	for i, ev := range events {
		targets[i] = ev.TargetKm
	}
	return targets
}
