package services

import (
	"fmt"

	"freight-break-service/internal/domain"
)

// LocateBreaks resolves each planned break event to a concrete node on the
// path and computes the driver clock at each stop.
//
// A break snaps to the first node, scanning from the entry after the origin,
// whose cumulative distance reaches the break's target within tolerance. On
// an augmented path that is the synthetic stop sitting exactly on the target;
// on a path with real intermediate nodes it is the next node downstream of
// the target. Breaks whose target lies at or beyond the path end clamp to
// the final node.
//
// Time with breaks is the clock at departure from the stop: driving time to
// the node plus the duration of every break up to and including this one.
func LocateBreaks(p domain.PathRecord, events []domain.BreakEvent, speedKmh float64) ([]domain.MandatoryBreak, error) {
	if speedKmh <= 0 {
		return nil, fmt.Errorf("locate breaks %s: speed must be positive, got %v", p.PathID, speedKmh)
	}
	if len(events) == 0 {
		return nil, nil
	}
	if p.NodeCount() < 2 {
		return nil, fmt.Errorf("locate breaks %s: path has %d nodes, need at least 2", p.PathID, p.NodeCount())
	}

	breaks := make([]domain.MandatoryBreak, 0, len(events))
	breakHours := 0.0
	for _, ev := range events {
		idx, ok := locateNode(p, ev.TargetKm)
		if !ok {
			return nil, fmt.Errorf("locate breaks %s: no node at or beyond %.3f km", p.PathID, ev.TargetKm)
		}
		cum := p.CumulativeDistance[idx]
		driving := cum / speedKmh
		breakHours += ev.DurationHours
		breaks = append(breaks, domain.MandatoryBreak{
			PathID:              p.PathID,
			Number:              ev.Number,
			Kind:                ev.Kind,
			NodeIndex:           idx,
			NodeID:              p.Sequence[idx],
			CumulativeKm:        cum,
			DrivingHours:        driving,
			TimeWithBreaksHours: driving + breakHours,
			Charging:            ev.Kind.Charging(),
		})
	}
	return breaks, nil
}

// locateNode returns the index of the first non-origin node whose cumulative
// distance reaches targetKm within tolerance. Targets past the path end
// resolve to the last node.
func locateNode(p domain.PathRecord, targetKm float64) (int, bool) {
	last := len(p.CumulativeDistance) - 1
	if last < 1 {
		return 0, false
	}
	if targetKm >= p.CumulativeDistance[last]-domain.DistanceTolKm {
		return last, true
	}
	for i := 1; i <= last; i++ {
		if p.CumulativeDistance[i] >= targetKm-domain.DistanceTolKm {
			return i, true
		}
	}
	return last, true
}
