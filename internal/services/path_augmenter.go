package services

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"freight-break-service/internal/domain"
)

// AugmentPath returns a path on which every target distance can be anchored
// to a node, inserting synthetic break stops when necessary.
//
// The function is pure: the input record is never touched, and the caller is
// responsible for atomically replacing references with the returned record.
// Augmenting a path that already anchors every target is a no-op, so running
// augmentation twice changes nothing.
//
// Paths with real intermediate nodes are returned unchanged even when no node
// sits exactly on a target; the locator snaps such breaks to the next real
// node downstream. Only direct paths (one or two nodes) longer than a break
// interval are rewritten:
//
//	sequence:               [origin, destination, ..., destination]
//	distance_from_previous: [0, t1, t2-t1, ..., total-tk]
//
// Each synthetic stop reuses the destination's node id, never the origin's,
// and the explicit origin-anchor flag stays on the first entry alone. The
// final cumulative entry is forced to the original total length so rounding
// remainders land in the last segment.
func AugmentPath(p domain.PathRecord, targetsKm []float64) (domain.PathRecord, bool) {
	if len(targetsKm) == 0 || p.NodeCount() == 0 {
		return p, false
	}

	total := p.TotalKm()
	targets := reachableTargets(targetsKm, total)
	if len(targets) == 0 {
		return p, false
	}

	if allTargetsAnchored(p, targets) {
		return p, false
	}
	if p.NodeCount() > 2 {
		return p, false
	}

	k := len(targets)
	sequence := make([]string, 0, k+2)
	dfp := make([]float64, 0, k+2)
	anchor := make([]bool, 0, k+2)
	synthetic := make([]bool, 0, k+2)

	sequence = append(sequence, p.Origin)
	dfp = append(dfp, 0)
	anchor = append(anchor, true)
	synthetic = append(synthetic, false)

	prev := 0.0
	for _, t := range targets {
		sequence = append(sequence, p.Destination)
		dfp = append(dfp, t-prev)
		anchor = append(anchor, false)
		synthetic = append(synthetic, true)
		prev = t
	}

	sequence = append(sequence, p.Destination)
	dfp = append(dfp, total-prev)
	anchor = append(anchor, false)
	synthetic = append(synthetic, false)

	cumulative := make([]float64, len(dfp))
	floats.CumSum(cumulative, dfp)
	cumulative[len(cumulative)-1] = total
	dfp[len(dfp)-1] = total - cumulative[len(cumulative)-2]

	out := domain.PathRecord{
		PathID:               p.PathID,
		Origin:               p.Origin,
		Destination:          p.Destination,
		LengthKm:             total,
		Sequence:             sequence,
		DistanceFromPrevious: dfp,
		CumulativeDistance:   cumulative,
		OriginAnchor:         anchor,
		Synthetic:            synthetic,
	}
	return out, true
}

// reachableTargets drops targets at or beyond the path end; a break there
// would coincide with the destination.
func reachableTargets(targets []float64, totalKm float64) []float64 {
	out := make([]float64, 0, len(targets))
	for _, t := range targets {
		if t < totalKm-domain.DistanceTolKm {
			out = append(out, t)
		}
	}
	return out
}

// allTargetsAnchored reports whether every target lands on a non-origin node
// within tolerance.
func allTargetsAnchored(p domain.PathRecord, targets []float64) bool {
	for _, t := range targets {
		if !targetAnchored(p, t) {
			return false
		}
	}
	return true
}

func targetAnchored(p domain.PathRecord, targetKm float64) bool {
	for i := 1; i < len(p.CumulativeDistance); i++ {
		if scalar.EqualWithinAbs(p.CumulativeDistance[i], targetKm, domain.DistanceTolKm) {
			return true
		}
	}
	return false
}
