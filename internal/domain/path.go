package domain

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// DistanceTolKm is the tolerance used when matching target distances against
// node positions. Distances are kept in kilometres, so 1e-3 is one metre.
const DistanceTolKm = 1e-3

// PathRecord describes one freight route as an ordered node sequence with
// per-segment and cumulative driving distances in kilometres. The four
// per-node slices are aligned index-for-index. A record is rewritten at most
// once, during preprocessing, when synthetic break stops are inserted; it is
// read-only afterwards.
type PathRecord struct {
	PathID      string
	Origin      string
	Destination string
	LengthKm    float64

	Sequence             []string
	DistanceFromPrevious []float64
	CumulativeDistance   []float64

	// OriginAnchor marks the single entry at which downstream consumers pin
	// cumulative travel time to zero. It is an explicit flag so that anchor
	// semantics never depend on node-identifier equality.
	OriginAnchor []bool

	// Synthetic marks inserted break stops. Synthetic entries reuse the
	// destination's node id; they have no geographic identity of their own.
	Synthetic []bool
}

// PathPlan bundles a path with its located breaks, the unit stored by the
// plan cache.
type PathPlan struct {
	Path   PathRecord
	Breaks []MandatoryBreak
}

// NodeCount returns the number of entries in the node sequence.
func (p PathRecord) NodeCount() int { return len(p.Sequence) }

// TotalKm returns the path length as recorded by the cumulative distances.
// Single-node stubs carry no segments, so their declared length is
// authoritative.
func (p PathRecord) TotalKm() float64 {
	if len(p.CumulativeDistance) < 2 {
		return p.LengthKm
	}
	return p.CumulativeDistance[len(p.CumulativeDistance)-1]
}

// IsDegenerate reports whether the path is a stub (single node or negligible
// length) on which no en-route break can apply.
func (p PathRecord) IsDegenerate() bool {
	return p.NodeCount() <= 1 && p.LengthKm <= DistanceTolKm
}

// Clone returns a deep copy. Callers that rewrite a record always work on a
// copy so that the original stays visible unchanged until replaced atomically.
func (p PathRecord) Clone() PathRecord {
	out := p
	out.Sequence = append([]string(nil), p.Sequence...)
	out.DistanceFromPrevious = append([]float64(nil), p.DistanceFromPrevious...)
	out.CumulativeDistance = append([]float64(nil), p.CumulativeDistance...)
	out.OriginAnchor = append([]bool(nil), p.OriginAnchor...)
	out.Synthetic = append([]bool(nil), p.Synthetic...)
	return out
}

// Validate checks the structural invariants that cannot be repaired. A record
// failing Validate is skipped by the batch; inconsistencies that Reconcile can
// repair are not errors here.
func (p PathRecord) Validate() error {
	if p.PathID == "" {
		return errors.New("path record: empty path id")
	}
	if len(p.Sequence) == 0 {
		return fmt.Errorf("path %s: empty node sequence", p.PathID)
	}
	if len(p.DistanceFromPrevious) != len(p.Sequence) {
		return fmt.Errorf(
			"path %s: distance_from_previous has %d entries for %d nodes",
			p.PathID, len(p.DistanceFromPrevious), len(p.Sequence),
		)
	}
	if math.Abs(p.DistanceFromPrevious[0]) > DistanceTolKm {
		return fmt.Errorf(
			"path %s: first distance_from_previous entry is %.6f, want 0",
			p.PathID, p.DistanceFromPrevious[0],
		)
	}
	for i, d := range p.DistanceFromPrevious {
		if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return fmt.Errorf("path %s: invalid segment distance %.6f at index %d", p.PathID, d, i)
		}
	}
	return nil
}

// Reconcile rebuilds the cumulative distances from distance_from_previous,
// which is the source of truth when the two disagree, and aligns the declared
// length with the rebuilt final value. It returns the repaired record and
// whether anything had to change; the caller decides whether to warn.
//
// Single-node stubs are left alone apart from their (trivial) cumulative
// entry: with no segments to sum, the declared length is kept as-is.
func Reconcile(p PathRecord) (PathRecord, bool) {
	n := len(p.DistanceFromPrevious)
	if n == 0 {
		return p, false
	}

	rebuilt := make([]float64, n)
	floats.CumSum(rebuilt, p.DistanceFromPrevious)

	consistent := len(p.CumulativeDistance) == n
	if consistent {
		for i := range rebuilt {
			if !scalar.EqualWithinAbs(rebuilt[i], p.CumulativeDistance[i], DistanceTolKm) {
				consistent = false
				break
			}
		}
	}
	if n < 2 {
		if consistent {
			return p, false
		}
		out := p.Clone()
		out.CumulativeDistance = rebuilt
		return out, true
	}
	if consistent && scalar.EqualWithinAbs(p.LengthKm, rebuilt[n-1], DistanceTolKm) {
		return p, false
	}

	out := p.Clone()
	out.CumulativeDistance = rebuilt
	out.LengthKm = rebuilt[n-1]
	return out, true
}
