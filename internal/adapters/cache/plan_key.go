package cache

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"freight-break-service/internal/domain"
)

// PlanKey derives the cache key for a path's computed plan. The key embeds a
// digest over the node sequence and segment distances, so any edit to the
// path changes the key and a stale plan can never be served. Speed and policy
// are part of the key because they change the plan, not just its location.
func PlanKey(p domain.PathRecord, speedKmh float64, policy string) string {
	d := xxhash.New()
	d.WriteString(p.PathID)
	d.Write([]byte{0})
	for _, id := range p.Sequence {
		d.WriteString(id)
		d.Write([]byte{0})
	}

	var buf [8]byte
	for _, km := range p.DistanceFromPrevious {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(km))
		d.Write(buf[:])
	}
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(p.LengthKm))
	d.Write(buf[:])

	return fmt.Sprintf("plan:%s:%s:%s:%016x",
		p.PathID,
		strconv.FormatFloat(speedKmh, 'g', -1, 64),
		policy,
		d.Sum64(),
	)
}
