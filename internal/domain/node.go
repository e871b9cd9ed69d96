package domain

import "github.com/paulmach/orb"

// GeographicNode is immutable reference data describing one location in the
// freight network. Nodes are owned by the network definition; paths reference
// them by id and never copy or modify them.
type GeographicNode struct {
	NodeID string
	Coord  orb.Point
}

// NodeIndex resolves node ids to their reference records.
type NodeIndex map[string]GeographicNode
