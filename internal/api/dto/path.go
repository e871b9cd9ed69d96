package dto

type PathNodeResponse struct {
	NodeID                 string  `json:"node_id"`
	DistanceFromPreviousKm float64 `json:"distance_from_previous_km"`
	CumulativeDistanceKm   float64 `json:"cumulative_distance_km"`
	OriginAnchor           bool    `json:"origin_anchor"`
	Synthetic              bool    `json:"synthetic"`
}

type PathResponse struct {
	PathID      string             `json:"path_id"`
	Origin      string             `json:"origin"`
	Destination string             `json:"destination"`
	LengthKm    float64            `json:"length_km"`
	Nodes       []PathNodeResponse `json:"nodes"`
}

type ListPathsResponse struct {
	Paths []PathResponse `json:"paths"`
}
