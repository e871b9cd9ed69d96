package dto

type PreprocessRequest struct {
	SpeedKmh    float64 `json:"speed_kmh"`
	Policy      string  `json:"policy"`
	Parallelism int     `json:"parallelism"`
}

type PathOutcomeResponse struct {
	PathID        string `json:"path_id"`
	Stage         string `json:"stage"`
	Degenerate    bool   `json:"degenerate"`
	Reconciled    bool   `json:"reconciled"`
	Augmented     bool   `json:"augmented"`
	CacheHit      bool   `json:"cache_hit"`
	Breaks        int    `json:"breaks"`
	Floors        int    `json:"floors"`
	SkippedCombos int    `json:"skipped_combos"`
	Error         string `json:"error,omitempty"`
}

type PreprocessResponse struct {
	RunID         string                `json:"run_id"`
	SpeedKmh      float64               `json:"speed_kmh"`
	Policy        string                `json:"policy"`
	Paths         int                   `json:"paths"`
	Failed        int                   `json:"failed"`
	Augmented     int                   `json:"augmented"`
	Breaks        int                   `json:"breaks"`
	Floors        int                   `json:"floors"`
	SkippedCombos int                   `json:"skipped_combos"`
	DurationMs    int64                 `json:"duration_ms"`
	Outcomes      []PathOutcomeResponse `json:"outcomes"`
}
