package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"freight-break-service/internal/domain"
	"freight-break-service/internal/platform/obs"
	"freight-break-service/internal/ports"
)

// Stage names how far a path has progressed through preprocessing. Stages
// only ever advance; a path never returns to an earlier stage within a run.
type Stage string

const (
	StageUnplanned Stage = "UNPLANNED"
	StagePlanned   Stage = "PLANNED"
	StageLocated   Stage = "LOCATED"
	StageLedgered  Stage = "LEDGERED"
)

// DefaultParallelism bounds how many path pipelines run at once when the
// request does not say.
const DefaultParallelism = 8

type PreprocessRequest struct {
	SpeedKmh    float64 // 0 selects DefaultSpeedKmh
	Policy      string  // "" selects the alternating policy
	Parallelism int     // 0 selects DefaultParallelism
}

// PathOutcome reports how one path fared. A non-nil Err means the path was
// skipped or abandoned at the recorded stage; the rest of the batch is
// unaffected.
type PathOutcome struct {
	PathID        string
	Stage         Stage
	Degenerate    bool
	Reconciled    bool
	Augmented     bool
	CacheHit      bool
	BreakCount    int
	FloorCount    int
	SkippedCombos []SkippedCombo
	Err           error
}

// PreprocessSummary aggregates a finished run. Outcomes preserve the
// repository's path order regardless of completion order.
type PreprocessSummary struct {
	RunID         string
	SpeedKmh      float64
	Policy        string
	Paths         int
	Failed        int
	Augmented     int
	Breaks        int
	Floors        int
	SkippedCombos int
	Elapsed       time.Duration
	Outcomes      []PathOutcome
}

// PreprocessPaths runs the full break pipeline over every stored path: plan
// break events from the path length, insert synthetic stops where no node
// can anchor a break, bind breaks to nodes, and derive the travel-time
// floors the optimization layer consumes.
//
// Each path is independent, so paths are processed concurrently up to the
// requested parallelism. A failing path is logged and skipped, never
// aborting the batch; failures the caller must act on are reported per path
// in the summary. Only unusable inputs (bad policy name, unreadable
// repositories) fail the run as a whole.
func PreprocessPaths(
	ctx context.Context,
	req PreprocessRequest,
	paths ports.PathRepository,
	scenario ports.ScenarioRepository,
	results ports.ResultStore,
	cache ports.PlanCache,
) (*PreprocessSummary, error) {
	start := time.Now()

	policy, err := PolicyByName(req.Policy)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	planner := NewBreakPlanner(req.SpeedKmh, policy)

	records, err := paths.ListPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("preprocess: list paths: %w", err)
	}
	fleet, err := scenario.ListFleetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("preprocess: list fleet parameters: %w", err)
	}
	flows, err := scenario.ListFlows(ctx)
	if err != nil {
		return nil, fmt.Errorf("preprocess: list flows: %w", err)
	}

	runID := uuid.NewString()
	obs.Infow("preprocess started",
		"run_id", runID,
		"paths", len(records),
		"speed_kmh", planner.SpeedKmh,
		"policy", policy.Name(),
	)

	workers := req.Parallelism
	if workers <= 0 {
		workers = DefaultParallelism
	}

	// Each goroutine writes only its own outcome slot, so no lock is needed.
	outcomes := make([]PathOutcome, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			outcomes[i] = processPath(gctx, runID, rec, planner, flows, fleet, paths, results, cache)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	summary := &PreprocessSummary{
		RunID:    runID,
		SpeedKmh: planner.SpeedKmh,
		Policy:   policy.Name(),
		Paths:    len(records),
		Elapsed:  time.Since(start),
		Outcomes: outcomes,
	}
	for _, o := range outcomes {
		if o.Err != nil {
			summary.Failed++
			continue
		}
		if o.Augmented {
			summary.Augmented++
		}
		summary.Breaks += o.BreakCount
		summary.Floors += o.FloorCount
		summary.SkippedCombos += len(o.SkippedCombos)
	}

	obs.Infow("preprocess finished",
		"run_id", runID,
		"paths", summary.Paths,
		"failed", summary.Failed,
		"augmented", summary.Augmented,
		"breaks", summary.Breaks,
		"floors", summary.Floors,
		"skipped_combos", summary.SkippedCombos,
		"dur_ms", summary.Elapsed.Milliseconds(),
	)
	return summary, nil
}

func processPath(
	ctx context.Context,
	runID string,
	rec domain.PathRecord,
	planner BreakPlanner,
	flows []domain.FlowRecord,
	fleet map[domain.FleetKey]domain.FleetParams,
	paths ports.PathRepository,
	results ports.ResultStore,
	cache ports.PlanCache,
) PathOutcome {
	out := PathOutcome{PathID: rec.PathID, Stage: StageUnplanned}

	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	if err := rec.Validate(); err != nil {
		out.Err = err
		obs.Warnw("path skipped", "run_id", runID, "path_id", rec.PathID, "err", err)
		return out
	}
	repaired, changed := domain.Reconcile(rec)
	if changed {
		out.Reconciled = true
		obs.Warnw("cumulative distances rebuilt from segment distances",
			"run_id", runID, "path_id", rec.PathID,
			"declared_km", rec.LengthKm, "rebuilt_km", repaired.TotalKm(),
		)
	}
	rec = repaired

	// A stub path carries no distance to break over. Clearing stored
	// results keeps re-runs idempotent.
	if rec.IsDegenerate() {
		out.Degenerate = true
		if err := results.ReplaceBreaks(ctx, runID, rec.PathID, nil); err != nil {
			out.Err = fmt.Errorf("replace breaks: %w", err)
			return out
		}
		if err := results.ReplaceFloors(ctx, runID, rec.PathID, nil); err != nil {
			out.Err = fmt.Errorf("replace floors: %w", err)
			return out
		}
		out.Stage = StageLedgered
		return out
	}

	plan, hit := cachedPlan(ctx, runID, rec, planner, cache)
	if !hit {
		events := planner.Plan(rec.TotalKm())
		out.Stage = StagePlanned

		augmented, _ := AugmentPath(rec, TargetDistances(events))
		breaks, err := LocateBreaks(augmented, events, planner.SpeedKmh)
		if err != nil {
			out.Err = err
			obs.Warnw("path abandoned", "run_id", runID, "path_id", rec.PathID, "stage", out.Stage, "err", err)
			return out
		}
		plan = domain.PathPlan{Path: augmented, Breaks: breaks}

		if cache != nil {
			if err := cache.PutPlan(ctx, rec, planner.SpeedKmh, planner.Policy.Name(), plan); err != nil {
				obs.Warnw("plan cache write failed", "run_id", runID, "path_id", rec.PathID, "err", err)
			}
		}
	}
	out.Stage = StageLocated
	out.CacheHit = hit
	out.Augmented = plan.Path.NodeCount() != rec.NodeCount()

	if out.Augmented {
		if err := paths.ReplacePath(ctx, plan.Path); err != nil {
			out.Err = fmt.Errorf("replace path: %w", err)
			obs.Warnw("path abandoned", "run_id", runID, "path_id", rec.PathID, "stage", out.Stage, "err", out.Err)
			return out
		}
	}
	if err := results.ReplaceBreaks(ctx, runID, rec.PathID, plan.Breaks); err != nil {
		out.Err = fmt.Errorf("replace breaks: %w", err)
		obs.Warnw("path abandoned", "run_id", runID, "path_id", rec.PathID, "stage", out.Stage, "err", out.Err)
		return out
	}
	out.BreakCount = len(plan.Breaks)

	floors, skipped := BuildTravelTimeFloors(plan.Path, plan.Breaks, flows, fleet)
	out.SkippedCombos = skipped
	for _, s := range skipped {
		obs.Warnw("ledger combination skipped",
			"run_id", runID, "path_id", s.PathID,
			"year", s.Key.Year, "technology", s.Key.Technology, "generation", s.Key.Generation,
			"reason", s.Reason,
		)
	}
	if err := results.ReplaceFloors(ctx, runID, rec.PathID, floors); err != nil {
		out.Err = fmt.Errorf("replace floors: %w", err)
		obs.Warnw("path abandoned", "run_id", runID, "path_id", rec.PathID, "stage", out.Stage, "err", out.Err)
		return out
	}
	out.FloorCount = len(floors)
	out.Stage = StageLedgered
	return out
}

// cachedPlan consults the optional plan cache. Cache failures degrade to a
// recompute, never to a path failure.
func cachedPlan(ctx context.Context, runID string, rec domain.PathRecord, planner BreakPlanner, cache ports.PlanCache) (domain.PathPlan, bool) {
	if cache == nil {
		return domain.PathPlan{}, false
	}
	plan, ok, err := cache.GetPlan(ctx, rec, planner.SpeedKmh, planner.Policy.Name())
	if err != nil {
		obs.Warnw("plan cache read failed", "run_id", runID, "path_id", rec.PathID, "err", err)
		return domain.PathPlan{}, false
	}
	return plan, ok
}
