package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Tier is one degrade level within a backend family: a mode label plus the
// function that attempts extraction at that capability level. Modeling the
// chain as an ordered slice keeps adding or removing a tier a one-line
// change instead of another nested error handler.
type Tier struct {
	Mode Mode
	Run  func(ctx context.Context, req Request) (BackendResult, error)
}

// runTiers tries each tier in order until one succeeds. Tier order is fixed
// and never reordered at runtime; a processing-mode hint in the request
// starts the chain at the matching tier instead. The returned result's Mode
// reflects the tier that actually succeeded, not the one requested.
//
// When every tier fails, the aggregated error names the last-failed tier.
func runTiers(ctx context.Context, logger *zap.Logger, backend string, tiers []Tier, req Request) (BackendResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	start := 0
	if req.Mode != "" {
		for i, t := range tiers {
			if t.Mode == req.Mode {
				start = i
				break
			}
		}
	}

	var lastErr error
	var lastMode Mode
	for _, tier := range tiers[start:] {
		res, err := tier.Run(ctx, req)
		if err == nil && res.Success {
			res.Mode = tier.Mode
			return res, nil
		}
		if err == nil {
			err = fmt.Errorf("%s", res.Err)
		}
		logger.Warn("extraction tier failed",
			zap.String("backend", backend),
			zap.String("tier", string(tier.Mode)),
			zap.Error(err),
		)
		lastErr = err
		lastMode = tier.Mode
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no tiers configured")
	}
	err := &ExtractionError{Backend: backend, Tier: lastMode, Err: lastErr}
	return BackendResult{Success: false, Err: err.Error()}, err
}
