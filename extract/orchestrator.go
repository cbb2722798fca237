package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BalwinderCa/cvgenix/llamaparse"
)

// Orchestrator runs every registered backend against a request, scores the
// successful results, and selects the best extraction. Backends run in
// registration order without short-circuiting on first success, so a later
// higher-quality backend is never skipped.
type Orchestrator struct {
	// Weights are the quality-score coefficients; zero value means defaults.
	Weights ScoreWeights

	registry *Registry
	log      *zap.Logger
}

// NewOrchestrator creates an orchestrator over the given registry.
func NewOrchestrator(registry *Registry, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		Weights:  DefaultScoreWeights(),
		registry: registry,
		log:      logger,
	}
}

// Extract processes one request to completion and returns the report.
// All backend-level failures are folded into the result; nothing escapes
// as an error to the caller.
func (o *Orchestrator) Extract(ctx context.Context, req Request) Report {
	start := time.Now()

	if err := CheckInput(req.FilePath); err != nil {
		return FailureReport(req, err.Error(), nil, time.Since(start))
	}
	if err := llamaparse.ValidateSchema(req.Schema); err != nil {
		schemaErr := &SchemaError{Err: err}
		return FailureReport(req, schemaErr.Error(), nil, time.Since(start))
	}

	backends := o.registry.BackendsFor(req.FilePath)
	if len(backends) == 0 {
		return FailureReport(req,
			fmt.Sprintf("no backend can handle %s", req.FilePath),
			nil, time.Since(start))
	}

	return o.run(ctx, req, backends, start)
}

// ExtractSingle runs exactly one named backend, for callers that mandate a
// specific strategy. The backend's own degrade chain still applies.
func (o *Orchestrator) ExtractSingle(ctx context.Context, name string, req Request) Report {
	start := time.Now()

	if err := CheckInput(req.FilePath); err != nil {
		return FailureReport(req, err.Error(), nil, time.Since(start))
	}
	if err := llamaparse.ValidateSchema(req.Schema); err != nil {
		schemaErr := &SchemaError{Err: err}
		return FailureReport(req, schemaErr.Error(), nil, time.Since(start))
	}

	for _, b := range o.registry.Backends() {
		if b.Name() == name {
			return o.run(ctx, req, []Backend{b}, start)
		}
	}
	return FailureReport(req, fmt.Sprintf("unknown backend: %s", name), nil, time.Since(start))
}

// run executes the scoring loop over the given backends.
func (o *Orchestrator) run(ctx context.Context, req Request, backends []Backend, start time.Time) Report {
	attempts := make(map[string]Attempt, len(backends))
	var failures []string

	var best *ScoredResult
	for _, b := range backends {
		res := o.invoke(ctx, b, req)

		if !res.Success {
			o.log.Warn("backend failed",
				zap.String("backend", b.Name()),
				zap.String("error", res.Err),
			)
			attempts[b.Name()] = Attempt{Success: false, Error: res.Err}
			failures = append(failures, fmt.Sprintf("%s: %s", b.Name(), res.Err))
			continue
		}

		scored := o.score(res)
		attempts[b.Name()] = Attempt{Success: true, Method: scored.Method, Score: scored.Score}

		o.log.Info("backend succeeded",
			zap.String("backend", b.Name()),
			zap.String("method", scored.Method),
			zap.Int("score", scored.Score),
			zap.Int("words", scored.WordCount),
		)

		// Strictly greater: ties keep the earlier-registered backend.
		if best == nil || scored.Score > best.Score {
			best = &scored
		}
	}

	if best == nil {
		return FailureReport(req,
			"all backends failed - "+strings.Join(failures, ", "),
			attempts, time.Since(start))
	}

	return BuildReport(req, *best, attempts, time.Since(start))
}

// invoke runs one backend, normalizing errors and panics to failed results
// so a single misbehaving parser can never abort the request.
func (o *Orchestrator) invoke(ctx context.Context, b Backend, req Request) (res BackendResult) {
	defer func() {
		if r := recover(); r != nil {
			res = BackendResult{
				Success: false,
				Err:     fmt.Sprintf("backend panicked: %v", r),
			}
		}
	}()

	res, err := b.Extract(ctx, req)
	if err != nil && res.Err == "" {
		res.Err = err.Error()
	}
	if err != nil {
		res.Success = false
	}
	if !res.Success && res.Err == "" {
		res.Err = "extraction produced no result"
	}
	return res
}

// score cleans the raw extraction, derives markdown, and computes the
// quality metrics. Counts always come from the cleaned text.
func (o *Orchestrator) score(res BackendResult) ScoredResult {
	weights := o.Weights
	if weights == (ScoreWeights{}) {
		weights = DefaultScoreWeights()
	}

	cleaned := Clean(res.Text)
	markdown := res.Markdown
	if strings.TrimSpace(markdown) == "" {
		markdown = Structure(cleaned)
	}

	words := CountWords(cleaned)
	chars := len(cleaned)

	return ScoredResult{
		BackendResult: res,
		CleanedText:   cleaned,
		MarkdownOut:   markdown,
		WordCount:     words,
		CharCount:     chars,
		Score:         weights.score(chars, words),
	}
}
