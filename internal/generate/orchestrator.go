// Package generate fans the shared field map out to the five document
// generators, isolates per-task failures, and packages successful outputs
// into a single archive.
package generate

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/formulador-mga/mga-cli/internal/config"
	"github.com/formulador-mga/mga-cli/internal/model"
	"github.com/formulador-mga/mga-cli/pkg/anthropic"
)

// ModelResolver resolves a model selection into a client handle. A
// resolution failure short-circuits the whole batch.
type ModelResolver func(modelName string) (anthropic.Client, error)

// Orchestrator runs all generation tasks for one field map.
type Orchestrator struct {
	cfg     config.GenerateConfig
	aiCfg   config.AnthropicConfig
	resolve ModelResolver
	limiter *rate.Limiter

	// buildGens is swapped in tests to inject failing generators.
	buildGens func(client anthropic.Client, aiCfg config.AnthropicConfig, outputDir string) []Generator
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg config.GenerateConfig, aiCfg config.AnthropicConfig, resolve ModelResolver) *Orchestrator {
	limit := rate.Limit(cfg.RateLimitPerSec)
	if cfg.RateLimitPerSec <= 0 {
		limit = rate.Inf
	}
	return &Orchestrator{
		cfg:       cfg,
		aiCfg:     aiCfg,
		resolve:   resolve,
		limiter:   rate.NewLimiter(limit, 1),
		buildGens: buildGenerators,
	}
}

// GenerateAll submits one task per document type to a worker pool sized to
// the task count, waits for every task to reach a terminal state, and
// archives the successful outputs. The fields map is shared read-only
// across all tasks; no task mutates it.
func (o *Orchestrator) GenerateAll(ctx context.Context, fields model.FieldMap, modelName string) model.UnifiedResult {
	client, err := o.resolve(modelName)
	if err != nil {
		zap.L().Error("generate: model resolution failed",
			zap.String("model", modelName),
			zap.Error(err),
		)
		return model.UnifiedResult{
			OverallSuccess: false,
			Error:          fmt.Sprintf("model init failed: %v", err),
		}
	}

	if err := os.MkdirAll(o.cfg.OutputDir, 0o755); err != nil {
		return model.UnifiedResult{
			OverallSuccess: false,
			Error:          fmt.Sprintf("create output dir: %v", err),
		}
	}

	generators := o.buildGens(client, o.aiCfg, o.cfg.OutputDir)

	tasks := make([]model.GenerationTask, len(generators))
	for i, gen := range generators {
		tasks[i] = model.GenerationTask{
			DocType: gen.DocType(),
			Fields:  fields,
			Model:   modelName,
		}
	}

	timeout := time.Duration(o.cfg.TaskTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 300 * time.Second
	}

	outcomes := make([]model.GenerationOutcome, len(generators))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(len(generators))

	start := time.Now()
	for i, gen := range generators {
		g.Go(func() error {
			outcomes[i] = o.runTask(gCtx, gen, tasks[i], timeout)
			return nil // task failures never cancel siblings
		})
	}
	_ = g.Wait()

	succeeded := 0
	var archived []archiveEntry
	for _, oc := range outcomes {
		if oc.Status == model.TaskSucceeded {
			succeeded++
			archived = append(archived, archiveEntry{DocType: oc.DocType, Path: oc.FilePath})
		}
	}

	result := model.UnifiedResult{
		OverallSuccess: succeeded > 0,
		Outcomes:       outcomes,
	}

	if succeeded > 0 {
		archivePath, err := buildArchive(o.cfg.OutputDir, projectName(fields), archived)
		if err != nil {
			zap.L().Error("generate: archive packaging failed", zap.Error(err))
			result.Error = fmt.Sprintf("archive failed: %v", err)
		} else {
			result.ArchivePath = archivePath
		}
	}

	zap.L().Info("generate: batch settled",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(outcomes)-succeeded),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		zap.String("archive", result.ArchivePath),
	)
	return result
}

// runTask drives one task through pending → running → terminal. A hung
// generator is converted into a failed outcome at the task deadline
// without blocking the remaining tasks.
func (o *Orchestrator) runTask(ctx context.Context, gen Generator, task model.GenerationTask, timeout time.Duration) model.GenerationOutcome {
	docType := task.DocType
	log := zap.L().With(zap.String("doc_type", string(docType)))

	log.Debug("generate: task queued", zap.String("status", string(model.TaskPending)))

	taskCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := o.limiter.Wait(taskCtx); err != nil {
		return failedOutcome(docType, fmt.Sprintf("rate limit wait: %v", err))
	}

	log.Info("generate: task running", zap.String("status", string(model.TaskRunning)))

	type taskReturn struct {
		res any
		err error
	}
	done := make(chan taskReturn, 1)
	go func() {
		res, err := gen.Generate(taskCtx, task.Fields, Options{})
		done <- taskReturn{res: res, err: err}
	}()

	select {
	case r := <-done:
		outcome := normalizeOutcome(docType, r.res, r.err)
		if outcome.Status == model.TaskFailed {
			log.Warn("generate: task failed", zap.String("error", outcome.Error))
		} else {
			log.Info("generate: task succeeded", zap.String("file", outcome.FilePath))
		}
		return outcome
	case <-taskCtx.Done():
		log.Warn("generate: task deadline exceeded", zap.Duration("timeout", timeout))
		return failedOutcome(docType, fmt.Sprintf("timed out after %s", timeout))
	}
}

// normalizeOutcome adapts the heterogeneous generator return shapes into a
// single outcome: a bare path string or a result value exposing a filepath
// are both accepted; anything else, or a missing file, is a failure.
func normalizeOutcome(docType model.DocType, res any, err error) model.GenerationOutcome {
	if err != nil {
		return failedOutcome(docType, err.Error())
	}

	var path string
	switch v := res.(type) {
	case string:
		path = v
	case Result:
		path = v.FilePath
	case *Result:
		if v != nil {
			path = v.FilePath
		}
	case map[string]any:
		if p, ok := v["filepath"].(string); ok {
			path = p
		}
	}

	if path == "" {
		return failedOutcome(docType, fmt.Sprintf("invalid return type %T", res))
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return failedOutcome(docType, fmt.Sprintf("output file missing: %v", statErr))
	}

	return model.GenerationOutcome{
		DocType:  docType,
		Status:   model.TaskSucceeded,
		FilePath: path,
	}
}

func failedOutcome(docType model.DocType, msg string) model.GenerationOutcome {
	return model.GenerationOutcome{
		DocType: docType,
		Status:  model.TaskFailed,
		Error:   msg,
	}
}

// projectName picks the archive label from the field map.
func projectName(fields model.FieldMap) string {
	if v := fields["municipio"]; v != "" {
		return v
	}
	if v := fields["nombre_proyecto"]; v != "" {
		return v
	}
	return "proyecto"
}
