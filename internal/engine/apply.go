package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/jsonsql/internal/state"
	"github.com/leapstack-labs/jsonsql/pkg/adapter"
	"github.com/leapstack-labs/jsonsql/pkg/core"
	"github.com/leapstack-labs/jsonsql/pkg/document"
)

// Target is a named database the generated script is applied to.
type Target struct {
	Name   string
	Config core.TargetConfig
}

// ApplyOptions configures Apply.
type ApplyOptions struct {
	// Insert also loads the document's values.
	Insert bool
	// Migrate applies the schema as a goose migration before the inserts.
	Migrate bool
	// Source labels the input in the run history.
	Source string
	// Concurrency bounds how many targets run at once (0 = all).
	Concurrency int
}

// ApplyResult reports the outcome for one target.
type ApplyResult struct {
	Target     string
	Dialect    string
	RunID      string
	Statements int
	Migration  int64
	Migrated   bool
	Duration   time.Duration
	Err        error
}

// Apply generates the script for every target's dialect and executes it.
// Targets are independent: each runs on its own connection and a failure
// in one never cancels the others. The joined error of all failed targets
// is returned along with every result, in target order.
func (e *Engine) Apply(ctx context.Context, doc *document.Object, targets []Target, opts ApplyOptions) ([]ApplyResult, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets to apply")
	}

	results := make([]ApplyResult, len(targets))

	var g errgroup.Group
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, t := range targets {
		g.Go(func() error {
			results[i] = e.applyTarget(ctx, doc, t, opts)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("target %s: %w", r.Target, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (e *Engine) applyTarget(ctx context.Context, doc *document.Object, t Target, opts ApplyOptions) ApplyResult {
	start := e.now()
	res := ApplyResult{Target: t.Name, Dialect: t.Config.Type}
	logger := e.logger.With(slog.String("target", t.Name), slog.String("dialect", t.Config.Type))

	run := &state.Run{Target: t.Name, Dialect: t.Config.Type, Table: e.table, Source: opts.Source, StartedAt: start.UTC()}
	if e.store != nil {
		if err := e.store.CreateRun(run); err != nil {
			logger.Warn("failed to record run", slog.Any("error", err))
		}
	}
	res.RunID = run.ID

	res.Err = e.execute(ctx, doc, t, opts, &res, logger)
	res.Duration = e.now().Sub(start)

	if e.store != nil && run.ID != "" {
		status, msg := state.RunStatusCompleted, ""
		if res.Err != nil {
			status, msg = state.RunStatusFailed, res.Err.Error()
		}
		if err := e.store.CompleteRun(run.ID, status, res.Statements, res.Migration, msg); err != nil {
			logger.Warn("failed to record run result", slog.Any("error", err))
		}
	}

	if res.Err != nil {
		logger.Error("apply failed", slog.Any("error", res.Err))
	} else {
		logger.Info("apply finished", slog.Int("statements", res.Statements), slog.Duration("duration", res.Duration))
	}
	return res
}

func (e *Engine) execute(ctx context.Context, doc *document.Object, t Target, opts ApplyOptions, res *ApplyResult, logger *slog.Logger) error {
	d, factory, err := adapter.Lookup(t.Config.Type)
	if err != nil {
		return err
	}

	gen := e.generate(d, doc, opts.Insert)
	if gen.Err != nil {
		return gen.Err
	}

	cfg := t.Config.AdapterConfig()
	adp := factory(logger)
	if err := adp.Connect(ctx, cfg); err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	stmts := gen.Statements()
	if opts.Migrate {
		m, err := adp.Migrate(ctx, gen.Migration(e.now()))
		if err != nil {
			return err
		}
		res.Migration = m.Version
		res.Migrated = m.Applied
		stmts = gen.Inserts
	}

	if len(stmts) > 0 {
		if err := adp.ExecScript(ctx, stmts); err != nil {
			return err
		}
	}
	res.Statements = len(stmts)
	if opts.Migrate && res.Migrated {
		res.Statements += len(gen.Schema)
	}
	return nil
}
