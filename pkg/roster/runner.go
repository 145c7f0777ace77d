// Package roster generates batches of names concurrently and records them.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/japaniel/dorfname/pkg/db"
	"github.com/japaniel/dorfname/pkg/names"
)

// Generator is the part of *names.Generator a run needs.
type Generator interface {
	Generate(rng names.Rand) (*names.Name, error)
	Language() string
}

// Runner generates a numbered roster of names. The zero value is not usable;
// use NewRunner.
type Runner struct {
	Gen Generator
	// DB receives every generated name when non-nil.
	DB *sql.DB
	// Seed makes runs reproducible: name i is always drawn from a generator
	// seeded with (Seed, i), whatever the worker count.
	Seed          uint64
	Workers       int
	BatchSize     int
	FlushInterval time.Duration
	// MaxAttempts bounds the draws per name when a draw hits a root without a
	// translation or surface form.
	MaxAttempts int
	Logger      *slog.Logger
	// OnName is called in index order as names become available.
	OnName func(index int, name *names.Name)

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewRunner returns a runner with the default concurrency settings.
func NewRunner(gen Generator, seed uint64) *Runner {
	return &Runner{
		Gen:           gen,
		Seed:          seed,
		Workers:       4,
		BatchSize:     50,
		FlushInterval: 100 * time.Millisecond,
		MaxAttempts:   10,
	}
}

// Run is the outcome of one Runner.Run call.
type Run struct {
	ID    uuid.UUID
	Names []*names.Name
	// Attempts is the total number of draws, including retried ones.
	Attempts int
}

type result struct {
	index    int
	name     *names.Name
	attempts int
	err      error
}

// Run generates count names. Names are returned in index order. On error the
// names completed before the first failure are still returned.
func (r *Runner) Run(ctx context.Context, count int) (*Run, error) {
	run := &Run{ID: uuid.New()}
	if count <= 0 {
		return run, nil
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	start := time.Now()

	var wp WorkerPoolInterface
	if r.PoolFactory != nil {
		wp = r.PoolFactory(workers, workers*2)
	} else {
		wp = NewWorkerPool(workers, workers*2)
	}

	var bw *BatchWriter
	if r.DB != nil {
		bw = NewBatchWriter(r.DB, r.BatchSize, r.FlushInterval)
		bw.OnError = func(err error) {
			logger.Error("persist names", slog.String("run_id", run.ID.String()), slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan result, workers*2)
	wp.Start(ctx)

	// Producer. Closing the pool waits for every started job, so resultCh can
	// be closed safely afterwards.
	go func() {
		defer close(resultCh)
		defer wp.Close()
		for i := 0; i < count; i++ {
			idx := i
			job := func(ctx context.Context) error {
				res := r.generate(idx)
				select {
				case resultCh <- res:
				case <-ctx.Done():
				}
				return nil
			}
			if err := wp.SubmitCtx(ctx, job); err != nil {
				if errors.Is(err, ctx.Err()) {
					return
				}
				select {
				case resultCh <- result{index: idx, err: fmt.Errorf("submit name %d: %w", idx, err)}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()

	// Consumer: reorder by index and persist.
	var firstErr error
	buffer := make(map[int]result)
	next := 0
	for res := range resultCh {
		if firstErr != nil {
			continue
		}
		if res.err != nil {
			firstErr = res.err
			cancel()
			continue
		}
		buffer[res.index] = res
		for {
			item, ok := buffer[next]
			if !ok {
				break
			}
			delete(buffer, next)
			run.Names = append(run.Names, item.name)
			run.Attempts += item.attempts
			if r.OnName != nil {
				r.OnName(next, item.name)
			}
			if bw != nil {
				if err := bw.Submit(r.persist(run.ID, next, item.name)); err != nil {
					firstErr = err
					cancel()
					break
				}
			}
			next++
		}
	}

	if firstErr == nil && next < count {
		firstErr = ctx.Err()
		if firstErr == nil {
			firstErr = fmt.Errorf("roster: run ended after %d of %d names", next, count)
		}
	}
	if bw != nil {
		if err := bw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	logger.Info("roster generated",
		slog.String("run_id", run.ID.String()),
		slog.Int("names", len(run.Names)),
		slog.Int("attempts", run.Attempts),
		slog.Duration("elapsed", time.Since(start)))
	return run, firstErr
}

func (r *Runner) generate(index int) result {
	rng := rand.New(rand.NewPCG(r.Seed, uint64(index)))
	attempts := r.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for a := 1; a <= attempts; a++ {
		var name *names.Name
		name, err = r.Gen.Generate(rng)
		if err == nil {
			return result{index: index, name: name, attempts: a}
		}
		if !names.Retryable(err) {
			break
		}
	}
	return result{index: index, err: fmt.Errorf("name %d: %w", index, err)}
}

func (r *Runner) persist(runID uuid.UUID, seq int, n *names.Name) WriteFunc {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := db.RecordName(tx, db.NameRecord{
			RunID:        runID.String(),
			Seq:          seq,
			Name:         n.String(),
			Language:     n.Language,
			GivenRoot:    n.GivenRoot,
			SurnameRoots: n.SurnameRoots,
		})
		return err
	}
}
