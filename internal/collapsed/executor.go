package collapsed

import (
	"sync"

	"github.com/fss-lab/collapse-core/pkg/config"
	"github.com/fss-lab/collapse-core/pkg/logger"
	"github.com/fss-lab/collapse-core/pkg/utils"
)

// Executor runs submitted jobs asynchronously and persists their
// lifecycle in the store. A search is a bounded pure computation, so
// there is no cancellation path; a submitted job always ends in
// completed or failed.
type Executor struct {
	store *Store
	wg    sync.WaitGroup
}

func NewExecutor(store *Store) *Executor {
	return &Executor{store: store}
}

// Submit validates nothing (the caller already has), records the job
// as pending and starts it in the background, returning its ID.
func (e *Executor) Submit(job *config.Job) (string, error) {
	id := utils.GenerateSearchID()
	if _, err := e.store.Create(id, job); err != nil {
		return "", err
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.run(id, job)
	}()
	return id, nil
}

// Wait blocks until all in-flight jobs have finished. Used during
// shutdown and by tests.
func (e *Executor) Wait() {
	e.wg.Wait()
}

func (e *Executor) run(id string, job *config.Job) {
	if err := e.store.SetRunning(id); err != nil {
		logger.Error("failed to mark search running", "id", id, "error", err)
		return
	}

	outcome, err := RunJob(job)
	if err != nil {
		logger.Warn("search failed", "id", id, "error", err)
		if serr := e.store.SetFailed(id, err.Error()); serr != nil {
			logger.Error("failed to persist search failure", "id", id, "error", serr)
		}
		return
	}

	if err := e.store.SetOutcome(id, outcome); err != nil {
		logger.Error("failed to persist search outcome", "id", id, "error", err)
		return
	}
	logger.Info("search completed", "id", id, "mode", outcome.Mode,
		"best_v1", outcome.BestV1, "min_residual", outcome.MinResidual)
}
