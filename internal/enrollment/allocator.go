package enrollment

import (
	"context"
	"time"

	"github.com/chzeraa/painel-bemaxx/internal/models"
)

// Milestone is one step of the cosmetic draw progress shown to sellers.
type Milestone struct {
	Percent int    // Progress percentage at this step.
	Stage   string // Human-readable stage label.
}

// drawMilestones are the fixed progress steps walked during the cosmetic
// delay before a drawn number is revealed.
var drawMilestones = []Milestone{
	{Percent: 20, Stage: "checking available codes"},
	{Percent: 40, Stage: "validating pool"},
	{Percent: 60, Stage: "processing"},
	{Percent: 80, Stage: "selecting unique number"},
	{Percent: 100, Stage: "done"},
}

// Allocator wraps the pool draw with the panel's presentational processing
// delay. The delay happens entirely outside any transaction, holds no locks,
// and is cancellable through the context; correctness never depends on it.
type Allocator struct {
	service *Service
	delay   time.Duration
}

// NewAllocator builds an allocator with the configured total delay. A zero
// delay skips the milestone walk entirely.
func NewAllocator(service *Service, delay time.Duration) *Allocator {
	return &Allocator{service: service, delay: delay}
}

// ProgressFunc receives milestone updates during a draw. It may be nil.
type ProgressFunc func(milestone Milestone)

// Draw selects an available code and walks the progress milestones before
// returning it. The selection is non-destructive: abandoning the flow after
// Draw leaves the code available. Cancelling the context aborts the wait and
// returns ctx.Err() with no state changed.
func (a *Allocator) Draw(ctx context.Context, onProgress ProgressFunc) (*models.Matricula, error) {
	matricula, errDraw := a.service.Draw(ctx)
	if errDraw != nil {
		return nil, errDraw
	}

	if a.delay > 0 {
		step := a.delay / time.Duration(len(drawMilestones))
		timer := time.NewTimer(step)
		defer timer.Stop()
		for i, milestone := range drawMilestones {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-timer.C:
			}
			if onProgress != nil {
				onProgress(milestone)
			}
			if i < len(drawMilestones)-1 {
				timer.Reset(step)
			}
		}
	} else if onProgress != nil {
		onProgress(drawMilestones[len(drawMilestones)-1])
	}

	return matricula, nil
}
