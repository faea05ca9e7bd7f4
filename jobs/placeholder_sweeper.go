package jobs

import (
	"context"
	"log"
	"time"

	"drivebox/services"
)

// PlaceholderSweeper removes file rows whose upload never completed.
// A presigned-URL flow leaves no trace when the client dies between
// requesting the URL and reporting completion, but a client that
// reports completion for an object that later fails verification can
// leave a row with no object reference. The sweeper reaps those rows
// after a grace period so listings do not accumulate dead entries.
type PlaceholderSweeper struct {
	store       *services.ItemStore
	itemService *services.ItemService
	interval    time.Duration
	gracePeriod time.Duration
	logger      *log.Logger
}

func NewPlaceholderSweeper(store *services.ItemStore, itemService *services.ItemService, interval, gracePeriod time.Duration) *PlaceholderSweeper {
	return &PlaceholderSweeper{
		store:       store,
		itemService: itemService,
		interval:    interval,
		gracePeriod: gracePeriod,
		logger:      log.New(log.Writer(), "[SWEEPER] ", log.LstdFlags),
	}
}

// Start runs the sweep loop until ctx is cancelled. It sweeps once
// immediately, then on every tick.
func (ps *PlaceholderSweeper) Start(ctx context.Context) {
	ps.logger.Printf("Starting placeholder sweeper (interval: %v, grace period: %v)", ps.interval, ps.gracePeriod)

	ps.runSweep(ctx)

	ticker := time.NewTicker(ps.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ps.logger.Println("Placeholder sweeper stopped")
			return
		case <-ticker.C:
			ps.runSweep(ctx)
		}
	}
}

func (ps *PlaceholderSweeper) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-ps.gracePeriod)

	stale, err := ps.store.ListStalePlaceholders(sweepCtx, cutoff)
	if err != nil {
		ps.logger.Printf("Error listing stale placeholders: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	var deleted int
	parents := make(map[uint64]struct{})

	for _, item := range stale {
		existed, err := ps.store.Delete(sweepCtx, item.ID)
		if err != nil {
			ps.logger.Printf("Failed to delete placeholder %d (%s): %v", item.ID, item.Name, err)
			continue
		}
		if !existed {
			continue
		}
		if item.ParentID != nil {
			parents[*item.ParentID] = struct{}{}
		}
		deleted++
		ps.logger.Printf("Removed stale placeholder: %s (id=%d)", item.Name, item.ID)
	}

	// Re-derive item counts for every folder that lost a row.
	for parentID := range parents {
		if err := ps.itemService.RecomputeItemCount(sweepCtx, parentID); err != nil {
			ps.logger.Printf("Failed to recount folder %d: %v", parentID, err)
		}
	}

	ps.logger.Printf("Placeholder sweep completed, removed %d rows", deleted)
}
