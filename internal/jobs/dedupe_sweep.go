package jobs

import (
	"context"
	"log"
	"time"

	"leadflow/internal/services"
)

// DedupeSweepJob evicts expired lead identities from the dedup caches
// and logs the cache size, so identity growth stays visible.
type DedupeSweepJob struct {
	deduper  *services.DeduperService
	interval time.Duration
}

// NewDedupeSweepJob creates a new dedup sweep job.
func NewDedupeSweepJob(deduper *services.DeduperService, interval time.Duration) *DedupeSweepJob {
	return &DedupeSweepJob{deduper: deduper, interval: interval}
}

// Run sweeps expired identities.
func (j *DedupeSweepJob) Run(ctx context.Context) error {
	evicted := j.deduper.SweepExpired()
	log.Printf("🧹 [DEDUPE-SWEEP] Evicted %d identities, %d still tracked", evicted, j.deduper.KnownIdentities())
	return nil
}

// Interval returns how often the job runs.
func (j *DedupeSweepJob) Interval() time.Duration {
	return j.interval
}
