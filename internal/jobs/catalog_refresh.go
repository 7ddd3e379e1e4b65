package jobs

import (
	"context"
	"log"
	"time"

	"leadflow/internal/services"
)

// CatalogRefreshJob periodically re-reads the orders catalog so status
// updates written to the file by the fulfillment side become visible
// without a restart. (Products reload through the file watcher; orders
// only through this job.)
type CatalogRefreshJob struct {
	orders   *services.OrderService
	interval time.Duration
}

// NewCatalogRefreshJob creates a new catalog refresh job.
func NewCatalogRefreshJob(orders *services.OrderService, interval time.Duration) *CatalogRefreshJob {
	return &CatalogRefreshJob{orders: orders, interval: interval}
}

// Run reloads the orders catalog.
func (j *CatalogRefreshJob) Run(ctx context.Context) error {
	before := j.orders.Count()
	j.orders.Reload()
	after := j.orders.Count()
	if after != before {
		log.Printf("🔄 [CATALOG-REFRESH] Orders catalog changed: %d -> %d entries", before, after)
	}
	return nil
}

// Interval returns how often the job runs.
func (j *CatalogRefreshJob) Interval() time.Duration {
	return j.interval
}
