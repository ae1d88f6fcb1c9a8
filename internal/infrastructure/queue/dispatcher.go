package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vetpharmacy/inventory-api/internal/core/ports"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// HashWriter persists an upgraded password hash.
type HashWriter interface {
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

// Dispatcher routes rehash jobs to a fixed set of workers using consistent
// hashing on the user id, so updates for one user are applied in order.
type Dispatcher struct {
	workers []chan ports.RehashJob
	store   HashWriter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store HashWriter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.RehashJob, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RehashJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Enqueue hands a job to the worker responsible for its user. It never blocks;
// when that worker's buffer is full the job is dropped and false is returned.
func (d *Dispatcher) Enqueue(job ports.RehashJob) bool {
	idx := d.shardIndex(job.UserID)
	select {
	case d.workers[idx] <- job:
		metrics.RehashQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.RehashJobsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Int64("user_id", job.UserID).Int("worker_id", idx).Msg("rehash job dropped, queue full")
		return false
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RehashJob) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			metrics.RehashQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.store.UpdatePasswordHash(ctx, job.UserID, job.Hash); err != nil {
				metrics.RehashJobsTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Int64("user_id", job.UserID).
					Int("worker_id", id).
					Msg("rehash persist failed")
				continue
			}
			metrics.RehashJobsTotal.WithLabelValues("persisted").Inc()
			d.log.Info().Int64("user_id", job.UserID).Msg("password hash upgraded")
		}
	}
}
