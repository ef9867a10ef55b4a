// Package queue runs background tracking-refresh jobs on a fixed worker
// pool.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/api/metrics"
	"github.com/99minutos/carrier-gateway/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes refresh jobs to a fixed set of workers using consistent
// hashing on the tracking number, so repeated refreshes of one shipment
// never race each other.
type Dispatcher struct {
	workers  []chan ports.TrackingRefreshJob
	resolver ports.CarrierResolver
	sink     ports.TrackingSink
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, resolver ports.CarrierResolver, sink ports.TrackingSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.TrackingRefreshJob, numWorkers),
		resolver: resolver,
		sink:     sink,
		log:      log.With().Str("component", "refresh_queue").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TrackingRefreshJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its tracking number.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job ports.TrackingRefreshJob) {
	idx := d.shardIndex(job.TrackingNumber)
	d.workers[idx] <- job
	metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a tracking number deterministically to a worker index.
func (d *Dispatcher) shardIndex(trackingNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(trackingNumber))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TrackingRefreshJob) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, job)
			metrics.RefreshQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job ports.TrackingRefreshJob) {
	carrier, err := d.resolver.Resolve(job.CarrierName)
	if err != nil {
		metrics.RefreshJobsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).Str("tracking_number", job.TrackingNumber).Msg("refresh job dropped")
		return
	}

	result, err := carrier.FindTrackingInfo(ctx, job.TrackingNumber, job.Options)
	if err != nil {
		metrics.RefreshJobsTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("carrier", job.CarrierName).
			Str("tracking_number", job.TrackingNumber).
			Msg("refresh lookup failed")
		return
	}

	outcome := "in_flight"
	if result.Tracking != nil && result.Tracking.Delivered {
		outcome = "delivered"
	}
	metrics.RefreshJobsTotal.WithLabelValues(outcome).Inc()

	d.sink.Deliver(ctx, job, result)
}
