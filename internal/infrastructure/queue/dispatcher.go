package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/api/metrics"
	"github.com/spit-library/auth-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	appendTimeout  = 10 * time.Second
)

// LoginEventDispatcher delivers login-history appends to a fixed set of
// workers, sharded by uid so each user's history stays ordered. Delivery is
// best effort: a full shard drops the event with a warning rather than
// blocking the submission path.
type LoginEventDispatcher struct {
	workers  []chan string
	profiles ports.ProfileRepository
	log      zerolog.Logger
}

var _ ports.LoginEventSink = (*LoginEventDispatcher)(nil)

// NewLoginEventDispatcher creates a dispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewLoginEventDispatcher(numWorkers int, profiles ports.ProfileRepository, log zerolog.Logger) *LoginEventDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &LoginEventDispatcher{
		workers:  make([]chan string, numWorkers),
		profiles: profiles,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *LoginEventDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues one login event for uid without blocking the caller.
func (d *LoginEventDispatcher) Record(uid string) {
	i := d.shardIndex(uid)
	select {
	case d.workers[i] <- uid:
		metrics.LoginEventQueueDepth.WithLabelValues(strconv.Itoa(i)).Inc()
	default:
		d.log.Warn().Str("uid", uid).Int("worker_id", i).Msg("login event dropped, shard full")
	}
}

// shardIndex maps a uid deterministically to a worker index.
func (d *LoginEventDispatcher) shardIndex(uid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(uid))
	return int(h.Sum32()) % len(d.workers)
}

func (d *LoginEventDispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case uid, ok := <-ch:
			if !ok {
				return
			}
			metrics.LoginEventQueueDepth.WithLabelValues(label).Dec()

			appendCtx, cancel := context.WithTimeout(ctx, appendTimeout)
			err := d.profiles.AppendLoginEvent(appendCtx, uid)
			cancel()
			if err != nil {
				d.log.Error().Err(err).
					Str("uid", uid).
					Int("worker_id", id).
					Msg("login event append failed")
			}
		}
	}
}
