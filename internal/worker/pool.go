package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlertas = "jobs:alertas"

	JobAlertaStock = "alerta_stock"

	// MaxIntentos is how many times a job runs before it lands in the DLQ.
	MaxIntentos = 3
)

// ErrPermanente marks a failure that retrying cannot fix (bad payload,
// unknown job type). Such jobs go straight to the DLQ.
var ErrPermanente = errors.New("error permanente")

// Job is the envelope stored in the Redis lists.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
	Redrives int             `json:"redrives,omitempty"`
}

// Handler runs one job type. A nil error acks the job.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueAlertaStock pushes a low-stock notification job.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, p AlertaStockPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, QueueAlertas, Job{Type: JobAlertaStock, Payload: data})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	queues   []string
	wg       sync.WaitGroup

	// overridable in tests
	backoff func(intento int) time.Duration
	requeue func(ctx context.Context, queue string, job Job) error
	toDLQ   func(ctx context.Context, queue string, job Job, reason string)
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	p := &Pool{
		rdb:      rdb,
		handlers: handlers,
		queues:   []string{QueueAlertas},
		backoff:  computeRetryBackoff,
	}
	p.requeue = func(ctx context.Context, queue string, job Job) error {
		return pushJob(ctx, p.rdb, queue, job)
	}
	p.toDLQ = func(ctx context.Context, queue string, job Job, reason string) {
		SendToDLQ(ctx, p.rdb, queue, job, reason)
	}
	return p
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost nothing. Cancel ctx and call Wait to drain.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", p.queues).Msg("worker pool started")
}

// Wait blocks until every worker goroutine has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		// waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("worker: brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.handle(ctx, result[0], result[1])
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: failed to unmarshal job")
		p.toDLQ(ctx, queue, Job{Payload: json.RawMessage(`null`)}, "json invalido: "+err.Error())
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		p.toDLQ(ctx, queue, job, "tipo de job desconocido")
		return
	}

	job.Intentos++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Int("intento", job.Intentos).Msg("worker: job done")
		return
	}

	if errors.Is(err, ErrPermanente) || job.Intentos >= MaxIntentos {
		p.toDLQ(ctx, queue, job, err.Error())
		return
	}

	log.Warn().Err(err).
		Str("type", job.Type).
		Int("intento", job.Intentos).
		Msg("worker: job failed, retrying")

	select {
	case <-time.After(p.backoff(job.Intentos)):
	case <-ctx.Done():
	}
	// ctx may be cancelled; use a detached context so the job is not lost
	if err := p.requeue(context.WithoutCancel(ctx), queue, job); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("worker: requeue failed")
	}
}

// computeRetryBackoff returns 2s, 4s, 8s... capped at 30s.
func computeRetryBackoff(intento int) time.Duration {
	d := time.Duration(1<<uint(intento)) * time.Second
	if d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}
