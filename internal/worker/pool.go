package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobReciboEmail = "recibo_email"

	// FilaReagendados is a sorted set of failed jobs keyed by the unix
	// milliseconds at which they may run again.
	FilaReagendados = "jobs:reagendados"

	// maxTentativas is the number of attempts before a job goes to the DLQ.
	maxTentativas = 3

	atrasoBase         = 30 * time.Second
	atrasoMax          = 10 * time.Minute
	intervaloPromocao  = 5 * time.Second
	lotePromocao int64 = 50
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Tentativas int             `json:"tentativas"`
}

// reagendado is the member stored in FilaReagendados.
type reagendado struct {
	Fila string `json:"fila"`
	Job  Job    `json:"job"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// ErrPermanente marks a failure that retrying cannot fix; the job goes
// straight to the DLQ.
var ErrPermanente = errors.New("falha permanente")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

// NewDispatcher returns nil when rdb is nil; a nil *Dispatcher drops jobs.
func NewDispatcher(rdb *redis.Client) *Dispatcher {
	if rdb == nil {
		return nil
	}
	return &Dispatcher{rdb: rdb}
}

// ReciboEmailPayload asks the worker to mail the receipt of a sale.
type ReciboEmailPayload struct {
	VendaID string `json:"venda_id"`
	Email   string `json:"email"`
}

// EnqueueReciboEmail pushes a receipt e-mail job to Redis.
func (d *Dispatcher) EnqueueReciboEmail(ctx context.Context, payload ReciboEmailPayload) error {
	if d == nil {
		return nil
	}
	return d.enqueue(ctx, QueueEmail, JobReciboEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{ID: uuid.NewString(), Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, idle until a job arrives.
// A separate goroutine moves due retries from FilaReagendados back to their queue.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	go runPromotor(ctx, rdb)
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runPromotor(ctx context.Context, rdb *redis.Client) {
	ticker := time.NewTicker(intervaloPromocao)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := promoverVencidos(ctx, rdb, time.Now()); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("worker: promoção de reagendados falhou")
			}
		}
	}
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]Handler) {
	queues := []string{QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers map[string]Handler, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		enviarParaDLQ(ctx, rdb, queue, Job{Payload: json.RawMessage(raw)}, "payload ilegível")
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		enviarParaDLQ(ctx, rdb, queue, job, "tipo desconhecido")
		return
	}

	job.Tentativas++
	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	if errors.Is(err, ErrPermanente) || job.Tentativas >= maxTentativas {
		enviarParaDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	atraso := calcularAtraso(job.Tentativas)
	log.Warn().Err(err).
		Str("type", job.Type).
		Int("tentativa", job.Tentativas).
		Dur("atraso", atraso).
		Msg("job failed, retry scheduled")
	if err := reagendar(ctx, rdb, queue, job, time.Now().Add(atraso)); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("reschedule failed")
	}
}

// calcularAtraso doubles the wait after every failed attempt: 30s, 1m, 2m...
// capped at atrasoMax.
func calcularAtraso(tentativa int) time.Duration {
	if tentativa < 1 {
		tentativa = 1
	}
	atraso := atrasoBase
	for i := 1; i < tentativa; i++ {
		atraso *= 2
		if atraso >= atrasoMax {
			return atrasoMax
		}
	}
	return atraso
}

func reagendar(ctx context.Context, rdb *redis.Client, fila string, job Job, quando time.Time) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	member, err := json.Marshal(reagendado{Fila: fila, Job: job})
	if err != nil {
		return err
	}
	return rdb.ZAdd(ctx, FilaReagendados, redis.Z{Score: float64(quando.UnixMilli()), Member: member}).Err()
}

// promoverVencidos pushes every retry due at or before agora back onto its
// queue. ZRem decides ownership, so concurrent promoters never double-push.
func promoverVencidos(ctx context.Context, rdb *redis.Client, agora time.Time) (int, error) {
	membros, err := rdb.ZRangeByScore(ctx, FilaReagendados, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(agora.UnixMilli(), 10),
		Count: lotePromocao,
	}).Result()
	if err != nil {
		return 0, err
	}
	promovidos := 0
	for _, m := range membros {
		removido, err := rdb.ZRem(ctx, FilaReagendados, m).Result()
		if err != nil {
			return promovidos, err
		}
		if removido == 0 {
			continue
		}
		var r reagendado
		if err := json.Unmarshal([]byte(m), &r); err != nil {
			log.Error().Err(err).Msg("worker: reagendado ilegível descartado")
			continue
		}
		if err := push(ctx, rdb, r.Fila, r.Job); err != nil {
			return promovidos, err
		}
		promovidos++
	}
	return promovidos, nil
}
