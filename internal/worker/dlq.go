package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that fail permanently or run out of attempts land in a Redis list per
// source queue ("dlq:jobs:email") and stay there until someone looks at them.
const prefixoDLQ = "dlq:"

// EntradaDLQ is one dead job. VendaID is lifted out of the payload so a sale
// whose receipt never went out can be found without decoding every entry.
type EntradaDLQ struct {
	Fila       string          `json:"fila"`
	Tipo       string          `json:"tipo"`
	JobID      string          `json:"job_id,omitempty"`
	VendaID    string          `json:"venda_id,omitempty"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	Tentativas int             `json:"tentativas"`
	FalhouEm   time.Time       `json:"falhou_em"`
}

func novaEntradaDLQ(fila string, job Job, motivo string, agora time.Time) EntradaDLQ {
	e := EntradaDLQ{
		Fila:       fila,
		Tipo:       job.Type,
		JobID:      job.ID,
		Payload:    job.Payload,
		Motivo:     motivo,
		Tentativas: job.Tentativas,
		FalhouEm:   agora.UTC(),
	}
	var ref struct {
		VendaID string `json:"venda_id"`
	}
	if json.Unmarshal(job.Payload, &ref) == nil {
		e.VendaID = ref.VendaID
	}
	return e
}

func enviarParaDLQ(ctx context.Context, rdb *redis.Client, fila string, job Job, motivo string) {
	entrada := novaEntradaDLQ(fila, job, motivo, time.Now())
	data, err := json.Marshal(entrada)
	if err != nil {
		log.Error().Err(err).Str("fila", fila).Msg("dlq: entrada não serializável")
		return
	}
	if err := rdb.LPush(ctx, prefixoDLQ+fila, data).Err(); err != nil {
		log.Error().Err(err).Str("fila", fila).Str("venda_id", entrada.VendaID).Msg("dlq: push falhou")
		return
	}
	log.Warn().
		Str("fila", fila).
		Str("tipo", job.Type).
		Str("venda_id", entrada.VendaID).
		Str("motivo", motivo).
		Int("tentativas", job.Tentativas).
		Msg("dlq: job descartado")
}

// TamanhoDLQ reports how many dead jobs a queue has; shown on /health.
func TamanhoDLQ(ctx context.Context, rdb *redis.Client, fila string) (int64, error) {
	return rdb.LLen(ctx, prefixoDLQ+fila).Result()
}

// ListarDLQ returns up to n of the most recent dead jobs of a queue.
func ListarDLQ(ctx context.Context, rdb *redis.Client, fila string, n int64) ([]EntradaDLQ, error) {
	raws, err := rdb.LRange(ctx, prefixoDLQ+fila, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]EntradaDLQ, 0, len(raws))
	for _, raw := range raws {
		var e EntradaDLQ
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
