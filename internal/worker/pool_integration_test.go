//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func redisDeTeste(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	uri, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type handlerFalho struct{ chamadas int }

func (h *handlerFalho) Process(context.Context, json.RawMessage) error {
	h.chamadas++
	return errors.New("smtp timeout")
}

func TestProcessJob_ReagendaComAtrasoEDepoisDLQ(t *testing.T) {
	rdb := redisDeTeste(t)
	ctx := context.Background()
	h := &handlerFalho{}
	handlers := map[string]Handler{JobReciboEmail: h}

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueReciboEmail(ctx, ReciboEmailPayload{VendaID: "v-42", Email: "c@x.com"}))

	agora := time.Now()
	for tentativa := 1; tentativa < maxTentativas; tentativa++ {
		raw, err := rdb.RPop(ctx, QueueEmail).Result()
		require.NoError(t, err)
		processJob(ctx, rdb, handlers, QueueEmail, raw)

		// Not back on the queue yet.
		n, err := rdb.LLen(ctx, QueueEmail).Result()
		require.NoError(t, err)
		assert.Zero(t, n)
		promovidos, err := promoverVencidos(ctx, rdb, agora)
		require.NoError(t, err)
		assert.Zero(t, promovidos)

		agora = agora.Add(calcularAtraso(tentativa) + time.Second)
		promovidos, err = promoverVencidos(ctx, rdb, agora)
		require.NoError(t, err)
		assert.Equal(t, 1, promovidos)
	}

	raw, err := rdb.RPop(ctx, QueueEmail).Result()
	require.NoError(t, err)
	processJob(ctx, rdb, handlers, QueueEmail, raw)
	assert.Equal(t, maxTentativas, h.chamadas)

	n, err := rdb.ZCard(ctx, FilaReagendados).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	tamanho, err := TamanhoDLQ(ctx, rdb, QueueEmail)
	require.NoError(t, err)
	assert.EqualValues(t, 1, tamanho)
	mortos, err := ListarDLQ(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, mortos, 1)
	assert.Equal(t, "v-42", mortos[0].VendaID)
	assert.Equal(t, maxTentativas, mortos[0].Tentativas)
	assert.Equal(t, "smtp timeout", mortos[0].Motivo)
	assert.NotEmpty(t, mortos[0].JobID)
}

func TestProcessJob_TipoDesconhecidoVaiDiretoParaDLQ(t *testing.T) {
	rdb := redisDeTeste(t)
	ctx := context.Background()
	handlers := map[string]Handler{}

	processJob(ctx, rdb, handlers, QueueEmail, `{"id":"x","type":"desconhecido","payload":{"venda_id":"v-1"}}`)

	mortos, err := ListarDLQ(ctx, rdb, QueueEmail, 10)
	require.NoError(t, err)
	require.Len(t, mortos, 1)
	assert.Equal(t, "tipo desconhecido", mortos[0].Motivo)
	assert.Equal(t, "v-1", mortos[0].VendaID)
	n, err := rdb.ZCard(ctx, FilaReagendados).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
