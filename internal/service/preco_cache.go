package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const prefixoPreco = "preco:"

// ChavePreco is the Redis key of a cached public price lookup.
func ChavePreco(armazemID uuid.UUID, codigo string) string {
	return fmt.Sprintf("%s%s:%s", prefixoPreco, armazemID, codigo)
}

// invalidarPreco drops cached lookups for the given keys. Best effort: the
// entries also expire on their own.
func invalidarPreco(ctx context.Context, rdb *redis.Client, chaves ...string) {
	if rdb == nil || len(chaves) == 0 {
		return
	}
	if err := rdb.Del(ctx, chaves...).Err(); err != nil {
		log.Warn().Err(err).Msg("preco cache: invalidation failed")
	}
}

// invalidarArmazem drops every cached lookup of a warehouse, or of all
// warehouses when armazemID is nil.
func invalidarArmazem(ctx context.Context, rdb *redis.Client, armazemID *uuid.UUID) {
	if rdb == nil {
		return
	}
	padrao := prefixoPreco + "*"
	if armazemID != nil {
		padrao = prefixoPreco + armazemID.String() + ":*"
	}
	var chaves []string
	iter := rdb.Scan(ctx, 0, padrao, 200).Iterator()
	for iter.Next(ctx) {
		chaves = append(chaves, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn().Err(err).Str("pattern", padrao).Msg("preco cache: scan failed")
		return
	}
	invalidarPreco(ctx, rdb, chaves...)
}
