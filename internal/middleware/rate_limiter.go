package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"filialpos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// janela counts hits of one client inside a fixed window.
type janela struct {
	hits int
	fim  time.Time
}

// limitador is a fixed-window counter keyed by client IP.
type limitador struct {
	mu      sync.Mutex
	janelas map[string]*janela
	limite  int
	periodo time.Duration
}

func novoLimitador(limite int, periodo time.Duration) *limitador {
	l := &limitador{janelas: make(map[string]*janela), limite: limite, periodo: periodo}
	registrarLimitador(l)
	return l
}

// permitir records a hit for chave and reports whether it is within the
// limit, plus the end of the current window.
func (l *limitador) permitir(chave string, agora time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	j, ok := l.janelas[chave]
	if !ok || agora.After(j.fim) {
		j = &janela{fim: agora.Add(l.periodo)}
		l.janelas[chave] = j
	}
	j.hits++
	return j.hits <= l.limite, j.fim
}

func (l *limitador) purgar(agora time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for chave, j := range l.janelas {
		if agora.After(j.fim) {
			delete(l.janelas, chave)
			n++
		}
	}
	return n
}

func (l *limitador) middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fim := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			segundos := int(time.Until(fim).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(segundos))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts per IP per minute.
func LoginRateLimiter(limite int) gin.HandlerFunc {
	return novoLimitador(limite, time.Minute).middleware("muitas tentativas de login, tente novamente em 1 minuto")
}

// RateLimiter is the general per-IP limiter applied to every route.
func RateLimiter(limite int, periodo time.Duration) gin.HandlerFunc {
	return novoLimitador(limite, periodo).middleware("muitas requisições, tente novamente em instantes")
}

// ── Purge ────────────────────────────────────────────────────────────────────
// Expired windows are dropped periodically so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
	purgeOnce     sync.Once
)

func registrarLimitador(l *limitador) {
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	purgeOnce.Do(func() { go purgarPeriodicamente() })
}

func purgarPeriodicamente() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for agora := range ticker.C {
		limitadoresMu.Lock()
		ls := append([]*limitador(nil), limitadores...)
		limitadoresMu.Unlock()

		total := 0
		for _, l := range ls {
			total += l.purgar(agora)
		}
		if total > 0 {
			log.Debug().Int("entries_purged", total).Msg("rate limiter windows purged")
		}
	}
}
