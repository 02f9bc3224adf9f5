package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/internal/domain"
)

const (
	idempotencyPrefix = "idem:"
	// la creación de un pedido nunca debería tardar más que esto
	inFlightTTL = 30 * time.Second
)

// IdempotencyStore guarda la respuesta de una petición por Idempotency-Key.
// Mientras la primera petición se procesa, la clave queda tomada con un lock distribuido.
type IdempotencyStore struct {
	rdb    *redis.Client
	locker *redislock.Client
	ttl    time.Duration
}

// NewIdempotencyStore construye el store. ttl es la vida de la respuesta guardada.
func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{rdb: rdb, locker: redislock.New(rdb), ttl: ttl}
}

// Acquire toma la clave. Si otra petición la tiene devuelve domain.ErrConflict.
func (s *IdempotencyStore) Acquire(ctx context.Context, key string) (func(), error) {
	lock, err := s.locker.Obtain(ctx, lockKey(key), inFlightTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock de idempotencia: %w", err)
	}
	return func() {
		// contexto propio: la petición pudo haberse cancelado
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = lock.Release(releaseCtx)
	}, nil
}

// Get devuelve la respuesta guardada, si existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*dto.IdempotentResponse, bool, error) {
	raw, err := s.rdb.Get(ctx, responseKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leer respuesta idempotente: %w", err)
	}
	var resp dto.IdempotentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decodificar respuesta idempotente: %w", err)
	}
	return &resp, true, nil
}

// Save guarda la respuesta durante el TTL configurado.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp *dto.IdempotentResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("codificar respuesta idempotente: %w", err)
	}
	if err := s.rdb.Set(ctx, responseKey(key), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar respuesta idempotente: %w", err)
	}
	return nil
}

func responseKey(key string) string { return idempotencyPrefix + key }
func lockKey(key string) string     { return idempotencyPrefix + "lock:" + key }
