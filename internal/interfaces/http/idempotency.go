package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pedidos/internal/application/dto"
	"github.com/jhoicas/inventario-pedidos/pkg/logger"
)

// HeaderIdempotencyKey cabecera que identifica un reintento de la misma petición.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 200

// IdempotencyStore guarda respuestas por clave y serializa peticiones concurrentes con la misma clave.
type IdempotencyStore interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
	Get(ctx context.Context, key string) (*dto.IdempotentResponse, bool, error)
	Save(ctx context.Context, key string, resp *dto.IdempotentResponse) error
}

// Idempotency repite la respuesta guardada cuando llega otra vez la misma Idempotency-Key.
// Sin cabecera, o con store nil, la petición pasa sin cambios. Solo se guardan respuestas 2xx.
func Idempotency(store IdempotencyStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if store == nil || key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}
		// la clave es por usuario
		key = GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + key
		hash := requestHash(c)
		ctx := c.UserContext()

		if done, err := replay(c, store, key, hash); done || err != nil {
			if err != nil {
				log.Error().Err(err).Msg("idempotencia: lectura")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la Idempotency-Key"})
			}
			return nil
		}

		release, err := store.Acquire(ctx, key)
		if err != nil {
			return writeError(c, err)
		}
		defer release()

		// la primera petición pudo terminar entre la lectura y el lock
		if done, err := replay(c, store, key, hash); done || err != nil {
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la Idempotency-Key"})
			}
			return nil
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}
		resp := &dto.IdempotentResponse{
			RequestHash: hash,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := store.Save(ctx, key, resp); err != nil {
			// el pedido ya existe; un reintento con la misma clave crearía otro
			log.Error().Err(err).Str("path", c.Path()).Msg("idempotencia: no se guardó la respuesta")
		}
		return nil
	}
}

// replay escribe la respuesta guardada si existe. done indica que la petición ya fue atendida.
func replay(c *fiber.Ctx, store IdempotencyStore, key, hash string) (done bool, err error) {
	stored, ok, err := store.Get(c.UserContext(), key)
	if err != nil || !ok {
		return false, err
	}
	if stored.RequestHash != hash {
		return true, c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "IDEMPOTENCY_KEY_REUSED",
			Message: "la Idempotency-Key ya se usó con otro cuerpo",
		})
	}
	c.Set("Idempotent-Replayed", "true")
	if stored.ContentType != "" {
		c.Set(fiber.HeaderContentType, stored.ContentType)
	}
	return true, c.Status(stored.Status).Send(stored.Body)
}

func requestHash(c *fiber.Ctx) string {
	h := sha256.New()
	h.Write([]byte(c.Method()))
	h.Write([]byte(c.Path()))
	h.Write(c.Body())
	return hex.EncodeToString(h.Sum(nil))
}
