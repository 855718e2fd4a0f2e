package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	sharedUtils "github.com/davicafu/matafuegos/shared/utils"
)

// AsyncCacheSet actualiza caché en background sin bloquear
func AsyncCacheSet(ctx context.Context, cache Cache, key string, value interface{}, ttl int, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		// context.Background(): la escritura debe completarse aunque la petición original
		// ya haya terminado.
		cacheCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		if err := cache.Set(cacheCtx, key, value, ttl); err != nil {
			log.Warn("Cache update failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

// AsyncCacheDelete elimina de caché en background
func AsyncCacheDelete(ctx context.Context, cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		if err := cache.Delete(cacheCtx, key); err != nil {
			log.Warn("Cache deletion failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}()
}

// GetOrLoad implementa cache-aside: intenta la caché, si no carga con reintentos
// y guarda el resultado en background.
func GetOrLoad[T any](ctx context.Context, cache Cache, key string, ttl int, log *zap.Logger, load func(ctx context.Context) (T, error)) (T, error) {
	// 1. Intentar cache
	if cache != nil {
		var cached T
		if ok, err := cache.Get(ctx, key, &cached); err != nil {
			log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	// 2. Ir al repo con reintentos
	var value T
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		value, err = load(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	// 3. Actualizar cache en background sin bloquear la respuesta
	AsyncCacheSet(ctx, cache, key, value, ttl, log)
	return value, nil
}
