package cache

import (
	"context"

	"github.com/davicafu/matafuegos/internal/preferences/domain"
	sharedCache "github.com/davicafu/matafuegos/shared/platform/cache"
)

const settingsKey = "preferences:settings"

// CacheSettings persiste las preferencias en la caché compartida (Redis en despliegue) sin vencimiento.
type CacheSettings struct {
	cache sharedCache.Cache
}

var _ domain.Persistence = (*CacheSettings)(nil)

func NewCacheSettings(c sharedCache.Cache) *CacheSettings {
	return &CacheSettings{cache: c}
}

func (c *CacheSettings) Load(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	ok, err := c.cache.Get(ctx, settingsKey, &s)
	if err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (c *CacheSettings) Save(ctx context.Context, s domain.Settings) error {
	return c.cache.Set(ctx, settingsKey, s, sharedCache.NoExpiration)
}
