package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allegro/bigcache/v3"

	"fooddelivery/internal/config"
	"fooddelivery/internal/monitor"
	"fooddelivery/internal/repository"
	"fooddelivery/pkg/geo"
	"fooddelivery/pkg/log"
)

// RegionProvider resolves the service region of a store
type RegionProvider interface {
	ServiceRegion(ctx context.Context, storeID uint64) (geo.Region, error)
}

// RegionCache caches store service regions in process. Regions change
// rarely and every checkout reads one, so a short TTL local cache keeps
// the validator off the database.
type RegionCache struct {
	cache  *bigcache.BigCache
	stores *repository.StoreRepository
}

// NewRegionCache create region cache
func NewRegionCache(stores *repository.StoreRepository, cfg *config.CacheConfig) (*RegionCache, error) {
	bcConfig := bigcache.DefaultConfig(cfg.RegionTTL)
	bcConfig.Shards = cfg.RegionShards
	bcConfig.HardMaxCacheSize = cfg.RegionMaxSize

	cache, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create region cache: %w", err)
	}

	return &RegionCache{
		cache:  cache,
		stores: stores,
	}, nil
}

// ServiceRegion resolve a region, cache aside
func (rc *RegionCache) ServiceRegion(ctx context.Context, storeID uint64) (geo.Region, error) {
	key := fmt.Sprintf("store:region:%d", storeID)

	if data, err := rc.cache.Get(key); err == nil {
		var region geo.Region
		if err := json.Unmarshal(data, &region); err == nil {
			monitor.RegionCacheTotal.WithLabelValues("hit").Inc()
			return region, nil
		}
	}

	monitor.RegionCacheTotal.WithLabelValues("miss").Inc()
	region, err := rc.stores.ServiceRegion(ctx, storeID)
	if err != nil {
		return geo.Region{}, err
	}

	if data, err := json.Marshal(region); err == nil {
		if err := rc.cache.Set(key, data); err != nil {
			log.WithError(err).Warn("Failed to cache service region")
		}
	}

	return region, nil
}

// Invalidate drop a cached region
func (rc *RegionCache) Invalidate(storeID uint64) {
	_ = rc.cache.Delete(fmt.Sprintf("store:region:%d", storeID))
}
