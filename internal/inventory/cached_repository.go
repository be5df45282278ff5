package inventory

import (
	"context"     // Request scoped calls
	"sync/atomic" // Hit and miss counters
	"time"        // Cache TTL and breaker windows

	"vegetable_inventory/internal/domain" // Importing domain models
	"vegetable_inventory/internal/utils"  // Cache abstraction

	"github.com/sirupsen/logrus"      // Logging library
	"github.com/sony/gobreaker"       // Circuit breaker around the cache
	"go.opentelemetry.io/otel"        // Global meter provider
	"go.opentelemetry.io/otel/metric" // Observable counters
	"golang.org/x/sync/singleflight"  // Collapse concurrent cache misses
)

// Cache keys for the inventory listing and its running sum
const (
	listCacheKey = "vegetables:all"
	sumCacheKey  = "vegetables:sum"
)

type cachedRepository struct {
	next  Repository                // Source of truth
	cache utils.Cache               // Read cache
	ttl   time.Duration             // Entry lifetime
	cb    *gobreaker.CircuitBreaker // Skips the cache while it is failing
	sf    singleflight.Group        // One database load per key at a time
	log   logrus.FieldLogger        // Logger
	meter metric.Meter              // Cache metrics

	generation  uint64 // Bumped by every write before invalidation
	hitsTotal   uint64 // Reads answered by the cache
	missesTotal uint64 // Reads that went to the database
}

// NewCachedRepository caches ListAll and SumTotalValue in front of next.
// Every successful write invalidates both keys. Cache failures fall back to next.
func NewCachedRepository(next Repository, cache utils.Cache, ttl time.Duration, log logrus.FieldLogger) Repository {
	st := gobreaker.Settings{
		Name:        "InventoryCache",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("CircuitBreaker %s state changed from %s to %s", name, from, to)
		},
	}
	c := &cachedRepository{
		next:  next,
		cache: cache,
		ttl:   ttl,
		cb:    gobreaker.NewCircuitBreaker(st),
		log:   log,
		meter: otel.Meter("vegetable_inventory/inventory"),
	}
	c.registerMetrics()
	return c
}

func (c *cachedRepository) registerMetrics() {
	_, err := c.meter.Int64ObservableCounter(
		"inventory_cache_hits_total",
		metric.WithUnit("{reads}"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			obs.Observe(int64(atomic.LoadUint64(&c.hitsTotal)))
			return nil
		}),
	)
	if err != nil {
		c.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to register cache hit metric")
	}

	_, err = c.meter.Int64ObservableCounter(
		"inventory_cache_misses_total",
		metric.WithUnit("{reads}"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			obs.Observe(int64(atomic.LoadUint64(&c.missesTotal)))
			return nil
		}),
	)
	if err != nil {
		c.log.WithFields(logrus.Fields{"error": err.Error()}).Warn("Failed to register cache miss metric")
	}
}

func (c *cachedRepository) Create(ctx context.Context, in VegetableInput) (*domain.Vegetable, error) {
	v, err := c.next.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return v, nil
}

func (c *cachedRepository) ListAll(ctx context.Context) ([]domain.Vegetable, error) {
	var cached []domain.Vegetable
	if c.load(ctx, listCacheKey, &cached) {
		return cached, nil
	}
	v, err := c.loadThrough(ctx, listCacheKey, func(ctx context.Context) (interface{}, error) {
		return c.next.ListAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Vegetable), nil
}

func (c *cachedRepository) FindBySubstring(ctx context.Context, fragment string) ([]domain.Vegetable, error) {
	return c.next.FindBySubstring(ctx, fragment)
}

func (c *cachedRepository) SumTotalValue(ctx context.Context) (float64, error) {
	var cached float64
	if c.load(ctx, sumCacheKey, &cached) {
		return cached, nil
	}
	v, err := c.loadThrough(ctx, sumCacheKey, func(ctx context.Context) (interface{}, error) {
		return c.next.SumTotalValue(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func (c *cachedRepository) GetByID(ctx context.Context, id uint) (*domain.Vegetable, error) {
	return c.next.GetByID(ctx, id)
}

func (c *cachedRepository) Update(ctx context.Context, id uint, in VegetableInput) (*domain.Vegetable, error) {
	v, err := c.next.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return v, nil
}

func (c *cachedRepository) Delete(ctx context.Context, id uint) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// load reports whether key was found and decoded into dest
func (c *cachedRepository) load(ctx context.Context, key string, dest any) bool {
	found, err := c.cb.Execute(func() (interface{}, error) {
		return c.cache.Get(ctx, key, dest)
	})
	if err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
		atomic.AddUint64(&c.missesTotal, 1)
		return false
	}
	if found.(bool) {
		atomic.AddUint64(&c.hitsTotal, 1)
		return true
	}
	atomic.AddUint64(&c.missesTotal, 1)
	return false
}

// loadThrough runs fetch once per key for all concurrent callers and caches its result.
// fetch gets a context that outlives any single caller; a caller whose own ctx ends stops waiting.
func (c *cachedRepository) loadThrough(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		shared := context.WithoutCancel(ctx)           // Other callers may be waiting on this load
		generation := atomic.LoadUint64(&c.generation) // Writes after this point make the result stale
		v, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		c.store(shared, key, v, generation)
		return v, nil
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// store caches value unless a write happened since generation was read
func (c *cachedRepository) store(ctx context.Context, key string, value any, generation uint64) {
	if atomic.LoadUint64(&c.generation) != generation {
		return // Loaded before a write
	}
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.cache.Set(ctx, key, value, c.ttl)
	})
	if err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
		return
	}
	if atomic.LoadUint64(&c.generation) != generation {
		// A write invalidated between the check and the Set
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Error("Cache invalidation failed")
		}
	}
}

func (c *cachedRepository) invalidate(ctx context.Context) {
	atomic.AddUint64(&c.generation, 1) // Before the delete so in-flight loads see it
	c.sf.Forget(listCacheKey)          // Later readers start a fresh load
	c.sf.Forget(sumCacheKey)
	// Invalidation ignores the breaker state
	if err := c.cache.Delete(ctx, listCacheKey, sumCacheKey); err != nil {
		c.log.WithFields(logrus.Fields{"error": err.Error()}).Error("Cache invalidation failed")
	}
}
