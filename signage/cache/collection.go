// Package cache implements the image caching core: a disk store with a size
// budget, a process-lifetime memory tier, and an asynchronous pipeline that
// fills both without blocking listing calls. One Collection serves one
// logical set of images (promotions, outlet images); collections share
// nothing and are instantiated independently.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dfryer1193/signage/signage/domain"
)

// Normalizer turns a raw upstream blob into servable encoded bytes. The
// codec package provides the production implementation.
type Normalizer interface {
	Normalize(raw string) ([]byte, error)
	ContentType() string
}

const (
	DefaultPriorityBatch = 3
	DefaultWorkers       = 4
	DefaultFetchTimeout  = 30 * time.Second
)

type Config struct {
	// Name tags log lines; collections are otherwise anonymous.
	Name string

	// PriorityBatch is how many pending images are processed inline before
	// a listing call returns.
	PriorityBatch int

	// Workers bounds the async pool.
	Workers int

	// FetchTimeout caps the lazy fetch performed when a streamed image is
	// absent from every tier.
	FetchTimeout time.Duration

	// ImageURL renders the public URL for an image id.
	ImageURL func(id string) string
}

// Collection orchestrates one image set: it fetches the upstream record
// set, decides hit or miss per record, dispatches processing, and serves
// the two public operations, List and Stream.
type Collection[M any] struct {
	cfg      Config
	provider domain.Provider[M]
	store    *Store
	codec    Normalizer
	mem      *memoryCache[M]

	mu    sync.Mutex
	state State

	// refreshGroup collapses concurrent warming fetches into one upstream
	// call; lazyGroup does the same per image id for lazy fetches.
	refreshGroup singleflight.Group
	lazyGroup    singleflight.Group
}

func NewCollection[M any](cfg Config, provider domain.Provider[M], store *Store, cdc Normalizer) *Collection[M] {
	if cfg.PriorityBatch <= 0 {
		cfg.PriorityBatch = DefaultPriorityBatch
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.ImageURL == nil {
		cfg.ImageURL = func(id string) string { return id }
	}

	return &Collection[M]{
		cfg:      cfg,
		provider: provider,
		store:    store,
		codec:    cdc,
		mem:      newMemoryCache[M](),
	}
}

// State returns the collection's warmup state.
func (c *Collection[M]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Collection[M]) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// List returns metadata for every known image. Once the collection is
// ready it is served entirely from memory; before that, the upstream record
// set is fetched and pending images are dispatched for processing, with
// metadata returned immediately rather than waiting for the images
// themselves. An upstream failure degrades to the best known snapshot,
// never an error.
func (c *Collection[M]) List(ctx context.Context) []domain.Item[M] {
	if c.State() == Ready {
		return c.items()
	}

	if err := c.Refresh(ctx); err != nil {
		log.Warn().Str("collection", c.cfg.Name).Err(err).Msg("Refresh failed, serving snapshot")
	}

	return c.items()
}

// Refresh fetches the current upstream record set and reconciles the cache
// tiers against it: disk hits are promoted to memory, misses are dispatched
// to the processing pipeline. Safe to call at any state; concurrent calls
// share one upstream fetch. The collection state is left untouched on
// fetch failure.
func (c *Collection[M]) Refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// The network call completes before any cache lock is taken.
		records, err := c.provider.Records(ctx)
		if err != nil {
			return nil, err
		}

		var pending []task[M]
		for _, r := range records {
			if r.RawImage == "" {
				continue
			}

			id := domain.ImageID(r.Name, r.RawImage)
			c.mem.putMeta(id, r.Meta)

			if c.store.Has(id) {
				if data, ok := c.store.Load(id); ok {
					c.mem.setData(id, r.Meta, data)
					continue
				}
			}

			if _, data, ok := c.mem.get(id); ok && data != nil {
				continue
			}

			pending = append(pending, task[M]{id: id, raw: r.RawImage, meta: r.Meta})
		}

		log.Info().
			Str("collection", c.cfg.Name).
			Int("records", len(records)).
			Int("pending", len(pending)).
			Msg("Fetched upstream record set")

		if len(pending) == 0 {
			c.setState(Ready)
			return nil, nil
		}

		c.setState(Warming)
		c.dispatch(pending)
		return nil, nil
	})
	return err
}

// Stream returns the encoded bytes and content type for one image. Lookup
// order: memory, disk (promoting the loaded bytes to memory), then a single
// bounded lazy fetch from upstream. Every failure mode collapses to
// ErrNotFound.
func (c *Collection[M]) Stream(ctx context.Context, id string) ([]byte, string, error) {
	meta, data, known := c.mem.get(id)
	if known && data != nil {
		return data, c.codec.ContentType(), nil
	}

	if data, ok := c.store.Load(id); ok {
		// Promote only ids the record set has listed; an unlisted disk
		// entry has no metadata and must not surface in listings.
		if known {
			c.mem.setData(id, meta, data)
		}
		return data, c.codec.ContentType(), nil
	}

	data, err := c.lazyFetch(ctx, id)
	if err != nil {
		log.Warn().Str("collection", c.cfg.Name).Str("id", id).Err(err).Msg("Image not found")
		return nil, "", domain.ErrNotFound
	}

	return data, c.codec.ContentType(), nil
}

// lazyFetch re-queries the upstream for a record whose identifier matches,
// processes and persists it. Concurrent requests for the same id share one
// fetch. The whole operation is bounded by the configured timeout.
func (c *Collection[M]) lazyFetch(ctx context.Context, id string) ([]byte, error) {
	out, err, _ := c.lazyGroup.Do(id, func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, c.cfg.FetchTimeout)
		defer cancel()

		records, err := c.provider.Records(ctx)
		if err != nil {
			return nil, err
		}

		for _, r := range records {
			if r.RawImage == "" || domain.ImageID(r.Name, r.RawImage) != id {
				continue
			}

			data, err := c.codec.Normalize(r.RawImage)
			if err != nil {
				return nil, err
			}

			if err := c.store.Save(id, data); err != nil {
				log.Error().Str("collection", c.cfg.Name).Str("id", id).Err(err).Msg("Failed to persist lazily fetched image")
			}

			c.mem.setData(id, r.Meta, data)
			return data, nil
		}

		return nil, domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// items renders the memory tier as the public listing, in insertion order.
func (c *Collection[M]) items() []domain.Item[M] {
	entries := c.mem.snapshot()

	items := make([]domain.Item[M], 0, len(entries))
	for _, e := range entries {
		items = append(items, domain.Item[M]{
			ID:   e.id,
			URL:  c.cfg.ImageURL(e.id),
			Meta: e.meta,
		})
	}
	return items
}
