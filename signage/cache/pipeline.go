package cache

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// task is one pending image: identified, metadata known, bytes not yet
// processed.
type task[M any] struct {
	id   string
	raw  string
	meta M
}

// dispatch processes pending tasks. The first priorityBatch tasks run
// inline, in order, so the first few images are servable by the time the
// listing call returns. The remainder is handed to a single watcher
// goroutine that feeds a bounded worker pool and then marks the collection
// ready; submission happens off the calling goroutine because Go blocks
// once the pool limit is reached, and the caller must not wait on the
// backlog. Individual failures are logged and skipped, never aborting
// sibling tasks, and submitted work runs to completion.
func (c *Collection[M]) dispatch(tasks []task[M]) {
	k := c.cfg.PriorityBatch
	if k > len(tasks) {
		k = len(tasks)
	}

	for _, t := range tasks[:k] {
		c.process(t)
	}

	rest := tasks[k:]
	if len(rest) == 0 {
		c.setState(Ready)
		return
	}

	go func() {
		var g errgroup.Group
		g.SetLimit(c.cfg.Workers)

		for _, t := range rest {
			t := t
			g.Go(func() error {
				c.process(t)
				return nil
			})
		}

		g.Wait()
		c.setState(Ready)
		log.Info().Str("collection", c.cfg.Name).Msg("Background image processing complete")
	}()
}

// process runs one task through the codec, persists the result, and merges
// it into the memory cache. A persistence failure still leaves the image
// servable from memory; a decode failure drops the image entirely.
func (c *Collection[M]) process(t task[M]) {
	data, err := c.codec.Normalize(t.raw)
	if err != nil {
		log.Warn().
			Str("collection", c.cfg.Name).
			Str("id", t.id).
			Err(err).
			Msg("Skipping undecodable image")
		return
	}

	if err := c.store.Save(t.id, data); err != nil {
		log.Error().
			Str("collection", c.cfg.Name).
			Str("id", t.id).
			Err(err).
			Msg("Failed to persist image, serving from memory only")
	}

	c.mem.setData(t.id, t.meta, data)
}
