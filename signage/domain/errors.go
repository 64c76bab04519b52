package domain

import "errors"

var (
	// ErrNotFound indicates a requested image is absent from every tier and
	// could not be lazily fetched. It maps to a clean 404 at the HTTP layer.
	ErrNotFound = errors.New("image not found")

	// ErrUpstreamUnavailable covers every way the content provider can fail:
	// unreachable, non-success status flag, or malformed payload. Callers
	// degrade to their best known snapshot instead of propagating it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
