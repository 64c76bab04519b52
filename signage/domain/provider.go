package domain

import "context"

// Provider supplies the current upstream record set for one collection.
// Implementations must return ErrUpstreamUnavailable (wrapped) for any
// failure mode; partial results are never returned alongside an error.
type Provider[M any] interface {
	Records(ctx context.Context) ([]Record[M], error)
}

// Outlet is one entry of the upstream outlet directory.
type Outlet struct {
	ID         string
	Name       string
	RegionName string
	IsOpen     bool
}

// OutletDirectory lists the known outlets, used both for joining outlet
// images to their outlet and for validating outlet codes at registration.
type OutletDirectory interface {
	Outlets(ctx context.Context) ([]Outlet, error)
}
