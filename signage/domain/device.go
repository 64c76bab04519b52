package domain

import (
	"context"
	"time"
)

// Device statuses as stored in the registry.
const (
	DeviceOnline  = "online"
	DeviceOffline = "offline"
)

// Device represents a registered signage display bound to an outlet.
type Device struct {
	ID          string
	Name        string
	Status      string
	Location    string
	LastSeen    time.Time
	ActiveSince time.Time
	OrderAPIURL string
	OrderAPIKey string
}

type DeviceRepository interface {
	// UpsertDevice registers a device, or refreshes an existing registration
	// in place (name, location, API credentials, status, last seen).
	UpsertDevice(ctx context.Context, d *Device) error

	// GetDevice retrieves one device by id
	GetDevice(ctx context.Context, id string) (*Device, error)

	// Heartbeat marks a device online and records when it was last seen
	Heartbeat(ctx context.Context, id string, at time.Time) error

	// MarkInactiveSince flips online devices not seen since the cutoff to
	// offline, returning how many were flipped
	MarkInactiveSince(ctx context.Context, cutoff time.Time) (int, error)
}
