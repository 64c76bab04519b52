package application

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/signage/signage/domain"
)

// DefaultInactivityThreshold is how long a device may go without a
// heartbeat before the sweep marks it offline.
const DefaultInactivityThreshold = 5 * time.Minute

// OutletInfo is the result of validating an outlet code against the
// upstream directory.
type OutletInfo struct {
	Valid      bool
	OutletID   string
	OutletName string
	RegionName string
}

// DeviceService handles signage device registration and liveness: outlet
// validation against the upstream directory, one-step registration, and
// heartbeat bookkeeping.
type DeviceService struct {
	repo                domain.DeviceRepository
	directory           domain.OutletDirectory
	inactivityThreshold time.Duration
}

func NewDeviceService(repo domain.DeviceRepository, directory domain.OutletDirectory) *DeviceService {
	return &DeviceService{
		repo:                repo,
		directory:           directory,
		inactivityThreshold: DefaultInactivityThreshold,
	}
}

// ValidateOutlet checks whether an outlet id exists upstream. It only
// validates; registration is a separate step.
func (s *DeviceService) ValidateOutlet(ctx context.Context, outletID string) (*OutletInfo, error) {
	outlets, err := s.directory.Outlets(ctx)
	if err != nil {
		return nil, fmt.Errorf("validate outlet %s: %w", outletID, err)
	}

	for _, o := range outlets {
		if o.ID == outletID {
			return &OutletInfo{
				Valid:      true,
				OutletID:   o.ID,
				OutletName: o.Name,
				RegionName: o.RegionName,
			}, nil
		}
	}

	return &OutletInfo{Valid: false}, nil
}

// RegistrationRequest carries everything needed to register a device in
// one step.
type RegistrationRequest struct {
	OutletID    string
	OrderAPIURL string
	OrderAPIKey string
}

// Register validates the outlet upstream and creates or refreshes the
// device bound to it. Registration always leaves the device online.
func (s *DeviceService) Register(ctx context.Context, req RegistrationRequest) (*domain.Device, error) {
	info, err := s.ValidateOutlet(ctx, req.OutletID)
	if err != nil {
		return nil, err
	}
	if !info.Valid {
		return nil, fmt.Errorf("outlet not found: %s", req.OutletID)
	}

	now := time.Now().UTC()
	device := &domain.Device{
		ID:          info.OutletID,
		Name:        info.OutletName,
		Status:      domain.DeviceOnline,
		Location:    info.RegionName,
		ActiveSince: now,
		LastSeen:    now,
		OrderAPIURL: req.OrderAPIURL,
		OrderAPIKey: req.OrderAPIKey,
	}

	if err := s.repo.UpsertDevice(ctx, device); err != nil {
		return nil, fmt.Errorf("register device %s: %w", info.OutletID, err)
	}

	log.Info().Str("device", device.ID).Str("outlet", device.Name).Msg("Device registered")
	return device, nil
}

// Reasons a display is denied the media screen.
const (
	ReasonInvalidOutlet      = "invalid_outlet"
	ReasonMissingCredentials = "missing_credentials"
)

// MediaAccess is the media-screen gate verdict for one device: show media,
// or fall back to the configuration form for the stated reason.
type MediaAccess struct {
	Allowed bool
	Reason  string
	Outlet  *OutletInfo
	Device  *domain.Device
}

// ValidateDeviceForMedia decides what a display should show. Media is
// allowed only when the device's outlet exists upstream and the device is
// registered with order credentials; an unknown device or one without
// credentials is sent to the configuration form.
func (s *DeviceService) ValidateDeviceForMedia(ctx context.Context, deviceID string) (*MediaAccess, error) {
	info, err := s.ValidateOutlet(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if !info.Valid {
		return &MediaAccess{Reason: ReasonInvalidOutlet}, nil
	}

	device, err := s.GetDevice(ctx, deviceID)
	if err != nil || device.OrderAPIURL == "" || device.OrderAPIKey == "" {
		return &MediaAccess{Reason: ReasonMissingCredentials, Outlet: info}, nil
	}

	return &MediaAccess{Allowed: true, Outlet: info, Device: device}, nil
}

// Heartbeat records a device check-in.
func (s *DeviceService) Heartbeat(ctx context.Context, deviceID string) error {
	return s.repo.Heartbeat(ctx, deviceID, time.Now().UTC())
}

// GetDevice retrieves a registered device.
func (s *DeviceService) GetDevice(ctx context.Context, deviceID string) (*domain.Device, error) {
	return s.repo.GetDevice(ctx, deviceID)
}

// SweepInactive marks devices without a recent heartbeat offline. Run
// periodically by the job scheduler.
func (s *DeviceService) SweepInactive(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.inactivityThreshold)

	flipped, err := s.repo.MarkInactiveSince(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Inactive device sweep failed")
		return
	}

	if flipped > 0 {
		log.Info().Int("devices", flipped).Msg("Marked inactive devices offline")
	}
}
