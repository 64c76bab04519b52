package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dfryer1193/signage/signage/domain"
)

func setupTestDeviceDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	_, err = sqlDB.Exec(`
		CREATE TABLE outlet_devices (
			device_id TEXT PRIMARY KEY,
			device_name TEXT NOT NULL,
			device_status TEXT NOT NULL DEFAULT 'offline',
			device_location TEXT,
			active_since TIMESTAMP,
			last_seen TIMESTAMP,
			order_api_url TEXT,
			order_api_key TEXT
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	return sqlDB
}

func TestUpsertDevice_InsertAndGet(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	device := &domain.Device{
		ID:          "device-1",
		Name:        "Lobby Screen",
		Status:      domain.DeviceOnline,
		Location:    "Harbor Cafe",
		ActiveSince: now,
		LastSeen:    now,
		OrderAPIURL: "https://orders.example.com",
		OrderAPIKey: "key-123",
	}

	if err := repo.UpsertDevice(ctx, device); err != nil {
		t.Fatalf("UpsertDevice failed: %v", err)
	}

	got, err := repo.GetDevice(ctx, "device-1")
	if err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}

	if got.Name != device.Name || got.Status != device.Status || got.Location != device.Location {
		t.Errorf("GetDevice returned %+v, want %+v", got, device)
	}
	if !got.ActiveSince.Equal(device.ActiveSince) {
		t.Errorf("ActiveSince = %v, want %v", got.ActiveSince, device.ActiveSince)
	}
	if got.OrderAPIURL != device.OrderAPIURL || got.OrderAPIKey != device.OrderAPIKey {
		t.Errorf("Order API fields = %q/%q, want %q/%q", got.OrderAPIURL, got.OrderAPIKey, device.OrderAPIURL, device.OrderAPIKey)
	}
}

func TestUpsertDevice_ReregistrationKeepsActiveSince(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))
	ctx := context.Background()

	original := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second)
	if err := repo.UpsertDevice(ctx, &domain.Device{
		ID:          "device-1",
		Name:        "Lobby Screen",
		Status:      domain.DeviceOnline,
		ActiveSince: original,
		LastSeen:    original,
	}); err != nil {
		t.Fatalf("First upsert failed: %v", err)
	}

	later := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpsertDevice(ctx, &domain.Device{
		ID:          "device-1",
		Name:        "Lobby Screen Renamed",
		Status:      domain.DeviceOnline,
		ActiveSince: later,
		LastSeen:    later,
	}); err != nil {
		t.Fatalf("Second upsert failed: %v", err)
	}

	got, err := repo.GetDevice(ctx, "device-1")
	if err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}

	if got.Name != "Lobby Screen Renamed" {
		t.Errorf("Name = %q, want updated name", got.Name)
	}
	if !got.ActiveSince.Equal(original) {
		t.Errorf("ActiveSince = %v, want original %v", got.ActiveSince, original)
	}
	if !got.LastSeen.Equal(later) {
		t.Errorf("LastSeen = %v, want refreshed %v", got.LastSeen, later)
	}
}

func TestUpsertDevice_Validation(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))
	ctx := context.Background()

	if err := repo.UpsertDevice(ctx, nil); err == nil {
		t.Error("Expected error for nil device")
	}
	if err := repo.UpsertDevice(ctx, &domain.Device{Name: "no id"}); err == nil {
		t.Error("Expected error for empty device id")
	}
}

func TestGetDevice_NotFound(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))

	if _, err := repo.GetDevice(context.Background(), "missing"); err == nil {
		t.Error("Expected error for unknown device")
	}
}

func TestHeartbeat(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))
	ctx := context.Background()

	registered := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	if err := repo.UpsertDevice(ctx, &domain.Device{
		ID:       "device-1",
		Name:     "Lobby Screen",
		Status:   domain.DeviceOffline,
		LastSeen: registered,
	}); err != nil {
		t.Fatalf("UpsertDevice failed: %v", err)
	}

	at := time.Now().UTC().Truncate(time.Second)
	if err := repo.Heartbeat(ctx, "device-1", at); err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}

	got, err := repo.GetDevice(ctx, "device-1")
	if err != nil {
		t.Fatalf("GetDevice failed: %v", err)
	}
	if got.Status != domain.DeviceOnline {
		t.Errorf("Status = %q, want %q", got.Status, domain.DeviceOnline)
	}
	if !got.LastSeen.Equal(at) {
		t.Errorf("LastSeen = %v, want %v", got.LastSeen, at)
	}
}

func TestHeartbeat_UnknownDevice(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))

	if err := repo.Heartbeat(context.Background(), "missing", time.Now()); err == nil {
		t.Error("Expected error for unknown device")
	}
}

func TestMarkInactiveSince(t *testing.T) {
	repo := NewDeviceRepository(setupTestDeviceDB(t))
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	cutoff := now.Add(-5 * time.Minute)

	devices := []*domain.Device{
		{ID: "fresh", Name: "Fresh", Status: domain.DeviceOnline, LastSeen: now},
		{ID: "stale", Name: "Stale", Status: domain.DeviceOnline, LastSeen: now.Add(-time.Hour)},
		{ID: "never-seen", Name: "Never Seen", Status: domain.DeviceOnline},
		{ID: "already-off", Name: "Already Off", Status: domain.DeviceOffline, LastSeen: now.Add(-time.Hour)},
	}
	for _, d := range devices {
		if err := repo.UpsertDevice(ctx, d); err != nil {
			t.Fatalf("UpsertDevice %s failed: %v", d.ID, err)
		}
	}

	affected, err := repo.MarkInactiveSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("MarkInactiveSince failed: %v", err)
	}
	if affected != 2 {
		t.Errorf("Marked %d devices inactive, want 2", affected)
	}

	wantStatus := map[string]string{
		"fresh":       domain.DeviceOnline,
		"stale":       domain.DeviceOffline,
		"never-seen":  domain.DeviceOffline,
		"already-off": domain.DeviceOffline,
	}
	for id, want := range wantStatus {
		got, err := repo.GetDevice(ctx, id)
		if err != nil {
			t.Fatalf("GetDevice %s failed: %v", id, err)
		}
		if got.Status != want {
			t.Errorf("Device %s status = %q, want %q", id, got.Status, want)
		}
	}
}
