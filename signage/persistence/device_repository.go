package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dfryer1193/signage/shared/db"
	"github.com/dfryer1193/signage/signage/domain"
)

var _ domain.DeviceRepository = (*SQLiteDeviceRepository)(nil)

// SQLiteDeviceRepository implements domain.DeviceRepository using SQL database (SQLite)
type SQLiteDeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new SQLiteDeviceRepository from a standard sql.DB
func NewDeviceRepository(sqlDB *sql.DB) *SQLiteDeviceRepository {
	return &SQLiteDeviceRepository{
		db: sqlDB,
	}
}

const upsertDeviceQuery = `
	INSERT INTO outlet_devices
		(device_id, device_name, device_status, device_location, active_since, last_seen, order_api_url, order_api_key)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(device_id) DO UPDATE SET
		device_name = excluded.device_name,
		device_status = excluded.device_status,
		device_location = excluded.device_location,
		active_since = COALESCE(outlet_devices.active_since, excluded.active_since),
		last_seen = excluded.last_seen,
		order_api_url = excluded.order_api_url,
		order_api_key = excluded.order_api_key
`

// UpsertDevice registers a device or refreshes an existing registration.
// The original activation time is preserved across re-registrations.
func (r *SQLiteDeviceRepository) UpsertDevice(ctx context.Context, d *domain.Device) error {
	if d == nil {
		return fmt.Errorf("device cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("device id cannot be empty")
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertDeviceQuery,
			d.ID,
			d.Name,
			d.Status,
			d.Location,
			nullableTime(d.ActiveSince),
			nullableTime(d.LastSeen),
			d.OrderAPIURL,
			d.OrderAPIKey,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert device record: %w", err)
		}

		return nil
	})
}

const getDeviceQuery = `
	SELECT device_id, device_name, device_status, device_location, active_since, last_seen, order_api_url, order_api_key
	FROM outlet_devices
	WHERE device_id = ?
`

// GetDevice retrieves a single device by id
func (r *SQLiteDeviceRepository) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	if id == "" {
		return nil, fmt.Errorf("device id cannot be empty")
	}

	var row deviceRow
	err := r.db.QueryRowContext(ctx, getDeviceQuery, id).Scan(
		&row.ID,
		&row.Name,
		&row.Status,
		&row.Location,
		&row.ActiveSince,
		&row.LastSeen,
		&row.OrderAPIURL,
		&row.OrderAPIKey,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device not found: %s", id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return row.toDomain(), nil
}

const heartbeatQuery = `
	UPDATE outlet_devices
	SET device_status = ?, last_seen = ?
	WHERE device_id = ?
`

// Heartbeat marks a device online and records when it was last seen
func (r *SQLiteDeviceRepository) Heartbeat(ctx context.Context, id string, at time.Time) error {
	if id == "" {
		return fmt.Errorf("device id cannot be empty")
	}

	res, err := r.db.ExecContext(ctx, heartbeatQuery, domain.DeviceOnline, at, id)
	if err != nil {
		return fmt.Errorf("failed to record heartbeat: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check heartbeat result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("device not found: %s", id)
	}

	return nil
}

const markInactiveQuery = `
	UPDATE outlet_devices
	SET device_status = ?
	WHERE device_status = ? AND (last_seen IS NULL OR last_seen < ?)
`

// MarkInactiveSince flips online devices not seen since the cutoff to offline
func (r *SQLiteDeviceRepository) MarkInactiveSince(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, markInactiveQuery, domain.DeviceOffline, domain.DeviceOnline, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark inactive devices: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inactive devices: %w", err)
	}

	return int(affected), nil
}

// deviceRow is a private struct used to scan database rows
type deviceRow struct {
	ID          string         `db:"device_id"`
	Name        string         `db:"device_name"`
	Status      string         `db:"device_status"`
	Location    sql.NullString `db:"device_location"`
	ActiveSince sql.NullTime   `db:"active_since"`
	LastSeen    sql.NullTime   `db:"last_seen"`
	OrderAPIURL sql.NullString `db:"order_api_url"`
	OrderAPIKey sql.NullString `db:"order_api_key"`
}

// toDomain converts a deviceRow to a domain.Device, handling nullable columns
func (dr *deviceRow) toDomain() *domain.Device {
	d := &domain.Device{
		ID:     dr.ID,
		Name:   dr.Name,
		Status: dr.Status,
	}

	if dr.Location.Valid {
		d.Location = dr.Location.String
	}
	if dr.ActiveSince.Valid {
		d.ActiveSince = dr.ActiveSince.Time
	}
	if dr.LastSeen.Valid {
		d.LastSeen = dr.LastSeen.Time
	}
	if dr.OrderAPIURL.Valid {
		d.OrderAPIURL = dr.OrderAPIURL.String
	}
	if dr.OrderAPIKey.Valid {
		d.OrderAPIKey = dr.OrderAPIKey.String
	}

	return d
}

// nullableTime maps the zero time to NULL
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
