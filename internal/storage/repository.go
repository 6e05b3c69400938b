package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/guttosm/coffeepulse/internal/domain/models"
)

// ErrSchemaMissing is returned when the delivery_log table does not exist yet.
var ErrSchemaMissing = errors.New("storage: delivery_log table missing (run migrations or EnsureSchema)")

// pq error code for undefined_table.
const undefinedTable = "42P01"

// MaxListLimit bounds ListRecentDeliveries.
const MaxListLimit = 500

// DeliveryRepository defines the contract for the delivery journal.
type DeliveryRepository interface {
	EnsureSchema(ctx context.Context) error
	RecordDelivery(ctx context.Context, d models.Delivery) error
	ListRecentDeliveries(ctx context.Context, limit int) ([]models.Delivery, error)
	Ping(ctx context.Context) error
}

type deliveryRepository struct {
	db *sql.DB
}

func NewDeliveryRepository(db *sql.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS delivery_log (
    id          UUID PRIMARY KEY,
    kind        VARCHAR(16)  NOT NULL,
    status      VARCHAR(16)  NOT NULL,
    message_id  VARCHAR(255) NOT NULL DEFAULT '',
    detail      TEXT         NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_delivery_log_created_at ON delivery_log (created_at DESC);`

// EnsureSchema creates the journal table when it is missing. It mirrors
// db/migrations so the journal works without a migration step.
func (r *deliveryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure delivery_log schema: %w", err)
	}
	return nil
}

// RecordDelivery inserts one delivery outcome.
func (r *deliveryRepository) RecordDelivery(ctx context.Context, d models.Delivery) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delivery_log (id, kind, status, message_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.Kind, d.Status, d.MessageID, d.Detail, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("record delivery: %w", mapErr(err))
	}
	return nil
}

// ListRecentDeliveries returns the newest deliveries first.
func (r *deliveryRepository) ListRecentDeliveries(ctx context.Context, limit int) ([]models.Delivery, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, status, message_id, detail, created_at
		FROM delivery_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", mapErr(err))
	}
	defer rows.Close()

	out := make([]models.Delivery, 0, limit)
	for rows.Next() {
		var d models.Delivery
		if err := rows.Scan(&d.ID, &d.Kind, &d.Status, &d.MessageID, &d.Detail, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}
	return out, nil
}

func (r *deliveryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func mapErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return ErrSchemaMissing
	}
	return err
}
