//go:build integration
// +build integration

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/guttosm/coffeepulse/internal/domain/models"
	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres spins up a Postgres container and returns a DSN and terminate func.
func startPostgres(t *testing.T) (dsn string, terminate func()) {
	t.Helper()
	ctx := context.Background()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "coffeepulse",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("host=%s port=%s user=postgres password=postgres dbname=coffeepulse sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("container start: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", "postgres", "postgres", host, port.Port(), "coffeepulse")
	terminate = func() { _ = container.Terminate(context.Background()) }
	return dsn, terminate
}

func openDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	// migrations path relative to this test file (internal/storage → ../../db/migrations)
	path := filepath.Join("..", "..", "db", "migrations")
	if err := goose.Up(db, path); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func TestDeliveryRepository_Integration(t *testing.T) {
	dsn, terminate := startPostgres(t)
	defer terminate()
	db := openDB(t, dsn)
	defer db.Close()
	runMigrations(t, db)

	repo := NewDeliveryRepository(db)
	ctx := context.Background()

	// EnsureSchema must be a no-op on a migrated database
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	base := time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)
	entries := []models.Delivery{
		{ID: "11111111-1111-1111-1111-111111111111", Kind: models.DeliveryKindReport, Status: models.DeliveryStatusSent, MessageID: "<a@x>", Detail: "RC1", CreatedAt: base},
		{ID: "22222222-2222-2222-2222-222222222222", Kind: models.DeliveryKindAlert, Status: models.DeliveryStatusFail, Detail: "smtp down", CreatedAt: base.Add(time.Minute)},
		{ID: "33333333-3333-3333-3333-333333333333", Kind: models.DeliveryKindAlert, Status: models.DeliveryStatusSent, Detail: "high RC1", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, d := range entries {
		if err := repo.RecordDelivery(ctx, d); err != nil {
			t.Fatalf("record %s: %v", d.ID, err)
		}
	}

	cases := []struct {
		name    string
		limit   int
		wantIDs []string
	}{
		{name: "all newest first", limit: 10, wantIDs: []string{entries[2].ID, entries[1].ID, entries[0].ID}},
		{name: "limited", limit: 1, wantIDs: []string{entries[2].ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := repo.ListRecentDeliveries(ctx, tc.limit)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(out) != len(tc.wantIDs) {
				t.Fatalf("got %d rows, want %d", len(out), len(tc.wantIDs))
			}
			for i, id := range tc.wantIDs {
				if out[i].ID != id {
					t.Fatalf("row %d id=%s, want %s", i, out[i].ID, id)
				}
			}
		})
	}

	t.Run("missing table maps to ErrSchemaMissing", func(t *testing.T) {
		if _, err := db.Exec(`DROP TABLE delivery_log`); err != nil {
			t.Fatalf("drop: %v", err)
		}
		if _, err := repo.ListRecentDeliveries(ctx, 5); !errors.Is(err, ErrSchemaMissing) {
			t.Fatalf("err=%v", err)
		}
	})
}
