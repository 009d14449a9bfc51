package dashboardsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zenorapm/zenora/internal/dashboard"
	"github.com/zenorapm/zenora/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

var _ dashboard.Repository = (*Repository)(nil)

func (r *Repository) GetSettings(ctx context.Context, clientID string) (settings dashboard.Settings, _ error) {
	if err := r.db.QueryRow(ctx, `SELECT client_id, show_properties, show_documents, show_financials, show_maintenance, show_ai_insights, created_at, updated_at
FROM client_settings
WHERE client_id = $1;`,
		clientID,
	).Scan(
		&settings.ClientID,
		&settings.ShowProperties,
		&settings.ShowDocuments,
		&settings.ShowFinancials,
		&settings.ShowMaintenance,
		&settings.ShowAIInsights,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dashboard.Settings{}, serviceerr.ErrNotFound
		}

		return dashboard.Settings{}, fmt.Errorf("selecting from client_settings: %w", err)
	}

	return settings, nil
}

func (r *Repository) ListProperties(ctx context.Context, clientID string) ([]dashboard.Property, error) {
	rows, err := r.db.Query(ctx, `SELECT id, client_id, name, address, status, monthly_rent, created_at
FROM properties
WHERE client_id = $1
ORDER BY created_at DESC;`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting from properties: %w", err)
	}
	defer rows.Close()

	var properties []dashboard.Property
	for rows.Next() {
		var p dashboard.Property
		if err := rows.Scan(&p.ID, &p.ClientID, &p.Name, &p.Address, &p.Status, &p.MonthlyRent, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning property row: %w", err)
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating property rows: %w", err)
	}

	return properties, nil
}

func (r *Repository) ListVisibleDocuments(ctx context.Context, clientID string) ([]dashboard.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT id, client_id, name, is_visible, created_at
FROM documents
WHERE client_id = $1
	AND is_visible = TRUE
ORDER BY created_at DESC;`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("selecting from documents: %w", err)
	}
	defer rows.Close()

	var documents []dashboard.Document
	for rows.Next() {
		var d dashboard.Document
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Name, &d.Visible, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document rows: %w", err)
	}

	return documents, nil
}
