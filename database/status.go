package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type StatusStore interface {
	IsMaintenance(ctx context.Context) (bool, error)
	SetMaintenance(ctx context.Context, active bool) error
}

// IsMaintenance reads the maintenance flag. A missing row means maintenance
// has never been toggled and counts as off.
func (p *Postgres) IsMaintenance(ctx context.Context) (bool, error) {
	var active bool
	err := p.connections.GetContext(ctx, &active, "SELECT maintenance FROM bot_status WHERE id = 1")
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading maintenance status: %w", err)
	}
	return active, nil
}

// SetMaintenance flips the maintenance flag.
func (p *Postgres) SetMaintenance(ctx context.Context, active bool) error {
	query := `INSERT INTO bot_status (id, maintenance, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET maintenance = EXCLUDED.maintenance, updated_at = EXCLUDED.updated_at`
	_, err := p.connections.ExecContext(ctx, query, active, time.Now().UTC())
	if err != nil {
		p.logger.Error("error writing maintenance status", "error", err.Error())
		return fmt.Errorf("error writing maintenance status: %w", err)
	}
	p.logger.Info("maintenance mode updated", "active", active)
	return nil
}
