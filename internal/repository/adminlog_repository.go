package repository

import (
	"context"
	"database/sql"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
)

// AdminLogRepo appends to and reads the moderation audit trail. Rows
// are never updated or deleted; the item_id column deliberately has no
// foreign key so a log entry survives the rejection that deletes its
// item.
type AdminLogRepo struct{ DB *sql.DB }

func NewAdminLogRepo(db *sql.DB) *AdminLogRepo { return &AdminLogRepo{DB: db} }

// CreateTx appends a log row inside the caller's transaction, pairing
// the audit entry with the moderation action it records.
func (r *AdminLogRepo) CreateTx(ctx context.Context, tx *sql.Tx, adminID uint64, action string, itemID uint64, details string) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO admin_logs (admin_id, action, item_id, details) VALUES (?,?,?,?)",
		adminID, action, itemID, details)
	return err
}

// List returns log entries newest first, capped at limit when limit > 0.
func (r *AdminLogRepo) List(ctx context.Context, limit int) ([]model.AdminLog, error) {
	query := "SELECT id, admin_id, action, item_id, details, created_at FROM admin_logs ORDER BY created_at DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]model.AdminLog, 0)
	for rows.Next() {
		var l model.AdminLog
		if err := rows.Scan(&l.ID, &l.AdminID, &l.Action, &l.ItemID, &l.Details, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// CountActionContaining counts log entries whose action contains the
// given fragment, e.g. "approved" or "rejected" for the dashboard.
func (r *AdminLogRepo) CountActionContaining(ctx context.Context, fragment string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admin_logs WHERE action LIKE ?",
		"%"+fragment+"%").Scan(&n)
	return n, err
}
