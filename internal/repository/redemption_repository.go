package repository

import (
	"context"
	"database/sql"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
)

// RedemptionRepo persists point redemptions. Rows are only ever
// written from inside the redemption transaction, paired with the
// debit and the item status flip, so a redemption row existing implies
// both side effects committed.
type RedemptionRepo struct{ DB *sql.DB }

func NewRedemptionRepo(db *sql.DB) *RedemptionRepo { return &RedemptionRepo{DB: db} }

// CreateTx inserts a redemption inside the caller's transaction and
// populates the generated ID.
func (r *RedemptionRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.PointRedemption) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO point_redemptions (item_id, user_id, points_used) VALUES (?,?,?)",
		p.ItemID, p.UserID, p.PointsUsed)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// RedemptionDetail pairs a redemption with item context for listings.
type RedemptionDetail struct {
	model.PointRedemption
	ItemTitle string `json:"item_title"`
}

// ListByUser returns a user's redemptions, newest first.
func (r *RedemptionRepo) ListByUser(ctx context.Context, userID uint64) ([]RedemptionDetail, error) {
	query := `SELECT p.id, p.item_id, p.user_id, p.points_used, p.created_at, i.title
	          FROM point_redemptions p
	          JOIN items i ON i.id = p.item_id
	          WHERE p.user_id=? ORDER BY p.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]RedemptionDetail, 0)
	for rows.Next() {
		var d RedemptionDetail
		if err := rows.Scan(&d.ID, &d.ItemID, &d.UserID, &d.PointsUsed, &d.CreatedAt, &d.ItemTitle); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// RedeemedItemsByUser returns the items a user has acquired through
// redemptions, for the dashboard.
func (r *RedemptionRepo) RedeemedItemsByUser(ctx context.Context, userID uint64) ([]model.Item, error) {
	query := `SELECT ` + prefixedItemColumns + `
	          FROM point_redemptions p
	          JOIN items i ON i.id = p.item_id
	          WHERE p.user_id=? ORDER BY p.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
