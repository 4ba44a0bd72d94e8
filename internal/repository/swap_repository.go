package repository

import (
	"context"
	"database/sql"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
)

// SwapRepo persists swap requests. A request is decided at most once;
// RespondTx carries the pending check in its UPDATE predicate so a
// second decision on the same request fails instead of overwriting
// the first.
type SwapRepo struct{ DB *sql.DB }

func NewSwapRepo(db *sql.DB) *SwapRepo { return &SwapRepo{DB: db} }

const swapColumns = "id,item_id,requester_id,owner_id,status,message,created_at,updated_at"

// Create inserts a pending swap request and populates the generated ID.
func (r *SwapRepo) Create(ctx context.Context, s *model.SwapRequest) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO swap_requests (item_id, requester_id, owner_id, status, message) VALUES (?,?,?,?,?)",
		s.ItemID, s.RequesterID, s.OwnerID, model.SwapStatusPending, s.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.Status = model.SwapStatusPending
	return nil
}

// GetByID fetches a single swap request. Returns ErrSwapNotFound when
// no row matches.
func (r *SwapRepo) GetByID(ctx context.Context, id uint64) (model.SwapRequest, error) {
	var s model.SwapRequest
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+swapColumns+" FROM swap_requests WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.ItemID, &s.RequesterID, &s.OwnerID, &s.Status, &s.Message, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, ErrSwapNotFound
	}
	return s, err
}

// HasPendingRequest reports whether the requester already has a
// pending request for the item.
func (r *SwapRepo) HasPendingRequest(ctx context.Context, itemID, requesterID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM swap_requests WHERE item_id=? AND requester_id=? AND status=? LIMIT 1",
		itemID, requesterID, model.SwapStatusPending).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RespondTx records the owner's decision inside the caller's
// transaction. Only a pending request can be decided; 0 rows affected
// yields ErrSwapAlreadyHandled.
func (r *SwapRepo) RespondTx(ctx context.Context, tx *sql.Tx, swapID uint64, status string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE swap_requests SET status=? WHERE id=? AND status=?",
		status, swapID, model.SwapStatusPending)
	if err != nil {
		return err
	}
	return requireRow(res, ErrSwapAlreadyHandled)
}

// SwapDetail pairs a swap request with enough item context to render a
// list entry without a second query.
type SwapDetail struct {
	model.SwapRequest
	ItemTitle      string `json:"item_title"`
	ItemStatus     string `json:"item_status"`
	ItemPointValue int64  `json:"item_point_value"`
}

// ListByRequester returns all requests a user has made, newest first.
func (r *SwapRepo) ListByRequester(ctx context.Context, userID uint64) ([]SwapDetail, error) {
	return r.queryDetails(ctx, "s.requester_id=?", userID)
}

// ListByOwner returns all requests targeting a user's items, newest first.
func (r *SwapRepo) ListByOwner(ctx context.Context, userID uint64) ([]SwapDetail, error) {
	return r.queryDetails(ctx, "s.owner_id=?", userID)
}

func (r *SwapRepo) queryDetails(ctx context.Context, where string, args ...any) ([]SwapDetail, error) {
	query := `SELECT s.id, s.item_id, s.requester_id, s.owner_id, s.status, s.message, s.created_at, s.updated_at,
	                 i.title, i.status, i.point_value
	          FROM swap_requests s
	          JOIN items i ON i.id = s.item_id
	          WHERE ` + where + ` ORDER BY s.created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]SwapDetail, 0)
	for rows.Next() {
		var d SwapDetail
		if err := rows.Scan(&d.ID, &d.ItemID, &d.RequesterID, &d.OwnerID, &d.Status, &d.Message,
			&d.CreatedAt, &d.UpdatedAt, &d.ItemTitle, &d.ItemStatus, &d.ItemPointValue); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// AcceptedItemsByRequester returns the items a user has acquired
// through accepted swaps, for the dashboard.
func (r *SwapRepo) AcceptedItemsByRequester(ctx context.Context, userID uint64) ([]model.Item, error) {
	query := `SELECT ` + prefixedItemColumns + `
	          FROM swap_requests s
	          JOIN items i ON i.id = s.item_id
	          WHERE s.requester_id=? AND s.status=?
	          ORDER BY s.updated_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID, model.SwapStatusAccepted)
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

const prefixedItemColumns = "i.id,i.title,i.description,i.images,i.category,i.type,i.size,i.item_condition,i.tags,i.status,i.point_value,i.uploaded_by,i.created_at,i.updated_at"
