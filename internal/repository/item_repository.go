package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
)

// ItemRepo persists clothing items and owns the status lifecycle
// pending -> available -> swapped. Every transition out of a state is
// expressed as a conditional UPDATE on the status column, so the
// database arbitrates races: of two workflows fighting over the same
// item exactly one sees a row affected.
type ItemRepo struct{ DB *sql.DB }

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{DB: db} }

const itemColumns = "id,title,description,images,category,type,size,item_condition,tags,status,point_value,uploaded_by,created_at,updated_at"

// ItemFilter narrows the public browse listing. Zero values mean "no
// constraint"; Search matches a substring of title or description.
type ItemFilter struct {
	Category  string
	Size      string
	Condition string
	Search    string
}

// Create inserts a new item in the pending state and populates the
// generated ID on the provided model.
func (r *ItemRepo) Create(ctx context.Context, it *model.Item) error {
	images, err := encodeList(it.Images)
	if err != nil {
		return err
	}
	tags, err := encodeList(it.Tags)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO items (title, description, images, category, type, size, item_condition, tags, status, uploaded_by)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		it.Title, it.Description, images, it.Category, it.Type, it.Size, it.Condition, tags, model.ItemStatusPending, it.UploadedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	it.Status = model.ItemStatusPending
	return nil
}

// GetByID fetches a single item. Returns ErrItemNotFound when no row
// matches.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (model.Item, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id=? LIMIT 1", id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return it, ErrItemNotFound
	}
	return it, err
}

// ListAvailable returns approved items for the public browse page,
// newest first, narrowed by the optional filter.
func (r *ItemRepo) ListAvailable(ctx context.Context, f ItemFilter) ([]model.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE status=?"
	args := []any{model.ItemStatusAvailable}
	if f.Category != "" {
		query += " AND category=?"
		args = append(args, f.Category)
	}
	if f.Size != "" {
		query += " AND size=?"
		args = append(args, f.Size)
	}
	if f.Condition != "" {
		query += " AND item_condition=?"
		args = append(args, f.Condition)
	}
	if f.Search != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		pat := "%" + f.Search + "%"
		args = append(args, pat, pat)
	}
	query += " ORDER BY created_at DESC"
	return r.queryItems(ctx, query, args...)
}

// ListByUploader returns every item a user has listed, regardless of
// status, newest first.
func (r *ItemRepo) ListByUploader(ctx context.Context, userID uint64) ([]model.Item, error) {
	return r.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items WHERE uploaded_by=? ORDER BY created_at DESC", userID)
}

// ListPending returns the moderation queue, newest first.
func (r *ItemRepo) ListPending(ctx context.Context) ([]model.Item, error) {
	return r.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items WHERE status=? ORDER BY created_at DESC", model.ItemStatusPending)
}

// ApproveTx moves an item from pending to available and assigns its
// point value, inside the caller's transaction. The pending check is
// part of the UPDATE predicate; 0 rows affected means the item is not
// pending (or was concurrently moderated) and yields ErrItemNotPending.
func (r *ItemRepo) ApproveTx(ctx context.Context, tx *sql.Tx, itemID uint64, pointValue int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE items SET status=?, point_value=? WHERE id=? AND status=?",
		model.ItemStatusAvailable, pointValue, itemID, model.ItemStatusPending)
	if err != nil {
		return err
	}
	return requireRow(res, ErrItemNotPending)
}

// MarkSwappedTx moves an item from available to swapped inside the
// caller's transaction. This is the single lock surrogate shared by
// the swap and redemption workflows: when two of them race on one
// item, the conditional UPDATE lets exactly one through and the other
// gets ErrItemUnavailable.
func (r *ItemRepo) MarkSwappedTx(ctx context.Context, tx *sql.Tx, itemID uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE items SET status=? WHERE id=? AND status=?",
		model.ItemStatusSwapped, itemID, model.ItemStatusAvailable)
	if err != nil {
		return err
	}
	return requireRow(res, ErrItemUnavailable)
}

// DeleteRejectedTx removes a pending item as part of a rejection.
// Items that already left moderation cannot be rejected; the status
// predicate enforces that and 0 rows yields ErrItemNotPending.
func (r *ItemRepo) DeleteRejectedTx(ctx context.Context, tx *sql.Tx, itemID uint64) error {
	res, err := tx.ExecContext(ctx,
		"DELETE FROM items WHERE id=? AND status=?",
		itemID, model.ItemStatusPending)
	if err != nil {
		return err
	}
	return requireRow(res, ErrItemNotPending)
}

// Count returns the total number of items.
func (r *ItemRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n)
	return n, err
}

// CountByStatus returns the number of items in one lifecycle state.
func (r *ItemRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE status=?", status).Scan(&n)
	return n, err
}

func (r *ItemRepo) queryItems(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
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

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanItem(row rowScanner) (model.Item, error) {
	var (
		it           model.Item
		images, tags sql.NullString
	)
	err := row.Scan(&it.ID, &it.Title, &it.Description, &images, &it.Category, &it.Type,
		&it.Size, &it.Condition, &tags, &it.Status, &it.PointValue, &it.UploadedBy,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return it, err
	}
	if it.Images, err = decodeList(images); err != nil {
		return it, err
	}
	if it.Tags, err = decodeList(tags); err != nil {
		return it, err
	}
	return it, nil
}

// encodeList stores string slices as JSON text; NULL for empty.
func encodeList(list []string) (sql.NullString, error) {
	if len(list) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeList(col sql.NullString) ([]string, error) {
	if !col.Valid || col.String == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(col.String), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// requireRow converts a 0-rows-affected result into the given sentinel.
func requireRow(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
