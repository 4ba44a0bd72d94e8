package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/utils"
)

// UserRepo persists users and owns the points ledger. CreditPointsTx
// and DebitPointsTx are the only two code paths that change a balance;
// every workflow routes its point mutations through them so the
// non-negative invariant lives in exactly one place.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,points,created_at,updated_at"

// Create inserts a user and returns its ID. Emails are normalized to
// lower case so the unique constraint cannot be dodged by casing.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		// MySQL duplicate-key errors carry code 1062.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreditPointsTx adds amount to a user's balance inside the given
// transaction.
func (r *UserRepo) CreditPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET points = points + ? WHERE id = ?",
		amount, userID)
	return err
}

// DebitPointsTx subtracts amount from a user's balance inside the
// given transaction. The balance check is part of the UPDATE predicate
// rather than a prior SELECT, so two concurrent debits can never drive
// the balance negative: the loser matches 0 rows and gets
// ErrInsufficientPoints.
func (r *UserRepo) DebitPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE users SET points = points - ? WHERE id = ? AND points >= ?",
		amount, userID, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

// ListAll returns every registered user, oldest first. Used by the
// monthly digest job; fine at hackathon scale, needs paging beyond it.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the total number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
