package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateNormalizesEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)")).
		WithArgs("Asha", "asha@example.com", sqlmock.AnyArg(), "user").
		WillReturnResult(sqlmock.NewResult(12, 1))

	id, err := repo.Create(context.Background(), "Asha", "  ASHA@Example.COM ", "secretpw", "user", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)")).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	_, err := repo.Create(context.Background(), "Asha", "asha@example.com", "secretpw", "user", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestDebitPointsTx(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points - ? WHERE id = ? AND points >= ?")).
		WithArgs(int64(75), uint64(3), int64(75)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.DebitPointsTx(context.Background(), tx, 3, 75))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitPointsTxInsufficientBalance(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points - ? WHERE id = ? AND points >= ?")).
		WithArgs(int64(500), uint64(3), int64(500)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	err = repo.DebitPointsTx(context.Background(), tx, 3, 500)
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	require.NoError(t, tx.Rollback())
}

func TestCreditPointsTx(t *testing.T) {
	repo, mock := newUserMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points + ? WHERE id = ?")).
		WithArgs(int64(25), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreditPointsTx(context.Background(), tx, 8, 25))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
