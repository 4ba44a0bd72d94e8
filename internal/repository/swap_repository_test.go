package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
)

func newSwapMock(t *testing.T) (*SwapRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSwapRepo(db), mock
}

func TestHasPendingRequest(t *testing.T) {
	repo, mock := newSwapMock(t)
	query := regexp.QuoteMeta("SELECT 1 FROM swap_requests WHERE item_id=? AND requester_id=? AND status=? LIMIT 1")

	mock.ExpectQuery(query).
		WithArgs(uint64(4), uint64(2), model.SwapStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	dup, err := repo.HasPendingRequest(context.Background(), 4, 2)
	require.NoError(t, err)
	assert.True(t, dup)

	mock.ExpectQuery(query).
		WithArgs(uint64(4), uint64(9), model.SwapStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	dup, err = repo.HasPendingRequest(context.Background(), 4, 9)
	require.NoError(t, err)
	assert.False(t, dup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespondTx(t *testing.T) {
	repo, mock := newSwapMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE swap_requests SET status=? WHERE id=? AND status=?")).
		WithArgs(model.SwapStatusAccepted, uint64(6), model.SwapStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.RespondTx(context.Background(), tx, 6, model.SwapStatusAccepted))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespondTxAlreadyHandled(t *testing.T) {
	repo, mock := newSwapMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE swap_requests SET status=? WHERE id=? AND status=?")).
		WithArgs(model.SwapStatusRejected, uint64(6), model.SwapStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := repo.DB.Begin()
	require.NoError(t, err)
	err = repo.RespondTx(context.Background(), tx, 6, model.SwapStatusRejected)
	assert.ErrorIs(t, err, ErrSwapAlreadyHandled)
	require.NoError(t, tx.Rollback())
}
