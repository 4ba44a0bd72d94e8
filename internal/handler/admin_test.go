package handler

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
)

func newAdminEnv(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAdminHandler(testConfig(), quietLogger(),
		repository.NewItemRepo(db), repository.NewUserRepo(db), repository.NewAdminLogRepo(db)), mock
}

func TestPointValueFor(t *testing.T) {
	tests := []struct {
		name string
		item model.Item
		want int64
	}{
		{"base", model.Item{Condition: "good"}, 100},
		{"brand new", model.Item{Condition: "Brand New"}, 150},
		{"rich tags", model.Item{Condition: "good", Tags: []string{"a", "b", "c", "d"}}, 120},
		{"long description", model.Item{Condition: "good", Description: strings.Repeat("x", 101)}, 130},
		{"everything", model.Item{
			Condition:   "brand new",
			Tags:        []string{"a", "b", "c", "d"},
			Description: strings.Repeat("x", 101),
		}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pointValueFor(tt.item))
		})
	}
}

func TestAdminApprove(t *testing.T) {
	h, mock := newAdminEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusPending, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=?, point_value=? WHERE id=? AND status=?")).
		WithArgs(model.ItemStatusAvailable, int64(100), uint64(7), model.ItemStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points + ? WHERE id = ?")).
		WithArgs(int64(25), uint64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admin_logs (admin_id, action, item_id, details) VALUES (?,?,?,?)")).
		WithArgs(uint64(5), "approved (100 pts)", uint64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := jsonContext(t, http.MethodPatch, "/v1/admin/items/7/approve", `{}`, 5)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Approve(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"available"`)
}

func TestAdminApproveExplicitPointValue(t *testing.T) {
	h, mock := newAdminEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusPending, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=?, point_value=? WHERE id=? AND status=?")).
		WithArgs(model.ItemStatusAvailable, int64(180), uint64(7), model.ItemStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points + ? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admin_logs")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := jsonContext(t, http.MethodPatch, "/v1/admin/items/7/approve", `{"point_value":180}`, 5)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Approve(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"point_value":180`)
}

func TestAdminApproveNotPendingConflict(t *testing.T) {
	h, mock := newAdminEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusAvailable, 100)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=?, point_value=? WHERE id=? AND status=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := jsonContext(t, http.MethodPatch, "/v1/admin/items/7/approve", `{}`, 5)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Approve(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRejectDeletesAndLogs(t *testing.T) {
	h, mock := newAdminEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusPending, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id=? AND status=?")).
		WithArgs(uint64(7), model.ItemStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admin_logs (admin_id, action, item_id, details) VALUES (?,?,?,?)")).
		WithArgs(uint64(5), "rejected", uint64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, rec := jsonContext(t, http.MethodDelete, "/v1/admin/items/7", `{"reason":"stained"}`, 5)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Reject(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminDashboardCounts(t *testing.T) {
	h, mock := newAdminEnv(t)

	countRow := func(n int64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"count"}).AddRow(n)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).WillReturnRows(countRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM items")).WillReturnRows(countRow(30))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM items WHERE status=?")).
		WithArgs(model.ItemStatusPending).WillReturnRows(countRow(4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM items WHERE status=?")).
		WithArgs(model.ItemStatusAvailable).WillReturnRows(countRow(20))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM items WHERE status=?")).
		WithArgs(model.ItemStatusSwapped).WillReturnRows(countRow(6))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admin_logs WHERE action LIKE ?")).
		WithArgs("%approved%").WillReturnRows(countRow(26))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admin_logs WHERE action LIKE ?")).
		WithArgs("%rejected%").WillReturnRows(countRow(3))

	c, rec := jsonContext(t, http.MethodGet, "/v1/admin/dashboard", "", 5)
	require.NoError(t, h.Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending_items":4`)
	assert.Contains(t, rec.Body.String(), `"total_users":10`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
