package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Priyankm23/odoo-hackathon-project/internal/config"
	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() config.Config {
	return config.Config{
		ApprovalBonus:      25,
		SwapOwnerBonus:     50,
		SwapRequesterBonus: 25,
		DefaultRedeemCost:  75,
	}
}

func newRedeemEnv(t *testing.T) (*RedeemHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRedeemHandler(testConfig(), quietLogger(),
		repository.NewItemRepo(db), repository.NewUserRepo(db), repository.NewRedemptionRepo(db)), mock
}

func jsonContext(t *testing.T, method, path, body string, uid uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// the JWT middleware stores numeric claims as float64
	c.Set("user_id", float64(uid))
	return c, rec
}

func expectItemByID(mock sqlmock.Sqlmock, id, uploadedBy uint64, status string, pointValue int64) {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "images", "category", "type", "size",
		"item_condition", "tags", "status", "point_value", "uploaded_by",
		"created_at", "updated_at",
	}).AddRow(id, "Linen shirt", "Light summer shirt", nil, "tops", "shirt", "L",
		"good", nil, status, pointValue, uploadedBy, now, now)
	mock.ExpectQuery("SELECT .+ FROM items WHERE id=").WillReturnRows(rows)
}

func TestRedeemSuccess(t *testing.T) {
	h, mock := newRedeemEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusAvailable, 100)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=? WHERE id=? AND status=?")).
		WithArgs(model.ItemStatusSwapped, uint64(7), model.ItemStatusAvailable).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points - ? WHERE id = ? AND points >= ?")).
		WithArgs(int64(100), uint64(1), int64(100)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_redemptions (item_id, user_id, points_used) VALUES (?,?,?)")).
		WithArgs(uint64(7), uint64(1), int64(100)).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectCommit()

	c, rec := jsonContext(t, http.MethodPost, "/v1/redeem", `{"item_id":7}`, 1)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"points_used":100`)
}

func TestRedeemFallsBackToDefaultCost(t *testing.T) {
	h, mock := newRedeemEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusAvailable, 0)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=? WHERE id=? AND status=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points - ? WHERE id = ? AND points >= ?")).
		WithArgs(int64(75), uint64(1), int64(75)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO point_redemptions")).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	c, rec := jsonContext(t, http.MethodPost, "/v1/redeem", `{"item_id":7}`, 1)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"points_used":75`)
}

func TestRedeemInsufficientPointsRollsBack(t *testing.T) {
	h, mock := newRedeemEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusAvailable, 100)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=? WHERE id=? AND status=?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET points = points - ? WHERE id = ? AND points >= ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := jsonContext(t, http.MethodPost, "/v1/redeem", `{"item_id":7}`, 1)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient points")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemLosesItemRace(t *testing.T) {
	h, mock := newRedeemEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusAvailable, 100)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE items SET status=? WHERE id=? AND status=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	c, rec := jsonContext(t, http.MethodPost, "/v1/redeem", `{"item_id":7}`, 1)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemOwnItemRejected(t *testing.T) {
	h, mock := newRedeemEnv(t)

	expectItemByID(mock, 7, 1, model.ItemStatusAvailable, 100)

	c, rec := jsonContext(t, http.MethodPost, "/v1/redeem", `{"item_id":7}`, 1)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemPendingItemConflict(t *testing.T) {
	h, mock := newRedeemEnv(t)

	expectItemByID(mock, 7, 2, model.ItemStatusPending, 0)

	c, rec := jsonContext(t, http.MethodPost, "/v1/redeem", `{"item_id":7}`, 1)
	require.NoError(t, h.Redeem(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
