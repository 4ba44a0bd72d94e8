package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Priyankm23/odoo-hackathon-project/internal/config"
	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/queue"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
	"github.com/Priyankm23/odoo-hackathon-project/internal/service"
)

// AdminHandler implements the moderation queue, the audit log and the
// platform dashboard. All routes are guarded by the admin role.
type AdminHandler struct {
	Cfg   config.Config
	Log   *logrus.Logger
	Items *repository.ItemRepo
	Users *repository.UserRepo
	Logs  *repository.AdminLogRepo
}

func NewAdminHandler(cfg config.Config, log *logrus.Logger, i *repository.ItemRepo, u *repository.UserRepo, l *repository.AdminLogRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Log: log, Items: i, Users: u, Logs: l}
}

type approveReq struct {
	PointValue int64 `json:"point_value"`
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// PendingItems handles GET /v1/admin/items/pending: the moderation queue.
func (h *AdminHandler) PendingItems(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Items.ListPending(ctx)
	if err != nil {
		h.Log.WithError(err).Error("admin: list pending failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Approve handles PATCH /v1/admin/items/:id/approve. The item becomes
// available at a point value taken from the request body, or computed
// from the listing when the body omits it. Approval, the uploader's
// bonus and the audit entry commit together.
func (h *AdminHandler) Approve(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req approveReq
	_ = c.Bind(&req) // body is optional
	if req.PointValue < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "point_value must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, itemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		h.Log.WithError(err).Error("admin approve: load item failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	pointValue := req.PointValue
	if pointValue == 0 {
		pointValue = pointValueFor(it)
	}

	tx, err := h.Items.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Items.ApproveTx(ctx, tx, itemID, pointValue); err != nil {
		if err == repository.ErrItemNotPending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item is not pending"})
		}
		h.Log.WithError(err).Error("admin approve: update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Users.CreditPointsTx(ctx, tx, it.UploadedBy, h.Cfg.ApprovalBonus); err != nil {
		h.Log.WithError(err).Error("admin approve: credit uploader failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	action := fmt.Sprintf("approved (%d pts)", pointValue)
	details := fmt.Sprintf("item %q approved, +%d pts to uploader", it.Title, h.Cfg.ApprovalBonus)
	if err := h.Logs.CreateTx(ctx, tx, adminID, action, itemID, details); err != nil {
		h.Log.WithError(err).Error("admin approve: audit log failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		h.Log.WithError(err).Error("admin approve: commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"item_id":     itemID,
		"admin_id":    adminID,
		"point_value": pointValue,
		"bonus":       h.Cfg.ApprovalBonus,
	}).Info("item approved")

	h.notifyModeration(queue.EventItemApproved, it, pointValue, "")

	it.Status = model.ItemStatusAvailable
	it.PointValue = pointValue
	return c.JSON(http.StatusOK, it)
}

// Reject handles DELETE /v1/admin/items/:id. Only pending items can be
// rejected; the listing is removed and the decision is recorded in the
// audit log within the same transaction. The log row keeps the item ID
// even though the item is gone.
func (h *AdminHandler) Reject(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	itemID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req rejectReq
	_ = c.Bind(&req)
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "does not meet listing guidelines"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, itemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		h.Log.WithError(err).Error("admin reject: load item failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tx, err := h.Items.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Items.DeleteRejectedTx(ctx, tx, itemID); err != nil {
		if err == repository.ErrItemNotPending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item is not pending"})
		}
		h.Log.WithError(err).Error("admin reject: delete failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	details := fmt.Sprintf("item %q rejected: %s", it.Title, reason)
	if err := h.Logs.CreateTx(ctx, tx, adminID, "rejected", itemID, details); err != nil {
		h.Log.WithError(err).Error("admin reject: audit log failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		h.Log.WithError(err).Error("admin reject: commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"item_id":  itemID,
		"admin_id": adminID,
		"reason":   reason,
	}).Info("item rejected")

	h.notifyModeration(queue.EventItemRejected, it, 0, reason)

	return c.JSON(http.StatusOK, echo.Map{"message": "item rejected and removed"})
}

// Logs handles GET /v1/admin/logs with an optional ?limit query.
func (h *AdminHandler) AuditLogs(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	logs, err := h.Logs.List(ctx, limit)
	if err != nil {
		h.Log.WithError(err).Error("admin: list logs failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": logs, "count": len(logs)})
}

// Dashboard handles GET /v1/admin/dashboard: platform-wide counters.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	stats := echo.Map{}
	counters := []struct {
		key   string
		count func(context.Context) (int64, error)
	}{
		{"total_users", h.Users.Count},
		{"total_items", h.Items.Count},
		{"pending_items", func(ctx context.Context) (int64, error) { return h.Items.CountByStatus(ctx, model.ItemStatusPending) }},
		{"available_items", func(ctx context.Context) (int64, error) { return h.Items.CountByStatus(ctx, model.ItemStatusAvailable) }},
		{"swapped_items", func(ctx context.Context) (int64, error) { return h.Items.CountByStatus(ctx, model.ItemStatusSwapped) }},
		{"approved_logs", func(ctx context.Context) (int64, error) { return h.Logs.CountActionContaining(ctx, "approved") }},
		{"rejected_logs", func(ctx context.Context) (int64, error) { return h.Logs.CountActionContaining(ctx, "rejected") }},
	}
	for _, counter := range counters {
		n, err := counter.count(ctx)
		if err != nil {
			h.Log.WithError(err).Errorf("admin dashboard: %s failed", counter.key)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		stats[counter.key] = n
	}
	return c.JSON(http.StatusOK, stats)
}

// notifyModeration tells the uploader about a moderation decision.
func (h *AdminHandler) notifyModeration(eventType string, it model.Item, points int64, detail string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		uploader, err := h.Users.GetByID(ctx, it.UploadedBy)
		if err != nil {
			h.Log.WithError(err).Warn("moderation: load uploader for notification failed")
			return
		}
		_ = service.PublishNotification(ctx, h.Log, queue.NotificationEvent{
			Type:      eventType,
			UserID:    uploader.ID,
			Email:     uploader.Email,
			Name:      uploader.Name,
			ItemID:    it.ID,
			ItemTitle: it.Title,
			Points:    points,
			Detail:    detail,
		})
	}()
}

// pointValueFor derives a point value from the listing itself: a base
// worth plus bumps for pristine condition, rich tagging and a detailed
// description.
func pointValueFor(it model.Item) int64 {
	value := int64(100)
	if strings.EqualFold(strings.TrimSpace(it.Condition), "brand new") {
		value += 50
	}
	if len(it.Tags) > 3 {
		value += 20
	}
	if len(it.Description) > 100 {
		value += 30
	}
	return value
}
