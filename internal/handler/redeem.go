package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Priyankm23/odoo-hackathon-project/internal/config"
	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/queue"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
	"github.com/Priyankm23/odoo-hackathon-project/internal/service"
)

// RedeemHandler implements point redemptions: spending points to take
// an available item without offering a garment in return.
type RedeemHandler struct {
	Cfg         config.Config
	Log         *logrus.Logger
	Items       *repository.ItemRepo
	Users       *repository.UserRepo
	Redemptions *repository.RedemptionRepo
}

func NewRedeemHandler(cfg config.Config, log *logrus.Logger, i *repository.ItemRepo, u *repository.UserRepo, r *repository.RedemptionRepo) *RedeemHandler {
	return &RedeemHandler{Cfg: cfg, Log: log, Items: i, Users: u, Redemptions: r}
}

type redeemReq struct {
	ItemID uint64 `json:"item_id"`
}

// Redeem handles POST /v1/redeem. The whole exchange is one
// transaction: the item flips to swapped, the balance is debited and
// the redemption row is written. The conditional updates inside the
// repository make the operation safe against a concurrent swap or
// redemption of the same item, and against a concurrent debit draining
// the balance.
func (h *RedeemHandler) Redeem(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req redeemReq
	if err := c.Bind(&req); err != nil || req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, req.ItemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		h.Log.WithError(err).Error("redeem: load item failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if it.Status != model.ItemStatusAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "item is not available"})
	}
	if it.UploadedBy == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrOwnItem.Error()})
	}

	cost := it.PointValue
	if cost <= 0 {
		cost = h.Cfg.DefaultRedeemCost
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

	if err := h.Items.MarkSwappedTx(ctx, tx, it.ID); err != nil {
		if err == repository.ErrItemUnavailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item is no longer available"})
		}
		h.Log.WithError(err).Error("redeem: mark swapped failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Users.DebitPointsTx(ctx, tx, uid, cost); err != nil {
		if err == repository.ErrInsufficientPoints {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "insufficient points"})
		}
		h.Log.WithError(err).Error("redeem: debit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	red := model.PointRedemption{ItemID: it.ID, UserID: uid, PointsUsed: cost}
	if err := h.Redemptions.CreateTx(ctx, tx, &red); err != nil {
		h.Log.WithError(err).Error("redeem: record failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		h.Log.WithError(err).Error("redeem: commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"redemption_id": red.ID,
		"item_id":       it.ID,
		"user_id":       uid,
		"points_used":   cost,
	}).Info("item redeemed")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		u, err := h.Users.GetByID(ctx, uid)
		if err != nil {
			h.Log.WithError(err).Warn("redeem: load user for notification failed")
			return
		}
		_ = service.PublishNotification(ctx, h.Log, queue.NotificationEvent{
			Type:      queue.EventItemRedeemed,
			UserID:    u.ID,
			Email:     u.Email,
			Name:      u.Name,
			ItemID:    it.ID,
			ItemTitle: it.Title,
			Points:    cost,
		})
	}()

	return c.JSON(http.StatusCreated, red)
}

// MyRedeems handles GET /v1/redeem/user/my-redeems.
func (h *RedeemHandler) MyRedeems(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	redeems, err := h.Redemptions.ListByUser(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("my redeems: list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"redemptions": redeems, "count": len(redeems)})
}
