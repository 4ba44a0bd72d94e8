package handler

import (
	"context"
	"net/http"
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

// SwapHandler implements the direct swap workflow: a user requests an
// available item, the owner accepts or rejects, and acceptance retires
// the item and pays both parties.
type SwapHandler struct {
	Cfg   config.Config
	Log   *logrus.Logger
	Swaps *repository.SwapRepo
	Items *repository.ItemRepo
	Users *repository.UserRepo
}

func NewSwapHandler(cfg config.Config, log *logrus.Logger, s *repository.SwapRepo, i *repository.ItemRepo, u *repository.UserRepo) *SwapHandler {
	return &SwapHandler{Cfg: cfg, Log: log, Swaps: s, Items: i, Users: u}
}

type swapCreateReq struct {
	ItemID  uint64 `json:"item_id"`
	Message string `json:"message"`
}

type swapRespondReq struct {
	Status string `json:"status"` // accepted | rejected
}

// Request handles POST /v1/swaps. The item must be available, owned by
// someone else, and not already targeted by a pending request from the
// same user.
func (h *SwapHandler) Request(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req swapCreateReq
	if err := c.Bind(&req); err != nil || req.ItemID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "item_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, req.ItemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		h.Log.WithError(err).Error("swap request: load item failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if it.Status != model.ItemStatusAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "item is not available"})
	}
	if it.UploadedBy == uid {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrOwnItem.Error()})
	}
	dup, err := h.Swaps.HasPendingRequest(ctx, it.ID, uid)
	if err != nil {
		h.Log.WithError(err).Error("swap request: duplicate check failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if dup {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": repository.ErrDuplicateSwapRequest.Error()})
	}

	s := model.SwapRequest{
		ItemID:      it.ID,
		RequesterID: uid,
		OwnerID:     it.UploadedBy,
		Message:     strings.TrimSpace(req.Message),
	}
	if err := h.Swaps.Create(ctx, &s); err != nil {
		h.Log.WithError(err).Error("swap request: create failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create swap request failed"})
	}
	h.Log.WithFields(logrus.Fields{"swap_id": s.ID, "item_id": it.ID, "requester_id": uid}).Info("swap requested")
	return c.JSON(http.StatusCreated, s)
}

// Respond handles PATCH /v1/swaps/:id/status. Only the item owner can
// decide a request, and only while it is pending. Acceptance runs in
// one transaction: the request flips to accepted, the item to swapped,
// and both parties are credited. Any step failing rolls the whole
// decision back.
func (h *SwapHandler) Respond(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	swapID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid swap id"})
	}
	var req swapRespondReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status != model.SwapStatusAccepted && status != model.SwapStatusRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be accepted or rejected"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	s, err := h.Swaps.GetByID(ctx, swapID)
	if err != nil {
		if err == repository.ErrSwapNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "swap request not found"})
		}
		h.Log.WithError(err).Error("swap respond: load failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	role, _ := c.Get("role").(string)
	if s.OwnerID != uid && role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only the item owner can respond"})
	}

	tx, err := h.Swaps.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.Swaps.RespondTx(ctx, tx, s.ID, status); err != nil {
		if err == repository.ErrSwapAlreadyHandled {
			return c.JSON(http.StatusConflict, echo.Map{"error": "swap request already handled"})
		}
		h.Log.WithError(err).Error("swap respond: update failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if status == model.SwapStatusAccepted {
		if err := h.Items.MarkSwappedTx(ctx, tx, s.ItemID); err != nil {
			if err == repository.ErrItemUnavailable {
				return c.JSON(http.StatusConflict, echo.Map{"error": "item is no longer available"})
			}
			h.Log.WithError(err).Error("swap respond: mark swapped failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := h.Users.CreditPointsTx(ctx, tx, s.OwnerID, h.Cfg.SwapOwnerBonus); err != nil {
			h.Log.WithError(err).Error("swap respond: credit owner failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := h.Users.CreditPointsTx(ctx, tx, s.RequesterID, h.Cfg.SwapRequesterBonus); err != nil {
			h.Log.WithError(err).Error("swap respond: credit requester failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	if err := tx.Commit(); err != nil {
		h.Log.WithError(err).Error("swap respond: commit failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"swap_id":  s.ID,
		"item_id":  s.ItemID,
		"owner_id": s.OwnerID,
		"status":   status,
	}).Info("swap request decided")

	if status == model.SwapStatusAccepted {
		h.notifyAccepted(s)
	}

	s.Status = status
	return c.JSON(http.StatusOK, s)
}

// notifyAccepted publishes the acceptance notification best effort.
func (h *SwapHandler) notifyAccepted(s model.SwapRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		requester, err := h.Users.GetByID(ctx, s.RequesterID)
		if err != nil {
			h.Log.WithError(err).Warn("swap respond: load requester for notification failed")
			return
		}
		it, err := h.Items.GetByID(ctx, s.ItemID)
		if err != nil {
			h.Log.WithError(err).Warn("swap respond: load item for notification failed")
			return
		}
		_ = service.PublishNotification(ctx, h.Log, queue.NotificationEvent{
			Type:      queue.EventSwapAccepted,
			UserID:    requester.ID,
			Email:     requester.Email,
			Name:      requester.Name,
			ItemID:    it.ID,
			ItemTitle: it.Title,
		})
	}()
}

// MySwaps handles GET /v1/swaps/user/my-swaps, returning the caller's
// outgoing requests and incoming requests on their items.
func (h *SwapHandler) MySwaps(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	outgoing, err := h.Swaps.ListByRequester(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("my swaps: list outgoing failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	incoming, err := h.Swaps.ListByOwner(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("my swaps: list incoming failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"outgoing": outgoing, "incoming": incoming})
}
