package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
)

// DashboardHandler serves the logged-in user's overview: profile with
// points balance, everything they listed and everything they acquired
// through swaps or redemptions.
type DashboardHandler struct {
	Log         *logrus.Logger
	Users       *repository.UserRepo
	Items       *repository.ItemRepo
	Swaps       *repository.SwapRepo
	Redemptions *repository.RedemptionRepo
}

func NewDashboardHandler(log *logrus.Logger, u *repository.UserRepo, i *repository.ItemRepo, s *repository.SwapRepo, r *repository.RedemptionRepo) *DashboardHandler {
	return &DashboardHandler{Log: log, Users: u, Items: i, Swaps: s, Redemptions: r}
}

// Overview handles GET /v1/dashboard.
func (h *DashboardHandler) Overview(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		h.Log.WithError(err).Error("dashboard: load user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	listed, err := h.Items.ListByUploader(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("dashboard: list items failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	swapped, err := h.Swaps.AcceptedItemsByRequester(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("dashboard: accepted swaps failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	redeemed, err := h.Redemptions.RedeemedItemsByUser(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("dashboard: redemptions failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	acquired := make([]model.Item, 0, len(swapped)+len(redeemed))
	acquired = append(acquired, swapped...)
	acquired = append(acquired, redeemed...)

	return c.JSON(http.StatusOK, echo.Map{
		"profile":        userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Points: u.Points},
		"listed_items":   listed,
		"acquired_items": acquired,
	})
}
