package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Priyankm23/odoo-hackathon-project/internal/model"
	"github.com/Priyankm23/odoo-hackathon-project/internal/repository"
	"github.com/Priyankm23/odoo-hackathon-project/internal/storage"
)

// maxItemImages caps how many photos one listing can carry.
const maxItemImages = 3

// ItemHandler serves item listing, browsing and detail endpoints.
type ItemHandler struct {
	Log    *logrus.Logger
	Items  *repository.ItemRepo
	Images *storage.ImageStore
}

func NewItemHandler(log *logrus.Logger, items *repository.ItemRepo, images *storage.ImageStore) *ItemHandler {
	return &ItemHandler{Log: log, Items: items, Images: images}
}

// Create handles POST /v1/items. The body is multipart form data with
// text fields plus up to three photos under "images". The item enters
// the moderation queue in the pending state and stays invisible to
// browsers until an admin approves it.
func (h *ItemHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}

	it := model.Item{
		Title:       title,
		Description: strings.TrimSpace(c.FormValue("description")),
		Category:    strings.TrimSpace(c.FormValue("category")),
		Type:        strings.TrimSpace(c.FormValue("type")),
		Size:        strings.TrimSpace(c.FormValue("size")),
		Condition:   strings.TrimSpace(c.FormValue("condition")),
		Tags:        splitTags(c.FormValue("tags")),
		UploadedBy:  uid,
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart body"})
	}
	files := form.File["images"]
	if len(files) > maxItemImages {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most 3 images allowed"})
	}
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable image upload"})
		}
		url, err := h.Images.Save(src)
		_ = src.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		it.Images = append(it.Images, url)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Items.Create(ctx, &it); err != nil {
		h.Log.WithError(err).Error("item create failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create item failed"})
	}

	h.Log.WithFields(logrus.Fields{"item_id": it.ID, "uploaded_by": uid}).Info("item submitted for moderation")
	return c.JSON(http.StatusCreated, it)
}

// List handles GET /v1/items: the public browse page. Only approved,
// still-available items show up, optionally narrowed by category, size,
// condition and a free-text search over title and description.
func (h *ItemHandler) List(c echo.Context) error {
	f := repository.ItemFilter{
		Category:  strings.TrimSpace(c.QueryParam("category")),
		Size:      strings.TrimSpace(c.QueryParam("size")),
		Condition: strings.TrimSpace(c.QueryParam("condition")),
		Search:    strings.TrimSpace(c.QueryParam("search")),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Items.ListAvailable(ctx, f)
	if err != nil {
		h.Log.WithError(err).Error("item list failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list items failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetByID handles GET /v1/items/:id. Item detail is public for any
// lifecycle state so swap parties can still view a swapped garment.
func (h *ItemHandler) GetByID(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		h.Log.WithError(err).Error("item get failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "get item failed"})
	}
	return c.JSON(http.StatusOK, it)
}

// MyItems handles GET /v1/items/user/my-items: everything the caller
// has listed, in any state.
func (h *ItemHandler) MyItems(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Items.ListByUploader(ctx, uid)
	if err != nil {
		h.Log.WithError(err).Error("my items failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list items failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// splitTags turns a comma separated form field into a trimmed slice.
func splitTags(raw string) []string {
	out := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
