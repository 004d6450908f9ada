package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/httpresp"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/storage"
)

type GalleryHandler struct {
	db     *gorm.DB
	images *storage.Images
	audit  *audit.Dispatcher
}

func NewGalleryHandler(db *gorm.DB, images *storage.Images, audit *audit.Dispatcher) *GalleryHandler {
	return &GalleryHandler{db: db, images: images, audit: audit}
}

// uploadFormImage reads a multipart image field, normalizes it and stores it
// under folder. It returns the object key and public URL.
func uploadFormImage(c *gin.Context, images *storage.Images, field, folder string) (string, string, error) {
	if !images.Enabled() {
		return "", "", httperr.Unavailable("STORAGE_DISABLED", "image storage is not configured")
	}

	fh, err := c.FormFile(field)
	if err != nil {
		return "", "", httperr.ValidationDetails(map[string]string{field: "required"})
	}
	if fh.Size > storage.MaxUploadBytes {
		return "", "", httperr.ValidationDetails(map[string]string{field: "max"})
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	key, url, err := images.Upload(c.Request.Context(), folder, f)
	if errors.Is(err, storage.ErrInvalidImage) {
		return "", "", httperr.ValidationDetails(map[string]string{field: "image"})
	}
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// ======================================================
// CREATE (multipart: image, title?, active?)
// ======================================================

func (h *GalleryHandler) Create(c *gin.Context) {
	title := c.PostForm("title")
	if len(title) > 255 {
		httperr.Respond(c, httperr.ValidationDetails(map[string]string{"title": "max"}))
		return
	}

	active := true
	if v := c.PostForm("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httperr.Respond(c, httperr.ValidationDetails(map[string]string{"active": "boolean"}))
			return
		}
		active = b
	}

	key, url, err := uploadFormImage(c, h.images, "image", "gallery")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	item := models.GalleryItem{
		Title:     title,
		ImagePath: key,
		ImageURL:  url,
		Active:    active,
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Create(&item).Error; err != nil {
		// não deixa objeto órfão no bucket
		_ = h.images.Remove(ctx, key)
		httperr.Respond(c, err)
		return
	}

	writeAudit(c, h.audit, "gallery_item_created", "gallery_item", &item.ID, nil)

	httpresp.Created(c, gin.H{
		"gallery_item": item,
		"message":      "Imagen subida exitosamente",
	})
}

// ======================================================
// DELETE
// ======================================================

func (h *GalleryHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	ctx := c.Request.Context()

	var item models.GalleryItem
	if err := h.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "GALLERY_ITEM_NOT_FOUND", "gallery item not found")
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(ctx).Delete(&item).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.images.Remove(ctx, item.ImagePath); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", item.ImagePath).Msg("gallery object delete failed")
	}

	writeAudit(c, h.audit, "gallery_item_deleted", "gallery_item", &item.ID, nil)

	httpresp.OK(c, gin.H{"message": "Imagen eliminada exitosamente"})
}
