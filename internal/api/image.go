package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mesobmatch/backend/internal/apperr"
	"github.com/pageza/mesobmatch/backend/internal/logging"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"go.uber.org/zap"
)

var errImagesDisabled = apperr.New(apperr.ErrUnavailable, 0, "Image storage is not configured")

// UploadImage stores the multipart "image" field as the recipe's picture,
// replacing any previous one. Only the author or an admin may upload.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.images == nil {
		respondError(c, errImagesDisabled)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.catalog.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canModify(c, recipe.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if _, err := service.ValidateImage(header.Size, contentType); err != nil {
		respondError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	url, key, err := h.images.UploadRecipeImage(ctx, id, file, header.Size, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.SetRecipeImage(ctx, id, url, key); err != nil {
		h.removeStoredImage(c, key)
		respondError(c, err)
		return
	}
	h.removeStoredImage(c, recipe.ImageKey)

	c.JSON(http.StatusOK, gin.H{
		"id":        id,
		"image_url": url,
	})
}

func (h *RecipeHandler) DeleteImage(c *gin.Context) {
	if h.images == nil {
		respondError(c, errImagesDisabled)
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.catalog.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canModify(c, recipe.AuthorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	if recipe.ImageKey == "" && recipe.ImageURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe has no image"})
		return
	}

	if err := h.catalog.SetRecipeImage(ctx, id, "", ""); err != nil {
		respondError(c, err)
		return
	}
	h.removeStoredImage(c, recipe.ImageKey)

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted successfully",
		"id":      id,
	})
}

// removeStoredImage deletes an object that is no longer referenced. A
// failure leaves an orphan in the bucket and is only logged.
func (h *RecipeHandler) removeStoredImage(c *gin.Context, key string) {
	if h.images == nil || key == "" {
		return
	}
	if err := h.images.DeleteImage(c.Request.Context(), key); err != nil {
		logging.Named("api").Warn("failed to delete stored image",
			zap.String("key", key),
			zap.Error(err))
	}
}
