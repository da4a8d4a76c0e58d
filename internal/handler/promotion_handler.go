package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devops-summer22-promotions/promotions/internal/model"
	"github.com/devops-summer22-promotions/promotions/internal/service"
)

const contentTypeJSON = "application/json"

type PromotionHandler struct {
	service *service.PromotionService
}

func NewPromotionHandler(svc *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: svc}
}

// Create handles POST /promotions.
func (h *PromotionHandler) Create(ctx *gin.Context) {
	if ctx.ContentType() != contentTypeJSON {
		writeError(ctx, http.StatusUnsupportedMediaType, "Content-Type must be "+contentTypeJSON)
		return
	}
	payload, ok := bindPayload(ctx)
	if !ok {
		return
	}
	var promo model.Promotion
	if err := promo.Deserialize(payload); err != nil {
		writeError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.Create(ctx.Request.Context(), &promo); err != nil {
		renderServiceError(ctx, err)
		return
	}
	ctx.Header("Location", fmt.Sprintf("/promotions/%d", promo.ID))
	ctx.JSON(http.StatusCreated, promo.Serialize())
}

// Get handles GET /promotions/:id.
func (h *PromotionHandler) Get(ctx *gin.Context) {
	id, ok := parsePromoID(ctx)
	if !ok {
		return
	}
	promo, err := h.service.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, promo.Serialize())
}

// Update handles PUT /promotions/:id. The payload replaces every field;
// the identity comes from the path, not the body.
func (h *PromotionHandler) Update(ctx *gin.Context) {
	id, ok := parsePromoID(ctx)
	if !ok {
		return
	}
	if ctx.ContentType() != contentTypeJSON {
		writeError(ctx, http.StatusUnsupportedMediaType, "Content-Type must be "+contentTypeJSON)
		return
	}
	existing, err := h.service.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}
	payload, ok := bindPayload(ctx)
	if !ok {
		return
	}
	var promo model.Promotion
	if err := promo.Deserialize(payload); err != nil {
		writeError(ctx, http.StatusBadRequest, err.Error())
		return
	}
	promo.ID = existing.ID
	if err := h.service.Update(ctx.Request.Context(), &promo); err != nil {
		renderServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, promo.Serialize())
}

// Cancel handles PUT /promotions/:id/cancel.
func (h *PromotionHandler) Cancel(ctx *gin.Context) {
	id, ok := parsePromoID(ctx)
	if !ok {
		return
	}
	promo, err := h.service.Cancel(ctx.Request.Context(), id)
	if err != nil {
		renderServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, promo.Serialize())
}

// Delete handles DELETE /promotions/:id. 204 whether or not the record
// existed.
func (h *PromotionHandler) Delete(ctx *gin.Context) {
	id, ok := parsePromoID(ctx)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// List handles GET /promotions with optional filters.
func (h *PromotionHandler) List(ctx *gin.Context) {
	promos, err := h.service.List(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		renderServiceError(ctx, err)
		return
	}
	out := make([]map[string]any, 0, len(promos))
	for i := range promos {
		out = append(out, promos[i].Serialize())
	}
	ctx.JSON(http.StatusOK, out)
}

// Index reports basic service information.
func Index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"name":    "Promotions REST API Service",
		"version": "1.0",
		"url":     "/promotions",
	})
}

// Health is the liveness probe.
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "OK"})
}

// bindPayload decodes the request body into a key-value payload and
// normalizes empty-string discount/customer to null. A body that is not a
// JSON object is a 400.
func bindPayload(ctx *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		writeError(ctx, http.StatusBadRequest, "body of request contained bad or no data")
		return nil, false
	}
	for _, key := range []string{"discount", "customer"} {
		if s, ok := payload[key].(string); ok && s == "" {
			payload[key] = nil
		}
	}
	return payload, true
}

// parsePromoID validates the path id: a well-formed integer in
// [0, 2^31-1].
func parsePromoID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 0 || id > math.MaxInt32 {
		writeError(ctx, http.StatusBadRequest, "promotion id must be an integer between 0 and 2147483647")
		return 0, false
	}
	return id, true
}

func renderServiceError(ctx *gin.Context, err error) {
	var badFilter *service.BadFilterError
	var invalid *model.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoResults):
		writeError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(ctx, http.StatusConflict, err.Error())
	case errors.As(err, &badFilter), errors.As(err, &invalid):
		writeError(ctx, http.StatusBadRequest, err.Error())
	default:
		writeError(ctx, http.StatusInternalServerError, err.Error())
	}
}

// writeError renders the shared error body shape.
func writeError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}
