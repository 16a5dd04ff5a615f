package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polymatrix/tracker/internal/apperr"
	"github.com/polymatrix/tracker/internal/service"
)

type AlertHandler struct {
	alertService *service.AlertService
}

func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// Create subscribes a new alert rule. Malformed rules are rejected with 400
// and never persisted.
func (h *AlertHandler) Create(c *gin.Context) {
	var req service.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "ALERT_SUBSCRIBE_ERROR", err)
		return
	}

	rule, err := h.alertService.Create(c.Request.Context(), req)
	if apperr.IsValidation(err) {
		respondError(c, http.StatusBadRequest, "ALERT_SUBSCRIBE_ERROR", err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ALERT_SUBSCRIBE_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rule, "message": "Alert created successfully"})
}

// List serves a user's active alert rules, newest first.
func (h *AlertHandler) List(c *gin.Context) {
	userID := c.Query("user_id")

	rules, err := h.alertService.ListActive(c.Request.Context(), userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "ALERTS_LIST_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rules, "count": len(rules)})
}

// Deactivate soft-disables one rule.
func (h *AlertHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")

	if err := h.alertService.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, http.StatusInternalServerError, "ALERT_DEACTIVATE_ERROR", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert deactivated"})
}
