package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/polymatrix/tracker/internal/feed"
)

type FeedHandler struct {
	hub *feed.Hub
}

func NewFeedHandler(hub *feed.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// Stream upgrades the connection and streams live transactions and fired
// alerts.
func (h *FeedHandler) Stream(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request)
}
