package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/franco18min/tecnomundo-notify/internal/store"
)

// handleList returns the authenticated user's notifications, newest first.
func (s *Server) handleList(c *gin.Context) {
	userID := userIDFrom(c)

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(s.cfg.Notifications.DefaultPageSize)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if limit > s.cfg.Notifications.MaxPageSize {
		limit = s.cfg.Notifications.MaxPageSize
	}

	notifications, err := s.store.ListForUser(c.Request.Context(), userID, skip, limit)
	if err != nil {
		s.logger.Error("list notifications failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// handleUnreadCount returns the user's unread notification count.
func (s *Server) handleUnreadCount(c *gin.Context) {
	userID := userIDFrom(c)

	count, err := s.store.CountUnread(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("count unread failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count unread notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// handleMarkRead acknowledges one notification as read by its owner.
func (s *Server) handleMarkRead(c *gin.Context) {
	userID := userIDFrom(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	n, err := s.store.MarkRead(c.Request.Context(), id, userID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	if err != nil {
		s.logger.Error("mark read failed", "notification_id", id, "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark notification read"})
		return
	}

	c.JSON(http.StatusOK, n)
}

// handleMarkAllRead acknowledges all of the user's unread notifications.
func (s *Server) handleMarkAllRead(c *gin.Context) {
	userID := userIDFrom(c)

	changed, err := s.store.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		s.logger.Error("mark all read failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_read": changed})
}

// notifyRequest is the producer-facing push request body.
type notifyRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
	LinkTo  string `json:"link_to"`
}

// handleNotify persists a notification and attempts a live push. Persistence
// failure fails the request; a missed live push does not.
func (s *Server) handleNotify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and message are required"})
		return
	}

	n, result, err := s.dispatcher.Notify(c.Request.Context(), req.UserID, req.Message, req.LinkTo)
	if err != nil {
		s.logger.Error("notify failed", "user_id", req.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not persist notification"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"notification": n,
		"delivery":     result.String(),
	})
}
