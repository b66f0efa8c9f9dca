// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openlms/openlms/internal/notification"
	"github.com/openlms/openlms/internal/observability/logger"
)

// SendNotificationRequest represents notification creation data
type SendNotificationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=enrollment course_update announcement system"`
	Title       string `json:"title" validate:"required"`
	Body        string `json:"body"`
}

// SendNotification persists and delivers a notification
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := h.notificationService.Notify(r.Context(), req.RecipientID, req.Kind, req.Title, req.Body)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to send notification", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to send notification")
		return
	}

	respondJSON(w, http.StatusCreated, n)
}

// ListNotifications lists notifications addressed to the current user
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := pagination(r)
	notifications, err := h.notificationService.ListForRecipient(r.Context(), userID, limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list notifications", logger.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// UnreadCount reports the current user's unread notification count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to count notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// MarkAllNotificationsRead marks every unread notification for the
// current user as read
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	affected, err := h.notificationService.MarkAllRead(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"marked_read": affected})
}

// MarkNotificationRead marks a notification as read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notificationService.MarkRead(r.Context(), chi.URLParam(r, "notificationID"))
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			respondError(w, http.StatusNotFound, "notification not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}
	respondJSON(w, http.StatusOK, n)
}

// DeleteNotification soft-deletes a notification
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.Delete(r.Context(), chi.URLParam(r, "notificationID")); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			respondError(w, http.StatusNotFound, "notification not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete notification")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}
