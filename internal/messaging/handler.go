package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fluentora/backend/internal/auth"
	httperrors "github.com/fluentora/backend/pkg/http/errors"
	ws "github.com/fluentora/backend/pkg/http/ws"
)

// Handler provides REST + WebSocket endpoints for messaging.
type Handler struct {
	svc      *Service
	hub      *ws.Hub
	authSvc  *auth.Service
	upgrader Upgrader
	logger   zerolog.Logger
}

// Upgrader abstracts the WebSocket upgrade so the server package owns the
// shared gorilla upgrader configuration.
type Upgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request) (*ws.Connection, error)
}

// NewHandler creates messaging HTTP handlers.
func NewHandler(svc *Service, hub *ws.Hub, authSvc *auth.Service, upgrader Upgrader, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, hub: hub, authSvc: authSvc, upgrader: upgrader, logger: logger}
}

type sendMessageRequest struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	Content     string     `json:"content"`
	CourseID    *uuid.UUID `json:"course_id,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
}

// SendMessage handles POST /v1/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	msg, err := h.svc.SendMessage(r.Context(), SendRequest{
		SenderID:    auth.UserIDFromContext(r.Context()),
		RecipientID: req.RecipientID,
		Content:     req.Content,
		CourseID:    req.CourseID,
		Attachments: req.Attachments,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("send message failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeSendFailed, "Failed to send message")
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// GetMessages handles GET /v1/conversations/{peer}/messages
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	peerID, err := uuid.Parse(r.PathValue("peer"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid peer id")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	messages, err := h.svc.GetConversationMessages(r.Context(), userID, peerID)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			httperrors.RespondBadRequest(w, httperrors.ErrCodeConversationInvalid, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("get messages failed")
		httperrors.RespondInternalError(w, "Failed to load messages")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// MarkRead handles POST /v1/conversations/{peer}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	peerID, err := uuid.Parse(r.PathValue("peer"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid peer id")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	conversationID, err := ConversationID(userID.String(), peerID.String())
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeConversationInvalid, err.Error())
		return
	}

	flipped, err := h.svc.MarkMessagesAsRead(r.Context(), conversationID, userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("mark read failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeMarkReadFailed, "Failed to mark messages read")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"conversation_id": conversationID,
		"marked_read":     flipped,
	})
}

// ListConversations handles GET /v1/conversations
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	summaries, err := h.svc.ListConversations(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Msg("list conversations failed")
		httperrors.RespondInternalError(w, "Failed to list conversations")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"conversations": summaries})
}

// HandleWebSocket handles GET /ws/inbox: authenticates via token query
// parameter, upgrades, and registers the connection for message push.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Missing token")
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket token validation failed")
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	userID := claims.UserID
	h.hub.RegisterConnection(userID, conn)

	// The request context dies when this handler returns; pump callbacks
	// outlive it.
	ctx := context.Background()

	go conn.WritePump()
	go func() {
		defer h.hub.UnregisterConnection(userID)
		conn.ReadPump(func(msg ws.Message) error {
			return h.handleClientMessage(ctx, userID, conn, msg)
		})
	}()
}

func (h *Handler) handleClientMessage(ctx context.Context, userID uuid.UUID, conn *ws.Connection, msg ws.Message) error {
	switch msg.Type {
	case ws.TypePing:
		return conn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
	case ws.TypeMarkRead:
		var payload ws.MarkReadPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeInvalidPayload, "Invalid payload")
		}
		if _, err := h.svc.MarkMessagesAsRead(ctx, payload.ConversationID, userID); err != nil {
			return h.sendError(conn, msg.RequestID, httperrors.ErrCodeMarkReadFailed, "Failed to mark messages read")
		}
		raw, _ := json.Marshal(ws.ConversationReadPayload{
			ConversationID: payload.ConversationID,
			ReaderID:       userID.String(),
		})
		return conn.Send(ws.Message{Type: ws.TypeConversationRead, Payload: raw, RequestID: msg.RequestID})
	default:
		return h.sendError(conn, msg.RequestID, httperrors.ErrCodeUnknownMessageType, "Unknown message type")
	}
}

func (h *Handler) sendError(conn *ws.Connection, requestID, code, message string) error {
	raw, _ := json.Marshal(ws.ErrorPayload{Code: code, Message: message})
	return conn.Send(ws.Message{Type: ws.TypeError, Payload: raw, RequestID: requestID})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
