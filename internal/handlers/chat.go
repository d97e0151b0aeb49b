package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobconnect-server/internal/chat"
	"jobconnect-server/internal/middleware"
	"jobconnect-server/internal/models"
	"jobconnect-server/internal/utils"
	"jobconnect-server/internal/ws"
)

// ChatHandler exposes the messaging operations over HTTP.
type ChatHandler struct {
	Service *chat.Service
	Hub     *ws.Hub
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *chat.Service, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{Service: service, Hub: hub}
}

// SendMessageRequest represents the request body for sending a message.
// The sender is always the authenticated caller.
type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Kind       string `json:"kind" binding:"omitempty,oneof=text file image"`
}

// SendMessage handles sending a new message.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	senderID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	msg, err := h.Service.SendMessage(senderID, req.ReceiverID, req.Content, models.MessageKind(req.Kind))
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrInvalidContent):
			utils.BadRequest(c, "Message content must be 1-1000 characters")
		case errors.Is(err, chat.ErrAccountNotFound):
			utils.BadRequest(c, "Sender or receiver account does not exist")
		default:
			utils.InternalServerError(c, "Failed to send message: "+err.Error())
		}
		return
	}

	utils.Created(c, "Message sent successfully", msg)
}

// GetMessagesBetween handles fetching one page of the history between the
// caller and another user, oldest first.
func (h *ChatHandler) GetMessagesBetween(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	otherID := c.Param("userId")

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		utils.BadRequest(c, "Invalid 'page' parameter")
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		utils.BadRequest(c, "Invalid 'size' parameter")
		return
	}

	messages, err := h.Service.ListBetween(userID, otherID, page, size)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch messages: "+err.Error())
		return
	}

	utils.Success(c, "Messages fetched successfully", messages)
}

// GetConversations handles fetching the caller's inbox.
func (h *ChatHandler) GetConversations(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	conversations, err := h.Service.ListConversations(userID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch conversations: "+err.Error())
		return
	}

	utils.Success(c, "Conversations fetched successfully", conversations)
}

// MarkRead handles marking every unread message from :senderId to the caller
// as read. Safe to call repeatedly.
func (h *ChatHandler) MarkRead(c *gin.Context) {
	receiverID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	senderID := c.Param("senderId")

	updated, err := h.Service.MarkRead(receiverID, senderID)
	if err != nil {
		utils.InternalServerError(c, "Failed to mark messages as read: "+err.Error())
		return
	}

	utils.Success(c, "Messages marked as read", gin.H{"updated": updated})
}

// GetPresence reports whether a user currently has a live connection.
func (h *ChatHandler) GetPresence(c *gin.Context) {
	userID := c.Param("userId")
	online := h.Hub.IsOnline(c.Request.Context(), userID)
	utils.Success(c, "Presence fetched successfully", gin.H{"userId": userID, "online": online})
}
