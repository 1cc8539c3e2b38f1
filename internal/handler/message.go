package handler

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"github.com/hyperifyio/courseport/internal/command"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageRequest struct {
	UserID     int64              `json:"user_id"`
	Username   string             `json:"username,omitempty"`
	FirstName  string             `json:"first_name,omitempty"`
	LastName   string             `json:"last_name,omitempty"`
	Text       string             `json:"text,omitempty"`
	Attachment *AttachmentPayload `json:"attachment,omitempty"`
}

// AttachmentPayload carries an uploaded file as base64 so link lists can be
// posted through plain JSON.
type AttachmentPayload struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

type ReplyPayload struct {
	Text     string `json:"text"`
	FilePath string `json:"file_path,omitempty"`
}

type MessageResponse struct {
	Replies []ReplyPayload `json:"replies"`
}

// MessageHandler exposes the command router over HTTP.
type MessageHandler struct {
	router *command.Router
}

func NewMessageHandler(router *command.Router) *MessageHandler {
	return &MessageHandler{router: router}
}

func (h *MessageHandler) Register(app *fiber.App) {
	app.Post("/api/message", h.Post)
	app.Get("/healthz", h.Health)
}

func (h *MessageHandler) Post(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.UserID == 0 {
		return c.Status(400).JSON(ErrorResponse{Error: "user_id is required"})
	}

	msg := command.Message{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Text:      req.Text,
	}
	if req.Attachment != nil {
		data, err := base64.StdEncoding.DecodeString(req.Attachment.Data)
		if err != nil {
			return c.Status(400).JSON(ErrorResponse{Error: "attachment data must be base64"})
		}
		msg.Attachment = &command.Attachment{Name: req.Attachment.Name, Data: data}
	}

	replies := h.router.Handle(c.Context(), msg)
	out := make([]ReplyPayload, 0, len(replies))
	for _, r := range replies {
		out = append(out, ReplyPayload{Text: r.Text, FilePath: r.FilePath})
	}
	return c.JSON(MessageResponse{Replies: out})
}

func (h *MessageHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
