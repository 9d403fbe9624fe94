package api

import (
	"context"
	"errors"
	"time"

	"crmchat/app/config"
	"crmchat/app/service/conversation"
	"crmchat/app/service/session"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg             *config.Config
	conversationSvc *conversation.Service
	app             *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	server := &Server{
		cfg:             do.MustInvoke[*config.Config](di),
		conversationSvc: do.MustInvoke[*conversation.Service](di),
	}

	server.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	server.app.Get("/health", server.handleHealth)
	server.app.Post("/api/chat", server.handleChat)
	server.app.Post("/api/session/reset", server.handleReset)
	server.app.Get("/api/sessions", server.handleSessions)

	return server, nil
}

// Run serves the API until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- s.app.Listen(s.cfg.Server.Addr)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.SessionID == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id and message are required"})
	}

	result, err := s.conversationSvc.ProcessTurn(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return s.storageError(c, err)
	}

	return c.JSON(result)
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}

	if err := s.conversationSvc.ResetSession(c.Context(), req.SessionID); err != nil {
		return s.storageError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleSessions(c *fiber.Ctx) error {
	sessions, err := s.conversationSvc.ActiveSessions(c.Context())
	if err != nil {
		return s.storageError(c, err)
	}

	return c.JSON(fiber.Map{"sessions": sessions})
}

func (s *Server) storageError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, session.ErrUnavailable) {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
