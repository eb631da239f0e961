package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/utils/response"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app:           NewApp(),
		listenAddress: listenAddress,
	}
}

// NewApp builds the Fiber app with the JSON error envelope
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "dept-events",
		ErrorHandler: errorHandler,
	})
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message, "HTTP_ERROR")
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return response.InternalServerError(c, "")
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Info().Str("address", s.listenAddress).Msg("Starting API Server")
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
