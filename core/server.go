package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type CaseRunner interface {
	Cases() []Case
	RunCase(ctx context.Context, id string) (CaseReport, error)
	EvidenceDir() string
}

type Server struct {
	app  *fiber.App
	addr string
}

// NewServer exposes a runner over HTTP. Case runs wait on limiter, nil means
// no pacing.
func NewServer(host string, port int, runner CaseRunner, limiter *rate.Limiter) *Server {
	addr := fmt.Sprintf("%s:%d", host, port)
	serv := Server{
		app:  fiber.New(fiber.Config{DisableStartupMessage: true}),
		addr: addr,
	}

	serv.app.Get("/cases", func(c *fiber.Ctx) error {
		return c.JSON(runner.Cases())
	})

	serv.app.Post("/cases/:id/run", func(c *fiber.Ctx) error {
		id := c.Params("id")

		if limiter != nil {
			if err := limiter.Wait(context.Background()); err != nil {
				logrus.Errorf("Ratelimiter error during case %s: %s", id, err)
			}
		}

		report, err := runner.RunCase(context.Background(), id)
		if err != nil {
			switch {
			case errors.Is(err, ErrCaseNotFound):
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			case errors.Is(err, ErrEvidenceCapture):
				err = fmt.Errorf("%w\nCheck the evidence directory is writable", err)
			}

			logrus.Errorf("Error during case %s: %s", id, err)
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}

		return c.JSON(report)
	})

	serv.app.Get("/evidence/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")
		if !isEvidenceName(name) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid evidence name")
		}
		return c.SendFile(filepath.Join(runner.EvidenceDir(), name))
	})

	return &serv
}

func isEvidenceName(name string) bool {
	return name != "" && name != "." && name != ".." && name == filepath.Base(name)
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
