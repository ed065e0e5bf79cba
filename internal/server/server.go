// Package server exposes the planner over a JSON REST API.
package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/julianstephens/bium/internal/config"
	"github.com/julianstephens/bium/internal/constants"
	"github.com/julianstephens/bium/internal/logger"
	"github.com/julianstephens/bium/internal/service"
	"github.com/julianstephens/bium/internal/utils"
)

// Server wires the service into a fiber application.
type Server struct {
	app     *fiber.App
	svc     *service.Service
	cfg     config.ServerConfig
	limiter *ipLimiter
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used for health timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(svc *service.Service, cfg config.ServerConfig, opts ...Option) *Server {
	s := &Server{
		svc: svc,
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if cfg.RatePerSecond > 0 {
		s.limiter = newIPLimiter(cfg.RatePerSecond, cfg.RateBurst)
	}

	// Immutable: params and bodies reach the store, which outlives the
	// request buffer.
	s.app = fiber.New(fiber.Config{
		AppName:               constants.AppName,
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestLogger())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	if s.limiter != nil {
		s.app.Use("/api", s.limiter.middleware())
	}

	s.setupRoutes()
	s.setupStatic()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	logger.Info("Server listening", "address", ln.Addr().String())
	return s.app.Listener(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupRoutes() {
	api := s.app.Group("/api")
	api.Get("/health", s.health)

	queues := api.Group("/queues")
	queues.Get("/", s.listQueues)
	queues.Post("/", s.createQueue)
	queues.Post("/empty-all", s.emptyAllQueues)
	queues.Get("/:id", s.getQueue)
	queues.Put("/:id", s.updateQueue)
	queues.Delete("/:id", s.deleteQueue)
	queues.Get("/:id/capacity", s.queueCapacity)
	queues.Post("/:id/assign", s.assignTask)
	queues.Post("/:id/unassign", s.unassignTask)

	templates := api.Group("/queue-templates")
	templates.Get("/", s.listTemplates)
	templates.Post("/", s.createTemplate)
	templates.Get("/:id", s.getTemplate)
	templates.Put("/:id", s.updateTemplate)
	templates.Delete("/:id", s.deleteTemplate)

	tasks := api.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Get("/inbox", s.listInbox)
	tasks.Post("/", s.createTask)
	tasks.Get("/:id", s.getTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
	tasks.Post("/:id/complete", s.completeTask)
	tasks.Post("/:id/uncomplete", s.uncompleteTask)

	api.Get("/week", s.week)
	api.Get("/settings", s.getSettings)
	api.Put("/settings", s.updateSettings)

	vault := api.Group("/obsidian")
	vault.Get("/validate", s.validateVault)
	vault.Get("/notes", s.listNotes)
	vault.Post("/notes", s.createNote)
	vault.Get("/folders", s.listFolders)

	api.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})
}

// setupStatic serves a prebuilt frontend, falling back to index.html so
// client-side routes resolve.
func (s *Server) setupStatic() {
	dir := s.cfg.StaticDir
	if dir == "" {
		return
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("Static directory not found, frontend disabled", "dir", dir)
		return
	}
	s.app.Static("/", dir)
	index := filepath.Join(dir, "index.html")
	s.app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		Timestamp: utils.FormatTimestamp(s.now()),
	})
}
