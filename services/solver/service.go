package solver

import (
	"errors"
	"log/slog"
	"net/http"

	"quizsolver-backend/lib/browser"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Service exposes the solver over HTTP.
type Service struct {
	cfg    Config
	solver *Solver
}

func NewService(cfg Config, renderer Renderer) *Service {
	return &Service{
		cfg:    cfg,
		solver: NewSolver(cfg, renderer),
	}
}

func (s *Service) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.Home)
	r.POST("/api/quiz", s.Quiz)
}

// Home is the liveness probe.
func (s *Service) Home(c *gin.Context) {
	c.String(http.StatusOK, "Quiz solver is running!")
}

// Quiz validates the request shape and shared secret, then hands off to
// the solve flow. Render failures on the initial page load are the only
// downstream errors surfaced as HTTP errors.
func (s *Service) Quiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Email == "" || req.Secret == "" || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	if req.Secret != s.cfg.Secret {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid secret"})
		return
	}

	ctx := c.Request.Context()
	solveID := uuid.NewString()
	slog.InfoContext(ctx, "solving quiz", "solve_id", solveID, "url", req.URL)

	report, err := s.solver.Solve(ctx, req)
	if err != nil {
		if errors.Is(err, browser.ErrNavigateTimeout) {
			slog.ErrorContext(ctx, "render timed out", "solve_id", solveID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":  "timeout rendering page",
				"detail": err.Error(),
			})
			return
		}
		slog.ErrorContext(ctx, "render failed", "solve_id", solveID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "render error",
			"detail": err.Error(),
		})
		return
	}

	slog.InfoContext(ctx, "solve finished", "solve_id", solveID)
	c.JSON(http.StatusOK, report)
}
