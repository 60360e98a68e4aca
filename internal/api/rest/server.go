// Package rest отдаёт конвейер оценки по HTTP.
package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	app "face-assess-bot/internal/application"
	"face-assess-bot/internal/domain/entity"
)

const (
	requestIDHeader = "X-Request-ID"
	pingTimeout     = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Assessor часть AssessmentService, нужная HTTP API.
type Assessor interface {
	Assess(ctx context.Context, photo []byte) (*app.AssessmentOutput, error)
	ProviderName() string
	Ping(ctx context.Context) error
}

// Server HTTP API оценки фото.
type Server struct {
	svc      Assessor
	maxBytes int64
	engine   *gin.Engine
}

// NewServer создаёт сервер и регистрирует маршруты под /api.
func NewServer(svc Assessor, maxBytes int) *Server {
	s := &Server{svc: svc, maxBytes: int64(maxBytes)}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/assessments", s.handleAssess)

	s.engine = router
	return s
}

// Handler возвращает http.Handler для тестов и встраивания.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run слушает addr до отмены ctx, затем корректно завершает соединения.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown failed", "error", err)
		}
	}()

	slog.Info("HTTP server started", "addr", addr)
	// ErrServerClosed означает штатную остановку
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type artifactsView struct {
	Heatmap  []byte `json:"heatmap"`
	Radar    []byte `json:"radar"`
	Priority []byte `json:"priority"`
}

type treatmentView struct {
	Name         string `json:"name"`
	PriorityRank int    `json:"priority_rank"`
	Score        int    `json:"score"`
}

type assessmentView struct {
	ID           string                 `json:"id"`
	ReportNumber string                 `json:"report_number"`
	Model        string                 `json:"model"`
	CreatedAt    time.Time              `json:"created_at"`
	Assessment   string                 `json:"assessment"`
	Report       string                 `json:"report"`
	Severities   entity.SeverityMap     `json:"severities"`
	Scores       []entity.CategoryScore `json:"scores"`
	Treatments   []treatmentView        `json:"treatments"`
	Artifacts    artifactsView          `json:"artifacts"`
}

type errorView struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := s.svc.Ping(ctx); err != nil {
		slog.Warn("Provider health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "model": s.svc.ProviderName(), "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.svc.ProviderName()})
}

// handleAssess принимает фото полем multipart «file» или телом запроса с
// Content-Type image/*. Формат ответа задаётся параметром format.
func (s *Server) handleAssess(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "json"))
	if format != "json" && format != string(entity.FormatHTML) && format != string(entity.FormatPDF) {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}

	photo, err := s.readPhoto(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := app.WithRequestID(c.Request.Context(), c.GetString("request_id"))
	out, err := s.svc.Assess(ctx, photo)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Warn("Failed to remove workspace", "error", err)
		}
	}()

	if format == "json" {
		view, err := newAssessmentView(out.Assessment)
		if err != nil {
			s.respondError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, view)
		return
	}

	doc := out.Document(entity.DocumentFormat(format))
	if doc == nil {
		s.respondError(c, http.StatusInternalServerError, fmt.Errorf("%s document is unavailable", format))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Name))
	c.Data(http.StatusOK, doc.MIMEType, doc.Data)
}

func (s *Server) readPhoto(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes+(1<<20))

	if strings.HasPrefix(c.ContentType(), "image/") {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("multipart field \"file\" is required: %w", err)
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func (s *Server) respondError(c *gin.Context, status int, err error) {
	c.JSON(status, errorView{Error: err.Error(), RequestID: c.GetString("request_id")})
}

func statusFor(err error) int {
	switch {
	case entity.IsInvalidInput(err):
		return http.StatusUnprocessableEntity
	case entity.IsProviderFailure(err):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func newAssessmentView(a *entity.Assessment) (*assessmentView, error) {
	view := &assessmentView{
		ID:           a.ID,
		ReportNumber: a.ReportNumber(),
		Model:        a.Model,
		CreatedAt:    a.CreatedAt,
		Assessment:   a.AssessmentText,
		Report:       a.ReportText,
		Severities:   a.Severities,
		Scores:       a.Scores,
	}
	for _, t := range a.Treatments {
		view.Treatments = append(view.Treatments, treatmentView{Name: t.Name, PriorityRank: t.PriorityRank, Score: t.Score()})
	}

	targets := map[entity.ArtifactKind]*[]byte{
		entity.ArtifactHeatmap:  &view.Artifacts.Heatmap,
		entity.ArtifactRadar:    &view.Artifacts.Radar,
		entity.ArtifactPriority: &view.Artifacts.Priority,
	}
	for _, art := range a.Artifacts.Available() {
		data, err := os.ReadFile(art.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", art.Kind, err)
		}
		*targets[art.Kind] = data
	}
	return view, nil
}

// requestLogger присваивает запросу ID и пишет строку лога после ответа.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		slog.Info("HTTP request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
