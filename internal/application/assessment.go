package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/domain/port"
)

const (
	heatmapFile  = "heatmap.png"
	radarFile    = "radar.png"
	priorityFile = "priority.png"
)

type requestIDKey struct{}

// WithRequestID кладёт в ctx ID запроса внешнего интерфейса, чтобы логи
// конвейера и HTTP-слоя совпадали.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID возвращает ID из ctx или пустую строку.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// AssessmentDeps зависимости сервиса оценки. Quality и Cache необязательны.
type AssessmentDeps struct {
	Provider   port.Provider
	Decoder    port.ImageDecoder
	Quality    port.QualityChecker
	Cache      port.AssessmentCache
	Workspaces port.WorkspaceFactory

	Classifier port.SeverityClassifier
	Scorer     port.RadarScorer
	Parser     port.TreatmentParser

	Heatmap   port.HeatmapRenderer
	Radar     port.RadarRenderer
	Priority  port.PriorityRenderer
	Documents []port.DocumentRenderer
}

func (d AssessmentDeps) validate() error {
	switch {
	case d.Provider == nil:
		return errors.New("provider is not configured")
	case d.Decoder == nil:
		return errors.New("image decoder is not configured")
	case d.Workspaces == nil:
		return errors.New("workspaces are not configured")
	case d.Classifier == nil || d.Scorer == nil || d.Parser == nil:
		return errors.New("heuristics are not configured")
	case d.Heatmap == nil || d.Radar == nil || d.Priority == nil:
		return errors.New("chart renderers are not configured")
	case len(d.Documents) == 0:
		return errors.New("document renderers are not configured")
	}
	return nil
}

// AssessmentService проводит фото через весь конвейер: модель, эвристики,
// диаграммы и итоговые документы.
type AssessmentService struct {
	deps AssessmentDeps
	now  func() time.Time
}

// AssessmentOutput результат оценки. Файлы диаграмм живут до вызова Close.
type AssessmentOutput struct {
	Assessment *entity.Assessment
	Documents  []*entity.Document
	workspace  port.Workspace
}

// Close удаляет каталог запроса.
func (o *AssessmentOutput) Close() error {
	if o.workspace == nil {
		return nil
	}
	return o.workspace.Cleanup()
}

// Document возвращает документ нужного формата или nil.
func (o *AssessmentOutput) Document(format entity.DocumentFormat) *entity.Document {
	for _, d := range o.Documents {
		if d.Format == format {
			return d
		}
	}
	return nil
}

// NewAssessmentService создаёт сервис оценки.
func NewAssessmentService(deps AssessmentDeps) (*AssessmentService, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	return &AssessmentService{deps: deps, now: time.Now}, nil
}

// ProviderName имя модели, которая выполняет анализ.
func (s *AssessmentService) ProviderName() string {
	return s.deps.Provider.Name()
}

// Ping проверяет доступность модели.
func (s *AssessmentService) Ping(ctx context.Context) error {
	return s.deps.Provider.Ping(ctx)
}

// Assess оценивает фото. При успехе вызывающий обязан вызвать Close у результата.
func (s *AssessmentService) Assess(ctx context.Context, photo []byte) (out *AssessmentOutput, err error) {
	ws, err := s.deps.Workspaces.New()
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if err != nil {
			if cleanupErr := ws.Cleanup(); cleanupErr != nil {
				slog.Warn("Failed to remove workspace", "workspace", ws.ID(), "error", cleanupErr)
			}
		}
	}()

	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = ws.ID()
	}
	log := slog.With("request_id", requestID, "workspace", ws.ID())
	started := s.now()

	img, err := s.deps.Decoder.Decode(photo)
	if err != nil {
		log.Info("Photo rejected", "error", err)
		return nil, err
	}
	if s.deps.Quality != nil {
		if err := s.deps.Quality.Check(img); err != nil {
			log.Info("Photo failed quality check", "error", err)
			return nil, entity.NewInvalidInput("image", err.Error())
		}
	}

	assessmentText, reportText, err := s.texts(ctx, log, img, photo)
	if err != nil {
		return nil, err
	}

	a := &entity.Assessment{
		ID:             requestID,
		CreatedAt:      started,
		Model:          s.deps.Provider.Name(),
		Image:          img,
		AssessmentText: assessmentText,
		ReportText:     reportText,
	}

	if err := s.Visualize(a, ws); err != nil {
		return nil, err
	}

	docs, err := s.BuildDocuments(a)
	if err != nil {
		return nil, err
	}

	log.Info("Assessment completed",
		"model", a.Model,
		"affected_regions", len(a.Severities.Affected()),
		"treatments", len(a.Treatments),
		"artifacts", len(a.Artifacts.Available()),
		"documents", len(docs),
		"duration", time.Since(started),
	)

	return &AssessmentOutput{Assessment: a, Documents: docs, workspace: ws}, nil
}

// texts возвращает оценку и отчёт из кеша или от модели.
func (s *AssessmentService) texts(ctx context.Context, log *slog.Logger, img image.Image, photo []byte) (string, string, error) {
	model := s.deps.Provider.Name()
	if s.deps.Cache != nil {
		if assessment, report, ok := s.deps.Cache.Get(model, photo); ok {
			log.Info("Provider response taken from cache", "model", model)
			return assessment, report, nil
		}
	}

	assessment, err := s.deps.Provider.Analyze(ctx, img)
	if err != nil {
		log.Error("Analysis failed", "model", model, "error", err)
		return "", "", err
	}
	report, err := s.deps.Provider.Generate(ctx, assessment)
	if err != nil {
		log.Error("Report generation failed", "model", model, "error", err)
		return "", "", err
	}

	if s.deps.Cache != nil {
		s.deps.Cache.Put(model, photo, assessment, report)
	}
	return assessment, report, nil
}

// Visualize заполняет выраженность, оценки и процедуры и строит три
// диаграммы в каталоге ws. Сбой диаграммы оставляет её поле пустым.
func (s *AssessmentService) Visualize(a *entity.Assessment, ws port.Workspace) error {
	if a.Image == nil {
		return entity.NewInvalidInput("image", "missing")
	}
	if strings.TrimSpace(a.AssessmentText) == "" {
		return entity.NewInvalidInput("assessment", "empty text")
	}

	a.Severities = s.deps.Classifier.Classify(a.AssessmentText)
	a.Scores = s.deps.Scorer.Score(a.AssessmentText)
	a.Treatments = s.deps.Parser.Parse(a.ReportText)

	a.Artifacts = entity.ArtifactSet{
		Heatmap:  s.deps.Heatmap.Render(a.Image, s.deps.Classifier.Regions(), a.Severities, ws.Path(heatmapFile)),
		Radar:    s.deps.Radar.Render(a.Scores, ws.Path(radarFile)),
		Priority: s.deps.Priority.Render(a.Treatments, ws.Path(priorityFile)),
	}

	for _, kind := range []entity.ArtifactKind{entity.ArtifactHeatmap, entity.ArtifactRadar, entity.ArtifactPriority} {
		if a.Artifacts.Get(kind) == nil {
			slog.Warn("Chart is unavailable", "request_id", a.ID, "artifact", string(kind))
		}
	}
	return nil
}

// BuildDocuments собирает документы всех настроенных форматов. Ошибка одного
// формата не мешает остальным; ошибка возвращается, только если не собран ни один.
func (s *AssessmentService) BuildDocuments(a *entity.Assessment) ([]*entity.Document, error) {
	docs := make([]*entity.Document, 0, len(s.deps.Documents))
	var errs []error
	for _, r := range s.deps.Documents {
		doc, err := r.Render(a)
		if err != nil {
			slog.Warn("Document rendering failed", "request_id", a.ID, "format", string(r.Format()), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Format(), err))
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("build documents: %w", errors.Join(errs...))
	}
	return docs, nil
}
