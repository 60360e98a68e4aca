package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	app "face-assess-bot/internal/application"
	"face-assess-bot/internal/domain/entity"
)

type fakeAssessor struct {
	out       *app.AssessmentOutput
	err       error
	pingErr   error
	photo     []byte
	requestID string
}

func (f *fakeAssessor) Assess(ctx context.Context, photo []byte) (*app.AssessmentOutput, error) {
	f.photo = photo
	f.requestID = app.RequestID(ctx)
	return f.out, f.err
}

func (f *fakeAssessor) ProviderName() string         { return "fake-model" }
func (f *fakeAssessor) Ping(context.Context) error { return f.pingErr }

func init() {
	gin.SetMode(gin.TestMode)
}

func testOutput(t *testing.T) *app.AssessmentOutput {
	t.Helper()
	radar := filepath.Join(t.TempDir(), "radar.png")
	require.NoError(t, os.WriteFile(radar, []byte("radar-png"), 0o644))

	return &app.AssessmentOutput{
		Assessment: &entity.Assessment{
			ID:             "req-1",
			CreatedAt:      time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
			Model:          "fake-model",
			AssessmentText: "dry skin",
			ReportText:     "report",
			Severities:     entity.SeverityMap{entity.RegionForehead: 0.6},
			Scores:         []entity.CategoryScore{{Category: entity.CategorySkinQuality, Label: "Skin quality", Score: 4.5}},
			Treatments:     []entity.TreatmentEntry{{Name: "Botox", PriorityRank: 2}},
			Artifacts: entity.ArtifactSet{
				Radar: &entity.Artifact{Kind: entity.ArtifactRadar, Path: radar},
			},
		},
		Documents: []*entity.Document{
			{Format: entity.FormatHTML, Name: "report-AI-20240305140709.html", MIMEType: "text/html; charset=utf-8", Data: []byte("<html></html>")},
		},
	}
}

func multipartRequest(t *testing.T, url string, photo []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "face.png")
	require.NoError(t, err)
	_, err = part.Write(photo)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	svc := &fakeAssessor{}
	srv := NewServer(svc, 1<<20)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"model":"fake-model"`)
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))

	svc.pingErr = errors.New("unauthorized")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAssess_JSON(t *testing.T) {
	svc := &fakeAssessor{out: testOutput(t)}
	srv := NewServer(svc, 1<<20)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, multipartRequest(t, "/api/assessments", []byte("photo-bytes")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []byte("photo-bytes"), svc.photo)

	var view assessmentView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "AI-20240305140709", view.ReportNumber)
	require.Equal(t, 0.6, view.Severities[entity.RegionForehead])
	require.Equal(t, []treatmentView{{Name: "Botox", PriorityRank: 2, Score: 4}}, view.Treatments)
	require.Equal(t, []byte("radar-png"), view.Artifacts.Radar)
	require.Nil(t, view.Artifacts.Heatmap)
}

func TestAssess_PassesRequestID(t *testing.T) {
	svc := &fakeAssessor{out: testOutput(t)}
	srv := NewServer(svc, 1<<20)

	req := multipartRequest(t, "/api/assessments", []byte("x"))
	req.Header.Set(requestIDHeader, "req-from-client")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-from-client", svc.requestID)
	require.Equal(t, "req-from-client", rec.Header().Get(requestIDHeader))
}

func TestAssess_RawBodyHTML(t *testing.T) {
	svc := &fakeAssessor{out: testOutput(t)}
	srv := NewServer(svc, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/assessments?format=html", bytes.NewReader([]byte("jpeg-bytes")))
	req.Header.Set("Content-Type", "image/jpeg")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<html></html>", rec.Body.String())
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "report-AI-20240305140709.html")
	require.Equal(t, []byte("jpeg-bytes"), svc.photo)
}

func TestAssess_MissingDocument(t *testing.T) {
	srv := NewServer(&fakeAssessor{out: testOutput(t)}, 1<<20)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, multipartRequest(t, "/api/assessments?format=pdf", []byte("x")))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAssess_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid input", entity.NewInvalidInput("image", "too small"), http.StatusUnprocessableEntity},
		{"provider", &entity.ExternalProviderFailure{Provider: "openai", Op: "analyze", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := NewServer(&fakeAssessor{err: c.err}, 1<<20)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, multipartRequest(t, "/api/assessments", []byte("x")))
			require.Equal(t, c.status, rec.Code)

			var body errorView
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, c.err.Error(), body.Error)
			require.NotEmpty(t, body.RequestID)
		})
	}
}

func TestAssess_BadRequest(t *testing.T) {
	srv := NewServer(&fakeAssessor{out: testOutput(t)}, 1<<20)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, multipartRequest(t, "/api/assessments?format=docx", []byte("x")))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/assessments", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
