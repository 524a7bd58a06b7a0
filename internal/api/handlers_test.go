package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resumeforge/internal/api/middleware"
	"resumeforge/internal/auth"
	"resumeforge/internal/database"
	"resumeforge/internal/resume"
	"resumeforge/internal/tasks"
)

type tokenTable map[string]string

func (t tokenTable) ValidateToken(token string) (*auth.TokenClaims, error) {
	userID, ok := t[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &auth.TokenClaims{UserID: userID, TokenType: auth.TokenTypeAccess}, nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(f.tasks)), Queue: "default"}, nil
}

type fakeLinks struct{}

func (fakeLinks) DownloadURL(_ context.Context, objectKey, filename string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://files.example/%s?name=%s&ttl=%d", objectKey, filename, int(ttl.Seconds())), nil
}

type fakeRemover struct {
	prefixes []string
}

func (f *fakeRemover) DeletePrefix(_ context.Context, prefix string) error {
	f.prefixes = append(f.prefixes, prefix)
	return nil
}

type apiHarness struct {
	db       *gorm.DB
	router   *gin.Engine
	service  *resume.Service
	enqueuer *fakeEnqueuer
	remover  *fakeRemover
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := resume.NewService(database.NewStore(db), auth.ContextIdentity, nil, quiet)

	h := &apiHarness{db: db, service: svc, enqueuer: &fakeEnqueuer{}, remover: &fakeRemover{}}

	router := gin.New()
	router.Use(middleware.CorrelationIDMiddleware(), middleware.SlogLoggerMiddleware(quiet))
	group := router.Group("/v1/resumes")
	group.Use(middleware.AuthMiddleware(tokenTable{"alice-token": "alice", "bob-token": "bob"}))
	registerResumeRoutes(group,
		NewResumeHandler(svc, h.remover),
		NewSectionHandler(svc),
		NewExportHandler(svc, h.enqueuer, fakeLinks{}, 5*time.Minute, 3),
	)
	h.router = router
	return h
}

func (h *apiHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *apiHarness) createResume(t *testing.T, token string) string {
	t.Helper()
	w := h.do(t, http.MethodPost, "/v1/resumes", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp idResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestResumeEndpointsRequireToken(t *testing.T) {
	h := newAPIHarness(t)

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/v1/resumes", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/v1/resumes", "forged", nil).Code)
}

func TestResumeLifecycleOverHTTP(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createResume(t, "alice-token")
	base := "/v1/resumes/" + id

	w := h.do(t, http.MethodPatch, base, "alice-token", gin.H{"title": "Site Reliability"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = h.do(t, http.MethodPut, base+"/contact", "alice-token", gin.H{"full_name": "Grace", "email": "grace@example.com"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	w = h.do(t, http.MethodPut, base+"/summary", "alice-token", gin.H{"content": "Keeps things up."})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	w = h.do(t, http.MethodPost, base+"/skills", "alice-token", gin.H{"name": "Kubernetes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = h.do(t, http.MethodPost, base+"/experiences", "alice-token", gin.H{"company": "Acme", "start_date": "2021-02", "current": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodGet, "/v1/resumes", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Resumes []resume.ListItem `json:"resumes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Resumes, 1)
	assert.Equal(t, "Site Reliability", list.Resumes[0].Title)

	w = h.do(t, http.MethodGet, base, "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var aggregate database.Resume
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aggregate))
	assert.Equal(t, "Site Reliability", aggregate.Title)
	require.Len(t, aggregate.Skills, 1)
	assert.Equal(t, "Kubernetes", aggregate.Skills[0].Name)

	w = h.do(t, http.MethodGet, base+"/preview", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Grace"`)
	assert.Contains(t, w.Body.String(), "Feb 2021 - Present")

	w = h.do(t, http.MethodGet, base+"/preview/html", "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Keeps things up.")

	w = h.do(t, http.MethodPost, base+"/duplicate", "alice-token", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var dup idResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	w = h.do(t, http.MethodGet, "/v1/resumes/"+dup.ID, "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Site Reliability (Copy)")

	w = h.do(t, http.MethodDelete, base, "alice-token", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"exports/alice/" + id + "/"}, h.remover.prefixes)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, base, "alice-token", nil).Code)
}

func TestForeignResumeReturnsNotFound(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createResume(t, "alice-token")
	base := "/v1/resumes/" + id

	w := h.do(t, http.MethodGet, base, "bob-token", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPatch, base, "bob-token", gin.H{"title": "mine"}).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPost, base+"/skills", "bob-token", gin.H{"name": "Go"}).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodDelete, base, "bob-token", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodPost, base+"/exports", "bob-token", nil).Code)
	assert.Empty(t, h.remover.prefixes)
	assert.Empty(t, h.enqueuer.tasks)
}

func TestInvalidInputReturnsBadRequest(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createResume(t, "alice-token")
	base := "/v1/resumes/" + id

	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPatch, base, "alice-token", gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPatch, base, "alice-token", gin.H{"title": "   "}).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPut, base+"/summary", "alice-token", gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, base+"/skills", "alice-token", gin.H{"name": "  "}).Code)
	assert.Equal(t, http.StatusBadRequest,
		h.do(t, http.MethodPost, base+"/experiences", "alice-token", gin.H{"start_date": "sometime"}).Code)

	w := h.do(t, http.MethodPut, base+"/summary", "alice-token", gin.H{"content": ""})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExportRequestAndDownloadLink(t *testing.T) {
	h := newAPIHarness(t)
	id := h.createResume(t, "alice-token")
	base := "/v1/resumes/" + id

	req := httptest.NewRequest(http.MethodPost, base+"/exports", nil)
	req.Header.Set("Authorization", "Bearer alice-token")
	req.Header.Set(middleware.CorrelationIDHeader, "corr-42")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var pending exportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pending))
	assert.Equal(t, database.ExportPending, pending.Status)
	assert.Empty(t, pending.DownloadURL)

	require.Len(t, h.enqueuer.tasks, 1)
	task := h.enqueuer.tasks[0]
	assert.Equal(t, tasks.TypeResumeExport, task.Type())
	var payload tasks.ResumeExportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, pending.ID, payload.ExportID)
	assert.Equal(t, "alice", payload.UserID)
	assert.Equal(t, "corr-42", payload.CorrelationID)

	owner := h.service.WithIdentity(resume.StaticIdentity("alice"))
	objectKey := "exports/alice/" + id + "/" + pending.ID + ".pdf"
	require.NoError(t, owner.CompleteExport(context.Background(), pending.ID, objectKey, 1234, []byte(`{}`)))

	w = h.do(t, http.MethodGet, base+"/exports/"+pending.ID, "alice-token", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var done exportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	assert.Equal(t, database.ExportCompleted, done.Status)
	assert.EqualValues(t, 1234, done.SizeBytes)
	assert.Equal(t, 300, done.ExpiresIn)
	assert.Equal(t, "https://files.example/"+objectKey+"?name=Untitled Resume.pdf&ttl=300", done.DownloadURL)

	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, base+"/exports/"+pending.ID, "bob-token", nil).Code)
}

func TestExportEnqueueFailureMarksExportFailed(t *testing.T) {
	h := newAPIHarness(t)
	h.enqueuer.err = errors.New("redis down")
	id := h.createResume(t, "alice-token")

	w := h.do(t, http.MethodPost, "/v1/resumes/"+id+"/exports", "alice-token", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var exports []database.ResumeExport
	require.NoError(t, h.db.Where("resume_id = ?", id).Find(&exports).Error)
	require.Len(t, exports, 1)
	assert.Equal(t, database.ExportFailed, exports[0].Status)
	assert.Equal(t, "enqueue failed", exports[0].Error)
}
