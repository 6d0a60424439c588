package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/internal/service"
	appErrors "github.com/noah-isme/sparx-api/pkg/errors"
)

type scheduleManagerMock struct {
	generateReq   dto.GenerateScheduleRequest
	publishReq    dto.PublishScheduleRequest
	reoptimizeReq dto.ReoptimizeScheduleRequest
	entryQuery    dto.ScheduleEntryQuery
	batchQuery    dto.ScheduleBatchQuery
	deletedID     string
	deleteErr     error
	generateErr   error
}

func (m *scheduleManagerMock) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	m.generateReq = req
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &dto.GenerateScheduleResponse{
		Batch:    models.ScheduleBatch{ID: "b-1", Status: models.ScheduleBatchStatusDraft},
		Group:    dto.GroupRef{ID: req.GroupID, Name: "G1"},
		Semester: models.SemesterWinter,
		Stats:    dto.ScheduleStats{TotalEntries: 20, WeeksCount: 15},
	}, nil
}

func (m *scheduleManagerMock) Reoptimize(ctx context.Context, req dto.ReoptimizeScheduleRequest) (*dto.ReoptimizeScheduleResponse, error) {
	m.reoptimizeReq = req
	return &dto.ReoptimizeScheduleResponse{Reoptimized: []models.ScheduleBatch{{ID: "b-2"}}, Count: 1}, nil
}

func (m *scheduleManagerMock) Publish(ctx context.Context, req dto.PublishScheduleRequest) (*dto.PublishScheduleResponse, error) {
	m.publishReq = req
	if len(req.BatchIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "no draft batches found")
	}
	return &dto.PublishScheduleResponse{Published: []models.ScheduleBatch{{ID: req.BatchIDs[0]}}, Count: 1}, nil
}

func (m *scheduleManagerMock) DeleteBatch(ctx context.Context, id string) error {
	m.deletedID = id
	return m.deleteErr
}

func (m *scheduleManagerMock) ListBatches(ctx context.Context, query dto.ScheduleBatchQuery) ([]models.ScheduleBatch, error) {
	m.batchQuery = query
	return []models.ScheduleBatch{{ID: "b-1"}}, nil
}

func (m *scheduleManagerMock) GetBatch(ctx context.Context, id string) (*dto.ScheduleBatchDetail, error) {
	if id != "b-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule batch not found")
	}
	return &dto.ScheduleBatchDetail{Batch: models.ScheduleBatch{ID: id}}, nil
}

func (m *scheduleManagerMock) ListEntries(ctx context.Context, query dto.ScheduleEntryQuery) ([]models.ScheduleEntryDetail, error) {
	m.entryQuery = query
	return []models.ScheduleEntryDetail{{ScheduleEntry: models.ScheduleEntry{ID: "e-1"}}}, nil
}

type exporterMock struct{}

func (exporterMock) ExportBatch(ctx context.Context, batchID string, format service.ExportFormat) (*service.ExportFile, error) {
	if format == service.ExportFormatPDF {
		return &service.ExportFile{Filename: "schedule.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}, nil
	}
	return &service.ExportFile{Filename: "schedule.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Week\n1\n")}, nil
}

type routerFixture struct {
	router *gin.Engine
	mock   *scheduleManagerMock
	auth   *service.AuthService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mock := &scheduleManagerMock{}
	auth := service.NewAuthService(nil, nil, service.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "sparx-api"})
	r := gin.New()
	Routes{
		APIPrefix: "/api/v1",
		Auth:      auth,
		Schedule:  &ScheduleHandler{service: mock, exporter: exporterMock{}},
		Metrics:   NewMetricsHandler(service.NewMetricsService(), nil),
	}.Register(r)
	return &routerFixture{router: r, mock: mock, auth: auth}
}

func (f *routerFixture) token(t *testing.T, req dto.IssueTokenRequest) string {
	t.Helper()
	resp, err := f.auth.IssueAccessToken(req)
	require.NoError(t, err)
	return resp.AccessToken
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T, f *routerFixture) string {
	return f.token(t, dto.IssueTokenRequest{UserID: "admin-1", Role: models.RoleAdmin})
}

func TestScheduleGenerateAsAdmin(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/schedule/generate", adminToken(t, f),
		[]byte(`{"groupId":"g-1","semester":"WINTER","resolvedConflicts":{"ts-1":[{"week":1,"day":0,"slot":1,"roomId":"r-1"}]},"weights":{"preferences":1,"teacherGaps":2,"studentGaps":3}}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g-1", f.mock.generateReq.GroupID)
	assert.Equal(t, models.SemesterWinter, f.mock.generateReq.Semester)
	require.Len(t, f.mock.generateReq.ResolvedConflicts["ts-1"], 1)
	assert.Equal(t, "r-1", f.mock.generateReq.ResolvedConflicts["ts-1"][0].RoomID)
	require.NotNil(t, f.mock.generateReq.Weights)
	require.NotNil(t, f.mock.generateReq.Weights.StudentGaps)
	assert.Equal(t, 3.0, *f.mock.generateReq.Weights.StudentGaps)

	var body struct {
		Data dto.GenerateScheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 20, body.Data.Stats.TotalEntries)
	assert.Equal(t, "G1", body.Data.Group.Name)
}

func TestScheduleGenerateMalformedBody(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/schedule/generate", adminToken(t, f), []byte(`{"groupId":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGenerateMapsServiceErrors(t *testing.T) {
	f := newRouterFixture(t)
	f.mock.generateErr = appErrors.Clone(appErrors.ErrNotFound, "student group not found")

	w := f.do(t, http.MethodPost, "/api/v1/schedule/generate", adminToken(t, f), []byte(`{"groupId":"ghost"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.mock.generateErr = errors.New("db down")
	w = f.do(t, http.MethodPost, "/api/v1/schedule/generate", adminToken(t, f), []byte(`{"groupId":"g-1"}`))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestScheduleAdminRoutesRejectOtherRoles(t *testing.T) {
	f := newRouterFixture(t)
	student := f.token(t, dto.IssueTokenRequest{UserID: "s-1", Role: models.RoleStudent, GroupID: "g-1"})

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/api/v1/schedule/generate", "", []byte(`{"groupId":"g-1"}`)).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/api/v1/schedule/generate", student, []byte(`{"groupId":"g-1"}`)).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, "/api/v1/schedule/drafts", student, nil).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, "/api/v1/schedule/batch/b-1", student, nil).Code)
	assert.Empty(t, f.mock.generateReq.GroupID)
	assert.Empty(t, f.mock.deletedID)
}

func TestScheduleListScopesNonAdmins(t *testing.T) {
	f := newRouterFixture(t)
	student := f.token(t, dto.IssueTokenRequest{UserID: "s-1", Role: models.RoleStudent, GroupID: "g-7"})
	teacher := f.token(t, dto.IssueTokenRequest{UserID: "u-9", Role: models.RoleTeacher, TeacherID: "t-9"})

	w := f.do(t, http.MethodGet, "/api/v1/schedule?semester=SUMMER&status=DRAFT", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ScheduleBatchStatusPublished, f.mock.entryQuery.Status)
	assert.Equal(t, "g-7", f.mock.entryQuery.GroupID)
	assert.Equal(t, models.SemesterSummer, f.mock.entryQuery.Semester)

	w = f.do(t, http.MethodGet, "/api/v1/schedule", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t-9", f.mock.entryQuery.TeacherID)
	assert.Equal(t, models.ScheduleBatchStatusPublished, f.mock.entryQuery.Status)

	w = f.do(t, http.MethodGet, "/api/v1/schedule/group/g-1?status=DRAFT", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g-1", f.mock.entryQuery.GroupID)
	assert.Equal(t, models.ScheduleBatchStatusPublished, f.mock.entryQuery.Status)
}

func TestScheduleListAdminSeesDrafts(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminToken(t, f)

	w := f.do(t, http.MethodGet, "/api/v1/schedule/teacher/t-1?status=DRAFT", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t-1", f.mock.entryQuery.TeacherID)
	assert.Equal(t, models.ScheduleBatchStatusDraft, f.mock.entryQuery.Status)

	w = f.do(t, http.MethodGet, "/api/v1/schedule", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ScheduleBatchStatusPublished, f.mock.entryQuery.Status)
}

func TestScheduleBatchRoutes(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminToken(t, f)

	w := f.do(t, http.MethodGet, "/api/v1/schedule/drafts?semester=WINTER&status=PUBLISHED", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ScheduleBatchStatusDraft, f.mock.batchQuery.Status)

	w = f.do(t, http.MethodGet, "/api/v1/schedule/batches?status=PUBLISHED&groupId=g-2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ScheduleBatchStatusPublished, f.mock.batchQuery.Status)
	assert.Equal(t, "g-2", f.mock.batchQuery.GroupID)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/v1/schedule/batches/b-1", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/v1/schedule/batches/zzz", admin, nil).Code)
}

func TestScheduleExport(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminToken(t, f)

	w := f.do(t, http.MethodGet, "/api/v1/schedule/batches/b-1/export?format=pdf", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="schedule.pdf"`, w.Header().Get("Content-Disposition"))

	w = f.do(t, http.MethodGet, "/api/v1/schedule/batches/b-1/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Week\n1\n", w.Body.String())

	w = f.do(t, http.MethodGet, "/api/v1/schedule/batches/b-1/export?format=docx", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedulePublishReoptimizeDelete(t *testing.T) {
	f := newRouterFixture(t)
	admin := adminToken(t, f)

	w := f.do(t, http.MethodPost, "/api/v1/schedule/publish", admin, []byte(`{"batchIds":["b-1"]}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"b-1"}, f.mock.publishReq.BatchIDs)

	w = f.do(t, http.MethodPost, "/api/v1/schedule/publish", admin, []byte(`{"batchIds":[]}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/schedule/reoptimize", admin, []byte(`{"batchIds":["b-2"],"semester":"WINTER"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SemesterWinter, f.mock.reoptimizeReq.Semester)

	w = f.do(t, http.MethodDelete, "/api/v1/schedule/batch/b-3", admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "b-3", f.mock.deletedID)

	f.mock.deleteErr = appErrors.Clone(appErrors.ErrInvalidState, "cannot delete published schedule")
	w = f.do(t, http.MethodDelete, "/api/v1/schedule/batch/b-4", admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestOpsRoutes(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/ready", "", nil).Code)
	w := f.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "goroutines_total")
}

type failingPinger struct{}

func (failingPinger) PingContext(ctx context.Context) error { return errors.New("connection refused") }

func TestReadyReportsFailingCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil, map[string]Pinger{"postgres": failingPinger{}})
	r := gin.New()
	r.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}
