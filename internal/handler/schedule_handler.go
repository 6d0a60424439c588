package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sparx-api/internal/dto"
	"github.com/noah-isme/sparx-api/internal/models"
	"github.com/noah-isme/sparx-api/internal/service"
	appErrors "github.com/noah-isme/sparx-api/pkg/errors"
	"github.com/noah-isme/sparx-api/pkg/response"
)

type scheduleManager interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Reoptimize(ctx context.Context, req dto.ReoptimizeScheduleRequest) (*dto.ReoptimizeScheduleResponse, error)
	Publish(ctx context.Context, req dto.PublishScheduleRequest) (*dto.PublishScheduleResponse, error)
	DeleteBatch(ctx context.Context, id string) error
	ListBatches(ctx context.Context, query dto.ScheduleBatchQuery) ([]models.ScheduleBatch, error)
	GetBatch(ctx context.Context, id string) (*dto.ScheduleBatchDetail, error)
	ListEntries(ctx context.Context, query dto.ScheduleEntryQuery) ([]models.ScheduleEntryDetail, error)
}

type scheduleExporter interface {
	ExportBatch(ctx context.Context, batchID string, format service.ExportFormat) (*service.ExportFile, error)
}

// ScheduleHandler exposes timetable read, generation and lifecycle endpoints.
type ScheduleHandler struct {
	service  scheduleManager
	exporter scheduleExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService, exporter *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List timetable entries visible to the caller
// @Description Students see their group and teachers their own classes. Non-admins only ever see PUBLISHED entries.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param semester query string false "WINTER or SUMMER"
// @Param status query string false "DRAFT or PUBLISHED (admins only)"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	query, ok := bindEntryQuery(c)
	if !ok {
		return
	}
	claims := claimsFromContext(c)
	if isAdmin(claims) {
		if query.Status == "" {
			query.Status = models.ScheduleBatchStatusPublished
		}
	} else {
		query.Status = models.ScheduleBatchStatusPublished
		switch {
		case claims != nil && claims.Role == models.RoleStudent && claims.GroupID != "":
			query.GroupID = claims.GroupID
		case claims != nil && claims.Role == models.RoleTeacher && claims.TeacherID != "":
			query.TeacherID = claims.TeacherID
		}
	}
	h.respondEntries(c, query)
}

// ByGroup godoc
// @Summary List timetable entries of a student group
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param semester query string false "WINTER or SUMMER"
// @Success 200 {object} response.Envelope
// @Router /schedule/group/{id} [get]
func (h *ScheduleHandler) ByGroup(c *gin.Context) {
	query, ok := bindEntryQuery(c)
	if !ok {
		return
	}
	query.GroupID = c.Param("id")
	if !isAdmin(claimsFromContext(c)) {
		query.Status = models.ScheduleBatchStatusPublished
	}
	h.respondEntries(c, query)
}

// ByTeacher godoc
// @Summary List timetable entries of a teacher
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param semester query string false "WINTER or SUMMER"
// @Success 200 {object} response.Envelope
// @Router /schedule/teacher/{id} [get]
func (h *ScheduleHandler) ByTeacher(c *gin.Context) {
	query, ok := bindEntryQuery(c)
	if !ok {
		return
	}
	query.TeacherID = c.Param("id")
	if !isAdmin(claimsFromContext(c)) {
		query.Status = models.ScheduleBatchStatusPublished
	}
	h.respondEntries(c, query)
}

// Drafts godoc
// @Summary List DRAFT batches of a semester
// @Tags Schedule Drafts
// @Produce json
// @Security BearerAuth
// @Param semester query string false "WINTER or SUMMER"
// @Success 200 {object} response.Envelope
// @Router /schedule/drafts [get]
func (h *ScheduleHandler) Drafts(c *gin.Context) {
	var query dto.ScheduleBatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	query.Status = models.ScheduleBatchStatusDraft
	h.respondBatches(c, query)
}

// Batches godoc
// @Summary List all batches of a semester
// @Tags Schedule Drafts
// @Produce json
// @Security BearerAuth
// @Param semester query string false "WINTER or SUMMER"
// @Param status query string false "DRAFT or PUBLISHED"
// @Param groupId query string false "Group ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/batches [get]
func (h *ScheduleHandler) Batches(c *gin.Context) {
	var query dto.ScheduleBatchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	h.respondBatches(c, query)
}

// Batch godoc
// @Summary Get a batch with its entries
// @Tags Schedule Drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/batches/{id} [get]
func (h *ScheduleHandler) Batch(c *gin.Context) {
	detail, err := h.service.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Export godoc
// @Summary Download a batch as CSV, PDF or XLSX
// @Tags Schedule Drafts
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Param format query string false "csv (default), pdf or xlsx"
// @Success 200 {file} file
// @Router /schedule/batches/{id}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.ExportBatch(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Generate godoc
// @Summary Generate a DRAFT schedule for a group
// @Description Replaces the group's existing drafts for the semester. Unplaced obligations are returned as conflicts with suggested slots.
// @Tags Schedule Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reoptimize godoc
// @Summary Regenerate DRAFT batches in place
// @Tags Schedule Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ReoptimizeScheduleRequest true "Reoptimize payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/reoptimize [post]
func (h *ScheduleHandler) Reoptimize(c *gin.Context) {
	var req dto.ReoptimizeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reoptimize payload"))
		return
	}
	result, err := h.service.Reoptimize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Publish godoc
// @Summary Publish DRAFT batches
// @Tags Schedule Drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PublishScheduleRequest true "Publish payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/publish [post]
func (h *ScheduleHandler) Publish(c *gin.Context) {
	var req dto.PublishScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid publish payload"))
		return
	}
	result, err := h.service.Publish(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a DRAFT batch
// @Tags Schedule Drafts
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /schedule/batch/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteBatch(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *ScheduleHandler) respondEntries(c *gin.Context, query dto.ScheduleEntryQuery) {
	entries, err := h.service.ListEntries(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"count": len(entries)})
}

func (h *ScheduleHandler) respondBatches(c *gin.Context, query dto.ScheduleBatchQuery) {
	batches, err := h.service.ListBatches(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil, map[string]interface{}{"count": len(batches)})
}

func bindEntryQuery(c *gin.Context) (dto.ScheduleEntryQuery, bool) {
	var query dto.ScheduleEntryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return query, false
	}
	return query, true
}

func isAdmin(claims *models.JWTClaims) bool {
	return claims != nil && claims.Role.IsAdmin()
}
