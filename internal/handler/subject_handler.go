package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/response"
	"github.com/sgeduc/sge-backend/internal/service"
	"github.com/sgeduc/sge-backend/internal/validator"
)

type SubjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService}
}

// List godoc
// GET /api/v1/schools/:schoolId/subjects?grade_level=&q=&no_prerequisites=
func (h *SubjectHandler) List(c *gin.Context) {
	schoolID, err := parseUUIDParam(c, "schoolId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ctx := c.Request.Context()
	var subjects []model.Subject

	switch {
	case c.Query("no_prerequisites") == "true":
		subjects, err = h.subjectService.ListWithoutPrerequisites(ctx, schoolID)
	case c.Query("grade_level") != "":
		subjects, err = h.subjectService.ListByGradeLevel(ctx, schoolID, c.Query("grade_level"))
	case c.Query("q") != "":
		subjects, err = h.subjectService.SearchByName(ctx, schoolID, c.Query("q"))
	default:
		subjects, err = h.subjectService.List(ctx, schoolID)
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if subjects == nil {
		subjects = []model.Subject{}
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Get godoc
// GET /api/v1/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub, err := h.subjectService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": sub})
}

// Create godoc
// POST /api/v1/schools/:schoolId/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	schoolID, err := parseUUIDParam(c, "schoolId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	prereqs, err := parseUUIDs(req.Prerequisites)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sub := &model.Subject{
		SchoolID:      schoolID,
		Name:          req.Name,
		Code:          req.Code,
		CreditHours:   req.CreditHours,
		GradeLevel:    req.GradeLevel,
		Mandatory:     req.Mandatory,
		Prerequisites: prereqs,
	}
	if err := h.subjectService.Create(c.Request.Context(), sub); err != nil {
		h.failSubject(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": sub})
}

// SetPrerequisites godoc
// PUT /api/v1/subjects/:id/prerequisites
func (h *SubjectHandler) SetPrerequisites(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SetPrerequisitesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	prereqs, err := parseUUIDs(req.Prerequisites)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.subjectService.SetPrerequisites(c.Request.Context(), id, prereqs); err != nil {
		h.failSubject(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "prerequisites updated"})
}

// Deactivate godoc
// POST /api/v1/subjects/:id/deactivate
func (h *SubjectHandler) Deactivate(c *gin.Context) {
	h.changeStatus(c, h.subjectService.Deactivate, "subject deactivated")
}

// Reactivate godoc
// POST /api/v1/subjects/:id/reactivate
func (h *SubjectHandler) Reactivate(c *gin.Context) {
	h.changeStatus(c, h.subjectService.Reactivate, "subject reactivated")
}

func (h *SubjectHandler) changeStatus(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error, okMsg string) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := op(c.Request.Context(), id); err != nil {
		h.failSubject(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": okMsg})
}

func (h *SubjectHandler) failSubject(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrDuplicateCode):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateCode)
	case errors.Is(err, service.ErrUnknownPrerequisite):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrUnknownPrerequisite)
	case errors.Is(err, service.ErrCyclicDependency):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrCyclicDependency)
	case errors.Is(err, service.ErrPrerequisiteInUse):
		response.Fail(c, http.StatusConflict, response.ErrPrerequisiteInUse)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
