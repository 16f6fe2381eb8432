package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/repository"
	"github.com/sgeduc/sge-backend/internal/response"
	"github.com/sgeduc/sge-backend/internal/service"
	"github.com/sgeduc/sge-backend/internal/validator"
)

type CohortHandler struct {
	cohortService *service.CohortService
}

func NewCohortHandler(cohortService *service.CohortService) *CohortHandler {
	return &CohortHandler{cohortService: cohortService}
}

// List godoc
// GET /api/v1/schools/:schoolId/cohorts?year=2026
func (h *CohortHandler) List(c *gin.Context) {
	schoolID, err := parseUUIDParam(c, "schoolId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	cohorts, err := h.cohortService.List(c.Request.Context(), schoolID, year)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if cohorts == nil {
		cohorts = []model.Cohort{}
	}
	response.Success(c, http.StatusOK, gin.H{"cohorts": cohorts})
}

// Get godoc
// GET /api/v1/cohorts/:id
func (h *CohortHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cohort, err := h.cohortService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.failCohort(c, err)
		return
	}

	available, err := h.cohortService.HasAvailableSeats(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"cohort":          cohort,
		"seats_available": available,
	})
}

// Create godoc
// POST /api/v1/schools/:schoolId/cohorts
func (h *CohortHandler) Create(c *gin.Context) {
	schoolID, err := parseUUIDParam(c, "schoolId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateCohortRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cohort := &model.Cohort{
		SchoolID:     schoolID,
		Name:         req.Name,
		AcademicYear: req.AcademicYear,
		GradeLevel:   req.GradeLevel,
		Shift:        req.Shift,
		Capacity:     req.Capacity,
	}
	if err := h.cohortService.Create(c.Request.Context(), cohort); err != nil {
		h.failCohort(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"cohort": cohort})
}

// Enroll godoc
// POST /api/v1/cohorts/:id/enrollments
func (h *CohortHandler) Enroll(c *gin.Context) {
	cohortID, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollment, err := h.cohortService.Enroll(c.Request.Context(), cohortID, studentID)
	if err != nil {
		h.failCohort(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"enrollment": enrollment})
}

// Unenroll godoc
// DELETE /api/v1/cohorts/:id/enrollments/:studentId
func (h *CohortHandler) Unenroll(c *gin.Context) {
	cohortID, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := parseUUIDParam(c, "studentId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.cohortService.Unenroll(c.Request.Context(), cohortID, studentID); err != nil {
		h.failCohort(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "enrollment closed"})
}

// ListEnrollments godoc
// GET /api/v1/cohorts/:id/enrollments
func (h *CohortHandler) ListEnrollments(c *gin.Context) {
	cohortID, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	enrollments, err := h.cohortService.ListEnrollments(c.Request.Context(), cohortID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if enrollments == nil {
		enrollments = []model.Enrollment{}
	}
	response.Success(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// Deactivate godoc
// POST /api/v1/cohorts/:id/deactivate
func (h *CohortHandler) Deactivate(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.cohortService.Deactivate(c.Request.Context(), id); err != nil {
		h.failCohort(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "cohort deactivated"})
}

// Reactivate godoc
// POST /api/v1/cohorts/:id/reactivate
func (h *CohortHandler) Reactivate(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.cohortService.Reactivate(c.Request.Context(), id); err != nil {
		h.failCohort(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "cohort reactivated"})
}

func (h *CohortHandler) failCohort(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrDuplicateName):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateName)
	case errors.Is(err, repository.ErrCohortInactive):
		response.Fail(c, http.StatusConflict, response.ErrCohortInactive)
	case errors.Is(err, repository.ErrCohortFull):
		response.Fail(c, http.StatusConflict, response.ErrCohortFull)
	case errors.Is(err, repository.ErrAlreadyEnrolled):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyEnrolled)
	case errors.Is(err, repository.ErrNotEnrolled):
		response.Fail(c, http.StatusNotFound, response.ErrNotEnrolled)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
