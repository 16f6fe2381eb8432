package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/sgeduc/sge-backend/internal/response"
	"github.com/sgeduc/sge-backend/internal/service"
)

type GridHandler struct {
	gridService *service.GridService
}

func NewGridHandler(gridService *service.GridService) *GridHandler {
	return &GridHandler{gridService: gridService}
}

// CohortGrid godoc
// GET /api/v1/cohorts/:id/grid?year=&term=
func (h *GridHandler) CohortGrid(c *gin.Context) {
	cohortID, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, term, err := parseYearTerm(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	grid, err := h.gridService.BuildCohortGrid(c.Request.Context(), cohortID, year, term)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grid": grid})
}

// TeacherGrid godoc
// GET /api/v1/teachers/:id/grid?year=&term=
func (h *GridHandler) TeacherGrid(c *gin.Context) {
	teacherID, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, term, err := parseYearTerm(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	grid, err := h.gridService.BuildTeacherGrid(c.Request.Context(), teacherID, year, term)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"grid": grid})
}
