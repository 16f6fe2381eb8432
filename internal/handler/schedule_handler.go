package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sgeduc/sge-backend/internal/interval"
	"github.com/sgeduc/sge-backend/internal/model"
	"github.com/sgeduc/sge-backend/internal/repository"
	"github.com/sgeduc/sge-backend/internal/response"
	"github.com/sgeduc/sge-backend/internal/service"
	"github.com/sgeduc/sge-backend/internal/validator"
)

type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// Get godoc
// GET /api/v1/schedule/slots/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	slot, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.failSchedule(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slot": slot})
}

// Propose godoc
// POST /api/v1/schedule/slots
func (h *ScheduleHandler) Propose(c *gin.Context) {
	var req model.ProposeSlotRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cohortID, err1 := uuid.Parse(req.CohortID)
	subjectID, err2 := uuid.Parse(req.SubjectID)
	teacherID, err3 := uuid.Parse(req.TeacherID)
	if err1 != nil || err2 != nil || err3 != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	start, err := interval.ParseClock(req.StartTime)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"start_time": err.Error()})
		return
	}
	end, err := interval.ParseClock(req.EndTime)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"end_time": err.Error()})
		return
	}

	slot := &model.ScheduleSlot{
		CohortID:     cohortID,
		SubjectID:    subjectID,
		TeacherID:    teacherID,
		Room:         req.Room,
		DayOfWeek:    interval.Weekday(req.DayOfWeek),
		StartMinute:  start,
		EndMinute:    end,
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
	}
	if err := h.scheduleService.Propose(c.Request.Context(), slot); err != nil {
		h.failSchedule(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"slot": slot})
}

// Cancel godoc
// POST /api/v1/schedule/slots/:id/cancel
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.scheduleService.Cancel(c.Request.Context(), id); err != nil {
		h.failSchedule(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "slot cancelled"})
}

// Reactivate godoc
// POST /api/v1/schedule/slots/:id/reactivate
func (h *ScheduleHandler) Reactivate(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	slot, err := h.scheduleService.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.failSchedule(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slot": slot})
}

// TeacherWorkload godoc
// GET /api/v1/teachers/:id/workload?year=&term=
func (h *ScheduleHandler) TeacherWorkload(c *gin.Context) {
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

	workload, err := h.scheduleService.TeacherWorkload(c.Request.Context(), teacherID, year, term)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"workload": workload})
}

// SubjectLessonCounts godoc
// GET /api/v1/schools/:schoolId/schedule/lesson-counts?year=&term=
func (h *ScheduleHandler) SubjectLessonCounts(c *gin.Context) {
	schoolID, err := parseUUIDParam(c, "schoolId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, term, err := parseYearTerm(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	counts, err := h.scheduleService.SubjectLessonCounts(c.Request.Context(), schoolID, year, term)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if counts == nil {
		counts = []model.SubjectLessonCount{}
	}
	response.Success(c, http.StatusOK, gin.H{"lesson_counts": counts})
}

// ListRooms godoc
// GET /api/v1/schools/:schoolId/schedule/rooms?year=&term=
func (h *ScheduleHandler) ListRooms(c *gin.Context) {
	schoolID, err := parseUUIDParam(c, "schoolId")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	year, term, err := parseYearTerm(c)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	rooms, err := h.scheduleService.ListRooms(c.Request.Context(), schoolID, year, term)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if rooms == nil {
		rooms = []string{}
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *ScheduleHandler) failSchedule(c *gin.Context, err error) {
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		code := response.ErrRoomConflict
		if len(conflictErr.Report.TeacherSlotIDs) > 0 {
			code = response.ErrTeacherConflict
		}
		ids := make([]string, 0,
			len(conflictErr.Report.TeacherSlotIDs)+len(conflictErr.Report.RoomSlotIDs))
		for _, id := range conflictErr.Report.TeacherSlotIDs {
			ids = append(ids, id.String())
		}
		for _, id := range conflictErr.Report.RoomSlotIDs {
			ids = append(ids, id.String())
		}
		response.FailWithConflicts(c, http.StatusConflict, code, ids)
		return
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrInvalidDay), errors.Is(err, service.ErrInvalidTimeRange):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"detail": err.Error()})
	case errors.Is(err, service.ErrCohortNotActive):
		response.Fail(c, http.StatusConflict, response.ErrCohortInactive)
	case errors.Is(err, service.ErrSubjectNotActive):
		response.Fail(c, http.StatusConflict, response.ErrSubjectInactive)
	case errors.Is(err, service.ErrSchoolMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrSchoolMismatch)
	case errors.Is(err, repository.ErrSlotNotActive):
		response.Fail(c, http.StatusConflict, response.ErrSlotNotActive)
	case errors.Is(err, repository.ErrSlotNotCancelled):
		response.Fail(c, http.StatusConflict, response.ErrSlotNotCancelled)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
