package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/rosterhq/workforce-api/internal/dto"
	"github.com/rosterhq/workforce-api/internal/service"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
	"github.com/rosterhq/workforce-api/pkg/response"
)

// StaffHandler exposes the staff-facing roster and attendance endpoints.
type StaffHandler struct {
	reports    *service.ReportService
	attendance *service.AttendanceService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(reports *service.ReportService, attendance *service.AttendanceService) *StaffHandler {
	return &StaffHandler{reports: reports, attendance: attendance}
}

// AllShifts godoc
// @Summary Combined roster of every shift, ordered by start time
// @Tags Staff
// @Produce json
// @Param staff_id query int true "Acting staff ID"
// @Success 200 {array} dto.ShiftView
// @Router /allshifts [get]
func (h *StaffHandler) AllShifts(c *gin.Context) {
	staffID, ok := idQuery(c, "staff_id")
	if !ok {
		return
	}
	roster, err := h.reports.CombinedRoster(c.Request.Context(), staffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roster)
}

// StaffShift godoc
// @Summary A single shift belonging to the acting staff member
// @Tags Staff
// @Produce json
// @Param staff_id query int true "Acting staff ID"
// @Param shift_id query int true "Shift ID"
// @Success 200 {object} dto.ShiftView
// @Router /staffshift [get]
func (h *StaffHandler) StaffShift(c *gin.Context) {
	staffID, ok := idQuery(c, "staff_id")
	if !ok {
		return
	}
	shiftID, ok := idQuery(c, "shift_id")
	if !ok {
		return
	}
	shift, err := h.reports.StaffShift(c.Request.Context(), staffID, shiftID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shift)
}

// ClockIn godoc
// @Summary Clock in to an assigned shift
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.ClockRequest true "Clock-in"
// @Success 200 {object} models.Shift
// @Router /staff/clockIn [post]
func (h *StaffHandler) ClockIn(c *gin.Context) {
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	shift, err := h.attendance.ClockIn(c.Request.Context(), req.StaffID, req.ShiftID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shift)
}

// ClockOut godoc
// @Summary Clock out of an in-progress shift
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.ClockRequest true "Clock-out"
// @Success 200 {object} models.Shift
// @Router /staff/clockOut [post]
func (h *StaffHandler) ClockOut(c *gin.Context) {
	var req dto.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	shift, err := h.attendance.ClockOut(c.Request.Context(), req.StaffID, req.ShiftID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shift)
}
