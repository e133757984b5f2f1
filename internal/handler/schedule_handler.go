package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rosterhq/workforce-api/internal/dto"
	"github.com/rosterhq/workforce-api/internal/service"
	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
	"github.com/rosterhq/workforce-api/pkg/response"
)

// ScheduleHandler exposes the admin-facing schedule endpoints.
type ScheduleHandler struct {
	assignments *service.AssignmentService
	reports     *service.ReportService
	exports     *service.ExportService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(assignments *service.AssignmentService, reports *service.ReportService, exports *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{assignments: assignments, reports: reports, exports: exports}
}

// CreateSchedule godoc
// @Summary Create a schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleRequest true "Schedule"
// @Success 200 {object} models.Schedule
// @Router /createSchedule [post]
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	schedule, err := h.assignments.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, schedule)
}

// AddShift godoc
// @Summary Add a shift to a schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.AddShiftRequest true "Shift"
// @Success 200 {object} models.Shift
// @Router /addShift [post]
func (h *ScheduleHandler) AddShift(c *gin.Context) {
	var req dto.AddShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	shift, err := h.assignments.AddShift(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, shift)
}

// AutoPopulate godoc
// @Summary Auto-assign staff to every open shift in a schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.AutoPopulateRequest true "Strategy selection"
// @Success 200 {object} dto.AutoPopulateResponse
// @Router /autoPopulateSchedule [post]
func (h *ScheduleHandler) AutoPopulate(c *gin.Context) {
	var req dto.AutoPopulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.assignments.AutoPopulate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AutoPopulateResponse{
		Message:        "Schedule auto-populated successfully",
		StrategyUsed:   req.StrategyName,
		ShiftsAssigned: result.Assigned,
		ShiftsSkipped:  result.Skipped,
	})
}

// ScheduleReport godoc
// @Summary Snapshot report for a schedule
// @Tags Reports
// @Produce json
// @Param admin_id query int true "Acting admin ID"
// @Param schedule_id query int true "Schedule ID"
// @Success 200 {object} dto.ScheduleReport
// @Router /scheduleReport [get]
func (h *ScheduleHandler) ScheduleReport(c *gin.Context) {
	adminID, ok := idQuery(c, "admin_id")
	if !ok {
		return
	}
	scheduleID, ok := idQuery(c, "schedule_id")
	if !ok {
		return
	}
	report, err := h.reports.BuildReport(c.Request.Context(), adminID, scheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// ExportReport godoc
// @Summary Queue a CSV or PDF export of a schedule report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ExportReportRequest true "Export request"
// @Success 202 {object} dto.ExportReportResponse
// @Router /scheduleReport/export [post]
func (h *ScheduleHandler) ExportReport(c *gin.Context) {
	var req dto.ExportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	report, err := h.reports.BuildReport(c.Request.Context(), req.AdminID, req.ScheduleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	queued, err := h.exports.Queue(report, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, queued)
}

// DownloadExport godoc
// @Summary Download a previously exported report
// @Tags Reports
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ScheduleHandler) DownloadExport(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}

	file, filename, err := h.exports.ResolveDownload(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.DataFromReader(http.StatusOK, info.Size(), contentTypeFor(filename), file, nil)
}

func contentTypeFor(filename string) string {
	if len(filename) > 4 && filename[len(filename)-4:] == ".pdf" {
		return "application/pdf"
	}
	return "text/csv"
}

func idQuery(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" required"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
