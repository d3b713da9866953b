package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"schedule-planner/internal/dto"
	"schedule-planner/internal/service"
	"schedule-planner/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	plannerSvc service.PlannerService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(plannerSvc service.PlannerService) *ScheduleHandler {
	return &ScheduleHandler{plannerSvc: plannerSvc}
}

// GenerateSchedule 生成课表
// POST /api/v1/schedules/generate
// 请求体可为空，此时使用已保存的偏好
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	schedule, err := h.plannerSvc.Generate(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, schedule)
}

// GetLatestSchedule 获取最近一次生成的课表
// GET /api/v1/schedules/latest
func (h *ScheduleHandler) GetLatestSchedule(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	schedule, err := h.plannerSvc.GetLatest(c.Request.Context(), sessionID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// GetSlot 获取格子课程详情
// GET /api/v1/schedules/latest/slots/:day/:period
func (h *ScheduleHandler) GetSlot(c *gin.Context) {
	period, err := strconv.Atoi(c.Param("period"))
	if err != nil {
		response.BadRequest(c, 21002, "无效的节次")
		return
	}

	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	slot, err := h.plannerSvc.GetSlot(c.Request.Context(), sessionID, c.Param("day"), period)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, slot)
}

// ListHistory 历史课表（仅在开启历史记录时有多条）
// GET /api/v1/schedules?page=1&page_size=20
func (h *ScheduleHandler) ListHistory(c *gin.Context) {
	var req dto.ScheduleHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	list, total, err := h.plannerSvc.ListHistory(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetCatalog 模拟课程目录
// GET /api/v1/catalog
func (h *ScheduleHandler) GetCatalog(c *gin.Context) {
	catalog, err := h.plannerSvc.Catalog(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, catalog)
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	if writePreferenceError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 21001, "尚未生成课表")
	case errors.Is(err, service.ErrSlotInvalid):
		response.BadRequest(c, 21002, "无效的格子")
	case errors.Is(err, service.ErrSlotEmpty):
		response.NotFound(c, 21003, "该格子没有排课")
	default:
		response.InternalError(c)
	}
}
