package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-planner/internal/dto"
	"schedule-planner/internal/service"
	"schedule-planner/pkg/response"
)

// PreferenceHandler 偏好模块 HTTP 处理器
type PreferenceHandler struct {
	prefSvc service.PreferenceService
}

// NewPreferenceHandler 创建 PreferenceHandler
func NewPreferenceHandler(prefSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefSvc: prefSvc}
}

// GetPreferences 获取当前偏好
// GET /api/v1/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	prefs, err := h.prefSvc.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, prefs)
}

// SavePreferences 整体提交偏好
// PUT /api/v1/preferences
func (h *PreferenceHandler) SavePreferences(c *gin.Context) {
	var req dto.PreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	prefs, err := h.prefSvc.Save(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, prefs)
}

// UpdatePreferenceField 修改单个偏好
// PATCH /api/v1/preferences
func (h *PreferenceHandler) UpdatePreferenceField(c *gin.Context) {
	var req dto.UpdatePreferenceFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	prefs, err := h.prefSvc.UpdateField(c.Request.Context(), sessionID, &req)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, prefs)
}

// ResetPreferences 恢复默认（全部无偏好）
// DELETE /api/v1/preferences
func (h *PreferenceHandler) ResetPreferences(c *gin.Context) {
	sessionID, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	prefs, err := h.prefSvc.Reset(c.Request.Context(), sessionID)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, prefs)
}

func (h *PreferenceHandler) handlePreferenceError(c *gin.Context, err error) {
	if !writePreferenceError(c, err) {
		response.InternalError(c)
	}
}

// writePreferenceError 写入偏好校验类错误，非此类错误返回 false（生成课表时共用）
func writePreferenceError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrTooManyPreferences):
		response.Unprocessable(c, 20001, "偏好设置过多", err.Error())
	case errors.Is(err, service.ErrInvalidPreference):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20002, "无效的偏好设置", err.Error())
	case errors.Is(err, service.ErrPreferenceConflict):
		response.Conflict(c, 20003, "偏好已被其他操作修改，请刷新后重试")
	default:
		return false
	}
	return true
}
