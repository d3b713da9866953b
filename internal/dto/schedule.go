package dto

import (
	"time"

	"schedule-planner/internal/model"
	"schedule-planner/internal/planner"
)

// ── 课表模块 DTO ──

// GenerateScheduleRequest 生成课表请求
// Preferences 为空时使用会话已保存的偏好
type GenerateScheduleRequest struct {
	Preferences *PreferenceRequest `json:"preferences"`
}

// ScheduleHistoryRequest 历史课表分页查询
type ScheduleHistoryRequest struct {
	PaginationRequest
}

// ── 响应 ──

// CourseResponse 课程详情（格子弹窗使用）
type CourseResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Day           string `json:"day"`
	DayLabel      string `json:"day_label"`
	Period        int    `json:"period"`
	Professor     string `json:"professor"`
	HasFinal      bool   `json:"has_final"`
	Modality      string `json:"modality"`
	ModalityLabel string `json:"modality_label"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
}

// NewCourseResponse 转换课程
func NewCourseResponse(c planner.Course) *CourseResponse {
	return &CourseResponse{
		ID:            c.ID,
		Name:          c.Name,
		Day:           string(c.Day),
		DayLabel:      c.Day.Label(),
		Period:        c.Period,
		Professor:     c.Professor,
		HasFinal:      c.HasFinal,
		Modality:      string(c.Modality),
		ModalityLabel: c.Modality.Label(),
		Category:      string(c.Category),
		CategoryLabel: c.Category.Label(),
	}
}

// SlotResponse 单个格子；空格子不带 course 与 score
type SlotResponse struct {
	Day      string          `json:"day"`
	DayLabel string          `json:"day_label"`
	Period   int             `json:"period"`
	Course   *CourseResponse `json:"course,omitempty"`
	Score    *float64        `json:"score,omitempty"`
}

// ScheduleResponse 生成的周课表
type ScheduleResponse struct {
	ID          string             `json:"id"`
	Preferences PreferenceResponse `json:"preferences"`
	Slots       []SlotResponse     `json:"slots"`
	FilledCount int                `json:"filled_count"`
	MaxClasses  int                `json:"max_classes"`
	CreatedAt   string             `json:"created_at"`
}

// ScheduleBrief 历史列表条目
type ScheduleBrief struct {
	ID          string `json:"id"`
	FilledCount int    `json:"filled_count"`
	MaxClasses  int    `json:"max_classes"`
	CreatedAt   string `json:"created_at"`
}

// NewScheduleResponse 由持久化记录构建响应
func NewScheduleResponse(s *model.GeneratedSchedule, maxActive int) (*ScheduleResponse, error) {
	prefs, err := s.DecodePreferences()
	if err != nil {
		return nil, err
	}
	slots, err := s.DecodeSlots()
	if err != nil {
		return nil, err
	}

	resp := &ScheduleResponse{
		ID:          s.ScheduleID,
		Preferences: *NewPreferenceResponse(prefs, maxActive),
		Slots:       make([]SlotResponse, 0, len(slots)),
		FilledCount: s.FilledCount,
		MaxClasses:  s.MaxClasses,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
	for _, sl := range slots {
		resp.Slots = append(resp.Slots, NewSlotResponse(sl))
	}
	return resp, nil
}

// NewSlotResponse 转换单个格子
func NewSlotResponse(sl model.ScheduleSlot) SlotResponse {
	out := SlotResponse{Day: string(sl.Day), DayLabel: sl.Day.Label(), Period: sl.Period}
	if sl.Course != nil {
		out.Course = NewCourseResponse(*sl.Course)
		out.Score = sl.Score
	}
	return out
}

// NewScheduleBrief 历史条目
func NewScheduleBrief(s *model.GeneratedSchedule) ScheduleBrief {
	return ScheduleBrief{
		ID:          s.ScheduleID,
		FilledCount: s.FilledCount,
		MaxClasses:  s.MaxClasses,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

// CatalogResponse 模拟课程目录
type CatalogResponse struct {
	VariantsPerSlot int              `json:"variants_per_slot"`
	Professors      []string         `json:"professors"`
	Courses         []CourseResponse `json:"courses"`
}
