package dto

import "schedule-planner/internal/planner"

// ── 偏好模块 DTO ──

// PreferenceRequest 整体提交偏好请求；空字符串表示“无偏好”
type PreferenceRequest struct {
	TimeOfDay          string `json:"time_of_day"         binding:"omitempty,oneof=morning late"`
	Finals             string `json:"finals"              binding:"omitempty,oneof=prefer avoid"`
	DayOff             string `json:"day_off"             binding:"omitempty,oneof=mon tue wed thu fri"`
	Modality           string `json:"modality"            binding:"omitempty,oneof=on_demand face_to_face hybrid"`
	LiberalArts        string `json:"liberal_arts"        binding:"omitempty,oneof=prefer_la prefer_specialized"`
	DislikedProfessors string `json:"disliked_professors" binding:"max=1000"`
}

// ToPreferenceSet 转换为算法层偏好
func (r *PreferenceRequest) ToPreferenceSet() planner.PreferenceSet {
	return planner.PreferenceSet{
		TimeOfDay:          planner.TimeOfDay(r.TimeOfDay),
		Finals:             planner.FinalsPreference(r.Finals),
		DayOff:             planner.Day(r.DayOff),
		Modality:           planner.Modality(r.Modality),
		LiberalArts:        planner.BalancePreference(r.LiberalArts),
		DislikedProfessors: r.DislikedProfessors,
	}
}

// UpdatePreferenceFieldRequest 修改单个偏好字段
// 取值合法性由 planner 校验，以便统一返回业务错误码
type UpdatePreferenceFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=time_of_day finals day_off modality liberal_arts disliked_professors"`
	Value string `json:"value" binding:"max=1000"`
}

// ── 响应 ──

// PreferenceResponse 当前偏好
type PreferenceResponse struct {
	TimeOfDay          string `json:"time_of_day"`
	Finals             string `json:"finals"`
	DayOff             string `json:"day_off"`
	Modality           string `json:"modality"`
	LiberalArts        string `json:"liberal_arts"`
	DislikedProfessors string `json:"disliked_professors"`
	ActiveCount        int    `json:"active_count"`
	MaxActive          int    `json:"max_active"`
}

// NewPreferenceResponse 由偏好构建响应
func NewPreferenceResponse(p planner.PreferenceSet, maxActive int) *PreferenceResponse {
	return &PreferenceResponse{
		TimeOfDay:          string(p.TimeOfDay),
		Finals:             string(p.Finals),
		DayOff:             string(p.DayOff),
		Modality:           string(p.Modality),
		LiberalArts:        string(p.LiberalArts),
		DislikedProfessors: p.DislikedProfessors,
		ActiveCount:        planner.CountActive(p),
		MaxActive:          maxActive,
	}
}
