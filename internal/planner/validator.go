package planner

import (
	"fmt"
	"strings"
)

// DefaultMaxActivePreferences 同时生效的偏好上限
const DefaultMaxActivePreferences = 4

// CountActive 统计非默认值的偏好字段数
// 教师名单仅在去除首尾空白后非空时计为生效
func CountActive(p PreferenceSet) int {
	n := 0
	if p.TimeOfDay != "" {
		n++
	}
	if p.Finals != "" {
		n++
	}
	if p.DayOff != "" {
		n++
	}
	if p.Modality != "" {
		n++
	}
	if p.LiberalArts != "" {
		n++
	}
	if strings.TrimSpace(p.DislikedProfessors) != "" {
		n++
	}
	return n
}

// Validate 按默认上限校验
func Validate(p PreferenceSet) error {
	return ValidateLimit(p, DefaultMaxActivePreferences)
}

// ValidateLimit 生效偏好数超过 limit 时返回 ErrTooManyPreferences
func ValidateLimit(p PreferenceSet, limit int) error {
	if n := CountActive(p); n > limit {
		return fmt.Errorf("%w: 当前 %d 项，最多 %d 项", ErrTooManyPreferences, n, limit)
	}
	return nil
}
