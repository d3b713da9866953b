package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooManyPreferences = errors.New("偏好设置过多")
	ErrInvalidPreference  = errors.New("无效的偏好设置")
)

// TimeOfDay 上课时段偏好
type TimeOfDay string

const (
	TimeMorning TimeOfDay = "morning"
	TimeLate    TimeOfDay = "late"
)

// FinalsPreference 期末考试偏好
type FinalsPreference string

const (
	FinalsPrefer FinalsPreference = "prefer"
	FinalsAvoid  FinalsPreference = "avoid"
)

// BalancePreference 通识/专业课比例偏好
type BalancePreference string

const (
	BalancePreferLA          BalancePreference = "prefer_la"
	BalancePreferSpecialized BalancePreference = "prefer_specialized"
)

// Field 偏好字段名（单字段修改时使用）
type Field string

const (
	FieldTimeOfDay          Field = "time_of_day"
	FieldFinals             Field = "finals"
	FieldDayOff             Field = "day_off"
	FieldModality           Field = "modality"
	FieldLiberalArts        Field = "liberal_arts"
	FieldDislikedProfessors Field = "disliked_professors"
)

// PreferenceSet 学生偏好。零值即“全部无偏好”。
type PreferenceSet struct {
	TimeOfDay          TimeOfDay         `json:"time_of_day"`
	Finals             FinalsPreference  `json:"finals"`
	DayOff             Day               `json:"day_off"`
	Modality           Modality          `json:"modality"`
	LiberalArts        BalancePreference `json:"liberal_arts"`
	DislikedProfessors string            `json:"disliked_professors"`
}

// Normalize 校验各字段取值，返回规范化后的副本（教师名单保留原文）
func (p PreferenceSet) Normalize() (PreferenceSet, error) {
	out := p
	switch p.TimeOfDay {
	case "", TimeMorning, TimeLate:
	default:
		return p, fmt.Errorf("%w: 无效的时段偏好 %q", ErrInvalidPreference, p.TimeOfDay)
	}
	switch p.Finals {
	case "", FinalsPrefer, FinalsAvoid:
	default:
		return p, fmt.Errorf("%w: 无效的期末偏好 %q", ErrInvalidPreference, p.Finals)
	}
	switch p.LiberalArts {
	case "", BalancePreferLA, BalancePreferSpecialized:
	default:
		return p, fmt.Errorf("%w: 无效的通识比例偏好 %q", ErrInvalidPreference, p.LiberalArts)
	}
	day, err := ParseDay(string(p.DayOff))
	if err != nil {
		return p, err
	}
	out.DayOff = day
	mod, err := ParseModality(string(p.Modality))
	if err != nil {
		return p, err
	}
	out.Modality = mod
	return out, nil
}

// With 返回修改单个字段后的新偏好，原值不变
func (p PreferenceSet) With(field Field, value string) (PreferenceSet, error) {
	next := p
	switch field {
	case FieldTimeOfDay:
		next.TimeOfDay = TimeOfDay(value)
	case FieldFinals:
		next.Finals = FinalsPreference(value)
	case FieldDayOff:
		next.DayOff = Day(value)
	case FieldModality:
		next.Modality = Modality(value)
	case FieldLiberalArts:
		next.LiberalArts = BalancePreference(value)
	case FieldDislikedProfessors:
		next.DislikedProfessors = value
	default:
		return p, fmt.Errorf("%w: 未知字段 %q", ErrInvalidPreference, field)
	}
	return next.Normalize()
}

// DislikedSet 将自由文本拆分为小写教师名集合
// 分隔符：逗号（含全角）、顿号、分号、换行
func (p PreferenceSet) DislikedSet() map[string]struct{} {
	set := make(map[string]struct{})
	parts := strings.FieldsFunc(p.DislikedProfessors, func(r rune) bool {
		switch r {
		case ',', '，', '、', ';', '；', '\n', '\r':
			return true
		}
		return false
	})
	for _, name := range parts {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// Dislikes 教师是否在排除名单中（忽略大小写与首尾空白）
func (p PreferenceSet) Dislikes(professor string) bool {
	_, ok := p.DislikedSet()[strings.ToLower(strings.TrimSpace(professor))]
	return ok
}
