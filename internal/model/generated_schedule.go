package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"schedule-planner/internal/planner"
)

// GeneratedSchedule 一次生成的周课表 对应 generated_schedules
// 每次生成整体写入新行，不做原地修改
type GeneratedSchedule struct {
	ScheduleID  string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	SessionID   string         `gorm:"type:uuid;not null;index"                       json:"session_id"`
	Preferences datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"               json:"preferences"`
	Slots       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"               json:"slots"`
	FilledCount int            `gorm:"type:smallint;not null;default:0"               json:"filled_count"`
	MaxClasses  int            `gorm:"type:smallint;not null;default:12"              json:"max_classes"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (GeneratedSchedule) TableName() string { return "generated_schedules" }

// ScheduleSlot Slots 列中的单个格子
type ScheduleSlot struct {
	Day    planner.Day     `json:"day"`
	Period int             `json:"period"`
	Course *planner.Course `json:"course,omitempty"`
	Score  *float64        `json:"score,omitempty"`
}

// NewGeneratedSchedule 由排课结果构建持久化记录
func NewGeneratedSchedule(sessionID string, prefs planner.PreferenceSet, a planner.Assignment, maxClasses int) (*GeneratedSchedule, error) {
	prefsJSON, err := json.Marshal(prefs)
	if err != nil {
		return nil, fmt.Errorf("序列化偏好失败: %w", err)
	}

	entries := a.Entries()
	slots := make([]ScheduleSlot, 0, len(entries))
	for _, e := range entries {
		slot := ScheduleSlot{Day: e.Slot.Day, Period: e.Slot.Period}
		if e.Course != nil {
			c := *e.Course
			score := e.Score
			slot.Course = &c
			slot.Score = &score
		}
		slots = append(slots, slot)
	}
	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("序列化课表失败: %w", err)
	}

	return &GeneratedSchedule{
		SessionID:   sessionID,
		Preferences: datatypes.JSON(prefsJSON),
		Slots:       datatypes.JSON(slotsJSON),
		FilledCount: a.Filled(),
		MaxClasses:  maxClasses,
	}, nil
}

// DecodeSlots 解析 Slots 列
func (s *GeneratedSchedule) DecodeSlots() ([]ScheduleSlot, error) {
	var slots []ScheduleSlot
	if len(s.Slots) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(s.Slots, &slots); err != nil {
		return nil, fmt.Errorf("解析课表失败: %w", err)
	}
	return slots, nil
}

// DecodePreferences 解析 Preferences 列
func (s *GeneratedSchedule) DecodePreferences() (planner.PreferenceSet, error) {
	var prefs planner.PreferenceSet
	if len(s.Preferences) == 0 {
		return prefs, nil
	}
	if err := json.Unmarshal(s.Preferences, &prefs); err != nil {
		return prefs, fmt.Errorf("解析偏好失败: %w", err)
	}
	return prefs, nil
}
