package model

import "schedule-planner/internal/planner"

// PreferenceProfile 会话最近一次保存的偏好 对应 preference_profiles
type PreferenceProfile struct {
	ProfileID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"profile_id"`
	SessionID          string `gorm:"type:uuid;not null;uniqueIndex"                 json:"session_id"`
	TimeOfDay          string `gorm:"type:varchar(16);not null;default:''"           json:"time_of_day"`
	Finals             string `gorm:"type:varchar(16);not null;default:''"           json:"finals"`
	DayOff             string `gorm:"type:varchar(8);not null;default:''"            json:"day_off"`
	Modality           string `gorm:"type:varchar(16);not null;default:''"           json:"modality"`
	LiberalArts        string `gorm:"type:varchar(32);not null;default:''"           json:"liberal_arts"`
	DislikedProfessors string `gorm:"type:varchar(1000);not null;default:''"         json:"disliked_professors"`
	VersionedModel
}

func (PreferenceProfile) TableName() string { return "preference_profiles" }

// Preferences 转换为算法层偏好
func (p *PreferenceProfile) Preferences() planner.PreferenceSet {
	return planner.PreferenceSet{
		TimeOfDay:          planner.TimeOfDay(p.TimeOfDay),
		Finals:             planner.FinalsPreference(p.Finals),
		DayOff:             planner.Day(p.DayOff),
		Modality:           planner.Modality(p.Modality),
		LiberalArts:        planner.BalancePreference(p.LiberalArts),
		DislikedProfessors: p.DislikedProfessors,
	}
}

// Apply 用偏好覆盖各列
func (p *PreferenceProfile) Apply(prefs planner.PreferenceSet) {
	p.TimeOfDay = string(prefs.TimeOfDay)
	p.Finals = string(prefs.Finals)
	p.DayOff = string(prefs.DayOff)
	p.Modality = string(prefs.Modality)
	p.LiberalArts = string(prefs.LiberalArts)
	p.DislikedProfessors = prefs.DislikedProfessors
}
