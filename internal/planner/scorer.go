package planner

import (
	"math"
	"strings"
)

// ── 评分权重 ──

const (
	bonusTimeStrong  = 3.0
	bonusTimeWeak    = 1.0
	penaltyTime      = -1.0
	bonusFinals      = 2.0
	penaltyFinals    = -2.0
	bonusModality    = 2.0
	penaltyModality  = -0.5
	bonusBalance     = 1.5
	penaltyBalance   = -0.5
	targetRatioLA    = 0.6
	targetRatioSpec  = 0.2
	targetRatioDeflt = 0.4

	// DefaultNoiseSpan 同分打散噪声区间 [0, DefaultNoiseSpan)
	DefaultNoiseSpan = 0.2
)

// Excluded 硬排除的分值
var Excluded = math.Inf(-1)

// NoiseSource 随机数来源，返回 [0,1) 的浮点数
// *rand.Rand（math/rand/v2）满足该接口；测试可传入固定值
type NoiseSource interface {
	Float64() float64
}

type noNoise struct{}

func (noNoise) Float64() float64 { return 0 }

// NoNoise 关闭同分打散，结果完全确定
var NoNoise NoiseSource = noNoise{}

// Balance 排课过程中的通识课累计器（值类型，按槽位依次传递）
type Balance struct {
	LiberalArts int
	Total       int
}

// Ratio 已排课程中通识课占比，未排任何课时为 0
func (b Balance) Ratio() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.LiberalArts) / float64(b.Total)
}

// Add 计入一门已选课程，返回新的累计值
func (b Balance) Add(c Course) Balance {
	b.Total++
	if c.Category == LiberalArts {
		b.LiberalArts++
	}
	return b
}

// TargetRatio 由偏好推导通识课目标占比
func TargetRatio(p BalancePreference) float64 {
	switch p {
	case BalancePreferLA:
		return targetRatioLA
	case BalancePreferSpecialized:
		return targetRatioSpec
	default:
		return targetRatioDeflt
	}
}

// Score 计算候选课程在某格子上的得分
// 休息日与排除教师返回 Excluded；noise 为 nil 时不加噪声
func Score(slot SlotKey, course Course, prefs PreferenceSet, balance Balance, noise NoiseSource) float64 {
	return score(slot, course, prefs, prefs.DislikedSet(), balance, noise, DefaultNoiseSpan)
}

func score(slot SlotKey, course Course, prefs PreferenceSet, disliked map[string]struct{}, balance Balance, noise NoiseSource, span float64) float64 {
	if prefs.DayOff != "" && prefs.DayOff == slot.Day {
		return Excluded
	}
	if _, ok := disliked[strings.ToLower(strings.TrimSpace(course.Professor))]; ok {
		return Excluded
	}

	s := 0.0

	switch prefs.TimeOfDay {
	case TimeMorning:
		s += timeBonus(slot.Period, 1, 2)
	case TimeLate:
		s += timeBonus(slot.Period, 4, 5)
	}

	switch prefs.Finals {
	case FinalsPrefer:
		if course.HasFinal {
			s += bonusFinals
		} else {
			s += penaltyFinals
		}
	case FinalsAvoid:
		if course.HasFinal {
			s += penaltyFinals
		} else {
			s += bonusFinals
		}
	}

	if prefs.Modality != "" {
		if course.Modality == prefs.Modality {
			s += bonusModality
		} else {
			s += penaltyModality
		}
	}

	target := TargetRatio(prefs.LiberalArts)
	ratio := balance.Ratio()
	switch course.Category {
	case LiberalArts:
		if ratio < target {
			s += bonusBalance
		} else {
			s += penaltyBalance
		}
	case Specialized:
		if ratio > target {
			s += bonusBalance
		} else {
			s += penaltyBalance
		}
	}

	if noise != nil {
		s += noise.Float64() * span
	}
	return s
}

// timeBonus 偏好节次 a/b 强加分，第 3 节弱加分，其余扣分
func timeBonus(period, a, b int) float64 {
	switch period {
	case a, b:
		return bonusTimeStrong
	case 3:
		return bonusTimeWeak
	default:
		return penaltyTime
	}
}
