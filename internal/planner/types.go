package planner

import "fmt"

// Day 星期（仅工作日）
type Day string

const (
	Monday    Day = "mon"
	Tuesday   Day = "tue"
	Wednesday Day = "wed"
	Thursday  Day = "thu"
	Friday    Day = "fri"
)

// Days 固定的星期顺序，排课与渲染均按此顺序遍历
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// Periods 固定的节次顺序（1-5）
var Periods = []int{1, 2, 3, 4, 5}

// SlotCount 周课表格子总数
var SlotCount = len(Days) * len(Periods)

var dayLabels = map[Day]string{
	Monday:    "周一",
	Tuesday:   "周二",
	Wednesday: "周三",
	Thursday:  "周四",
	Friday:    "周五",
}

// Label 中文显示名
func (d Day) Label() string {
	if l, ok := dayLabels[d]; ok {
		return l
	}
	return string(d)
}

// Index 在 Days 中的下标，非法值返回 -1
func (d Day) Index() int {
	for i, x := range Days {
		if x == d {
			return i
		}
	}
	return -1
}

// ParseDay 解析星期，空串表示未设置
func ParseDay(s string) (Day, error) {
	if s == "" {
		return "", nil
	}
	d := Day(s)
	if d.Index() < 0 {
		return "", fmt.Errorf("%w: 无效的星期 %q", ErrInvalidPreference, s)
	}
	return d, nil
}

// ValidPeriod 节次是否在 1-5 之间
func ValidPeriod(p int) bool {
	return p >= Periods[0] && p <= Periods[len(Periods)-1]
}

// Modality 授课形式
type Modality string

const (
	OnDemand   Modality = "on_demand"
	FaceToFace Modality = "face_to_face"
	Hybrid     Modality = "hybrid"
)

// Modalities 授课形式枚举（顺序参与目录生成公式）
var Modalities = []Modality{OnDemand, FaceToFace, Hybrid}

// Label 中文显示名
func (m Modality) Label() string {
	switch m {
	case OnDemand:
		return "点播"
	case FaceToFace:
		return "面授"
	case Hybrid:
		return "混合"
	}
	return string(m)
}

// ParseModality 解析授课形式，空串表示未设置
func ParseModality(s string) (Modality, error) {
	if s == "" {
		return "", nil
	}
	for _, m := range Modalities {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: 无效的授课形式 %q", ErrInvalidPreference, s)
}

// Category 课程类别
type Category string

const (
	LiberalArts Category = "liberal_arts"
	Specialized Category = "specialized"
)

// Categories 课程类别枚举
var Categories = []Category{LiberalArts, Specialized}

// Label 中文显示名
func (c Category) Label() string {
	switch c {
	case LiberalArts:
		return "通识"
	case Specialized:
		return "专业"
	}
	return string(c)
}

// Course 模拟课程（生成后不可变）
type Course struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Day       Day      `json:"day"`
	Period    int      `json:"period"`
	Professor string   `json:"professor"`
	HasFinal  bool     `json:"has_final"`
	Modality  Modality `json:"modality"`
	Category  Category `json:"category"`
}

// SlotKey 周课表中的一个格子
type SlotKey struct {
	Day    Day
	Period int
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s-%d", k.Day, k.Period)
}

// AllSlots 按固定顺序（先星期后节次）返回全部 25 个格子
func AllSlots() []SlotKey {
	keys := make([]SlotKey, 0, SlotCount)
	for _, d := range Days {
		for _, p := range Periods {
			keys = append(keys, SlotKey{Day: d, Period: p})
		}
	}
	return keys
}
