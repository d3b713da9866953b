package planner

import "sort"

// DefaultMaxClasses 每周最多保留的课程数
const DefaultMaxClasses = 12

// Entry 单个格子的排课结果，Course 为 nil 表示空
type Entry struct {
	Slot   SlotKey
	Course *Course
	Score  float64
}

// Assignment 25 个格子的排课结果，按 AllSlots 顺序存放，生成后只读
type Assignment struct {
	entries []Entry
	index   map[SlotKey]int
}

func newAssignment(entries []Entry) Assignment {
	index := make(map[SlotKey]int, len(entries))
	for i, e := range entries {
		index[e.Slot] = i
	}
	return Assignment{entries: entries, index: index}
}

// Entries 返回全部格子（深拷贝，课程也是副本）
func (a Assignment) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	for i, e := range a.entries {
		out[i] = e
		if e.Course != nil {
			c := *e.Course
			out[i].Course = &c
		}
	}
	return out
}

// Get 返回格子上的课程，空格子返回 nil
func (a Assignment) Get(slot SlotKey) *Course {
	i, ok := a.index[slot]
	if !ok || a.entries[i].Course == nil {
		return nil
	}
	c := *a.entries[i].Course
	return &c
}

// Len 格子总数（恒为 25）
func (a Assignment) Len() int { return len(a.entries) }

// Filled 非空格子数
func (a Assignment) Filled() int {
	n := 0
	for _, e := range a.entries {
		if e.Course != nil {
			n++
		}
	}
	return n
}

// Courses 按格子顺序返回已排课程
func (a Assignment) Courses() []Course {
	out := make([]Course, 0, len(a.entries))
	for _, e := range a.entries {
		if e.Course != nil {
			out = append(out, *e.Course)
		}
	}
	return out
}

// Assembler 贪心排课器
// 零值可用：MaxClasses<=0 按 DefaultMaxClasses 处理，Noise 为 nil 不加噪声
type Assembler struct {
	MaxClasses int
	Noise      NoiseSource
	NoiseSpan  float64
}

// NewAssembler 创建排课器；maxClasses<=0 取默认值，noise 为 nil 时不加噪声
func NewAssembler(maxClasses int, noise NoiseSource) *Assembler {
	if maxClasses <= 0 {
		maxClasses = DefaultMaxClasses
	}
	if noise == nil {
		noise = NoNoise
	}
	return &Assembler{MaxClasses: maxClasses, Noise: noise, NoiseSpan: DefaultNoiseSpan}
}

// Assemble 根据偏好从目录中生成周课表
//
// 阶段1：逐格挑选得分最高的候选（严格大于，同分保留目录中靠前者）
// 阶段2：按得分降序保留前 MaxClasses 个格子，其余置空
func (a *Assembler) Assemble(catalog []Course, prefs PreferenceSet) Assignment {
	bySlot := IndexBySlot(catalog)
	disliked := prefs.DislikedSet()
	balance := Balance{}

	entries := make([]Entry, 0, SlotCount)
	for _, slot := range AllSlots() {
		if prefs.DayOff != "" && slot.Day == prefs.DayOff {
			entries = append(entries, Entry{Slot: slot, Score: Excluded})
			continue
		}

		var best *Course
		bestScore := Excluded
		for i := range bySlot[slot] {
			c := bySlot[slot][i]
			sc := score(slot, c, prefs, disliked, balance, a.Noise, a.NoiseSpan)
			if sc == Excluded {
				continue
			}
			if best == nil || sc > bestScore {
				best = &c
				bestScore = sc
			}
		}

		if best == nil {
			entries = append(entries, Entry{Slot: slot, Score: Excluded})
			continue
		}
		balance = balance.Add(*best)
		entries = append(entries, Entry{Slot: slot, Course: best, Score: bestScore})
	}

	// ── 容量限制 ──
	limit := a.MaxClasses
	if limit <= 0 {
		limit = DefaultMaxClasses
	}
	filled := make([]int, 0, len(entries))
	for i, e := range entries {
		if e.Course != nil {
			filled = append(filled, i)
		}
	}
	if len(filled) > limit {
		// 同分时保持格子遍历顺序
		sort.SliceStable(filled, func(i, j int) bool {
			return entries[filled[i]].Score > entries[filled[j]].Score
		})
		for _, i := range filled[limit:] {
			entries[i].Course = nil
		}
	}

	return newAssignment(entries)
}
