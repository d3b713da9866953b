package planner

import "fmt"

// DefaultVariantsPerSlot 每个格子的候选课程数
const DefaultVariantsPerSlot = 3

var professors = []string{
	"Sato", "Suzuki", "Takahashi", "Tanaka", "Watanabe",
	"Ito", "Yamamoto", "Nakamura", "Kobayashi", "Kato",
}

var subjects = map[Category][]string{
	LiberalArts: {"Philosophy", "History", "Literature", "Sociology", "Economics"},
	Specialized: {"Algorithms", "Databases", "Networks", "Statistics", "Compilers"},
}

// Professors 目录中出现的全部教师名
func Professors() []string {
	out := make([]string, len(professors))
	copy(out, professors)
	return out
}

// GenerateCatalog 确定性地生成模拟课程目录
// 每个 (星期, 节次) 恰好 variants 门候选课；id 从 1 开始连续递增。
// 公式本身无业务含义，仅保证各枚举值在整个目录中都会出现。
func GenerateCatalog(variants int) []Course {
	if variants <= 0 {
		variants = DefaultVariantsPerSlot
	}

	catalog := make([]Course, 0, SlotCount*variants)
	id := 1
	for _, day := range Days {
		for _, period := range Periods {
			for v := 0; v < variants; v++ {
				category := Categories[(id+period)%len(Categories)]
				names := subjects[category]
				catalog = append(catalog, Course{
					ID:        id,
					Name:      fmt.Sprintf("%s %d", names[(id+v)%len(names)], 100+id),
					Day:       day,
					Period:    period,
					Professor: professors[(id*3)%len(professors)],
					HasFinal:  (id/2+v)%2 == 0,
					Modality:  Modalities[(id+period+v)%len(Modalities)],
					Category:  category,
				})
				id++
			}
		}
	}
	return catalog
}

// IndexBySlot 按格子分组，组内保持目录顺序
func IndexBySlot(catalog []Course) map[SlotKey][]Course {
	idx := make(map[SlotKey][]Course, SlotCount)
	for _, c := range catalog {
		k := SlotKey{Day: c.Day, Period: c.Period}
		idx[k] = append(idx[k], c)
	}
	return idx
}
