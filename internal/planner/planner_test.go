package planner

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

// fixedNoise 固定噪声，便于断言确切得分
type fixedNoise float64

func (f fixedNoise) Float64() float64 { return float64(f) }

// ════════════════════════════════════════════════════════════
// 目录生成
// ════════════════════════════════════════════════════════════

func TestGenerateCatalog_VariantsPerSlot(t *testing.T) {
	catalog := GenerateCatalog(DefaultVariantsPerSlot)
	if len(catalog) != SlotCount*DefaultVariantsPerSlot {
		t.Fatalf("期望 %d 门课，实际 %d", SlotCount*DefaultVariantsPerSlot, len(catalog))
	}

	idx := IndexBySlot(catalog)
	for _, slot := range AllSlots() {
		if n := len(idx[slot]); n != DefaultVariantsPerSlot {
			t.Errorf("格子 %s 期望 %d 门候选，实际 %d", slot, DefaultVariantsPerSlot, n)
		}
	}
}

func TestGenerateCatalog_Coverage(t *testing.T) {
	catalog := GenerateCatalog(DefaultVariantsPerSlot)

	profs := make(map[string]bool)
	mods := make(map[Modality]bool)
	cats := make(map[Category]bool)
	finals := make(map[bool]bool)
	ids := make(map[int]bool)
	for _, c := range catalog {
		profs[c.Professor] = true
		mods[c.Modality] = true
		cats[c.Category] = true
		finals[c.HasFinal] = true
		if ids[c.ID] {
			t.Errorf("课程 id %d 重复", c.ID)
		}
		ids[c.ID] = true
	}

	for _, name := range Professors() {
		if !profs[name] {
			t.Errorf("教师 %s 未出现在目录中", name)
		}
	}
	if len(mods) != len(Modalities) {
		t.Errorf("期望覆盖全部授课形式，实际 %v", mods)
	}
	if len(cats) != len(Categories) {
		t.Errorf("期望覆盖全部课程类别，实际 %v", cats)
	}
	if len(finals) != 2 {
		t.Error("期末考试标记应有真有假")
	}
}

func TestGenerateCatalog_AllProfessorsForAnyVariants(t *testing.T) {
	for variants := 1; variants <= 6; variants++ {
		seen := make(map[string]int)
		for _, c := range GenerateCatalog(variants) {
			seen[c.Professor]++
		}
		for _, name := range Professors() {
			if seen[name] == 0 {
				t.Errorf("variants=%d 时教师 %s 未出现在目录中", variants, name)
			}
		}
	}
}

func TestGenerateCatalog_Deterministic(t *testing.T) {
	a := GenerateCatalog(DefaultVariantsPerSlot)
	b := GenerateCatalog(DefaultVariantsPerSlot)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("第 %d 门课两次生成结果不同: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateCatalog_NonPositiveVariantsUsesDefault(t *testing.T) {
	if n := len(GenerateCatalog(0)); n != SlotCount*DefaultVariantsPerSlot {
		t.Errorf("variants=0 期望使用默认值，实际 %d 门课", n)
	}
}

// ════════════════════════════════════════════════════════════
// 评分
// ════════════════════════════════════════════════════════════

func TestScore_DayOffExcluded(t *testing.T) {
	c := Course{Day: Wednesday, Period: 1, Professor: "Sato", Category: Specialized}
	s := Score(SlotKey{Day: Wednesday, Period: 1}, c, PreferenceSet{DayOff: Wednesday}, Balance{}, nil)
	if !math.IsInf(s, -1) {
		t.Errorf("休息日应返回 -Inf，实际 %v", s)
	}
}

func TestScore_DislikedProfessorExcluded(t *testing.T) {
	c := Course{Day: Monday, Period: 1, Professor: "Sato", Category: Specialized}
	prefs := PreferenceSet{DislikedProfessors: "  tanaka ,  SATO  "}
	s := Score(SlotKey{Day: Monday, Period: 1}, c, prefs, Balance{}, nil)
	if !math.IsInf(s, -1) {
		t.Errorf("排除教师应返回 -Inf，实际 %v", s)
	}
}

func TestScore_TimeOfDay(t *testing.T) {
	c := Course{Professor: "Ito", Category: Specialized}
	// 默认目标 0.4，比例 0 → 专业课 -0.5
	base := penaltyBalance

	cases := []struct {
		name   string
		pref   TimeOfDay
		period int
		want   float64
	}{
		{"morning-p1", TimeMorning, 1, bonusTimeStrong},
		{"morning-p2", TimeMorning, 2, bonusTimeStrong},
		{"morning-p3", TimeMorning, 3, bonusTimeWeak},
		{"morning-p5", TimeMorning, 5, penaltyTime},
		{"late-p4", TimeLate, 4, bonusTimeStrong},
		{"late-p3", TimeLate, 3, bonusTimeWeak},
		{"late-p1", TimeLate, 1, penaltyTime},
		{"none", "", 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(SlotKey{Day: Monday, Period: tc.period}, c, PreferenceSet{TimeOfDay: tc.pref}, Balance{}, nil)
			if got != base+tc.want {
				t.Errorf("期望 %v，实际 %v", base+tc.want, got)
			}
		})
	}
}

func TestScore_Finals(t *testing.T) {
	slot := SlotKey{Day: Monday, Period: 3}
	with := Course{HasFinal: true, Category: Specialized}
	without := Course{HasFinal: false, Category: Specialized}

	prefer := PreferenceSet{Finals: FinalsPrefer}
	if Score(slot, with, prefer, Balance{}, nil) <= Score(slot, without, prefer, Balance{}, nil) {
		t.Error("prefer 时有期末的课应得分更高")
	}
	avoid := PreferenceSet{Finals: FinalsAvoid}
	if Score(slot, with, avoid, Balance{}, nil) >= Score(slot, without, avoid, Balance{}, nil) {
		t.Error("avoid 时无期末的课应得分更高")
	}
}

func TestScore_Modality(t *testing.T) {
	slot := SlotKey{Day: Monday, Period: 3}
	prefs := PreferenceSet{Modality: Hybrid}
	match := Score(slot, Course{Modality: Hybrid, Category: Specialized}, prefs, Balance{}, nil)
	miss := Score(slot, Course{Modality: OnDemand, Category: Specialized}, prefs, Balance{}, nil)
	if match-miss != bonusModality-penaltyModality {
		t.Errorf("授课形式匹配差值期望 %v，实际 %v", bonusModality-penaltyModality, match-miss)
	}
}

func TestScore_LiberalArtsBalance(t *testing.T) {
	slot := SlotKey{Day: Monday, Period: 3}
	la := Course{Category: LiberalArts}
	major := Course{Category: Specialized}

	// 比例 0 < 0.6：通识加分，专业课扣分
	prefs := PreferenceSet{LiberalArts: BalancePreferLA}
	if got := Score(slot, la, prefs, Balance{}, nil); got != bonusBalance {
		t.Errorf("通识课期望 %v，实际 %v", bonusBalance, got)
	}
	if got := Score(slot, major, prefs, Balance{}, nil); got != penaltyBalance {
		t.Errorf("专业课期望 %v，实际 %v", penaltyBalance, got)
	}

	// 比例 1.0 > 0.2：专业课加分
	full := Balance{LiberalArts: 3, Total: 3}
	prefs = PreferenceSet{LiberalArts: BalancePreferSpecialized}
	if got := Score(slot, major, prefs, full, nil); got != bonusBalance {
		t.Errorf("专业课期望 %v，实际 %v", bonusBalance, got)
	}
	if got := Score(slot, la, prefs, full, nil); got != penaltyBalance {
		t.Errorf("通识课期望 %v，实际 %v", penaltyBalance, got)
	}
}

func TestScore_NoiseBounded(t *testing.T) {
	slot := SlotKey{Day: Monday, Period: 3}
	c := Course{Category: Specialized}
	base := Score(slot, c, PreferenceSet{}, Balance{}, nil)

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		s := Score(slot, c, PreferenceSet{}, Balance{}, r)
		if s < base || s >= base+DefaultNoiseSpan {
			t.Fatalf("噪声超出区间: base=%v got=%v", base, s)
		}
	}
}

func TestBalance_AddAndRatio(t *testing.T) {
	b := Balance{}
	if b.Ratio() != 0 {
		t.Errorf("空累计器比例应为 0")
	}
	b = b.Add(Course{Category: LiberalArts}).Add(Course{Category: Specialized})
	if b.Total != 2 || b.LiberalArts != 1 || b.Ratio() != 0.5 {
		t.Errorf("累计器结果错误: %+v", b)
	}
}

// ════════════════════════════════════════════════════════════
// 排课
// ════════════════════════════════════════════════════════════

func assemble(prefs PreferenceSet, noise NoiseSource) Assignment {
	return NewAssembler(DefaultMaxClasses, noise).Assemble(GenerateCatalog(DefaultVariantsPerSlot), prefs)
}

func TestAssemble_AlwaysFullGrid(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	prefsList := []PreferenceSet{
		{},
		{TimeOfDay: TimeMorning, DayOff: Friday},
		{Finals: FinalsAvoid, Modality: FaceToFace, LiberalArts: BalancePreferLA, DislikedProfessors: "Sato"},
		{TimeOfDay: TimeLate, Finals: FinalsPrefer, DayOff: Monday, LiberalArts: BalancePreferSpecialized},
	}
	for _, p := range prefsList {
		a := assemble(p, r)
		if a.Len() != SlotCount {
			t.Errorf("期望 %d 个格子，实际 %d", SlotCount, a.Len())
		}
		if a.Filled() > DefaultMaxClasses {
			t.Errorf("已排课程 %d 超过上限 %d", a.Filled(), DefaultMaxClasses)
		}
	}
}

func TestAssemble_CapKeepsHighestScores(t *testing.T) {
	a := assemble(PreferenceSet{}, NoNoise)
	if a.Filled() != DefaultMaxClasses {
		t.Fatalf("无偏好时应恰好排满 %d 门，实际 %d", DefaultMaxClasses, a.Filled())
	}

	minKept := math.Inf(1)
	maxDropped := math.Inf(-1)
	for _, e := range a.Entries() {
		if e.Course != nil {
			minKept = math.Min(minKept, e.Score)
		} else if !math.IsInf(e.Score, -1) {
			maxDropped = math.Max(maxDropped, e.Score)
		}
	}
	if maxDropped > minKept {
		t.Errorf("被裁掉的格子得分 %v 高于保留的 %v", maxDropped, minKept)
	}
}

func TestAssemble_DayOffEmpty(t *testing.T) {
	a := assemble(PreferenceSet{DayOff: Thursday}, rand.New(rand.NewPCG(3, 4)))
	for _, p := range Periods {
		if c := a.Get(SlotKey{Day: Thursday, Period: p}); c != nil {
			t.Errorf("休息日第 %d 节不应排课，实际 %+v", p, c)
		}
	}
}

func TestAssemble_DislikedProfessorNeverChosen(t *testing.T) {
	catalog := GenerateCatalog(DefaultVariantsPerSlot)
	for _, name := range Professors() {
		// 大小写与空白混排，逐个教师验证排除生效
		prefs := PreferenceSet{DislikedProfessors: " " + strings.ToUpper(name) + "\n"}
		for i := 0; i < 3; i++ {
			a := NewAssembler(DefaultMaxClasses, rand.New(rand.NewPCG(uint64(i), 99))).Assemble(catalog, prefs)
			for _, c := range a.Courses() {
				if c.Professor == name {
					t.Errorf("排除教师 %s 出现在结果中", name)
				}
			}
			if a.Filled() == 0 {
				t.Errorf("仅排除 %s 时不应为空课表", name)
			}
		}
	}

	// 多名教师同时排除
	disliked := Professors()[:3]
	prefs := PreferenceSet{DislikedProfessors: strings.Join(disliked, "、")}
	for _, c := range assemble(prefs, NoNoise).Courses() {
		for _, name := range disliked {
			if c.Professor == name {
				t.Errorf("排除教师 %s 出现在结果中", name)
			}
		}
	}
}

func TestAssemble_AllProfessorsDisliked(t *testing.T) {
	prefs := PreferenceSet{DislikedProfessors: strings.Join(Professors(), ",")}
	a := assemble(prefs, nil)
	if a.Len() != SlotCount {
		t.Errorf("期望 %d 个格子，实际 %d", SlotCount, a.Len())
	}
	if a.Filled() != 0 {
		t.Errorf("全部教师被排除时应为空课表，实际 %d 门", a.Filled())
	}
}

func TestAssemble_MorningScenario(t *testing.T) {
	prefs := PreferenceSet{TimeOfDay: TimeMorning, DayOff: Wednesday}
	a := assemble(prefs, rand.New(rand.NewPCG(11, 13)))

	for _, p := range Periods {
		if a.Get(SlotKey{Day: Wednesday, Period: p}) != nil {
			t.Errorf("周三第 %d 节不应排课", p)
		}
	}

	// 4 天 × 第1-2节 = 8 个格子，均为强加分，应全部保留
	for _, d := range []Day{Monday, Tuesday, Thursday, Friday} {
		for _, p := range []int{1, 2} {
			if a.Get(SlotKey{Day: d, Period: p}) == nil {
				t.Errorf("%s 第 %d 节应保留早课", d, p)
			}
		}
	}

	minMorning := math.Inf(1)
	maxLate := math.Inf(-1)
	for _, e := range a.Entries() {
		if e.Course == nil {
			continue
		}
		switch e.Slot.Period {
		case 1, 2:
			minMorning = math.Min(minMorning, e.Score)
		case 4, 5:
			maxLate = math.Max(maxLate, e.Score)
		}
	}
	if maxLate >= minMorning {
		t.Errorf("第4-5节得分 %v 不应高于早课 %v", maxLate, minMorning)
	}
}

func TestAssemble_TieKeepsFirstCandidate(t *testing.T) {
	// 同格子两门分数相同的课，应选目录中靠前者
	catalog := []Course{
		{ID: 1, Day: Monday, Period: 1, Professor: "A", Category: Specialized},
		{ID: 2, Day: Monday, Period: 1, Professor: "B", Category: Specialized},
	}
	a := NewAssembler(DefaultMaxClasses, NoNoise).Assemble(catalog, PreferenceSet{})
	c := a.Get(SlotKey{Day: Monday, Period: 1})
	if c == nil || c.ID != 1 {
		t.Errorf("同分应保留第一门候选，实际 %+v", c)
	}
}

func TestAssemble_CapTieKeepsSlotOrder(t *testing.T) {
	var catalog []Course
	id := 1
	for _, slot := range AllSlots() {
		catalog = append(catalog, Course{ID: id, Day: slot.Day, Period: slot.Period, Professor: "X", Category: Specialized})
		id++
	}
	a := NewAssembler(3, fixedNoise(0)).Assemble(catalog, PreferenceSet{})
	kept := a.Courses()
	if len(kept) != 3 {
		t.Fatalf("期望保留 3 门，实际 %d", len(kept))
	}
	for i, c := range kept {
		if c.ID != i+1 {
			t.Errorf("同分时应按格子顺序保留，第 %d 门实际 id=%d", i, c.ID)
		}
	}
}

func TestAssemble_RepeatedCallsSameShape(t *testing.T) {
	prefs := PreferenceSet{TimeOfDay: TimeLate, DayOff: Tuesday}
	a := assemble(prefs, rand.New(rand.NewPCG(1, 1)))
	b := assemble(prefs, rand.New(rand.NewPCG(2, 2)))
	if a.Len() != b.Len() {
		t.Errorf("两次结果格子数不同")
	}
	if a.Filled() > DefaultMaxClasses || b.Filled() > DefaultMaxClasses {
		t.Errorf("已排课程超过上限")
	}
}

func TestAssemble_ResultIsolatedFromCaller(t *testing.T) {
	a := assemble(PreferenceSet{}, NoNoise)
	entries := a.Entries()
	var slot SlotKey
	for i := range entries {
		if entries[i].Course != nil {
			slot = entries[i].Slot
			entries[i].Course.Professor = "changed"
			entries[i].Course.ID = -1
		}
	}
	if got := a.Get(slot); got == nil || got.Professor == "changed" || got.ID == -1 {
		t.Errorf("通过 Entries 修改课程不应影响原结果，实际 %+v", got)
	}
	for _, c := range a.Courses() {
		if c.Professor == "changed" {
			t.Fatal("通过 Entries 修改课程不应影响原结果")
		}
	}

	for i := range entries {
		entries[i].Course = nil
	}
	if a.Filled() == 0 {
		t.Error("修改 Entries 副本不应影响原结果")
	}

	if c := a.Get(slot); c != nil {
		c.Name = "changed"
		if a.Get(slot).Name == "changed" {
			t.Error("修改 Get 返回值不应影响原结果")
		}
	}
}

func TestAssembler_ZeroValueUsesDefaults(t *testing.T) {
	a := (&Assembler{}).Assemble(GenerateCatalog(DefaultVariantsPerSlot), PreferenceSet{})
	if a.Len() != SlotCount {
		t.Errorf("期望 %d 个格子，实际 %d", SlotCount, a.Len())
	}
	if a.Filled() != DefaultMaxClasses {
		t.Errorf("零值 Assembler 应按默认上限 %d 排课，实际 %d", DefaultMaxClasses, a.Filled())
	}

	neg := &Assembler{MaxClasses: -1}
	if n := neg.Assemble(GenerateCatalog(DefaultVariantsPerSlot), PreferenceSet{}).Filled(); n != DefaultMaxClasses {
		t.Errorf("负数上限应按默认值处理，实际 %d", n)
	}
}

func TestNewNoise_SeededIsReproducible(t *testing.T) {
	a, b := NewNoise(7), NewNoise(7)
	for i := 0; i < 10; i++ {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("相同种子期望相同序列，第 %d 个: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("噪声越界: %v", x)
		}
	}

	catalog := GenerateCatalog(DefaultVariantsPerSlot)
	x := NewAssembler(DefaultMaxClasses, NewNoise(42)).Assemble(catalog, PreferenceSet{})
	y := NewAssembler(DefaultMaxClasses, NewNoise(42)).Assemble(catalog, PreferenceSet{})
	xe, ye := x.Entries(), y.Entries()
	for i := range xe {
		if xe[i].Score != ye[i].Score {
			t.Fatalf("相同种子的排课结果不同: %s %v vs %v", xe[i].Slot, xe[i].Score, ye[i].Score)
		}
	}
}

// ════════════════════════════════════════════════════════════
// 偏好校验
// ════════════════════════════════════════════════════════════

func TestCountActive(t *testing.T) {
	if n := CountActive(PreferenceSet{}); n != 0 {
		t.Errorf("默认偏好应为 0 项，实际 %d", n)
	}

	singles := []PreferenceSet{
		{TimeOfDay: TimeMorning},
		{Finals: FinalsAvoid},
		{DayOff: Friday},
		{Modality: OnDemand},
		{LiberalArts: BalancePreferLA},
		{DislikedProfessors: "Sato"},
	}
	for _, p := range singles {
		if n := CountActive(p); n != 1 {
			t.Errorf("%+v 期望 1 项，实际 %d", p, n)
		}
	}

	if n := CountActive(PreferenceSet{DislikedProfessors: "   \n\t "}); n != 0 {
		t.Errorf("仅空白的教师名单不应计入，实际 %d", n)
	}
}

func TestValidate(t *testing.T) {
	four := PreferenceSet{TimeOfDay: TimeLate, Finals: FinalsPrefer, DayOff: Monday, Modality: Hybrid}
	if err := Validate(four); err != nil {
		t.Errorf("4 项偏好应通过校验: %v", err)
	}

	five := four
	five.LiberalArts = BalancePreferSpecialized
	if err := Validate(five); !errors.Is(err, ErrTooManyPreferences) {
		t.Errorf("期望 ErrTooManyPreferences，实际: %v", err)
	}

	if err := ValidateLimit(four, 3); !errors.Is(err, ErrTooManyPreferences) {
		t.Errorf("自定义上限 3 时应拒绝 4 项偏好，实际: %v", err)
	}
}

func TestPreferenceSet_With(t *testing.T) {
	p, err := PreferenceSet{}.With(FieldDayOff, "wed")
	if err != nil || p.DayOff != Wednesday {
		t.Fatalf("设置休息日失败: %+v, %v", p, err)
	}

	if _, err := p.With(FieldDayOff, "sun"); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("非工作日应返回 ErrInvalidPreference，实际: %v", err)
	}
	if _, err := p.With(FieldModality, "remote"); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("非法授课形式应返回 ErrInvalidPreference，实际: %v", err)
	}
	if _, err := p.With(Field("color"), "red"); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("未知字段应返回 ErrInvalidPreference，实际: %v", err)
	}

	cleared, err := p.With(FieldDayOff, "")
	if err != nil || cleared.DayOff != "" {
		t.Errorf("清空休息日失败: %+v, %v", cleared, err)
	}
	if p.DayOff != Wednesday {
		t.Error("With 不应修改原值")
	}
}

func TestPreferenceSet_DislikedSet(t *testing.T) {
	p := PreferenceSet{DislikedProfessors: "Sato，Ito、 kato ;\n\n ,"}
	set := p.DislikedSet()
	for _, name := range []string{"sato", "ito", "kato"} {
		if _, ok := set[name]; !ok {
			t.Errorf("名单缺少 %s: %v", name, set)
		}
	}
	if len(set) != 3 {
		t.Errorf("期望 3 个名字，实际 %v", set)
	}
	if !p.Dislikes("  ITO ") {
		t.Error("Dislikes 应忽略大小写与空白")
	}
}

func TestLabels(t *testing.T) {
	if Wednesday.Label() != "周三" {
		t.Errorf("期望 周三，实际 %s", Wednesday.Label())
	}
	if FaceToFace.Label() != "面授" || Hybrid.Label() != "混合" || OnDemand.Label() != "点播" {
		t.Error("授课形式标签不符")
	}
	if LiberalArts.Label() != "通识" || Specialized.Label() != "专业" {
		t.Error("课程类别标签不符")
	}
	if Modality("x").Label() != "x" {
		t.Error("未知值应原样返回")
	}
}
