package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"schedule-planner/config"
	"schedule-planner/internal/planner"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_RendersGrid(t *testing.T) {
	out, err := runCLI(t, "generate", "--time", "morning", "--day-off", "wed", "--seed", "1", "--noise", "0")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	for _, want := range []string{"周一", "周三（休）", "第5节", "已排 12/12 节", "生效偏好 2 项"} {
		if !strings.Contains(out, want) {
			t.Errorf("输出中缺少 %q:\n%s", want, out)
		}
	}
}

func TestGenerate_JSON(t *testing.T) {
	out, err := runCLI(t, "generate", "--dislike", "Sato", "--noise", "0", "--json")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}

	var got struct {
		Slots []struct {
			Course *planner.Course `json:"course"`
		} `json:"slots"`
		FilledCount int `json:"filled_count"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("JSON 解析失败: %v\n%s", err, out)
	}
	if len(got.Slots) != planner.SlotCount {
		t.Errorf("期望 %d 个格子，实际 %d", planner.SlotCount, len(got.Slots))
	}
	for _, s := range got.Slots {
		if s.Course != nil && s.Course.Professor == "Sato" {
			t.Error("排除的教师不应出现")
		}
	}
}

func TestGenerate_TooManyPreferences(t *testing.T) {
	_, err := runCLI(t, "generate",
		"--time", "late", "--finals", "avoid", "--day-off", "fri", "--modality", "hybrid", "--balance", "prefer_la")
	if !errors.Is(err, planner.ErrTooManyPreferences) {
		t.Errorf("期望 ErrTooManyPreferences，实际: %v", err)
	}
}

func TestGenerate_InvalidValue(t *testing.T) {
	_, err := runCLI(t, "generate", "--day-off", "sun")
	if !errors.Is(err, planner.ErrInvalidPreference) {
		t.Errorf("期望 ErrInvalidPreference，实际: %v", err)
	}
}

func TestCatalog_ListsAllCourses(t *testing.T) {
	out, err := runCLI(t, "catalog", "--variants", "2")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(strings.TrimSpace(out), "\n") + 1; n != planner.SlotCount*2 {
		t.Errorf("期望 %d 行，实际 %d", planner.SlotCount*2, n)
	}
}

func TestGenerate_SeedMatchesSharedNoise(t *testing.T) {
	out, err := runCLI(t, "generate", "--seed", "42", "--json")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}

	var got struct {
		Slots []struct {
			Course *planner.Course `json:"course"`
		} `json:"slots"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("JSON 解析失败: %v\n%s", err, out)
	}

	cfg := config.DefaultPlanner()
	asm := planner.NewAssembler(cfg.MaxClasses, planner.NewNoise(42))
	asm.NoiseSpan = cfg.TieBreakNoise
	want := asm.Assemble(planner.GenerateCatalog(cfg.VariantsPerSlot), planner.PreferenceSet{}).Entries()

	if len(got.Slots) != len(want) {
		t.Fatalf("期望 %d 个格子，实际 %d", len(want), len(got.Slots))
	}
	for i, s := range got.Slots {
		wantID, gotID := 0, 0
		if want[i].Course != nil {
			wantID = want[i].Course.ID
		}
		if s.Course != nil {
			gotID = s.Course.ID
		}
		if wantID != gotID {
			t.Errorf("格子 %s 期望课程 %d，实际 %d", want[i].Slot, wantID, gotID)
		}
	}
}
