package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"schedule-planner/config"
	"schedule-planner/internal/model"
	"schedule-planner/internal/planner"
)

type generateOptions struct {
	prefs    planner.PreferenceSet
	planner  config.PlannerConfig
	asJSON   bool
	timeOf   string
	finals   string
	dayOff   string
	modality string
	balance  string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{planner: config.DefaultPlanner()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "离线生成一份周课表并输出到终端",
		Example: `  planner generate --time morning --day-off wed
  planner generate --finals avoid --dislike "Sato, Tanaka" --seed 42 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.timeOf, "time", "", "时段偏好: morning | late")
	f.StringVar(&opts.finals, "finals", "", "期末考试: prefer | avoid")
	f.StringVar(&opts.dayOff, "day-off", "", "休息日: mon | tue | wed | thu | fri")
	f.StringVar(&opts.modality, "modality", "", "授课形式: on_demand | face_to_face | hybrid")
	f.StringVar(&opts.balance, "balance", "", "通识比例: prefer_la | prefer_specialized")
	f.StringVar(&opts.prefs.DislikedProfessors, "dislike", "", "排除的教师（逗号分隔）")
	f.IntVar(&opts.planner.MaxClasses, "max-classes", opts.planner.MaxClasses, "每周最多课程数")
	f.IntVar(&opts.planner.MaxActivePreferences, "max-active", opts.planner.MaxActivePreferences, "同时生效的偏好上限")
	f.IntVar(&opts.planner.VariantsPerSlot, "variants", opts.planner.VariantsPerSlot, "每个格子的候选课程数")
	f.Float64Var(&opts.planner.TieBreakNoise, "noise", opts.planner.TieBreakNoise, "同分打散噪声幅度，0 表示完全确定")
	f.Uint64Var(&opts.planner.Seed, "seed", 0, "随机种子，0 表示按时间播种")
	f.BoolVar(&opts.asJSON, "json", false, "以 JSON 输出")

	return cmd
}

func runGenerate(w io.Writer, opts *generateOptions) error {
	if err := opts.planner.Validate(); err != nil {
		return err
	}

	raw := opts.prefs
	raw.TimeOfDay = planner.TimeOfDay(opts.timeOf)
	raw.Finals = planner.FinalsPreference(opts.finals)
	raw.DayOff = planner.Day(opts.dayOff)
	raw.Modality = planner.Modality(opts.modality)
	raw.LiberalArts = planner.BalancePreference(opts.balance)

	prefs, err := raw.Normalize()
	if err != nil {
		return err
	}
	if err := planner.ValidateLimit(prefs, opts.planner.MaxActivePreferences); err != nil {
		return err
	}

	asm := planner.NewAssembler(opts.planner.MaxClasses, planner.NewNoise(opts.planner.Seed))
	asm.NoiseSpan = opts.planner.TieBreakNoise
	assignment := asm.Assemble(planner.GenerateCatalog(opts.planner.VariantsPerSlot), prefs)

	if opts.asJSON {
		record, err := model.NewGeneratedSchedule("", prefs, assignment, asm.MaxClasses)
		if err != nil {
			return err
		}
		slots, err := record.DecodeSlots()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"preferences":  prefs,
			"slots":        slots,
			"filled_count": assignment.Filled(),
			"max_classes":  asm.MaxClasses,
		})
	}

	_, err = fmt.Fprintln(w, renderSchedule(assignment, prefs, asm.MaxClasses))
	return err
}
