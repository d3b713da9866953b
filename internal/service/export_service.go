package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"schedule-planner/internal/metrics"
	"schedule-planner/internal/model"
	"schedule-planner/internal/planner"
	"schedule-planner/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedule   = errors.New("尚未生成课表，无法导出")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const (
	exportSheetName = "课表"
	exportTimezone  = "Asia/Tokyo"
	// 学期按 15 周计
	exportTermWeeks = 15
)

// PeriodTime 节次的上下课时间（HH:MM）
type PeriodTime struct {
	Start string
	End   string
}

// PeriodTimes 各节次时间表
var PeriodTimes = map[int]PeriodTime{
	1: {"09:00", "10:30"},
	2: {"10:40", "12:10"},
	3: {"13:00", "14:30"},
	4: {"14:40", "16:10"},
	5: {"16:20", "17:50"},
}

// ExportService 导出业务接口
//
// 两种格式均基于会话最近一次生成的课表：
//   - Excel：星期为列、节次为行的网格
//   - iCalendar：每门课一条按周重复的 VEVENT，从下一个周一开始
type ExportService interface {
	ExportXLSX(ctx context.Context, sessionID string) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, sessionID string) ([]byte, string, error)
}

type exportService struct {
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, metrics: m, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX
// ═══════════════════════════════════════════════════════════
//
// | 节次 | 时间 | 周一 | … | 周五 |
// 单元格：课程名 / 教师 / 授课形式，空格子填 "-"

func (s *exportService) ExportXLSX(ctx context.Context, sessionID string) (*bytes.Buffer, string, error) {
	record, slots, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	grid := make(map[planner.SlotKey]*planner.Course, len(slots))
	for _, sl := range slots {
		grid[planner.SlotKey{Day: sl.Day, Period: sl.Period}] = sl.Course
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheetName)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(exportSheetName, "A", "A", 8)
	f.SetColWidth(exportSheetName, "B", "B", 14)
	f.SetColWidth(exportSheetName, colName(2), colName(1+len(planner.Days)), 24)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 标题行
	lastCol := colName(1 + len(planner.Days))
	f.SetCellValue(exportSheetName, "A1", fmt.Sprintf("周课表（%d/%d 节）", record.FilledCount, record.MaxClasses))
	f.MergeCell(exportSheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(exportSheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(exportSheetName, "A2", "节次")
	f.SetCellValue(exportSheetName, "B2", "时间")
	for i, d := range planner.Days {
		f.SetCellValue(exportSheetName, cell(colName(2+i), 2), d.Label())
	}
	f.SetCellStyle(exportSheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	for r, p := range planner.Periods {
		row := 3 + r
		pt := PeriodTimes[p]
		f.SetCellValue(exportSheetName, cell("A", row), fmt.Sprintf("第%d节", p))
		f.SetCellValue(exportSheetName, cell("B", row), pt.Start+"-"+pt.End)
		for i, d := range planner.Days {
			text := "-"
			if c := grid[planner.SlotKey{Day: d, Period: p}]; c != nil {
				text = fmt.Sprintf("%s\n%s\n%s", c.Name, c.Professor, c.Modality.Label())
			}
			f.SetCellValue(exportSheetName, cell(colName(2+i), row), text)
		}
		f.SetRowHeight(exportSheetName, row, 48)
	}
	f.SetCellStyle(exportSheetName, "A3", cell(lastCol, 2+len(planner.Periods)), cellStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.metrics.IncExport(metrics.FormatXLSX)
	return buf, fmt.Sprintf("schedule_%s.xlsx", shortID(record.ScheduleID)), nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, sessionID string) ([]byte, string, error) {
	record, slots, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	loc, err := time.LoadLocation(exportTimezone)
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
	}
	now := s.now().In(loc)
	monday := nextMonday(now)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedule-planner//weekly schedule//ZH")
	cal.SetXWRCalName("周课表")
	cal.SetXWRTimezone(exportTimezone)

	for _, sl := range slots {
		if sl.Course == nil {
			continue
		}
		c := sl.Course
		pt := PeriodTimes[sl.Period]
		day := monday.AddDate(0, 0, sl.Day.Index())
		start, err := clockOn(day, pt.Start)
		if err != nil {
			return nil, "", ErrExportGenerateFail
		}
		end, err := clockOn(day, pt.End)
		if err != nil {
			return nil, "", ErrExportGenerateFail
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%d@schedule-planner", record.ScheduleID, c.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(c.Name)
		event.SetDescription(fmt.Sprintf("教师: %s / 形式: %s / 类别: %s / 期末考试: %s",
			c.Professor, c.Modality.Label(), c.Category.Label(), yesNo(c.HasFinal)))
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", exportTermWeeks))
	}

	s.metrics.IncExport(metrics.FormatICS)
	return []byte(cal.Serialize()), fmt.Sprintf("schedule_%s.ics", shortID(record.ScheduleID)), nil
}

// ── 辅助函数 ──

func (s *exportService) load(ctx context.Context, sessionID string) (*model.GeneratedSchedule, []model.ScheduleSlot, error) {
	record, err := s.repo.Schedule.GetLatestBySession(ctx, sessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, ErrExportNoSchedule
		}
		s.logger.Error("查询课表失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, nil, err
	}
	slots, err := record.DecodeSlots()
	if err != nil {
		s.logger.Error("解析课表失败", zap.String("schedule_id", record.ScheduleID), zap.Error(err))
		return nil, nil, ErrExportGenerateFail
	}
	return record, slots, nil
}

// nextMonday 严格晚于 t 所在日的下一个周一 00:00
func nextMonday(t time.Time) time.Time {
	days := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := t.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

func clockOn(day time.Time, hhmm string) (time.Time, error) {
	c, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, day.Location()), nil
}

func yesNo(b bool) string {
	if b {
		return "有"
	}
	return "无"
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
