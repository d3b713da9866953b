package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"schedule-planner/config"
	"schedule-planner/internal/dto"
	"schedule-planner/internal/metrics"
	"schedule-planner/internal/model"
	"schedule-planner/internal/planner"
	"schedule-planner/internal/repository"
	applogger "schedule-planner/pkg/logger"
)

// ── 课表模块业务错误 ──

var (
	ErrScheduleNotFound = errors.New("尚未生成课表")
	ErrSlotInvalid      = errors.New("无效的格子")
	ErrSlotEmpty        = errors.New("该格子没有排课")
)

// PlannerService 课表生成业务接口
type PlannerService interface {
	// Generate 生成并保存新课表；req.Preferences 非空时先保存这些偏好
	Generate(ctx context.Context, sessionID string, req *dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error)
	GetLatest(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error)
	GetSlot(ctx context.Context, sessionID, day string, period int) (*dto.SlotResponse, error)
	ListHistory(ctx context.Context, sessionID string, req *dto.ScheduleHistoryRequest) ([]dto.ScheduleBrief, int64, error)
	Catalog(ctx context.Context) (*dto.CatalogResponse, error)
}

type plannerService struct {
	cfg            *config.PlannerConfig
	persistHistory bool
	repo           *repository.Repository
	prefs          PreferenceService
	noise          planner.NoiseSource
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewPlannerService 创建 PlannerService 实例
func NewPlannerService(
	cfg *config.PlannerConfig,
	persistHistory bool,
	repo *repository.Repository,
	prefs PreferenceService,
	m *metrics.Metrics,
	logger *zap.Logger,
) PlannerService {
	return &plannerService{
		cfg:            cfg,
		persistHistory: persistHistory,
		repo:           repo,
		prefs:          prefs,
		noise:          planner.NewNoise(cfg.Seed),
		metrics:        m,
		logger:         logger,
	}
}

// ═══════════════════════════════════════════════════════════
// Generate
// ═══════════════════════════════════════════════════════════
//
// 流程：
//  1. 取偏好（请求内联 → 先保存；否则读取已保存偏好）
//  2. 校验生效项上限
//  3. 生成目录 → 贪心排课 → 容量截断
//  4. 持久化；未开启历史记录时删除旧课表

func (s *plannerService) Generate(ctx context.Context, sessionID string, req *dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error) {
	start := time.Now()

	var prefs planner.PreferenceSet
	if req != nil && req.Preferences != nil {
		if _, err := s.prefs.Save(ctx, sessionID, req.Preferences); err != nil {
			s.observeFailure(err)
			return nil, err
		}
		prefs = req.Preferences.ToPreferenceSet()
	} else {
		cur, err := s.prefs.Current(ctx, sessionID)
		if err != nil {
			s.metrics.ObserveGeneration(metrics.StatusError, 0, 0)
			return nil, err
		}
		prefs = cur
	}

	prefs, err := prefs.Normalize()
	if err == nil {
		err = planner.ValidateLimit(prefs, s.cfg.MaxActivePreferences)
	}
	if err != nil {
		s.observeFailure(err)
		return nil, err
	}

	asm := planner.NewAssembler(s.cfg.MaxClasses, s.noise)
	asm.NoiseSpan = s.cfg.TieBreakNoise
	assignment := asm.Assemble(planner.GenerateCatalog(s.cfg.VariantsPerSlot), prefs)

	log := applogger.ForSession(s.logger, sessionID)
	record, err := model.NewGeneratedSchedule(sessionID, prefs, assignment, asm.MaxClasses)
	if err != nil {
		log.Error("构建课表记录失败", zap.Error(err))
		s.metrics.ObserveGeneration(metrics.StatusError, 0, 0)
		return nil, err
	}
	if err := s.repo.Schedule.Create(ctx, record); err != nil {
		log.Error("保存课表失败", zap.Error(err))
		s.metrics.ObserveGeneration(metrics.StatusError, 0, 0)
		return nil, err
	}

	if !s.persistHistory {
		if err := s.repo.Schedule.DeleteBySessionExcept(ctx, sessionID, record.ScheduleID); err != nil {
			log.Warn("清理旧课表失败", zap.Error(err))
		}
	}

	s.metrics.ObserveGeneration(metrics.StatusOK, assignment.Filled(), time.Since(start))
	log.Info("生成课表",
		zap.String("schedule_id", record.ScheduleID),
		zap.Int("filled", assignment.Filled()),
		zap.Int("active_preferences", planner.CountActive(prefs)),
	)

	return dto.NewScheduleResponse(record, s.cfg.MaxActivePreferences)
}

func (s *plannerService) observeFailure(err error) {
	if errors.Is(err, planner.ErrTooManyPreferences) || errors.Is(err, planner.ErrInvalidPreference) {
		s.metrics.ObserveGeneration(metrics.StatusRejected, 0, 0)
		return
	}
	s.metrics.ObserveGeneration(metrics.StatusError, 0, 0)
}

// ────────────────────── GetLatest ──────────────────────

func (s *plannerService) GetLatest(ctx context.Context, sessionID string) (*dto.ScheduleResponse, error) {
	record, err := s.latest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return dto.NewScheduleResponse(record, s.cfg.MaxActivePreferences)
}

// ────────────────────── GetSlot ──────────────────────

func (s *plannerService) GetSlot(ctx context.Context, sessionID, day string, period int) (*dto.SlotResponse, error) {
	d, err := planner.ParseDay(day)
	if err != nil || d == "" || !planner.ValidPeriod(period) {
		return nil, ErrSlotInvalid
	}

	record, err := s.latest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	slots, err := record.DecodeSlots()
	if err != nil {
		s.logger.Error("解析课表失败", zap.String("schedule_id", record.ScheduleID), zap.Error(err))
		return nil, err
	}

	for _, sl := range slots {
		if sl.Day == d && sl.Period == period {
			if sl.Course == nil {
				return nil, ErrSlotEmpty
			}
			resp := dto.NewSlotResponse(sl)
			return &resp, nil
		}
	}
	return nil, ErrSlotEmpty
}

// ────────────────────── ListHistory ──────────────────────

func (s *plannerService) ListHistory(ctx context.Context, sessionID string, req *dto.ScheduleHistoryRequest) ([]dto.ScheduleBrief, int64, error) {
	records, total, err := s.repo.Schedule.ListBySession(ctx, sessionID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询历史课表失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.ScheduleBrief, 0, len(records))
	for i := range records {
		list = append(list, dto.NewScheduleBrief(&records[i]))
	}
	return list, total, nil
}

// ────────────────────── Catalog ──────────────────────

func (s *plannerService) Catalog(_ context.Context) (*dto.CatalogResponse, error) {
	catalog := planner.GenerateCatalog(s.cfg.VariantsPerSlot)
	resp := &dto.CatalogResponse{
		VariantsPerSlot: s.cfg.VariantsPerSlot,
		Professors:      planner.Professors(),
		Courses:         make([]dto.CourseResponse, 0, len(catalog)),
	}
	for _, c := range catalog {
		resp.Courses = append(resp.Courses, *dto.NewCourseResponse(c))
	}
	return resp, nil
}

// ── 内部方法 ──

func (s *plannerService) latest(ctx context.Context, sessionID string) (*model.GeneratedSchedule, error) {
	record, err := s.repo.Schedule.GetLatestBySession(ctx, sessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("查询课表失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return record, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
