package repository

import (
	"context"

	"gorm.io/gorm"

	"schedule-planner/internal/model"
)

// ScheduleRepository 生成课表数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *model.GeneratedSchedule) error
	GetByID(ctx context.Context, id string) (*model.GeneratedSchedule, error)
	GetLatestBySession(ctx context.Context, sessionID string) (*model.GeneratedSchedule, error)
	ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.GeneratedSchedule, int64, error)
	DeleteBySessionExcept(ctx context.Context, sessionID, keepID string) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, schedule *model.GeneratedSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.GeneratedSchedule, error) {
	var schedule model.GeneratedSchedule
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) GetLatestBySession(ctx context.Context, sessionID string) (*model.GeneratedSchedule, error) {
	var schedule model.GeneratedSchedule
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) ListBySession(ctx context.Context, sessionID string, offset, limit int) ([]model.GeneratedSchedule, int64, error) {
	var schedules []model.GeneratedSchedule
	var total int64

	db := r.db.WithContext(ctx).Model(&model.GeneratedSchedule{}).
		Where("session_id = ?", sessionID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&schedules).Error
	return schedules, total, err
}

// DeleteBySessionExcept 仅保留 keepID 对应的课表（关闭历史记录时使用）
func (r *scheduleRepo) DeleteBySessionExcept(ctx context.Context, sessionID, keepID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND schedule_id <> ?", sessionID, keepID).
		Delete(&model.GeneratedSchedule{}).Error
}
