package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"schedule-planner/internal/model"
	"schedule-planner/internal/repository"
	pkgerrors "schedule-planner/pkg/errors"
)

// ── Mock PreferenceRepository ──

type mockPreferenceRepo struct {
	profiles  map[string]*model.PreferenceProfile // session_id → profile
	getErr    error
	updateErr error
	writes    int
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{profiles: make(map[string]*model.PreferenceProfile)}
}

func (m *mockPreferenceRepo) Create(_ context.Context, profile *model.PreferenceProfile) error {
	if profile.ProfileID == "" {
		profile.ProfileID = "profile-" + profile.SessionID
	}
	profile.Version = 1
	cp := *profile
	m.profiles[profile.SessionID] = &cp
	m.writes++
	return nil
}

func (m *mockPreferenceRepo) GetBySession(_ context.Context, sessionID string) (*model.PreferenceProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.profiles[sessionID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPreferenceRepo) Update(_ context.Context, profile *model.PreferenceProfile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.profiles[profile.SessionID]
	if !ok || stored.Version != profile.Version {
		return pkgerrors.ErrOptimisticLock
	}
	profile.Version++
	cp := *profile
	m.profiles[profile.SessionID] = &cp
	m.writes++
	return nil
}

func (m *mockPreferenceRepo) DeleteBySession(_ context.Context, sessionID string) error {
	delete(m.profiles, sessionID)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules []*model.GeneratedSchedule
	createErr error
	seq       int
	base      time.Time
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{base: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *mockScheduleRepo) Create(_ context.Context, schedule *model.GeneratedSchedule) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	if schedule.ScheduleID == "" {
		schedule.ScheduleID = fmt.Sprintf("sched-%d", m.seq)
	}
	schedule.CreatedAt = m.base.Add(time.Duration(m.seq) * time.Minute)
	m.schedules = append(m.schedules, schedule)
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.GeneratedSchedule, error) {
	for _, s := range m.schedules {
		if s.ScheduleID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetLatestBySession(_ context.Context, sessionID string) (*model.GeneratedSchedule, error) {
	list := m.bySession(sessionID)
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return list[0], nil
}

func (m *mockScheduleRepo) ListBySession(_ context.Context, sessionID string, offset, limit int) ([]model.GeneratedSchedule, int64, error) {
	list := m.bySession(sessionID)
	total := int64(len(list))
	if offset >= len(list) {
		return []model.GeneratedSchedule{}, total, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	result := make([]model.GeneratedSchedule, 0, end-offset)
	for _, s := range list[offset:end] {
		result = append(result, *s)
	}
	return result, total, nil
}

func (m *mockScheduleRepo) DeleteBySessionExcept(_ context.Context, sessionID, keepID string) error {
	kept := m.schedules[:0]
	for _, s := range m.schedules {
		if s.SessionID != sessionID || s.ScheduleID == keepID {
			kept = append(kept, s)
		}
	}
	m.schedules = kept
	return nil
}

// bySession 按创建时间倒序
func (m *mockScheduleRepo) bySession(sessionID string) []*model.GeneratedSchedule {
	var list []*model.GeneratedSchedule
	for _, s := range m.schedules {
		if s.SessionID == sessionID {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

// ── Mock PreferenceCache ──

type mockCache struct {
	data   map[string][]byte
	getErr error
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) SetPreferences(_ context.Context, sessionID string, payload []byte, _ time.Duration) error {
	m.data[sessionID] = append([]byte(nil), payload...)
	return nil
}

func (m *mockCache) GetPreferences(_ context.Context, sessionID string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.data[sessionID]
	return b, ok, nil
}

func (m *mockCache) DeletePreferences(_ context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

// ── 测试辅助 ──

type testDeps struct {
	prefRepo  *mockPreferenceRepo
	schedRepo *mockScheduleRepo
	cache     *mockCache
	repo      *repository.Repository
}

func newTestDeps() *testDeps {
	d := &testDeps{
		prefRepo:  newMockPreferenceRepo(),
		schedRepo: newMockScheduleRepo(),
		cache:     newMockCache(),
	}
	d.repo = &repository.Repository{Preference: d.prefRepo, Schedule: d.schedRepo}
	return d
}
