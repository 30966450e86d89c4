package service

import (
	"testing"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHabitRepo struct {
	habits map[string]*model.Habit
}

func newFakeHabitRepo() *fakeHabitRepo {
	return &fakeHabitRepo{habits: make(map[string]*model.Habit)}
}

func (r *fakeHabitRepo) Create(habit *model.Habit) error {
	r.habits[habit.ID] = habit
	return nil
}

func (r *fakeHabitRepo) ByID(userID, habitID string, withDeleted bool) (*model.Habit, error) {
	h, ok := r.habits[habitID]
	if !ok || h.UserID != userID || (!withDeleted && h.IsDeleted()) {
		return nil, repository.ErrHabitNotFound
	}
	return h, nil
}

func (r *fakeHabitRepo) Habits(userID string, withDeleted bool) ([]*model.Habit, error) {
	var out []*model.Habit
	for _, h := range r.habits {
		if h.UserID == userID && (withDeleted || !h.IsDeleted()) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHabitRepo) Update(habit *model.Habit) error {
	if _, ok := r.habits[habit.ID]; !ok {
		return repository.ErrHabitNotFound
	}
	r.habits[habit.ID] = habit
	return nil
}

func (r *fakeHabitRepo) SoftDelete(userID, habitID string) error {
	h, err := r.ByID(userID, habitID, false)
	if err != nil {
		return err
	}
	now := time.Now()
	h.DeletedAt = &now
	return nil
}

func (r *fakeHabitRepo) Restore(userID, habitID string) error {
	h, err := r.ByID(userID, habitID, true)
	if err != nil {
		return err
	}
	h.DeletedAt = nil
	return nil
}

type fakeCompletionRepo struct {
	completions []*model.HabitCompletion
}

func (r *fakeCompletionRepo) Insert(completion *model.HabitCompletion) error {
	r.completions = append(r.completions, completion)
	return nil
}

func (r *fakeCompletionRepo) ByHabit(habitID string, limit int) ([]*model.HabitCompletion, error) {
	var out []*model.HabitCompletion
	for _, c := range r.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCompletionRepo) CountByUser(userID string) (int, error) {
	n := 0
	for _, c := range r.completions {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeCompletionRepo) DeleteByHabit(habitID string) (int64, error) {
	kept := r.completions[:0]
	var deleted int64
	for _, c := range r.completions {
		if c.HabitID == habitID {
			deleted++
		} else {
			kept = append(kept, c)
		}
	}
	r.completions = kept
	return deleted, nil
}

type fakeAnalyticsRepo struct {
	byHabit map[string]*model.HabitAnalytics
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{byHabit: make(map[string]*model.HabitAnalytics)}
}

func (r *fakeAnalyticsRepo) ByHabitID(habitID string) (*model.HabitAnalytics, error) {
	a, ok := r.byHabit[habitID]
	if !ok {
		return nil, repository.ErrAnalyticsNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAnalyticsRepo) Save(analytics *model.HabitAnalytics) error {
	copied := *analytics
	r.byHabit[analytics.HabitID] = &copied
	return nil
}

type fakeReminderRepo struct {
	reminders []*model.HabitReminder
}

func (r *fakeReminderRepo) Create(reminder *model.HabitReminder) error {
	r.reminders = append(r.reminders, reminder)
	return nil
}

func (r *fakeReminderRepo) ByHabit(habitID string) ([]*model.HabitReminder, error) {
	var out []*model.HabitReminder
	for _, rem := range r.reminders {
		if rem.HabitID == habitID {
			out = append(out, rem)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) DeleteByHabit(habitID string) error {
	kept := r.reminders[:0]
	for _, rem := range r.reminders {
		if rem.HabitID != habitID {
			kept = append(kept, rem)
		}
	}
	r.reminders = kept
	return nil
}

func newTestHabitService() (*HabitService, *fakeHabitRepo, *fakeCompletionRepo, *fakeAnalyticsRepo, *fakeReminderRepo) {
	habits := newFakeHabitRepo()
	completions := &fakeCompletionRepo{}
	analytics := newFakeAnalyticsRepo()
	reminders := &fakeReminderRepo{}
	return NewHabitService(habits, completions, analytics, reminders), habits, completions, analytics, reminders
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 10, 0, 0, 0, time.UTC)
}

func TestHabitCreateDefaults(t *testing.T) {
	svc, _, _, analytics, reminders := newTestHabitService()

	habit, err := svc.Create("user-1", "Morning run", "")
	require.NoError(t, err)
	assert.Equal(t, model.FrequencyDaily, habit.Frequency)
	assert.True(t, habit.Active)

	// Zeroed analytics row and a default reminder come with the habit.
	a, err := analytics.ByHabitID(habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, a.TotalCompletions)

	rems, err := reminders.ByHabit(habit.ID)
	require.NoError(t, err)
	require.Len(t, rems, 1)
	assert.Equal(t, "09:00", rems[0].ReminderTime)
}

func TestHabitCreateRejectsBadInput(t *testing.T) {
	svc, _, _, _, _ := newTestHabitService()

	_, err := svc.Create("user-1", "", "daily")
	assert.ErrorIs(t, err, ErrHabitNameEmpty)

	_, err = svc.Create("user-1", "Read", "hourly")
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestHabitCompleteBuildsStreak(t *testing.T) {
	svc, _, completions, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	for d := 1; d <= 3; d++ {
		a, err := svc.Complete("user-1", habit.ID, day(d))
		require.NoError(t, err)
		assert.Equal(t, d, a.CurrentStreak)
		assert.Equal(t, d, a.TotalCompletions)
	}

	// Gap resets the current streak, longest survives.
	a, err := svc.Complete("user-1", habit.ID, day(5))
	require.NoError(t, err)
	assert.Equal(t, 1, a.CurrentStreak)
	assert.Equal(t, 3, a.LongestStreak)
	assert.Equal(t, 4, a.TotalCompletions)

	assert.Len(t, completions.completions, 4)
}

func TestHabitCompleteIgnoresOutOfOrder(t *testing.T) {
	svc, _, completions, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	_, err = svc.Complete("user-1", habit.ID, day(5))
	require.NoError(t, err)

	// An earlier instant is dropped without writing an event row.
	a, err := svc.Complete("user-1", habit.ID, day(3))
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalCompletions)
	assert.Len(t, completions.completions, 1)
}

func TestHabitCompleteSameDayIdempotent(t *testing.T) {
	svc, _, _, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	first := day(1)
	later := first.Add(5 * time.Hour)

	_, err = svc.Complete("user-1", habit.ID, first)
	require.NoError(t, err)

	a, err := svc.Complete("user-1", habit.ID, later)
	require.NoError(t, err)
	assert.Equal(t, 1, a.CurrentStreak)
	assert.Equal(t, 1, a.TotalCompletions)
	require.NotNil(t, a.LastCompleted)
	assert.True(t, a.LastCompleted.Equal(later))
}

func TestHabitCompleteUnknownHabit(t *testing.T) {
	svc, _, _, _, _ := newTestHabitService()

	_, err := svc.Complete("user-1", "missing", day(1))
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)
}

func TestHabitCompleteScopedToOwner(t *testing.T) {
	svc, _, _, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	_, err = svc.Complete("user-2", habit.ID, day(1))
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)
}

func TestHabitResetHistory(t *testing.T) {
	svc, _, completions, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	for d := 1; d <= 3; d++ {
		_, err = svc.Complete("user-1", habit.ID, day(d))
		require.NoError(t, err)
	}

	err = svc.ResetHistory("user-1", habit.ID)
	require.NoError(t, err)

	assert.Empty(t, completions.completions)

	a, err := svc.Analytics("user-1", habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, a.TotalCompletions)
	assert.Equal(t, 0, a.CurrentStreak)
	assert.Equal(t, 0, a.LongestStreak)
	assert.Nil(t, a.LastCompleted)
}

func TestHabitSoftDeleteHidesHabit(t *testing.T) {
	svc, _, _, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	err = svc.Delete("user-1", habit.ID)
	require.NoError(t, err)

	_, err = svc.ByID("user-1", habit.ID)
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)

	_, err = svc.Complete("user-1", habit.ID, day(1))
	assert.ErrorIs(t, err, repository.ErrHabitNotFound)
}

func TestHabitAddReminderValidatesTime(t *testing.T) {
	svc, _, _, _, _ := newTestHabitService()
	habit, err := svc.Create("user-1", "Read", "daily")
	require.NoError(t, err)

	_, err = svc.AddReminder("user-1", habit.ID, "25:99", "")
	assert.Error(t, err)

	reminder, err := svc.AddReminder("user-1", habit.ID, "07:30", "")
	require.NoError(t, err)
	assert.Equal(t, "07:30", reminder.ReminderTime)
	assert.NotEmpty(t, reminder.Message)
}
