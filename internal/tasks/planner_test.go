package tasks

import (
	"sync"
	"testing"
	"time"

	"defense_panel/internal/dispatch"
	"defense_panel/internal/models"
	"defense_panel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []dispatch.NotificationEvent
}

func (c *captureNotifier) Notify(ev dispatch.NotificationEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

type noopAudit struct{}

func (noopAudit) Record(dispatch.AuditEvent) error { return nil }

func setupTasks(t *testing.T) (*store.MemoryStore, *captureNotifier) {
	t.Helper()
	ms := store.NewMemoryStore()
	notifier := &captureNotifier{}
	d := dispatch.NewDispatcher(notifier, noopAudit{})
	go d.Run()

	c := InitScheduler(ms, d)
	c.Stop()
	return ms, notifier
}

func TestRemindUpcomingDefenses(t *testing.T) {
	ms, notifier := setupTasks(t)

	p := &models.Panelist{Name: "Анна", Surname: "Смирнова", Department: "ИУ5", Status: models.PanelistActive}
	ms.AddPanelist(p)

	// Защита через два часа с назначенным преподавателем.
	soon := &models.ScheduleSlot{Title: "Скорая защита", Date: time.Now().Add(2 * time.Hour), StartTime: "10:00", EndTime: "11:00"}
	ms.AddSlot(soon)
	require.NoError(t, ms.CreateAssignment(&models.Assignment{SlotID: soon.ID, PanelistID: p.ID, Active: true}))

	// Защита через неделю — в окно напоминаний не попадает.
	far := &models.ScheduleSlot{Title: "Дальняя защита", Date: time.Now().AddDate(0, 0, 7), StartTime: "10:00", EndTime: "11:00"}
	ms.AddSlot(far)
	require.NoError(t, ms.CreateAssignment(&models.Assignment{SlotID: far.ID, PanelistID: p.ID, Active: true}))

	RemindUpcomingDefenses()

	assert.Eventually(t, func() bool {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		return len(notifier.events) == 1
	}, time.Second, 10*time.Millisecond)

	notifier.mu.Lock()
	ev := notifier.events[0]
	notifier.mu.Unlock()
	assert.Equal(t, "defense_reminder", ev.Kind)
	assert.Equal(t, soon.ID, ev.SlotID)
	assert.Equal(t, p.ID, ev.PanelistID)

	// Слот отмечен, повторный запуск напоминаний не дублирует.
	updated, err := ms.GetSlot(soon.ID)
	require.NoError(t, err)
	assert.True(t, updated.ReminderSent)

	RemindUpcomingDefenses()
	time.Sleep(50 * time.Millisecond)
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Len(t, notifier.events, 1)
}

func TestCleanOldSlots(t *testing.T) {
	ms, _ := setupTasks(t)

	old := &models.ScheduleSlot{Title: "Прошлогодняя защита", Date: time.Now().AddDate(0, -2, 0), StartTime: "10:00", EndTime: "11:00"}
	ms.AddSlot(old)
	fresh := &models.ScheduleSlot{Title: "Свежая защита", Date: time.Now(), StartTime: "10:00", EndTime: "11:00"}
	ms.AddSlot(fresh)

	CleanOldSlots()

	_, err := ms.GetSlot(old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = ms.GetSlot(fresh.ID)
	assert.NoError(t, err)
}
