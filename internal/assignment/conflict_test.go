package assignment

import (
	"testing"
	"time"

	"defense_panel/internal/models"
	"defense_panel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Вторник, 3 июня 2025.
var tuesday = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

func seedAssigned(t *testing.T, st *store.MemoryStore, panelistID uint, date time.Time, start, end string, active bool) *models.ScheduleSlot {
	t.Helper()
	slot := &models.ScheduleSlot{Title: "Занятая защита", Date: date, StartTime: start, EndTime: end}
	st.AddSlot(slot)
	err := st.CreateAssignment(&models.Assignment{SlotID: slot.ID, PanelistID: panelistID, Active: active})
	require.NoError(t, err)
	return slot
}

func TestHasConflict_HalfOpenIntervals(t *testing.T) {
	st := store.NewMemoryStore()
	p := &models.Panelist{Name: "Олег", Surname: "Сидоров", Department: "ИУ7", Status: models.PanelistActive}
	st.AddPanelist(p)
	seedAssigned(t, st, p.ID, tuesday, "10:00", "11:00", true)

	// Встык после занятой защиты — конфликта нет.
	next := &models.ScheduleSlot{Date: tuesday, StartTime: "11:00", EndTime: "12:00"}
	conflict, err := HasConflict(st, p.ID, next)
	require.NoError(t, err)
	assert.False(t, conflict)

	// Встык до занятой защиты — конфликта нет.
	prev := &models.ScheduleSlot{Date: tuesday, StartTime: "09:00", EndTime: "10:00"}
	conflict, err = HasConflict(st, p.ID, prev)
	require.NoError(t, err)
	assert.False(t, conflict)

	// Частичное пересечение — конфликт.
	overlap := &models.ScheduleSlot{Date: tuesday, StartTime: "10:30", EndTime: "11:30"}
	conflict, err = HasConflict(st, p.ID, overlap)
	require.NoError(t, err)
	assert.True(t, conflict)

	// Новый слот целиком накрывает занятый — конфликт.
	cover := &models.ScheduleSlot{Date: tuesday, StartTime: "09:00", EndTime: "13:00"}
	conflict, err = HasConflict(st, p.ID, cover)
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestHasConflict_OtherDateIgnored(t *testing.T) {
	st := store.NewMemoryStore()
	p := &models.Panelist{Name: "Олег", Surname: "Сидоров", Department: "ИУ7", Status: models.PanelistActive}
	st.AddPanelist(p)
	seedAssigned(t, st, p.ID, tuesday, "10:00", "11:00", true)

	sameTimeNextDay := &models.ScheduleSlot{Date: tuesday.AddDate(0, 0, 1), StartTime: "10:00", EndTime: "11:00"}
	conflict, err := HasConflict(st, p.ID, sameTimeNextDay)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestHasConflict_CancelledIgnored(t *testing.T) {
	st := store.NewMemoryStore()
	p := &models.Panelist{Name: "Олег", Surname: "Сидоров", Department: "ИУ7", Status: models.PanelistActive}
	st.AddPanelist(p)
	// Снятая запись в проверке не участвует.
	seedAssigned(t, st, p.ID, tuesday, "10:00", "11:00", false)

	overlap := &models.ScheduleSlot{Date: tuesday, StartTime: "10:30", EndTime: "11:30"}
	conflict, err := HasConflict(st, p.ID, overlap)
	require.NoError(t, err)
	assert.False(t, conflict)
}
