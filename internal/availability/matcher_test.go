package availability

import (
	"testing"
	"time"

	"defense_panel/internal/models"
	"defense_panel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Понедельник, 2 июня 2025.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func newSlot(date time.Time, start, end string) *models.ScheduleSlot {
	slot := &models.ScheduleSlot{Title: "Защита ВКР", Date: date, StartTime: start, EndTime: end}
	slot.ID = 100
	return slot
}

func TestEligiblePanelists_Containment(t *testing.T) {
	st := store.NewMemoryStore()
	p := &models.Panelist{Name: "Анна", Surname: "Смирнова", Department: "ИУ5", Status: models.PanelistActive}
	st.AddPanelist(p)
	st.AddWindow(models.AvailabilityWindow{
		PanelistID: p.ID,
		DayOfWeek:  time.Monday,
		StartTime:  "09:00",
		EndTime:    "12:00",
	})

	m := NewMatcher(st)

	// Слот целиком внутри окна — преподаватель подходит.
	eligible, err := m.EligiblePanelists(newSlot(monday, "10:00", "11:00"))
	require.NoError(t, err)
	assert.Contains(t, eligible, p.ID)

	// Слот выходит за левую границу окна — не подходит.
	eligible, err = m.EligiblePanelists(newSlot(monday, "08:00", "10:30"))
	require.NoError(t, err)
	assert.NotContains(t, eligible, p.ID)

	// Слот выходит за правую границу окна — не подходит.
	eligible, err = m.EligiblePanelists(newSlot(monday, "10:00", "12:30"))
	require.NoError(t, err)
	assert.NotContains(t, eligible, p.ID)

	// Слот, совпадающий с окном, подходит.
	eligible, err = m.EligiblePanelists(newSlot(monday, "09:00", "12:00"))
	require.NoError(t, err)
	assert.Contains(t, eligible, p.ID)
}

func TestEligiblePanelists_WrongDay(t *testing.T) {
	st := store.NewMemoryStore()
	p := &models.Panelist{Name: "Пётр", Surname: "Иванов", Department: "ИУ5", Status: models.PanelistActive}
	st.AddPanelist(p)
	st.AddWindow(models.AvailabilityWindow{
		PanelistID: p.ID,
		DayOfWeek:  time.Tuesday,
		StartTime:  "09:00",
		EndTime:    "18:00",
	})

	m := NewMatcher(st)
	eligible, err := m.EligiblePanelists(newSlot(monday, "10:00", "11:00"))
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestEligiblePanelists_SeveralWindows(t *testing.T) {
	st := store.NewMemoryStore()
	p := &models.Panelist{Name: "Мария", Surname: "Кузнецова", Department: "ИУ6", Status: models.PanelistActive}
	st.AddPanelist(p)
	// Два окна в один день: достаточно, чтобы слот покрыло любое из них.
	st.AddWindow(models.AvailabilityWindow{PanelistID: p.ID, DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "11:00"})
	st.AddWindow(models.AvailabilityWindow{PanelistID: p.ID, DayOfWeek: time.Monday, StartTime: "14:00", EndTime: "18:00"})

	m := NewMatcher(st)

	eligible, err := m.EligiblePanelists(newSlot(monday, "15:00", "17:00"))
	require.NoError(t, err)
	assert.Contains(t, eligible, p.ID)

	// Слот между окнами не покрыт ни одним.
	eligible, err = m.EligiblePanelists(newSlot(monday, "11:00", "14:00"))
	require.NoError(t, err)
	assert.NotContains(t, eligible, p.ID)
}

func TestEligiblePanelists_InvalidSlot(t *testing.T) {
	st := store.NewMemoryStore()
	m := NewMatcher(st)

	_, err := m.EligiblePanelists(newSlot(monday, "12:00", "10:00"))
	assert.ErrorIs(t, err, store.ErrInvalidSlot)

	_, err = m.EligiblePanelists(newSlot(monday, "10:00", "10:00"))
	assert.ErrorIs(t, err, store.ErrInvalidSlot)

	_, err = m.EligiblePanelists(newSlot(monday, "abc", "10:00"))
	assert.ErrorIs(t, err, store.ErrInvalidSlot)
}
