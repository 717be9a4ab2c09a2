package availability

import (
	"defense_panel/internal/models"
	"defense_panel/internal/store"
)

// Matcher отбирает преподавателей, чья недельная доступность целиком
// покрывает окно слота. Только чтение, никаких записей.
type Matcher struct {
	st store.Store
}

func NewMatcher(st store.Store) *Matcher {
	return &Matcher{st: st}
}

// EligiblePanelists возвращает множество ID преподавателей, у которых
// есть окно в день недели слота с window.start <= slot.start и
// window.end >= slot.end. Частичное пересечение не считается:
// доступный с 9 до 11 не подходит для слота 10–12.
func (m *Matcher) EligiblePanelists(slot *models.ScheduleSlot) (map[uint]struct{}, error) {
	start, end, err := slot.Interval()
	if err != nil || start >= end {
		return nil, store.ErrInvalidSlot
	}

	windows, err := m.st.ListWindowsByDay(slot.Weekday())
	if err != nil {
		return nil, err
	}

	eligible := make(map[uint]struct{})
	for _, w := range windows {
		if w.Contains(start, end) {
			eligible[w.PanelistID] = struct{}{}
		}
	}
	return eligible, nil
}
