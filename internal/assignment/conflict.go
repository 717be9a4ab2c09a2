package assignment

import (
	"defense_panel/internal/models"
	"defense_panel/internal/store"
)

// HasConflict проверяет, пересекается ли слот с активными назначениями
// преподавателя. Интервалы полуоткрытые: защиты "до 10:00" и "с 10:00"
// не конфликтуют.
func HasConflict(st store.Store, panelistID uint, slot *models.ScheduleSlot) (bool, error) {
	start, end, err := slot.Interval()
	if err != nil {
		return false, store.ErrInvalidSlot
	}

	existing, err := st.ActiveAssignments(panelistID)
	if err != nil {
		return false, err
	}

	for _, a := range existing {
		if !models.SameDate(a.Slot.Date, slot.Date) {
			continue
		}
		es, ee, err := a.Slot.Interval()
		if err != nil {
			// Нечитаемый интервал существующего слота считаем занятым,
			// чтобы не выдать двойное бронирование.
			return true, nil
		}
		if es < end && ee > start {
			return true, nil
		}
	}
	return false, nil
}
