package models

import (
	"fmt"
	"time"
)

// ClockMinutes переводит строку "HH:MM" в минуты от полуночи.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		// Postgres может вернуть time-колонку с секундами.
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, fmt.Errorf("неверный формат времени %q: %w", s, err)
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Weekday возвращает день недели даты слота.
func (s *ScheduleSlot) Weekday() time.Weekday {
	return s.Date.Weekday()
}

// Interval возвращает границы слота в минутах от полуночи.
func (s *ScheduleSlot) Interval() (start, end int, err error) {
	start, err = ClockMinutes(s.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ClockMinutes(s.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Contains сообщает, целиком ли окно покрывает интервал [start, end).
func (w *AvailabilityWindow) Contains(start, end int) bool {
	ws, err := ClockMinutes(w.StartTime)
	if err != nil {
		return false
	}
	we, err := ClockMinutes(w.EndTime)
	if err != nil {
		return false
	}
	return ws <= start && we >= end
}

// SameDate сравнивает календарные даты без учёта времени.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
