package tasks

import (
	"log"
	"time"

	"defense_panel/internal/dispatch"
	"defense_panel/internal/store"

	"github.com/robfig/cron/v3"
)

var (
	st   store.Store
	disp *dispatch.Dispatcher
)

// RemindUpcomingDefenses ищет защиты, до которых осталось меньше 24 часов,
// и ставит напоминания членам комиссии в очередь диспетчера.
func RemindUpcomingDefenses() {
	now := time.Now()
	endWindow := now.Add(24 * time.Hour)

	slots, err := st.SlotsBetween(now.AddDate(0, 0, -1), endWindow)
	if err != nil {
		log.Println("Ошибка при поиске предстоящих защит:", err)
		return
	}

	for _, slot := range slots {
		if slot.ReminderSent || slot.Date.Before(now.Truncate(24*time.Hour)) {
			continue
		}

		assignments, err := st.ActiveAssignmentsBySlot(slot.ID)
		if err != nil {
			log.Println("Ошибка загрузки состава комиссии для напоминаний:", err)
			continue
		}
		for _, a := range assignments {
			disp.Remind(a.PanelistID, slot.ID)
		}

		slot.ReminderSent = true
		if err := st.SaveSlot(&slot); err != nil {
			log.Println("Ошибка отметки напоминания для слота", slot.ID, ":", err)
		} else {
			log.Printf("Напоминания по защите '%s' поставлены в очередь (%d адресатов).\n", slot.Title, len(assignments))
		}
	}
}

// CleanOldSlots удаляет слоты защит, прошедшие больше месяца назад,
// вместе с их назначениями.
func CleanOldSlots() {
	threshold := time.Now().AddDate(0, -1, 0)
	if err := st.DeleteSlotsEndedBefore(threshold); err != nil {
		log.Println("Ошибка при удалении устаревших слотов:", err)
	} else {
		log.Println("Устаревшие слоты защит успешно удалены.")
	}
}

// InitScheduler инициализирует планировщик cron-задач.
func InitScheduler(s store.Store, d *dispatch.Dispatcher) *cron.Cron {
	st = s
	disp = d

	c := cron.New(cron.WithSeconds())

	// Напоминания о предстоящих защитах каждые 15 минут.
	_, err := c.AddFunc("0 */15 * * * *", RemindUpcomingDefenses)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи RemindUpcomingDefenses:", err)
	}

	// Очистка устаревших слотов каждый день в 03:00.
	_, err = c.AddFunc("0 0 3 * * *", CleanOldSlots)
	if err != nil {
		log.Println("Ошибка запуска cron-задачи CleanOldSlots:", err)
	}

	c.Start()
	log.Println("Cron-планировщик запущен.")
	return c
}
