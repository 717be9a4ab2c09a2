package store

import (
	"time"

	"defense_panel/internal/models"
)

// Store — доступ к данным планирования. Реализации: GormStore (Postgres)
// и MemoryStore (для тестов сервиса без базы).
type Store interface {
	// Transact выполняет fn в одной транзакции: при ошибке все записи
	// откатываются. Вложенный вызов выполняется в той же транзакции.
	Transact(fn func(tx Store) error) error

	// Слоты защит.
	GetSlot(id uint) (*models.ScheduleSlot, error)
	ListSlots() ([]models.ScheduleSlot, error)
	SaveSlot(slot *models.ScheduleSlot) error
	SlotsBetween(from, to time.Time) ([]models.ScheduleSlot, error)
	DeleteSlotsEndedBefore(t time.Time) error
	// AddSlotAssigned атомарно меняет счётчик занятых мест слота,
	// не перезаписывая остальные поля строки.
	AddSlotAssigned(slotID uint, delta int) error

	// Преподаватели и их доступность (только чтение для ядра).
	GetPanelist(id uint) (*models.Panelist, error)
	// GetPanelistForUpdate блокирует строку преподавателя до конца
	// транзакции — точка сериализации конкурирующих назначений.
	GetPanelistForUpdate(id uint) (*models.Panelist, error)
	ListPanelists() ([]models.Panelist, error)
	ListWindowsByDay(day time.Weekday) ([]models.AvailabilityWindow, error)

	// Назначения.
	GetAssignment(id uint) (*models.Assignment, error)
	// GetAssignmentForUpdate блокирует строку назначения до конца
	// транзакции: проверка Active после неё видит последнее
	// зафиксированное состояние, а не снимок на момент чтения.
	GetAssignmentForUpdate(id uint) (*models.Assignment, error)
	CreateAssignment(a *models.Assignment) error
	SaveAssignment(a *models.Assignment) error
	// ActiveAssignments возвращает активные назначения преподавателя
	// вместе со слотами.
	ActiveAssignments(panelistID uint) ([]models.Assignment, error)
	// ActiveAssignmentsBySlot возвращает активный состав комиссии слота
	// вместе с данными преподавателей.
	ActiveAssignmentsBySlot(slotID uint) ([]models.Assignment, error)

	// Группы.
	AddGroupAssigned(groupID uint, delta int) error

	// Администраторы.
	GetUser(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(u *models.User) error
}
