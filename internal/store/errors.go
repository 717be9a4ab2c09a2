package store

import "errors"

// Ошибки бизнес-правил и хранилища. Обработчики сопоставляют их
// с HTTP-кодами через errors.Is.
var (
	// ErrInvalidSlot — у слота некорректное окно времени (start >= end
	// или нечитаемый формат).
	ErrInvalidSlot = errors.New("некорректное окно слота")

	// ErrNotFound — слот, преподаватель или назначение не найдены.
	ErrNotFound = errors.New("запись не найдена")

	// ErrPanelistStatusInvalid — преподаватель не в статусе active.
	ErrPanelistStatusInvalid = errors.New("преподаватель не активен")

	// ErrPanelistIneligible — доступность преподавателя не покрывает слот.
	ErrPanelistIneligible = errors.New("преподаватель недоступен в это время")

	// ErrSlotConflict — пересечение с существующим активным назначением.
	ErrSlotConflict = errors.New("пересечение с другим назначением")

	// ErrPersistence — сбой транзакции или хранилища; наружу уходит
	// без внутренних деталей.
	ErrPersistence = errors.New("ошибка хранилища")
)

// IsBusinessError сообщает, относится ли ошибка к пользовательским
// правилам (а не к сбою хранилища).
func IsBusinessError(err error) bool {
	return errors.Is(err, ErrInvalidSlot) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPanelistStatusInvalid) ||
		errors.Is(err, ErrPanelistIneligible) ||
		errors.Is(err, ErrSlotConflict)
}
