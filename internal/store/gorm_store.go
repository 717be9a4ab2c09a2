package store

import (
	"errors"
	"time"

	"defense_panel/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore — реализация Store поверх gorm/Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transact оборачивает fn в транзакцию базы (read committed по умолчанию
// в Postgres; сериализацию даёт блокировка строки преподавателя).
func (s *GormStore) Transact(fn func(tx Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) GetSlot(id uint) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	if err := s.db.First(&slot, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &slot, nil
}

func (s *GormStore) ListSlots() ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	err := s.db.Order("date ASC, start_time ASC").Find(&slots).Error
	return slots, err
}

func (s *GormStore) SaveSlot(slot *models.ScheduleSlot) error {
	return s.db.Save(slot).Error
}

// AddSlotAssigned инкрементирует счётчик прямо в SQL: параллельные
// назначения разных преподавателей не теряют обновления, а UpdateColumn
// не трогает другие поля слота (в т.ч. reminder_sent из планировщика).
func (s *GormStore) AddSlotAssigned(slotID uint, delta int) error {
	return s.db.Model(&models.ScheduleSlot{}).
		Where("id = ?", slotID).
		UpdateColumn("assigned_count", gorm.Expr("assigned_count + ?", delta)).Error
}

func (s *GormStore) SlotsBetween(from, to time.Time) ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	err := s.db.Where("date BETWEEN ? AND ?", from, to).Find(&slots).Error
	return slots, err
}

func (s *GormStore) DeleteSlotsEndedBefore(t time.Time) error {
	var ids []uint
	if err := s.db.Model(&models.ScheduleSlot{}).Where("date < ?", t).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.Where("slot_id IN ?", ids).Delete(&models.Assignment{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.ScheduleSlot{}, ids).Error
}

func (s *GormStore) GetPanelist(id uint) (*models.Panelist, error) {
	var p models.Panelist
	if err := s.db.First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *GormStore) GetPanelistForUpdate(id uint) (*models.Panelist, error) {
	var p models.Panelist
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *GormStore) ListPanelists() ([]models.Panelist, error) {
	var ps []models.Panelist
	err := s.db.Order("surname ASC, name ASC").Find(&ps).Error
	return ps, err
}

func (s *GormStore) ListWindowsByDay(day time.Weekday) ([]models.AvailabilityWindow, error) {
	var ws []models.AvailabilityWindow
	err := s.db.Where("day_of_week = ?", day).Find(&ws).Error
	return ws, err
}

func (s *GormStore) GetAssignment(id uint) (*models.Assignment, error) {
	var a models.Assignment
	if err := s.db.Preload("Slot").First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// GetAssignmentForUpdate читает назначение с SELECT ... FOR UPDATE:
// после взятия блокировки виден последний зафиксированный Active,
// поэтому повторная отмена того же назначения детерминированно
// получает ErrNotFound. Без Preload — FOR UPDATE не сочетается с JOIN.
func (s *GormStore) GetAssignmentForUpdate(id uint) (*models.Assignment, error) {
	var a models.Assignment
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *GormStore) CreateAssignment(a *models.Assignment) error {
	return s.db.Create(a).Error
}

func (s *GormStore) SaveAssignment(a *models.Assignment) error {
	return s.db.Save(a).Error
}

func (s *GormStore) ActiveAssignments(panelistID uint) ([]models.Assignment, error) {
	var as []models.Assignment
	err := s.db.Preload("Slot").
		Where("panelist_id = ? AND active", panelistID).
		Find(&as).Error
	return as, err
}

func (s *GormStore) ActiveAssignmentsBySlot(slotID uint) ([]models.Assignment, error) {
	var as []models.Assignment
	err := s.db.Preload("Panelist").
		Where("slot_id = ? AND active", slotID).
		Find(&as).Error
	return as, err
}

func (s *GormStore) AddGroupAssigned(groupID uint, delta int) error {
	return s.db.Model(&models.DefenseGroup{}).
		Where("id = ?", groupID).
		UpdateColumn("assigned_count", gorm.Expr("assigned_count + ?", delta)).Error
}

func (s *GormStore) GetUser(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *GormStore) CreateUser(u *models.User) error {
	return s.db.Create(u).Error
}
