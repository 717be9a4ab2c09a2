package models

import (
	"time"

	"gorm.io/gorm"
)

// User — учётная запись администратора деканата.
type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Surname      string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

// Статусы члена комиссии.
const (
	PanelistPending  = "pending"
	PanelistActive   = "active"
	PanelistDisabled = "disabled"
)

// Panelist — преподаватель, который может входить в комиссию по защите.
// Справочные данные, ядро назначений их не изменяет.
type Panelist struct {
	gorm.Model
	Name       string `gorm:"not null"`
	Surname    string `gorm:"not null"`
	Department string `gorm:"not null"`
	Expertise  string // Список тегов через запятую, например "ML,CV,базы данных"
	Status     string `gorm:"index;not null;default:pending"` // pending / active / disabled
}

// AvailabilityWindow — еженедельное окно доступности преподавателя.
// Времена хранятся строками "HH:MM" в административном часовом поясе.
type AvailabilityWindow struct {
	gorm.Model
	PanelistID uint         `gorm:"index;not null"`
	Panelist   Panelist     `gorm:"foreignKey:PanelistID"`
	DayOfWeek  time.Weekday `gorm:"index;not null"`     // 0 = воскресенье ... 6 = суббота
	StartTime  string       `gorm:"type:time;not null"` // "09:00"
	EndTime    string       `gorm:"type:time;not null"` // "12:00"
}

// DefenseGroup — учебная группа, чьи студенты защищаются в слоте.
type DefenseGroup struct {
	gorm.Model
	Number        string `gorm:"uniqueIndex;not null"` // Номер группы, например "ИУ5-83"
	AssignedCount int    `gorm:"not null;default:0"`   // Сколько назначений сделано по слотам группы
}

// ScheduleSlot — слот защиты: дата и интервал времени, требующий комиссии.
type ScheduleSlot struct {
	gorm.Model
	Title         string    `gorm:"not null"`       // Название защиты
	Date          time.Time `gorm:"index;not null"` // Календарная дата защиты
	StartTime     string    `gorm:"type:time;not null"`
	EndTime       string    `gorm:"type:time;not null"`
	GroupID       *uint     `gorm:"index"` // Слот может быть не привязан к группе
	Group         *DefenseGroup
	AssignedCount int  `gorm:"not null;default:0"` // Число активных назначений в слоте
	ReminderSent  bool `gorm:"default:false"`      // Напоминание о защите уже разослано
}

// Assignment — назначение преподавателя в комиссию слота.
// При снятии назначения строка не удаляется, а помечается неактивной,
// чтобы сохранить историю; в проверках пересечений участвуют только активные.
type Assignment struct {
	gorm.Model
	SlotID     uint         `gorm:"index;not null"`
	Slot       ScheduleSlot `gorm:"foreignKey:SlotID"`
	PanelistID uint         `gorm:"index;not null"`
	Panelist   Panelist     `gorm:"foreignKey:PanelistID"`
	Active     bool         `gorm:"index;not null;default:true"`
}
