package dispatch

import (
	"log"
	"time"
)

// NotificationEvent — уведомление преподавателю о назначении,
// снятии или предстоящей защите.
type NotificationEvent struct {
	Kind       string    `json:"kind"` // assigned / unassigned / defense_reminder
	PanelistID uint      `json:"panelist_id"`
	SlotID     uint      `json:"slot_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditEvent — запись в журнал действий администратора.
type AuditEvent struct {
	Actor      uint      `json:"actor"` // ID администратора
	Action     string    `json:"action"`
	SlotID     uint      `json:"slot_id"`
	PanelistID uint      `json:"panelist_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier — внешний канал доставки уведомлений (почта и т.п.).
type Notifier interface {
	Notify(ev NotificationEvent) error
}

// AuditRecorder — внешний журнал аудита.
type AuditRecorder interface {
	Record(ev AuditEvent) error
}

// Число попыток доставки одного события.
const maxAttempts = 3

type event struct {
	kind       string
	actor      uint
	panelistID uint
	slotID     uint
	occurredAt time.Time
	withAudit  bool
}

// Dispatcher асинхронно передаёт события назначений внешним
// нотификатору и журналу аудита. Ошибки доставки логируются и никогда
// не возвращаются вызывающему: назначение уже зафиксировано в базе.
type Dispatcher struct {
	notifier Notifier
	audit    AuditRecorder
	events   chan event
}

func NewDispatcher(n Notifier, a AuditRecorder) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		audit:    a,
		events:   make(chan event, 256),
	}
}

// Run запускает цикл обработки событий; вызывается горутиной из main.
func (d *Dispatcher) Run() {
	for ev := range d.events {
		d.deliver(ev)
	}
}

// Assigned ставит в очередь события об успешном назначении.
func (d *Dispatcher) Assigned(actor, panelistID, slotID uint) {
	d.enqueue(event{
		kind:       "assigned",
		actor:      actor,
		panelistID: panelistID,
		slotID:     slotID,
		occurredAt: time.Now(),
		withAudit:  true,
	})
}

// Unassigned ставит в очередь события о снятии назначения.
func (d *Dispatcher) Unassigned(actor, panelistID, slotID uint) {
	d.enqueue(event{
		kind:       "unassigned",
		actor:      actor,
		panelistID: panelistID,
		slotID:     slotID,
		occurredAt: time.Now(),
		withAudit:  true,
	})
}

// Remind ставит в очередь напоминание о предстоящей защите
// (без записи в аудит — администратор здесь ни при чём).
func (d *Dispatcher) Remind(panelistID, slotID uint) {
	d.enqueue(event{
		kind:       "defense_reminder",
		panelistID: panelistID,
		slotID:     slotID,
		occurredAt: time.Now(),
	})
}

func (d *Dispatcher) enqueue(ev event) {
	select {
	case d.events <- ev:
	default:
		// Очередь переполнена: уведомление теряем, назначение — нет.
		log.Printf("Очередь событий переполнена, событие %s пропущено (панелист %d, слот %d)",
			ev.kind, ev.panelistID, ev.slotID)
	}
}

func (d *Dispatcher) deliver(ev event) {
	nev := NotificationEvent{
		Kind:       ev.kind,
		PanelistID: ev.panelistID,
		SlotID:     ev.slotID,
		OccurredAt: ev.occurredAt,
	}
	if err := withRetry(func() error { return d.notifier.Notify(nev) }); err != nil {
		log.Printf("Не удалось доставить уведомление %s (панелист %d, слот %d): %v",
			ev.kind, ev.panelistID, ev.slotID, err)
	}

	if !ev.withAudit {
		return
	}
	aev := AuditEvent{
		Actor:      ev.actor,
		Action:     ev.kind,
		SlotID:     ev.slotID,
		PanelistID: ev.panelistID,
		OccurredAt: ev.occurredAt,
	}
	if err := withRetry(func() error { return d.audit.Record(aev) }); err != nil {
		log.Printf("Не удалось записать аудит %s (админ %d, слот %d): %v",
			ev.kind, ev.actor, ev.slotID, err)
	}
}

func withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		// Пауза только между попытками: после последней неудачи
		// ждать уже нечего.
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return err
}

// LogNotifier пишет уведомления в лог — заглушка вместо почтового
// транспорта, который живёт во внешнем сервисе.
type LogNotifier struct{}

func (LogNotifier) Notify(ev NotificationEvent) error {
	log.Printf("Уведомление %s: панелист %d, слот %d", ev.Kind, ev.PanelistID, ev.SlotID)
	return nil
}

// LogAudit пишет события аудита в лог.
type LogAudit struct{}

func (LogAudit) Record(ev AuditEvent) error {
	log.Printf("Аудит %s: админ %d, панелист %d, слот %d", ev.Action, ev.Actor, ev.PanelistID, ev.SlotID)
	return nil
}
