package dispatch

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNotifier struct {
	mu       sync.Mutex
	failures int // сколько первых вызовов завершить ошибкой
	calls    int
	events   []NotificationEvent
}

func (f *fakeNotifier) Notify(ev NotificationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return errors.New("почтовый сервер недоступен")
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (f *fakeAudit) Record(ev AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func TestDeliver_NotificationAndAudit(t *testing.T) {
	n := &fakeNotifier{}
	a := &fakeAudit{}
	d := NewDispatcher(n, a)

	d.deliver(event{kind: "assigned", actor: 7, panelistID: 3, slotID: 5, occurredAt: time.Now(), withAudit: true})

	assert.Len(t, n.events, 1)
	assert.Equal(t, "assigned", n.events[0].Kind)
	assert.Equal(t, uint(3), n.events[0].PanelistID)
	assert.Len(t, a.events, 1)
	assert.Equal(t, uint(7), a.events[0].Actor)
	assert.Equal(t, uint(5), a.events[0].SlotID)
}

func TestDeliver_RetriesThenSucceeds(t *testing.T) {
	n := &fakeNotifier{failures: 2}
	a := &fakeAudit{}
	d := NewDispatcher(n, a)

	d.deliver(event{kind: "assigned", panelistID: 1, slotID: 2, withAudit: true})

	// Две неудачные попытки, третья успешная.
	assert.Equal(t, 3, n.calls)
	assert.Len(t, n.events, 1)
	// Сбой нотификатора не мешает записи аудита.
	assert.Len(t, a.events, 1)
}

func TestDeliver_GivesUpAfterMaxAttempts(t *testing.T) {
	n := &fakeNotifier{failures: 10}
	a := &fakeAudit{}
	d := NewDispatcher(n, a)

	// Не должно ни паниковать, ни зависать: ошибка доставки локальна.
	d.deliver(event{kind: "unassigned", panelistID: 1, slotID: 2, withAudit: true})

	assert.Equal(t, maxAttempts, n.calls)
	assert.Empty(t, n.events)
	assert.Len(t, a.events, 1)
}

func TestWithRetry_NoPauseAfterLastAttempt(t *testing.T) {
	calls := 0
	started := time.Now()
	err := withRetry(func() error {
		calls++
		return errors.New("почтовый сервер недоступен")
	})
	elapsed := time.Since(started)

	assert.Error(t, err)
	assert.Equal(t, maxAttempts, calls)
	// Паузы только между попытками: 100 мс + 200 мс. Лишние 300 мс
	// после последней неудачи означали бы сон впустую.
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestReminder_SkipsAudit(t *testing.T) {
	n := &fakeNotifier{}
	a := &fakeAudit{}
	d := NewDispatcher(n, a)

	go d.Run()
	d.Remind(4, 9)

	assert.Eventually(t, func() bool {
		n.mu.Lock()
		defer n.mu.Unlock()
		return len(n.events) == 1
	}, time.Second, 10*time.Millisecond)

	a.mu.Lock()
	defer a.mu.Unlock()
	assert.Empty(t, a.events)
}
