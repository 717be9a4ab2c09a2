package assignment

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"defense_panel/internal/models"
	"defense_panel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowLockStore воспроизводит поведение Postgres ближе, чем MemoryStore:
// транзакция НЕ держит общий мьютекс на всё хранилище, блокируются
// только строки, прочитанные через *ForUpdate, и держатся они до конца
// Transact. Остальные чтения и записи видят текущее зафиксированное
// состояние — как при read committed. На таком хранилище гонки,
// которые общий мьютекс MemoryStore маскирует, проявляются.
type rowLockStore struct {
	*store.MemoryStore
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRowLockStore(inner *store.MemoryStore) *rowLockStore {
	return &rowLockStore{MemoryStore: inner, locks: make(map[string]*sync.Mutex)}
}

func (s *rowLockStore) lockRow(key string) func() {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *rowLockStore) Transact(fn func(tx store.Store) error) error {
	tx := &rowLockTx{MemoryStore: s.MemoryStore, parent: s}
	defer tx.release()
	return fn(tx)
}

type rowLockTx struct {
	*store.MemoryStore
	parent  *rowLockStore
	unlocks []func()
}

func (t *rowLockTx) release() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
}

func (t *rowLockTx) Transact(fn func(tx store.Store) error) error {
	return fn(t)
}

func (t *rowLockTx) GetPanelistForUpdate(id uint) (*models.Panelist, error) {
	t.unlocks = append(t.unlocks, t.parent.lockRow(fmt.Sprintf("panelist/%d", id)))
	return t.MemoryStore.GetPanelist(id)
}

func (t *rowLockTx) GetAssignmentForUpdate(id uint) (*models.Assignment, error) {
	t.unlocks = append(t.unlocks, t.parent.lockRow(fmt.Sprintf("assignment/%d", id)))
	return t.MemoryStore.GetAssignment(id)
}

type rowLockEnv struct {
	mem   *store.MemoryStore
	svc   *Service
	group *models.DefenseGroup
	slot  *models.ScheduleSlot
}

func newRowLockEnv(t *testing.T) *rowLockEnv {
	t.Helper()

	mem := store.NewMemoryStore()
	g := &models.DefenseGroup{Number: "ИУ5-83"}
	mem.AddGroup(g)
	slot := &models.ScheduleSlot{Title: "Защита ВКР", Date: monday, StartTime: "10:00", EndTime: "11:00", GroupID: &g.ID}
	mem.AddSlot(slot)

	return &rowLockEnv{
		mem:   mem,
		svc:   NewService(newRowLockStore(mem), nil),
		group: g,
		slot:  slot,
	}
}

func (e *rowLockEnv) addActivePanelist(t *testing.T, surname string) *models.Panelist {
	t.Helper()
	p := &models.Panelist{Name: "Анна", Surname: surname, Department: "ИУ5", Status: models.PanelistActive}
	e.mem.AddPanelist(p)
	e.mem.AddWindow(models.AvailabilityWindow{PanelistID: p.ID, DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "18:00"})
	return p
}

// Два администратора одновременно назначают РАЗНЫХ преподавателей в
// один слот. Блокировки строк преподавателей не пересекаются, поэтому
// счётчик слота обязан обновляться атомарным инкрементом, иначе одно
// из двух обновлений теряется.
func TestAssign_ConcurrentDifferentPanelistsSameSlot(t *testing.T) {
	env := newRowLockEnv(t)
	p1 := env.addActivePanelist(t, "Смирнова")
	p2 := env.addActivePanelist(t, "Иванова")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, p := range []*models.Panelist{p1, p2} {
		wg.Add(1)
		go func(i int, pid uint) {
			defer wg.Done()
			_, errs[i] = env.svc.Assign(1, pid, env.slot.ID)
		}(i, p.ID)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	as, err := env.mem.ActiveAssignmentsBySlot(env.slot.ID)
	require.NoError(t, err)
	require.Len(t, as, 2)

	slot, err := env.mem.GetSlot(env.slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, slot.AssignedCount, "счётчик слота должен учесть оба назначения")
	g, err := env.mem.GetGroup(env.group.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, g.AssignedCount)
}

// Двойной клик по «снять»: два конкурирующих снятия одного назначения.
// Проверка Active идёт после блокировки строки назначения, поэтому
// вторая транзакция видит уже неактивную строку и получает NOT_FOUND,
// а счётчики уменьшаются ровно один раз.
func TestUnassign_ConcurrentSameAssignment(t *testing.T) {
	env := newRowLockEnv(t)
	p := env.addActivePanelist(t, "Смирнова")

	a, err := env.svc.Assign(1, p.ID, env.slot.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Unassign(uint(i+1), a.ID)
		}(i)
	}
	wg.Wait()

	success, notFound := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			success++
		case assert.ErrorIs(t, err, store.ErrNotFound):
			notFound++
		}
	}
	assert.Equal(t, 1, success, "снятие должно пройти ровно один раз")
	assert.Equal(t, 1, notFound)

	slot, err := env.mem.GetSlot(env.slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, slot.AssignedCount)
	g, err := env.mem.GetGroup(env.group.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, g.AssignedCount)
}
