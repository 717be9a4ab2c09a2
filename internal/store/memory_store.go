package store

import (
	"sync"
	"time"

	"defense_panel/internal/models"
)

// MemoryStore — хранилище в памяти для тестов сервиса и обработчиков.
// Один мьютекс на всё хранилище играет роль блокировки строк:
// конкурирующие Transact выполняются строго по очереди.
type MemoryStore struct {
	mu   sync.Mutex
	data *memData
}

type memData struct {
	users       map[uint]models.User
	panelists   map[uint]models.Panelist
	windows     []models.AvailabilityWindow
	groups      map[uint]models.DefenseGroup
	slots       map[uint]models.ScheduleSlot
	assignments map[uint]models.Assignment
	nextID      uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: &memData{
		users:       make(map[uint]models.User),
		panelists:   make(map[uint]models.Panelist),
		groups:      make(map[uint]models.DefenseGroup),
		slots:       make(map[uint]models.ScheduleSlot),
		assignments: make(map[uint]models.Assignment),
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		users:       make(map[uint]models.User, len(d.users)),
		panelists:   make(map[uint]models.Panelist, len(d.panelists)),
		windows:     append([]models.AvailabilityWindow(nil), d.windows...),
		groups:      make(map[uint]models.DefenseGroup, len(d.groups)),
		slots:       make(map[uint]models.ScheduleSlot, len(d.slots)),
		assignments: make(map[uint]models.Assignment, len(d.assignments)),
		nextID:      d.nextID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.panelists {
		c.panelists[k] = v
	}
	for k, v := range d.groups {
		c.groups[k] = v
	}
	for k, v := range d.slots {
		c.slots[k] = v
	}
	for k, v := range d.assignments {
		c.assignments[k] = v
	}
	return c
}

func (d *memData) id() uint {
	d.nextID++
	return d.nextID
}

// Transact: снимок состояния до вызова, откат при ошибке.
func (s *MemoryStore) Transact(fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.data.clone()
	if err := fn(&memTx{data: s.data}); err != nil {
		*s.data = *snap
		return err
	}
	return nil
}

// Методы-заполнители для тестовых сценариев.

func (s *MemoryStore) AddPanelist(p *models.Panelist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.data.id()
	}
	s.data.panelists[p.ID] = *p
}

func (s *MemoryStore) AddWindow(w models.AvailabilityWindow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == 0 {
		w.ID = s.data.id()
	}
	s.data.windows = append(s.data.windows, w)
}

func (s *MemoryStore) AddGroup(g *models.DefenseGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == 0 {
		g.ID = s.data.id()
	}
	s.data.groups[g.ID] = *g
}

func (s *MemoryStore) AddSlot(slot *models.ScheduleSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == 0 {
		slot.ID = s.data.id()
	}
	s.data.slots[slot.ID] = *slot
}

func (s *MemoryStore) GetGroup(id uint) (*models.DefenseGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &g, nil
}

// Остальные методы Store просто берут мьютекс и делегируют memTx.

func (s *MemoryStore) withLock(fn func(tx *memTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{data: s.data})
}

func (s *MemoryStore) GetSlot(id uint) (*models.ScheduleSlot, error) {
	var out *models.ScheduleSlot
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.GetSlot(id); return })
	return out, err
}

func (s *MemoryStore) ListSlots() ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.ListSlots(); return })
	return out, err
}

func (s *MemoryStore) SaveSlot(slot *models.ScheduleSlot) error {
	return s.withLock(func(tx *memTx) error { return tx.SaveSlot(slot) })
}

func (s *MemoryStore) AddSlotAssigned(slotID uint, delta int) error {
	return s.withLock(func(tx *memTx) error { return tx.AddSlotAssigned(slotID, delta) })
}

func (s *MemoryStore) SlotsBetween(from, to time.Time) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.SlotsBetween(from, to); return })
	return out, err
}

func (s *MemoryStore) DeleteSlotsEndedBefore(t time.Time) error {
	return s.withLock(func(tx *memTx) error { return tx.DeleteSlotsEndedBefore(t) })
}

func (s *MemoryStore) GetPanelist(id uint) (*models.Panelist, error) {
	var out *models.Panelist
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.GetPanelist(id); return })
	return out, err
}

func (s *MemoryStore) GetPanelistForUpdate(id uint) (*models.Panelist, error) {
	return s.GetPanelist(id)
}

func (s *MemoryStore) ListPanelists() ([]models.Panelist, error) {
	var out []models.Panelist
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.ListPanelists(); return })
	return out, err
}

func (s *MemoryStore) ListWindowsByDay(day time.Weekday) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.ListWindowsByDay(day); return })
	return out, err
}

func (s *MemoryStore) GetAssignment(id uint) (*models.Assignment, error) {
	var out *models.Assignment
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.GetAssignment(id); return })
	return out, err
}

func (s *MemoryStore) GetAssignmentForUpdate(id uint) (*models.Assignment, error) {
	return s.GetAssignment(id)
}

func (s *MemoryStore) CreateAssignment(a *models.Assignment) error {
	return s.withLock(func(tx *memTx) error { return tx.CreateAssignment(a) })
}

func (s *MemoryStore) SaveAssignment(a *models.Assignment) error {
	return s.withLock(func(tx *memTx) error { return tx.SaveAssignment(a) })
}

func (s *MemoryStore) ActiveAssignments(panelistID uint) ([]models.Assignment, error) {
	var out []models.Assignment
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.ActiveAssignments(panelistID); return })
	return out, err
}

func (s *MemoryStore) ActiveAssignmentsBySlot(slotID uint) ([]models.Assignment, error) {
	var out []models.Assignment
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.ActiveAssignmentsBySlot(slotID); return })
	return out, err
}

func (s *MemoryStore) AddGroupAssigned(groupID uint, delta int) error {
	return s.withLock(func(tx *memTx) error { return tx.AddGroupAssigned(groupID, delta) })
}

func (s *MemoryStore) GetUser(id uint) (*models.User, error) {
	var out *models.User
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.GetUser(id); return })
	return out, err
}

func (s *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	var out *models.User
	err := s.withLock(func(tx *memTx) (e error) { out, e = tx.GetUserByEmail(email); return })
	return out, err
}

func (s *MemoryStore) CreateUser(u *models.User) error {
	return s.withLock(func(tx *memTx) error { return tx.CreateUser(u) })
}

// memTx — вид хранилища внутри транзакции: без блокировок,
// мьютекс уже удерживается объемлющим Transact.
type memTx struct {
	data *memData
}

// Вложенная транзакция выполняется в рамках текущей.
func (t *memTx) Transact(fn func(tx Store) error) error {
	return fn(t)
}

func (t *memTx) GetSlot(id uint) (*models.ScheduleSlot, error) {
	slot, ok := t.data.slots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &slot, nil
}

func (t *memTx) ListSlots() ([]models.ScheduleSlot, error) {
	out := make([]models.ScheduleSlot, 0, len(t.data.slots))
	for _, s := range t.data.slots {
		out = append(out, s)
	}
	return out, nil
}

func (t *memTx) SaveSlot(slot *models.ScheduleSlot) error {
	if _, ok := t.data.slots[slot.ID]; !ok {
		return ErrNotFound
	}
	t.data.slots[slot.ID] = *slot
	return nil
}

func (t *memTx) AddSlotAssigned(slotID uint, delta int) error {
	s, ok := t.data.slots[slotID]
	if !ok {
		return ErrNotFound
	}
	s.AssignedCount += delta
	t.data.slots[slotID] = s
	return nil
}

func (t *memTx) SlotsBetween(from, to time.Time) ([]models.ScheduleSlot, error) {
	var out []models.ScheduleSlot
	for _, s := range t.data.slots {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (t *memTx) DeleteSlotsEndedBefore(tm time.Time) error {
	for id, s := range t.data.slots {
		if s.Date.Before(tm) {
			for aid, a := range t.data.assignments {
				if a.SlotID == id {
					delete(t.data.assignments, aid)
				}
			}
			delete(t.data.slots, id)
		}
	}
	return nil
}

func (t *memTx) GetPanelist(id uint) (*models.Panelist, error) {
	p, ok := t.data.panelists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (t *memTx) GetPanelistForUpdate(id uint) (*models.Panelist, error) {
	return t.GetPanelist(id)
}

func (t *memTx) ListPanelists() ([]models.Panelist, error) {
	out := make([]models.Panelist, 0, len(t.data.panelists))
	for _, p := range t.data.panelists {
		out = append(out, p)
	}
	return out, nil
}

func (t *memTx) ListWindowsByDay(day time.Weekday) ([]models.AvailabilityWindow, error) {
	var out []models.AvailabilityWindow
	for _, w := range t.data.windows {
		if w.DayOfWeek == day {
			out = append(out, w)
		}
	}
	return out, nil
}

func (t *memTx) GetAssignment(id uint) (*models.Assignment, error) {
	a, ok := t.data.assignments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if slot, ok := t.data.slots[a.SlotID]; ok {
		a.Slot = slot
	}
	return &a, nil
}

func (t *memTx) GetAssignmentForUpdate(id uint) (*models.Assignment, error) {
	return t.GetAssignment(id)
}

func (t *memTx) CreateAssignment(a *models.Assignment) error {
	if a.ID == 0 {
		a.ID = t.data.id()
	}
	t.data.assignments[a.ID] = *a
	return nil
}

func (t *memTx) SaveAssignment(a *models.Assignment) error {
	if _, ok := t.data.assignments[a.ID]; !ok {
		return ErrNotFound
	}
	t.data.assignments[a.ID] = *a
	return nil
}

func (t *memTx) ActiveAssignments(panelistID uint) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range t.data.assignments {
		if a.PanelistID == panelistID && a.Active {
			if slot, ok := t.data.slots[a.SlotID]; ok {
				a.Slot = slot
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func (t *memTx) ActiveAssignmentsBySlot(slotID uint) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range t.data.assignments {
		if a.SlotID == slotID && a.Active {
			if p, ok := t.data.panelists[a.PanelistID]; ok {
				a.Panelist = p
			}
			out = append(out, a)
		}
	}
	return out, nil
}

func (t *memTx) AddGroupAssigned(groupID uint, delta int) error {
	g, ok := t.data.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	g.AssignedCount += delta
	t.data.groups[groupID] = g
	return nil
}

func (t *memTx) GetUser(id uint) (*models.User, error) {
	u, ok := t.data.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (t *memTx) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range t.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (t *memTx) CreateUser(u *models.User) error {
	if u.ID == 0 {
		u.ID = t.data.id()
	}
	t.data.users[u.ID] = *u
	return nil
}
