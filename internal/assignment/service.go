package assignment

import (
	"fmt"
	"log"

	"defense_panel/internal/availability"
	"defense_panel/internal/dispatch"
	"defense_panel/internal/models"
	"defense_panel/internal/store"
)

// Service выполняет назначение и снятие преподавателей с комиссий.
// Все проверки и запись делаются в одной транзакции; события
// уведомлений и аудита уходят только после её фиксации.
type Service struct {
	st   store.Store
	disp *dispatch.Dispatcher
}

func NewService(st store.Store, disp *dispatch.Dispatcher) *Service {
	return &Service{st: st, disp: disp}
}

// Assign назначает преподавателя в комиссию слота.
// Внутри транзакции: слот существует и корректен, преподаватель
// существует и активен, его доступность покрывает слот, пересечений с
// другими активными назначениями нет. Блокировка строки преподавателя
// сериализует конкурирующие назначения из разных вкладок.
func (s *Service) Assign(actor, panelistID, slotID uint) (*models.Assignment, error) {
	var created *models.Assignment

	err := s.st.Transact(func(tx store.Store) error {
		slot, err := tx.GetSlot(slotID)
		if err != nil {
			return err
		}

		panelist, err := tx.GetPanelistForUpdate(panelistID)
		if err != nil {
			return err
		}
		if panelist.Status != models.PanelistActive {
			return store.ErrPanelistStatusInvalid
		}

		eligible, err := availability.NewMatcher(tx).EligiblePanelists(slot)
		if err != nil {
			return err
		}
		if _, ok := eligible[panelist.ID]; !ok {
			return store.ErrPanelistIneligible
		}

		conflict, err := HasConflict(tx, panelist.ID, slot)
		if err != nil {
			return err
		}
		if conflict {
			return store.ErrSlotConflict
		}

		a := &models.Assignment{SlotID: slot.ID, PanelistID: panelist.ID, Active: true}
		if err := tx.CreateAssignment(a); err != nil {
			return err
		}

		// Счётчики обновляются в той же транзакции, что и запись,
		// атомарным инкрементом: два администратора, назначающие
		// разных преподавателей в один слот, не затирают друг друга.
		if err := tx.AddSlotAssigned(slot.ID, 1); err != nil {
			return err
		}
		if slot.GroupID != nil {
			if err := tx.AddGroupAssigned(*slot.GroupID, 1); err != nil {
				return err
			}
		}

		created = a
		return nil
	})
	if err != nil {
		return nil, s.classify("assign", err)
	}

	// Транзакция зафиксирована: доставка уведомлений уже не может
	// откатить назначение.
	if s.disp != nil {
		s.disp.Assigned(actor, created.PanelistID, created.SlotID)
	}
	return created, nil
}

// Unassign снимает назначение: строка помечается неактивной,
// счётчики уменьшаются. Для несуществующего ID — ErrNotFound.
func (s *Service) Unassign(actor, assignmentID uint) (*models.Assignment, error) {
	var cancelled *models.Assignment

	err := s.st.Transact(func(tx store.Store) error {
		// Сначала блокировка строки назначения, и только потом проверка
		// Active: конкурирующая отмена того же назначения дождётся
		// фиксации первой и увидит уже неактивную строку, поэтому
		// счётчики уменьшаются ровно один раз.
		a, err := tx.GetAssignmentForUpdate(assignmentID)
		if err != nil {
			return err
		}
		if !a.Active {
			return store.ErrNotFound
		}

		// Та же точка сериализации, что и у Assign.
		if _, err := tx.GetPanelistForUpdate(a.PanelistID); err != nil {
			return err
		}

		a.Active = false
		if err := tx.SaveAssignment(a); err != nil {
			return err
		}

		slot, err := tx.GetSlot(a.SlotID)
		if err != nil {
			return err
		}
		if err := tx.AddSlotAssigned(slot.ID, -1); err != nil {
			return err
		}
		if slot.GroupID != nil {
			if err := tx.AddGroupAssigned(*slot.GroupID, -1); err != nil {
				return err
			}
		}

		cancelled = a
		return nil
	})
	if err != nil {
		return nil, s.classify("unassign", err)
	}

	if s.disp != nil {
		s.disp.Unassigned(actor, cancelled.PanelistID, cancelled.SlotID)
	}
	return cancelled, nil
}

// EligiblePanelist — строка для формы выбора комиссии.
type EligiblePanelist struct {
	PanelistID uint   `json:"panelist_id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Department string `json:"department"`
	Expertise  string `json:"expertise"`
}

// ListEligible возвращает преподавателей, которых можно назначить в
// слот прямо сейчас: доступность покрывает слот, статус active,
// пересечений нет.
func (s *Service) ListEligible(slotID uint) ([]EligiblePanelist, error) {
	slot, err := s.st.GetSlot(slotID)
	if err != nil {
		return nil, s.classify("list_eligible", err)
	}

	eligible, err := availability.NewMatcher(s.st).EligiblePanelists(slot)
	if err != nil {
		return nil, s.classify("list_eligible", err)
	}

	panelists, err := s.st.ListPanelists()
	if err != nil {
		return nil, s.classify("list_eligible", err)
	}

	result := make([]EligiblePanelist, 0, len(eligible))
	for _, p := range panelists {
		if p.Status != models.PanelistActive {
			continue
		}
		if _, ok := eligible[p.ID]; !ok {
			continue
		}
		conflict, err := HasConflict(s.st, p.ID, slot)
		if err != nil {
			return nil, s.classify("list_eligible", err)
		}
		if conflict {
			continue
		}
		result = append(result, EligiblePanelist{
			PanelistID: p.ID,
			Name:       p.Name,
			Surname:    p.Surname,
			Department: p.Department,
			Expertise:  p.Expertise,
		})
	}
	return result, nil
}

// classify пропускает бизнес-ошибки как есть, а сбои хранилища
// логирует с контекстом и прячет за ErrPersistence.
func (s *Service) classify(op string, err error) error {
	if store.IsBusinessError(err) {
		return err
	}
	log.Printf("Ошибка хранилища в операции %s: %v", op, err)
	return fmt.Errorf("%w: операция %s", store.ErrPersistence, op)
}
