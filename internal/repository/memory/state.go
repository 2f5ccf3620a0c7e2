package memory

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
)

// state содержимое обеих таблиц.
// Закоммиченные объекты не изменяются: запись заменяет элемент новой копией,
// поэтому clone достаточно копировать срезы и индексы
type state struct {
	slots      []*model.TimeSlot
	slotIdx    map[string]int
	candidates []*model.Candidate
	byID       map[string]int
	byEmail    map[string]int
}

func newState() *state {
	return &state{
		slotIdx: make(map[string]int),
		byID:    make(map[string]int),
		byEmail: make(map[string]int),
	}
}

func (st *state) clone() *state {
	c := &state{
		slots:      append([]*model.TimeSlot(nil), st.slots...),
		slotIdx:    make(map[string]int, len(st.slotIdx)),
		candidates: append([]*model.Candidate(nil), st.candidates...),
		byID:       make(map[string]int, len(st.byID)),
		byEmail:    make(map[string]int, len(st.byEmail)),
	}
	for k, v := range st.slotIdx {
		c.slotIdx[k] = v
	}
	for k, v := range st.byID {
		c.byID[k] = v
	}
	for k, v := range st.byEmail {
		c.byEmail[k] = v
	}
	return c
}

func (st *state) listSlots(onlyFree bool) []*model.TimeSlot {
	out := make([]*model.TimeSlot, 0, len(st.slots))
	for _, slot := range st.slots {
		if onlyFree && slot.Taken {
			continue
		}
		out = append(out, slot.Clone())
	}
	return out
}

func (st *state) getSlots(ids []string) []*model.TimeSlot {
	out := make([]*model.TimeSlot, 0, len(ids))
	for _, id := range repository.UniqueIDs(ids) {
		if i, ok := st.slotIdx[id]; ok {
			out = append(out, st.slots[i].Clone())
		}
	}
	return out
}

func (st *state) markTaken(ids []string, candidateID string, at time.Time) error {
	ids = repository.UniqueIDs(ids)

	var busy []string
	for _, id := range ids {
		i, ok := st.slotIdx[id]
		if !ok {
			return &model.SlotNotFoundError{ID: id}
		}
		if st.slots[i].Taken {
			busy = append(busy, id)
		}
	}
	if len(busy) > 0 {
		return &model.SlotsUnavailableError{IDs: busy}
	}

	for _, id := range ids {
		i := st.slotIdx[id]
		slot := st.slots[i].Clone()
		slot.MarkTaken(candidateID, at)
		st.slots[i] = slot
	}
	return nil
}

func (st *state) createSlots(slots []*model.TimeSlot) int {
	created := 0
	for _, slot := range slots {
		if _, exists := st.slotIdx[slot.ID]; exists {
			continue
		}
		st.slotIdx[slot.ID] = len(st.slots)
		st.slots = append(st.slots, slot.Clone())
		created++
	}
	return created
}

func (st *state) findByEmail(email string) *model.Candidate {
	if i, ok := st.byEmail[model.NormalizeEmail(email)]; ok {
		return st.candidates[i].Clone()
	}
	return nil
}

func (st *state) findByID(id string) *model.Candidate {
	if i, ok := st.byID[id]; ok {
		return st.candidates[i].Clone()
	}
	return nil
}

func (st *state) insert(c *model.Candidate) error {
	key := model.NormalizeEmail(c.Email)
	if _, exists := st.byEmail[key]; exists {
		return model.ErrDuplicateEmail
	}
	if _, exists := st.byID[c.ID]; exists {
		return fmt.Errorf("candidate id %s already exists", c.ID)
	}

	st.byID[c.ID] = len(st.candidates)
	st.byEmail[key] = len(st.candidates)
	st.candidates = append(st.candidates, c.Clone())
	return nil
}

func (st *state) listCandidates() []*model.Candidate {
	out := make([]*model.Candidate, 0, len(st.candidates))
	for _, c := range st.candidates {
		out = append(out, c.Clone())
	}
	return out
}

func (st *state) snapshot() *Snapshot {
	return &Snapshot{
		TimeSlots:  st.listSlots(false),
		Candidates: st.listCandidates(),
	}
}

// fromSnapshot строит состояние и проверяет инварианты загруженных данных
func fromSnapshot(snap *Snapshot) (*state, error) {
	st := newState()
	if snap == nil {
		return st, nil
	}

	for _, c := range snap.Candidates {
		if err := st.insert(c); err != nil {
			return nil, fmt.Errorf("load candidate %s: %w", c.ID, err)
		}
	}

	for _, slot := range snap.TimeSlots {
		if _, exists := st.slotIdx[slot.ID]; exists {
			return nil, fmt.Errorf("load slot %s: duplicate id", slot.ID)
		}
		if slot.Taken != (slot.TakenBy != nil) || slot.Taken != (slot.TakenAt != nil) {
			return nil, fmt.Errorf("load slot %s: inconsistent taken state", slot.ID)
		}
		st.slotIdx[slot.ID] = len(st.slots)
		st.slots = append(st.slots, slot.Clone())
	}

	return st, nil
}
