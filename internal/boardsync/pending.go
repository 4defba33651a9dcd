package boardsync

import (
	"context"
	"time"

	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/models"
)

// SetVolunteer applies a volunteer-slot edit to the mirror and enqueues a
// debounced upsert. Edits to the same (item, slot) within the debounce
// window collapse into one call carrying the latest value of every field;
// edits to different slots are independent. A merged blank name clears the
// slot locally and deletes the row on the server.
func (m *Mirror) SetVolunteer(itemID string, slot int, edit VolunteerEdit) {
	m.mu.Lock()
	_, item := m.findItem(itemID)
	if item == nil || slot < 0 || slot >= models.MaxSlot {
		m.mu.Unlock()
		return
	}

	// Merge onto the last locally known field-set for the slot, so a
	// details-only edit does not erase a pending name edit.
	merged := VolunteerFields{}
	existingIdx := -1
	for i := range item.Volunteers {
		if item.Volunteers[i].Slot == slot {
			existingIdx = i
			merged.Name = item.Volunteers[i].Name
			merged.Details = item.Volunteers[i].Details
			merged.Quantity = item.Volunteers[i].Quantity
			break
		}
	}
	if edit.Name != nil {
		merged.Name = *edit.Name
	}
	if edit.Details != nil {
		merged.Details = *edit.Details
	}
	if edit.Quantity != nil {
		merged.Quantity = edit.Quantity
	}

	switch {
	case merged.Name == "" && existingIdx >= 0:
		item.Volunteers = append(item.Volunteers[:existingIdx], item.Volunteers[existingIdx+1:]...)
	case merged.Name == "":
		// Clearing an already absent slot; nothing to do locally, but the
		// upsert still goes out in case the server has a row we never saw.
	case existingIdx >= 0:
		item.Volunteers[existingIdx].Name = merged.Name
		item.Volunteers[existingIdx].Details = merged.Details
		item.Volunteers[existingIdx].Quantity = merged.Quantity
	default:
		m.tempCounter++
		item.Volunteers = append(item.Volunteers, models.Volunteer{
			ID:       ids.NewTemp(ids.KindVolunteer, m.tempCounter),
			ItemID:   itemID,
			Slot:     slot,
			Name:     merged.Name,
			Details:  merged.Details,
			Quantity: merged.Quantity,
		})
		sortVolunteers(item.Volunteers)
	}

	// Temp items have no server row to upsert against; their volunteers
	// travel with the item when it is promoted.
	if ids.IsTemp(itemID) {
		m.mu.Unlock()
		return
	}

	key := slotKey{itemID: itemID, slot: slot}
	if p, ok := m.pending[key]; ok {
		p.timer.Stop()
	}
	delay := m.debounce
	if m.closed {
		// No timers after teardown; send straight away.
		delay = 0
	}
	p := &pendingSlot{fields: merged}
	p.timer = time.AfterFunc(delay, func() { m.firePending(key) })
	m.pending[key] = p
	m.mu.Unlock()
}

// firePending dequeues the latest field-set for a slot and issues exactly
// one upsert carrying it.
func (m *Mirror) firePending(key slotKey) {
	m.mu.Lock()
	p, ok := m.pending[key]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.pending, key)
	fields := p.fields
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		canonical, err := m.api.UpsertVolunteer(context.Background(), key.itemID, key.slot, m.token, fields)
		if err != nil {
			m.onError(err)
			return
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if _, newer := m.pending[key]; newer {
			// A fresh edit is queued for this slot; let it win.
			return
		}
		_, item := m.findItem(key.itemID)
		if item == nil {
			return
		}
		for i := range item.Volunteers {
			if item.Volunteers[i].Slot == key.slot {
				if canonical == nil {
					item.Volunteers = append(item.Volunteers[:i], item.Volunteers[i+1:]...)
				} else {
					item.Volunteers[i] = *canonical
				}
				return
			}
		}
		if canonical != nil {
			item.Volunteers = append(item.Volunteers, *canonical)
			sortVolunteers(item.Volunteers)
		}
	}()
}

// dropPendingLocked discards queued edits for an item that is going away;
// callers hold m.mu.
func (m *Mirror) dropPendingLocked(itemID string) {
	for key, p := range m.pending {
		if key.itemID == itemID {
			p.timer.Stop()
			delete(m.pending, key)
		}
	}
}

// repointPendingLocked moves queued edits from a promoted temp item id to
// the server id; callers hold m.mu.
func (m *Mirror) repointPendingLocked(oldID, newID string) {
	for key, p := range m.pending {
		if key.itemID != oldID {
			continue
		}
		p.timer.Stop()
		delete(m.pending, key)
		moved := slotKey{itemID: newID, slot: key.slot}
		m.pending[moved] = p
		p.timer = time.AfterFunc(m.debounce, func() { m.firePending(moved) })
	}
}

// Flush sends every queued volunteer edit immediately and waits for all
// background persistence calls to finish.
func (m *Mirror) Flush() {
	m.mu.Lock()
	keys := make([]slotKey, 0, len(m.pending))
	for key, p := range m.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	m.mu.Unlock()

	for _, key := range keys {
		m.firePending(key)
	}
	m.inflight.Wait()
}

// Close flushes pending updates and stops the mirror. Flushing rather than
// discarding means the last edit before navigation is not lost.
func (m *Mirror) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.Flush()
}
