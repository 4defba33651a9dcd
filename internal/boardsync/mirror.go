package boardsync

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/strathausen/pleeboo/internal/icons"
	"github.com/strathausen/pleeboo/internal/ids"
	"github.com/strathausen/pleeboo/internal/models"
)

// DefaultDebounce is the window within which rapid edits to the same
// volunteer slot collapse into a single upsert.
const DefaultDebounce = 500 * time.Millisecond

// Option configures a Mirror.
type Option func(*Mirror)

// WithDebounce overrides the volunteer-edit debounce window.
func WithDebounce(d time.Duration) Option {
	return func(m *Mirror) { m.debounce = d }
}

// WithOnError installs a callback for persistence failures. Failures do not
// roll back the optimistic local edit; surfacing them is the caller's job
// (e.g. a toast).
func WithOnError(fn func(error)) Option {
	return func(m *Mirror) { m.onError = fn }
}

// Mirror is a client-held copy of one board aggregate. All edits apply to
// the mirror synchronously and never block on network I/O; persistence
// happens in the background through the API.
type Mirror struct {
	api      API
	boardID  string
	token    string
	debounce time.Duration
	onError  func(error)

	mu          sync.Mutex
	board       *models.Board
	tempCounter int
	// gen counts local edits per entity id. A background response only
	// writes server scalars back if the entity was not edited again while
	// the request was in flight.
	gen       map[string]int
	promoting map[string]bool
	pending   map[slotKey]*pendingSlot
	inflight  sync.WaitGroup
	closed    bool
}

type slotKey struct {
	itemID string
	slot   int
}

type pendingSlot struct {
	timer  *time.Timer
	fields VolunteerFields
}

// New creates a mirror for one board. Call Load before editing.
func New(api API, boardID, token string, opts ...Option) *Mirror {
	m := &Mirror{
		api:       api,
		boardID:   boardID,
		token:     token,
		debounce:  DefaultDebounce,
		onError:   func(err error) { log.Printf("boardsync: %v", err) },
		gen:       make(map[string]int),
		promoting: make(map[string]bool),
		pending:   make(map[slotKey]*pendingSlot),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load fetches the board tree and replaces the mirror wholesale. Purely
// local edits that were never promoted are lost by a refresh; that is the
// accepted tradeoff of the polling model.
func (m *Mirror) Load(ctx context.Context) error {
	board, err := m.api.GetBoard(ctx, m.boardID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.board = board
	m.mu.Unlock()
	return nil
}

// Refresh re-fetches server truth, same as Load.
func (m *Mirror) Refresh(ctx context.Context) error {
	return m.Load(ctx)
}

// Board returns a deep copy of the current mirror state.
func (m *Mirror) Board() *models.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBoard(m.board)
}

// EditBoard applies board field edits locally and persists in the
// background.
func (m *Mirror) EditBoard(upd BoardUpdate) {
	m.mu.Lock()
	if m.board == nil {
		m.mu.Unlock()
		return
	}
	if upd.Title != nil {
		m.board.Title = *upd.Title
	}
	if upd.Description != nil {
		m.board.Description = *upd.Description
	}
	if upd.Prompt != nil {
		m.board.Prompt = *upd.Prompt
	}
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		if err := m.api.UpdateBoard(context.Background(), m.boardID, m.token, upd); err != nil {
			m.onError(err)
		}
	}()
}

// EnterEditMode makes sure an admin entering edit mode has something to
// edit: a board with zero sections gets exactly one local temporary
// section. Synthesis is idempotent; once any section exists (temp or real)
// it does nothing.
func (m *Mirror) EnterEditMode() *models.Section {
	m.mu.Lock()
	if m.board == nil || len(m.board.Sections) > 0 {
		m.mu.Unlock()
		return nil
	}
	section := m.addSectionLocked()
	out := cloneSection(section)
	m.mu.Unlock()
	return &out
}

// AddSection creates a local temporary section. Nothing is persisted until
// the section gains a non-empty title through EditSection.
func (m *Mirror) AddSection() *models.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.board == nil {
		return nil
	}
	section := m.addSectionLocked()
	out := cloneSection(section)
	return &out
}

func (m *Mirror) addSectionLocked() *models.Section {
	m.tempCounter++
	m.board.Sections = append(m.board.Sections, models.Section{
		ID:        ids.NewTemp(ids.KindSection, m.tempCounter),
		BoardID:   m.boardID,
		Icon:      icons.Default,
		SortOrder: len(m.board.Sections),
	})
	return &m.board.Sections[len(m.board.Sections)-1]
}

// EditSection applies section field edits locally. A temporary section with
// a non-empty title is promoted: created on the server and replaced in
// place by the server entity, leaving sibling entities untouched. A real
// section persists the edit directly.
func (m *Mirror) EditSection(sectionID string, upd SectionUpdate) {
	m.mu.Lock()
	section := m.findSection(sectionID)
	if section == nil {
		m.mu.Unlock()
		return
	}
	if upd.Title != nil {
		section.Title = *upd.Title
	}
	if upd.Description != nil {
		section.Description = *upd.Description
	}
	if upd.Icon != nil {
		section.Icon = icons.Normalize(*upd.Icon)
	}
	m.gen[sectionID]++

	if ids.IsTemp(sectionID) {
		if section.Title != "" && !m.promoting[sectionID] {
			m.promoting[sectionID] = true
			draft := SectionDraft{Title: section.Title, Description: section.Description, Icon: section.Icon}
			genAt := m.gen[sectionID]
			m.inflight.Add(1)
			go m.promoteSection(sectionID, draft, genAt)
		}
		m.mu.Unlock()
		return
	}

	genAt := m.gen[sectionID]
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		canonical, err := m.api.UpdateSection(context.Background(), sectionID, m.token, upd)
		if err != nil {
			m.onError(err)
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen[sectionID] != genAt {
			// Edited again while in flight; keep the newer local state.
			return
		}
		if local := m.findSection(sectionID); local != nil {
			applySectionScalars(local, canonical)
		}
	}()
}

func (m *Mirror) promoteSection(tempID string, draft SectionDraft, genAt int) {
	defer m.inflight.Done()
	canonical, err := m.api.AddSection(context.Background(), m.boardID, m.token, draft)

	m.mu.Lock()
	delete(m.promoting, tempID)
	if err != nil {
		m.mu.Unlock()
		m.onError(err)
		return
	}

	idx := m.sectionIndex(tempID)
	if idx < 0 {
		// Deleted locally during the round trip; drop the server copy so
		// the temp id leaves no orphan behind.
		m.mu.Unlock()
		if err := m.api.DeleteSection(context.Background(), canonical.ID, m.token); err != nil {
			m.onError(err)
		}
		return
	}

	local := m.board.Sections[idx]
	promoted := *canonical
	promoted.Items = local.Items
	for i := range promoted.Items {
		promoted.Items[i].SectionID = promoted.ID
	}
	edited := m.gen[tempID] != genAt
	if edited {
		// Keep edits made after the create was sent; they persist below.
		promoted.Title = local.Title
		promoted.Description = local.Description
		promoted.Icon = local.Icon
	}
	m.board.Sections[idx] = promoted
	m.gen[promoted.ID] = m.gen[tempID]
	delete(m.gen, tempID)

	var followUp *SectionUpdate
	if edited {
		followUp = &SectionUpdate{
			Title:       &promoted.Title,
			Description: &promoted.Description,
			Icon:        &promoted.Icon,
		}
		m.inflight.Add(1)
	}
	m.mu.Unlock()

	if followUp != nil {
		go func() {
			defer m.inflight.Done()
			if _, err := m.api.UpdateSection(context.Background(), promoted.ID, m.token, *followUp); err != nil {
				m.onError(err)
			}
		}()
	}
}

// DeleteSection removes a section locally; real sections are deleted on the
// server in the background, temporary ones simply vanish.
func (m *Mirror) DeleteSection(sectionID string) {
	m.mu.Lock()
	idx := m.sectionIndex(sectionID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}
	for _, item := range m.board.Sections[idx].Items {
		m.dropPendingLocked(item.ID)
	}
	m.board.Sections = append(m.board.Sections[:idx], m.board.Sections[idx+1:]...)
	delete(m.gen, sectionID)

	if ids.IsTemp(sectionID) {
		// If a promotion is in flight its response finds no temp entity
		// and cleans up the server copy itself.
		m.mu.Unlock()
		return
	}
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		if err := m.api.DeleteSection(context.Background(), sectionID, m.token); err != nil {
			m.onError(err)
		}
	}()
}

// ReorderSections applies the given order locally and persists it. Ids not
// present on the board are ignored; omitted sections keep their relative
// order after the reordered ones. Temp ids never reach the server.
func (m *Mirror) ReorderSections(orderedIDs []string) {
	m.mu.Lock()
	if m.board == nil {
		m.mu.Unlock()
		return
	}

	byID := make(map[string]int, len(m.board.Sections))
	for i, section := range m.board.Sections {
		byID[section.ID] = i
	}

	reordered := make([]models.Section, 0, len(m.board.Sections))
	taken := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if idx, ok := byID[id]; ok && !taken[id] {
			taken[id] = true
			reordered = append(reordered, m.board.Sections[idx])
		}
	}
	for _, section := range m.board.Sections {
		if !taken[section.ID] {
			reordered = append(reordered, section)
		}
	}
	for i := range reordered {
		reordered[i].SortOrder = i
	}
	m.board.Sections = reordered

	persisted := make([]string, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if !ids.IsTemp(id) {
			persisted = append(persisted, id)
		}
	}
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		if err := m.api.ReorderSections(context.Background(), m.boardID, m.token, persisted); err != nil {
			m.onError(err)
		}
	}()
}

// AddItem creates a local temporary item under a section. Persistence is
// deferred until the item gains a non-empty title and its parent section is
// itself persisted.
func (m *Mirror) AddItem(sectionID string) *models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	section := m.findSection(sectionID)
	if section == nil {
		return nil
	}
	m.tempCounter++
	section.Items = append(section.Items, models.Item{
		ID:        ids.NewTemp(ids.KindItem, m.tempCounter),
		SectionID: sectionID,
		Icon:      icons.Default,
		Needed:    1,
		ItemType:  models.ItemTypeSlots,
		SortOrder: len(section.Items),
	})
	out := cloneItem(&section.Items[len(section.Items)-1])
	return &out
}

// EditItem applies item field edits locally, promoting temporary items on
// their first titled save and persisting direct edits otherwise.
func (m *Mirror) EditItem(itemID string, upd ItemUpdate) {
	m.mu.Lock()
	section, item := m.findItem(itemID)
	if item == nil {
		m.mu.Unlock()
		return
	}
	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Icon != nil {
		item.Icon = icons.Normalize(*upd.Icon)
	}
	if upd.Needed != nil && *upd.Needed > 0 {
		item.Needed = *upd.Needed
	}
	if upd.ItemType != nil && models.ValidItemType(*upd.ItemType) {
		item.ItemType = *upd.ItemType
	}
	if upd.Unit != nil {
		item.Unit = *upd.Unit
	}
	m.gen[itemID]++

	if ids.IsTemp(itemID) {
		// A temp item under a temp section stays local; promoting the
		// section rewrites the parent id and a later save lands here
		// again with a persisted parent.
		if item.Title != "" && !ids.IsTemp(item.SectionID) && !m.promoting[itemID] {
			m.promoting[itemID] = true
			draft := ItemDraft{
				Title:       item.Title,
				Description: item.Description,
				Icon:        item.Icon,
				Needed:      item.Needed,
				ItemType:    item.ItemType,
				Unit:        item.Unit,
			}
			genAt := m.gen[itemID]
			parentID := section.ID
			m.inflight.Add(1)
			go m.promoteItem(itemID, parentID, draft, genAt)
		}
		m.mu.Unlock()
		return
	}

	genAt := m.gen[itemID]
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		canonical, err := m.api.UpdateItem(context.Background(), itemID, m.token, upd)
		if err != nil {
			m.onError(err)
			return
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen[itemID] != genAt {
			return
		}
		if _, local := m.findItem(itemID); local != nil {
			applyItemScalars(local, canonical)
		}
	}()
}

func (m *Mirror) promoteItem(tempID, sectionID string, draft ItemDraft, genAt int) {
	defer m.inflight.Done()
	canonical, err := m.api.AddItem(context.Background(), sectionID, m.token, draft)

	m.mu.Lock()
	delete(m.promoting, tempID)
	if err != nil {
		m.mu.Unlock()
		m.onError(err)
		return
	}

	section, item := m.findItem(tempID)
	if item == nil {
		m.mu.Unlock()
		if err := m.api.DeleteItem(context.Background(), canonical.ID, m.token); err != nil {
			m.onError(err)
		}
		return
	}

	promoted := *canonical
	promoted.Volunteers = item.Volunteers
	for i := range promoted.Volunteers {
		promoted.Volunteers[i].ItemID = promoted.ID
	}
	edited := m.gen[tempID] != genAt
	if edited {
		promoted.Title = item.Title
		promoted.Description = item.Description
		promoted.Icon = item.Icon
		promoted.Needed = item.Needed
		promoted.ItemType = item.ItemType
		promoted.Unit = item.Unit
	}
	for i := range section.Items {
		if section.Items[i].ID == tempID {
			section.Items[i] = promoted
			break
		}
	}
	m.gen[promoted.ID] = m.gen[tempID]
	delete(m.gen, tempID)
	m.repointPendingLocked(tempID, promoted.ID)

	// Volunteers pledged while the item was still local have no server rows
	// yet; queue an upsert per filled slot unless a fresher edit is pending.
	for i := range promoted.Volunteers {
		v := promoted.Volunteers[i]
		key := slotKey{itemID: promoted.ID, slot: v.Slot}
		if _, ok := m.pending[key]; ok {
			continue
		}
		p := &pendingSlot{fields: VolunteerFields{Name: v.Name, Details: v.Details, Quantity: v.Quantity}}
		p.timer = time.AfterFunc(m.debounce, func() { m.firePending(key) })
		m.pending[key] = p
	}

	var followUp *ItemUpdate
	if edited {
		followUp = &ItemUpdate{
			Title:       &promoted.Title,
			Description: &promoted.Description,
			Icon:        &promoted.Icon,
			Needed:      &promoted.Needed,
			ItemType:    &promoted.ItemType,
			Unit:        &promoted.Unit,
		}
		m.inflight.Add(1)
	}
	m.mu.Unlock()

	if followUp != nil {
		go func() {
			defer m.inflight.Done()
			if _, err := m.api.UpdateItem(context.Background(), promoted.ID, m.token, *followUp); err != nil {
				m.onError(err)
			}
		}()
	}
}

// DeleteItem removes an item locally and, for real items, on the server.
func (m *Mirror) DeleteItem(itemID string) {
	m.mu.Lock()
	section, item := m.findItem(itemID)
	if item == nil {
		m.mu.Unlock()
		return
	}
	m.dropPendingLocked(itemID)
	for i := range section.Items {
		if section.Items[i].ID == itemID {
			section.Items = append(section.Items[:i], section.Items[i+1:]...)
			break
		}
	}
	delete(m.gen, itemID)

	if ids.IsTemp(itemID) {
		m.mu.Unlock()
		return
	}
	m.inflight.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.inflight.Done()
		if err := m.api.DeleteItem(context.Background(), itemID, m.token); err != nil {
			m.onError(err)
		}
	}()
}

// findSection returns a pointer into the live tree; callers hold m.mu.
func (m *Mirror) findSection(id string) *models.Section {
	if m.board == nil {
		return nil
	}
	for i := range m.board.Sections {
		if m.board.Sections[i].ID == id {
			return &m.board.Sections[i]
		}
	}
	return nil
}

func (m *Mirror) sectionIndex(id string) int {
	if m.board == nil {
		return -1
	}
	for i := range m.board.Sections {
		if m.board.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Mirror) findItem(id string) (*models.Section, *models.Item) {
	if m.board == nil {
		return nil, nil
	}
	for i := range m.board.Sections {
		section := &m.board.Sections[i]
		for j := range section.Items {
			if section.Items[j].ID == id {
				return section, &section.Items[j]
			}
		}
	}
	return nil, nil
}

func applySectionScalars(local *models.Section, canonical *models.Section) {
	local.Title = canonical.Title
	local.Description = canonical.Description
	local.Icon = canonical.Icon
	local.SortOrder = canonical.SortOrder
	local.UpdatedAt = canonical.UpdatedAt
}

func applyItemScalars(local *models.Item, canonical *models.Item) {
	local.Title = canonical.Title
	local.Description = canonical.Description
	local.Icon = canonical.Icon
	local.Needed = canonical.Needed
	local.ItemType = canonical.ItemType
	local.Unit = canonical.Unit
	local.SortOrder = canonical.SortOrder
	local.UpdatedAt = canonical.UpdatedAt
}

func cloneBoard(board *models.Board) *models.Board {
	if board == nil {
		return nil
	}
	out := *board
	out.Sections = make([]models.Section, len(board.Sections))
	for i := range board.Sections {
		out.Sections[i] = cloneSection(&board.Sections[i])
	}
	return &out
}

func cloneSection(section *models.Section) models.Section {
	out := *section
	out.Items = make([]models.Item, len(section.Items))
	for i := range section.Items {
		out.Items[i] = cloneItem(&section.Items[i])
	}
	return out
}

func cloneItem(item *models.Item) models.Item {
	out := *item
	out.Volunteers = make([]models.Volunteer, len(item.Volunteers))
	copy(out.Volunteers, item.Volunteers)
	for i := range out.Volunteers {
		if q := out.Volunteers[i].Quantity; q != nil {
			quantity := *q
			out.Volunteers[i].Quantity = &quantity
		}
	}
	return out
}

// sortVolunteers keeps an item's volunteer list in slot order after local
// inserts.
func sortVolunteers(volunteers []models.Volunteer) {
	sort.SliceStable(volunteers, func(i, j int) bool {
		return volunteers[i].Slot < volunteers[j].Slot
	})
}
