package boardsync

import (
	"context"
	"fmt"
	"sync"

	"github.com/strathausen/pleeboo/internal/models"
)

type upsertCall struct {
	itemID string
	slot   int
	fields VolunteerFields
}

// fakeAPI is an in-memory API implementation that records every call and
// keeps just enough server-side state to echo realistic canonical entities.
type fakeAPI struct {
	mu       sync.Mutex
	board    *models.Board
	seq      int
	sections map[string]*models.Section
	items    map[string]*models.Item

	// Non-nil gates make the corresponding call block until released, so
	// tests can overlap edits with an in-flight request.
	addSectionGate chan struct{}
	addItemGate    chan struct{}

	updateSectionErr error
	upsertErr        error

	addSectionCalls    []SectionDraft
	updateSectionCalls []string
	deleteSectionCalls []string
	reorderCalls       [][]string
	addItemCalls       []ItemDraft
	updateItemCalls    []string
	deleteItemCalls    []string
	updateBoardCalls   []BoardUpdate
	upsertCalls        []upsertCall
}

func newFakeAPI(board *models.Board) *fakeAPI {
	f := &fakeAPI{
		board:    board,
		sections: make(map[string]*models.Section),
		items:    make(map[string]*models.Item),
	}
	for i := range board.Sections {
		section := &board.Sections[i]
		f.sections[section.ID] = section
		for j := range section.Items {
			f.items[section.Items[j].ID] = &section.Items[j]
		}
	}
	return f
}

func (f *fakeAPI) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneBoard(f.board), nil
}

func (f *fakeAPI) UpdateBoard(ctx context.Context, boardID, token string, upd BoardUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateBoardCalls = append(f.updateBoardCalls, upd)
	if upd.Title != nil {
		f.board.Title = *upd.Title
	}
	if upd.Description != nil {
		f.board.Description = *upd.Description
	}
	if upd.Prompt != nil {
		f.board.Prompt = *upd.Prompt
	}
	return nil
}

func (f *fakeAPI) AddSection(ctx context.Context, boardID, token string, draft SectionDraft) (*models.Section, error) {
	if f.addSectionGate != nil {
		<-f.addSectionGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addSectionCalls = append(f.addSectionCalls, draft)
	f.seq++
	section := &models.Section{
		ID:          fmt.Sprintf("sec_srv%02d", f.seq),
		BoardID:     boardID,
		Title:       draft.Title,
		Description: draft.Description,
		Icon:        draft.Icon,
		SortOrder:   len(f.sections),
	}
	f.sections[section.ID] = section
	out := *section
	return &out, nil
}

func (f *fakeAPI) UpdateSection(ctx context.Context, sectionID, token string, upd SectionUpdate) (*models.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateSectionErr != nil {
		return nil, f.updateSectionErr
	}
	f.updateSectionCalls = append(f.updateSectionCalls, sectionID)
	section, ok := f.sections[sectionID]
	if !ok {
		return nil, fmt.Errorf("section %s not found", sectionID)
	}
	if upd.Title != nil {
		section.Title = *upd.Title
	}
	if upd.Description != nil {
		section.Description = *upd.Description
	}
	if upd.Icon != nil {
		section.Icon = *upd.Icon
	}
	out := *section
	out.Items = nil
	return &out, nil
}

func (f *fakeAPI) DeleteSection(ctx context.Context, sectionID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteSectionCalls = append(f.deleteSectionCalls, sectionID)
	delete(f.sections, sectionID)
	return nil
}

func (f *fakeAPI) ReorderSections(ctx context.Context, boardID, token string, orderedIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorderCalls = append(f.reorderCalls, append([]string(nil), orderedIDs...))
	return nil
}

func (f *fakeAPI) AddItem(ctx context.Context, sectionID, token string, draft ItemDraft) (*models.Item, error) {
	if f.addItemGate != nil {
		<-f.addItemGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addItemCalls = append(f.addItemCalls, draft)
	f.seq++
	item := &models.Item{
		ID:          fmt.Sprintf("itm_srv%02d", f.seq),
		SectionID:   sectionID,
		Title:       draft.Title,
		Description: draft.Description,
		Icon:        draft.Icon,
		Needed:      draft.Needed,
		ItemType:    draft.ItemType,
		Unit:        draft.Unit,
	}
	f.items[item.ID] = item
	out := *item
	return &out, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, itemID, token string, upd ItemUpdate) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateItemCalls = append(f.updateItemCalls, itemID)
	item, ok := f.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s not found", itemID)
	}
	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Icon != nil {
		item.Icon = *upd.Icon
	}
	if upd.Needed != nil {
		item.Needed = *upd.Needed
	}
	if upd.ItemType != nil {
		item.ItemType = *upd.ItemType
	}
	if upd.Unit != nil {
		item.Unit = *upd.Unit
	}
	out := *item
	out.Volunteers = nil
	return &out, nil
}

func (f *fakeAPI) DeleteItem(ctx context.Context, itemID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteItemCalls = append(f.deleteItemCalls, itemID)
	delete(f.items, itemID)
	return nil
}

func (f *fakeAPI) UpsertVolunteer(ctx context.Context, itemID string, slot int, token string, fields VolunteerFields) (*models.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upsertCalls = append(f.upsertCalls, upsertCall{itemID: itemID, slot: slot, fields: fields})
	if fields.Name == "" {
		return nil, nil
	}
	f.seq++
	return &models.Volunteer{
		ID:       fmt.Sprintf("vol_srv%02d", f.seq),
		ItemID:   itemID,
		Slot:     slot,
		Name:     fields.Name,
		Details:  fields.Details,
		Quantity: fields.Quantity,
	}, nil
}

func (f *fakeAPI) snapshotUpserts() []upsertCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]upsertCall(nil), f.upsertCalls...)
}
