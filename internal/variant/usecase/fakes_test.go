package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	eventdto "github.com/fekuna/omnipos-approval-service/internal/event/dto"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/notify"
	"github.com/fekuna/omnipos-approval-service/internal/pricing"
)

// --- Mock Variant Repository ---

type MockVariantRepo struct {
	mu       sync.Mutex
	Variants map[string]*model.Variant
	// WriteErrors fails UpdateApproval for the listed ids.
	WriteErrors map[string]error
	FindErr     error
	// BeforeWrite runs before every UpdateApproval.
	BeforeWrite func(id string)

	Approved      []string
	StatusChanges []string
	findByIDsCall int
}

func newMockVariantRepo(variants ...model.Variant) *MockVariantRepo {
	repo := &MockVariantRepo{Variants: map[string]*model.Variant{}, WriteErrors: map[string]error{}}
	for i := range variants {
		v := variants[i]
		repo.Variants[v.ID] = &v
	}
	return repo
}

func (m *MockVariantRepo) FindByID(ctx context.Context, id string) (*model.Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	v, ok := m.Variants[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *MockVariantRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findByIDsCall++
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	out := []model.Variant{}
	for _, id := range ids {
		if v, ok := m.Variants[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *MockVariantRepo) UpdateApproval(ctx context.Context, v *model.Variant) error {
	if m.BeforeWrite != nil {
		m.BeforeWrite(v.ID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.WriteErrors[v.ID]; err != nil {
		return err
	}
	if _, ok := m.Variants[v.ID]; !ok {
		return apperror.NotFound("variant", v.ID)
	}
	cp := *v
	m.Variants[v.ID] = &cp
	m.Approved = append(m.Approved, v.ID)
	return nil
}

func (m *MockVariantRepo) UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Variants[id]
	if !ok {
		return apperror.NotFound("variant", id)
	}
	v.Status = status
	v.UpdatedAt = updatedAt
	m.StatusChanges = append(m.StatusChanges, id)
	return nil
}

func (m *MockVariantRepo) status(id string) model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Variants[id].Status
}

func (m *MockVariantRepo) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Approved) + len(m.StatusChanges)
}

// --- Mock Lookups ---

type MockLookupRepo struct {
	Currencies map[string]*model.Currency
}

func (m *MockLookupRepo) FindCategory(ctx context.Context, id string) (*model.Category, error) {
	return &model.Category{ID: id, Name: id, IsActive: true}, nil
}

func (m *MockLookupRepo) FindCurrency(ctx context.Context, id string) (*model.Currency, error) {
	return m.Currencies[id], nil
}

func (m *MockLookupRepo) FindPlacement(ctx context.Context, id string) (*model.Placement, error) {
	return &model.Placement{ID: id}, nil
}

// --- Mock Event Coordinator ---

// MockEvents only answers window queries; variant approval never assigns.
type MockEvents struct {
	Windows        map[string]*pricing.Window
	ProductWindows map[string]*pricing.Window
}

func (m *MockEvents) ValidateEventWindow(ctx context.Context, eventID string) (*model.Event, error) {
	return &model.Event{ID: eventID}, nil
}

func (m *MockEvents) CheckDuplicateAssignment(ctx context.Context, eventID, productID string) error {
	return nil
}

func (m *MockEvents) ResolveParticipants(ctx context.Context, eventID string, product *model.Product, ec eventdto.EventContext) (*eventdto.Participants, error) {
	return &eventdto.Participants{}, nil
}

func (m *MockEvents) Prepare(ctx context.Context, input *eventdto.AssignInput) (*model.EventAssignment, error) {
	return &model.EventAssignment{EventID: input.EventID}, nil
}

func (m *MockEvents) Assign(ctx context.Context, input *eventdto.AssignInput) (*model.EventAssignment, error) {
	return m.Prepare(ctx, input)
}

func (m *MockEvents) EventWindow(ctx context.Context, eventID string) (*pricing.Window, error) {
	w, ok := m.Windows[eventID]
	if !ok {
		return nil, apperror.NotFound("event", eventID)
	}
	return w, nil
}

func (m *MockEvents) ProductEventWindow(ctx context.Context, productID string) (*pricing.Window, error) {
	return m.ProductWindows[productID], nil
}

// --- Recording Notifier ---

type RecordingNotifier struct {
	mu      sync.Mutex
	Changes []notify.Change
	Err     error
}

func (n *RecordingNotifier) Notify(ctx context.Context, change notify.Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Changes = append(n.Changes, change)
	return n.Err
}
