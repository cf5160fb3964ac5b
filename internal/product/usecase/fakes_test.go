package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/event"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/notify"
)

// --- Mock Event Repository ---

type MockEventRepo struct {
	Events      map[string]*model.Event
	Assignments []model.EventAssignment
}

func (m *MockEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return m.Events[id], nil
}

func (m *MockEventRepo) FindAssignment(ctx context.Context, eventID, productID string) (*model.EventAssignment, error) {
	for i := range m.Assignments {
		a := m.Assignments[i]
		if a.EventID == eventID && a.ProductID != nil && *a.ProductID == productID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockEventRepo) FindLatestAssignmentByProduct(ctx context.Context, productID string) (*model.EventAssignment, error) {
	for i := len(m.Assignments) - 1; i >= 0; i-- {
		a := m.Assignments[i]
		if a.ProductID != nil && *a.ProductID == productID {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockEventRepo) InsertAssignment(ctx context.Context, a *model.EventAssignment) error {
	existing, _ := m.FindAssignment(ctx, a.EventID, *a.ProductID)
	if existing != nil {
		return apperror.AlreadyAssigned(event.ReasonAlreadyAssigned)
	}
	m.Assignments = append(m.Assignments, *a)
	return nil
}

func (m *MockEventRepo) FindRegistration(ctx context.Context, eventID, designerID string) (*model.EventAssignment, error) {
	for i := range m.Assignments {
		a := m.Assignments[i]
		if a.EventID == eventID && a.DesignerID == designerID && a.ProductID == nil {
			return &a, nil
		}
	}
	return nil, nil
}

// --- Mock Product Repository ---

// MockProductRepo writes approvals with assignments through the event repo,
// the way the SQL repository shares one transaction.
type MockProductRepo struct {
	Products map[string]*model.Product
	Events   *MockEventRepo
	// WriteErr fails every write before anything is stored.
	WriteErr error
	Writes   int
}

func (m *MockProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	p, ok := m.Products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *MockProductRepo) UpdateApproval(ctx context.Context, p *model.Product) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	cp := *p
	m.Products[p.ID] = &cp
	m.Writes++
	return nil
}

func (m *MockProductRepo) UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	p, ok := m.Products[id]
	if !ok {
		return apperror.NotFound("product", id)
	}
	p.Status = status
	p.UpdatedAt = updatedAt
	m.Writes++
	return nil
}

func (m *MockProductRepo) ApproveWithAssignment(ctx context.Context, p *model.Product, a *model.EventAssignment) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	// Rolled back as a unit: the product is only stored when the insert succeeds.
	if err := m.Events.InsertAssignment(ctx, a); err != nil {
		return err
	}
	cp := *p
	m.Products[p.ID] = &cp
	m.Writes++
	return nil
}

// --- Mock Lookups ---

type MockLookupRepo struct {
	Categories map[string]*model.Category
	Placements map[string]*model.Placement
}

func (m *MockLookupRepo) FindCategory(ctx context.Context, id string) (*model.Category, error) {
	return m.Categories[id], nil
}

func (m *MockLookupRepo) FindCurrency(ctx context.Context, id string) (*model.Currency, error) {
	return nil, nil
}

func (m *MockLookupRepo) FindPlacement(ctx context.Context, id string) (*model.Placement, error) {
	return m.Placements[id], nil
}

// --- Recording Notifier ---

type RecordingNotifier struct {
	Changes []notify.Change
}

func (n *RecordingNotifier) Notify(ctx context.Context, change notify.Change) error {
	n.Changes = append(n.Changes, change)
	return nil
}
