package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/event"
	"github.com/fekuna/omnipos-approval-service/internal/event/dto"
	"github.com/fekuna/omnipos-approval-service/internal/logger"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repository ---

type MockEventRepo struct {
	Events      map[string]*model.Event
	Assignments []model.EventAssignment
	InsertErr   error
	Inserted    []model.EventAssignment
	FindErr     error
}

func (m *MockEventRepo) FindByID(ctx context.Context, id string) (*model.Event, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
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
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserted = append(m.Inserted, *a)
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

// --- Tests ---

var (
	eventStart = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	eventEnd   = time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func newRepo() *MockEventRepo {
	start, end := eventStart, eventEnd
	return &MockEventRepo{Events: map[string]*model.Event{
		"ev1":  {ID: "ev1", Name: "June Fair", StartDate: &start, EndDate: &end},
		"open": {ID: "open", Name: "Always on"},
	}}
}

func newUseCase(repo *MockEventRepo, now time.Time, opts ...Option) event.UseCase {
	opts = append(opts, WithClock(func() time.Time { return now }))
	return NewEventUseCase(repo, logger.NewNop(), opts...)
}

func TestValidateEventWindow(t *testing.T) {
	testCases := []struct {
		name       string
		eventID    string
		now        time.Time
		wantKind   apperror.Kind
		wantReason string
	}{
		{name: "exactly at start", eventID: "ev1", now: eventStart},
		{name: "exactly at end", eventID: "ev1", now: eventEnd},
		{name: "inside", eventID: "ev1", now: eventStart.Add(72 * time.Hour)},
		{
			name:       "one millisecond before start",
			eventID:    "ev1",
			now:        eventStart.Add(-time.Millisecond),
			wantKind:   apperror.KindEventNotActive,
			wantReason: event.ReasonNotStarted,
		},
		{
			name:       "after end",
			eventID:    "ev1",
			now:        eventEnd.Add(time.Second),
			wantKind:   apperror.KindEventNotActive,
			wantReason: event.ReasonEnded,
		},
		{name: "event without dates", eventID: "open", now: eventEnd.Add(1000 * time.Hour)},
		{name: "unknown event", eventID: "nope", now: eventStart, wantKind: apperror.KindNotFound},
		{name: "empty id", eventID: "", now: eventStart, wantKind: apperror.KindValidation, wantReason: event.ReasonEventIDRequired},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newUseCase(newRepo(), tc.now)

			ev, err := uc.ValidateEventWindow(context.Background(), tc.eventID)
			if tc.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.eventID, ev.ID)
				return
			}
			assert.Nil(t, ev)
			assert.Equal(t, tc.wantKind, apperror.KindOf(err))
			if tc.wantReason != "" {
				assert.Equal(t, tc.wantReason, apperror.ReasonOf(err))
			}
		})
	}
}

func TestNotStartedAndEndedReasonsDiffer(t *testing.T) {
	assert.NotEqual(t, event.ReasonNotStarted, event.ReasonEnded)
}

func TestCheckDuplicateAssignment(t *testing.T) {
	repo := newRepo()
	repo.Assignments = []model.EventAssignment{
		{ID: "a1", EventID: "ev1", ProductID: strPtr("p1"), DesignerID: "d1", BoutiqueID: "b1"},
		{ID: "r1", EventID: "ev1", DesignerID: "d2", BoutiqueID: "b2"},
	}
	uc := newUseCase(repo, eventStart)

	err := uc.CheckDuplicateAssignment(context.Background(), "ev1", "p1")
	assert.True(t, errors.Is(err, apperror.ErrAlreadyAssigned))

	assert.NoError(t, uc.CheckDuplicateAssignment(context.Background(), "ev1", "p2"))
	assert.NoError(t, uc.CheckDuplicateAssignment(context.Background(), "ev2", "p1"))
}

func TestResolveParticipants(t *testing.T) {
	registration := model.EventAssignment{ID: "r1", EventID: "ev1", DesignerID: "d1", BoutiqueID: "b-reg", MallID: strPtr("m-reg")}

	testCases := []struct {
		name         string
		product      model.Product
		ctx          dto.EventContext
		registration bool
		require      bool
		want         *dto.Participants
		wantReason   string
	}{
		{
			name:    "product designer wins over context",
			product: model.Product{DesignerID: strPtr("d1")},
			ctx:     dto.EventContext{DesignerID: strPtr("d9"), BoutiqueID: strPtr("b1"), MallID: strPtr("m1")},
			want:    &dto.Participants{DesignerID: "d1", BoutiqueID: "b1", MallID: strPtr("m1")},
		},
		{
			name:    "context designer as fallback",
			product: model.Product{},
			ctx:     dto.EventContext{DesignerID: strPtr("d9"), BoutiqueID: strPtr("b1"), MallID: strPtr("m1")},
			want:    &dto.Participants{DesignerID: "d9", BoutiqueID: "b1", MallID: strPtr("m1")},
		},
		{
			name:         "boutique and mall from registration",
			product:      model.Product{DesignerID: strPtr("d1")},
			registration: true,
			want:         &dto.Participants{DesignerID: "d1", BoutiqueID: "b-reg", MallID: strPtr("m-reg")},
		},
		{
			name:    "mall is optional",
			product: model.Product{DesignerID: strPtr("d1")},
			ctx:     dto.EventContext{BoutiqueID: strPtr("b1")},
			want:    &dto.Participants{DesignerID: "d1", BoutiqueID: "b1"},
		},
		{
			name:       "no designer",
			product:    model.Product{},
			ctx:        dto.EventContext{BoutiqueID: strPtr("b1")},
			wantReason: event.ReasonMissingDesigner,
		},
		{
			name:       "no boutique",
			product:    model.Product{DesignerID: strPtr("d1")},
			wantReason: event.ReasonMissingBoutique,
		},
		{
			name:       "registration required",
			product:    model.Product{DesignerID: strPtr("d1")},
			ctx:        dto.EventContext{BoutiqueID: strPtr("b1"), MallID: strPtr("m1")},
			require:    true,
			wantReason: event.ReasonNotRegistered,
		},
		{
			name:         "registration required and present",
			product:      model.Product{DesignerID: strPtr("d1")},
			ctx:          dto.EventContext{BoutiqueID: strPtr("b1"), MallID: strPtr("m1")},
			registration: true,
			require:      true,
			want:         &dto.Participants{DesignerID: "d1", BoutiqueID: "b1", MallID: strPtr("m1")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			if tc.registration {
				repo.Assignments = append(repo.Assignments, registration)
			}
			uc := newUseCase(repo, eventStart, WithRequireRegistration(tc.require))

			got, err := uc.ResolveParticipants(context.Background(), "ev1", &tc.product, tc.ctx)
			if tc.wantReason != "" {
				assert.Nil(t, got)
				assert.Equal(t, apperror.KindMissingParticipant, apperror.KindOf(err))
				assert.Equal(t, tc.wantReason, apperror.ReasonOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAssign(t *testing.T) {
	now := eventStart.Add(time.Hour)
	repo := newRepo()
	uc := newUseCase(repo, now)

	a, err := uc.Assign(context.Background(), &dto.AssignInput{
		EventID: "ev1",
		Product: &model.Product{BaseModel: model.BaseModel{ID: "p1"}, DesignerID: strPtr("d1")},
		Context: dto.EventContext{BoutiqueID: strPtr("b1")},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "p1", *a.ProductID)
	assert.True(t, a.CreatedAt.Equal(now))
	require.Len(t, repo.Inserted, 1)
	assert.Equal(t, a.ID, repo.Inserted[0].ID)
}

func TestAssignAbortsWithoutWriting(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		input    dto.AssignInput
		setup    func(repo *MockEventRepo)
		wantKind apperror.Kind
	}{
		{
			name:     "event not active",
			now:      eventStart.Add(-time.Hour),
			input:    dto.AssignInput{EventID: "ev1", Product: &model.Product{BaseModel: model.BaseModel{ID: "p1"}, DesignerID: strPtr("d1")}, Context: dto.EventContext{BoutiqueID: strPtr("b1")}},
			wantKind: apperror.KindEventNotActive,
		},
		{
			name:  "duplicate",
			now:   eventStart,
			input: dto.AssignInput{EventID: "ev1", Product: &model.Product{BaseModel: model.BaseModel{ID: "p1"}, DesignerID: strPtr("d1")}, Context: dto.EventContext{BoutiqueID: strPtr("b1")}},
			setup: func(repo *MockEventRepo) {
				repo.Assignments = append(repo.Assignments, model.EventAssignment{ID: "a1", EventID: "ev1", ProductID: strPtr("p1")})
			},
			wantKind: apperror.KindAlreadyAssigned,
		},
		{
			name:     "missing participant",
			now:      eventStart,
			input:    dto.AssignInput{EventID: "ev1", Product: &model.Product{BaseModel: model.BaseModel{ID: "p1"}}},
			wantKind: apperror.KindMissingParticipant,
		},
		{
			name:     "no product",
			now:      eventStart,
			input:    dto.AssignInput{EventID: "ev1"},
			wantKind: apperror.KindValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo()
			if tc.setup != nil {
				tc.setup(repo)
			}
			uc := newUseCase(repo, tc.now)

			a, err := uc.Assign(context.Background(), &tc.input)
			assert.Nil(t, a)
			assert.Equal(t, tc.wantKind, apperror.KindOf(err))
			assert.Empty(t, repo.Inserted)
		})
	}
}

func TestAssignLostRace(t *testing.T) {
	repo := newRepo()
	repo.InsertErr = apperror.AlreadyAssigned(event.ReasonAlreadyAssigned)
	uc := newUseCase(repo, eventStart)

	_, err := uc.Assign(context.Background(), &dto.AssignInput{
		EventID: "ev1",
		Product: &model.Product{BaseModel: model.BaseModel{ID: "p1"}, DesignerID: strPtr("d1")},
		Context: dto.EventContext{BoutiqueID: strPtr("b1")},
	})
	assert.True(t, errors.Is(err, apperror.ErrAlreadyAssigned))
}

func TestEventWindows(t *testing.T) {
	repo := newRepo()
	repo.Assignments = []model.EventAssignment{{ID: "a1", EventID: "ev1", ProductID: strPtr("p1")}}
	uc := newUseCase(repo, eventStart)

	w, err := uc.ProductEventWindow(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.True(t, w.Start.Equal(eventStart))
	assert.True(t, w.End.Equal(eventEnd))

	w, err = uc.ProductEventWindow(context.Background(), "p-unassigned")
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = uc.EventWindow(context.Background(), "open")
	require.NoError(t, err)
	assert.Nil(t, w)

	_, err = uc.EventWindow(context.Background(), "missing")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
