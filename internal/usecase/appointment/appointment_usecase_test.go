package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 1
	}
	return args.Error(0)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepo) ListForUser(ctx context.Context, userID int, filter repository.AppointmentFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, userID, filter)
	list, _ := args.Get(0).([]*domain.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, a *domain.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppointmentRepo) ListForHelperBetween(ctx context.Context, helperID int, from, to time.Time, statuses []domain.AppointmentStatus) ([]*domain.Appointment, error) {
	args := m.Called(ctx, helperID, from, to, statuses)
	list, _ := args.Get(0).([]*domain.Appointment)
	return list, args.Error(1)
}

type stubUserRepo struct {
	repository.UserRepository
	users map[int]*domain.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id int) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

var fixedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestUseCase(t *testing.T, repo *mockAppointmentRepo) *AppointmentUseCase {
	users := &stubUserRepo{users: map[int]*domain.User{
		10: {ID: 10, Role: domain.RoleHelper},
		4:  {ID: 4, Role: domain.RoleSeeker},
	}}
	uc := NewAppointmentUseCase(repo, users, zaptest.NewLogger(t))
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func strPtr(s string) *string { return &s }

func TestAppointmentUseCase_Create(t *testing.T) {
	future := fixedNow.Add(48 * time.Hour)

	tests := []struct {
		name        string
		helperID    int
		req         *CreateAppointmentRequest
		expectStore bool
		expectedErr error
		validate    func(t *testing.T, a *domain.Appointment)
	}{
		{
			name:        "defaults duration and status",
			helperID:    10,
			req:         &CreateAppointmentRequest{DateTime: future, Type: domain.AppointmentInitial, Notes: strPtr("  first session ")},
			expectStore: true,
			validate: func(t *testing.T, a *domain.Appointment) {
				assert.Equal(t, domain.DefaultAppointmentDuration, a.Duration)
				assert.Equal(t, domain.AppointmentPending, a.Status)
				assert.Equal(t, "first session", *a.Notes)
				assert.Equal(t, 4, a.SeekerID)
				assert.Equal(t, future.Add(time.Hour), a.EndTime())
			},
		},
		{
			name:        "past date",
			helperID:    10,
			req:         &CreateAppointmentRequest{DateTime: fixedNow.Add(-time.Minute), Type: domain.AppointmentInitial},
			expectedErr: domain.ErrAppointmentInPast,
		},
		{
			name:        "duration too long",
			helperID:    10,
			req:         &CreateAppointmentRequest{DateTime: future, Duration: 180, Type: domain.AppointmentInitial},
			expectedErr: domain.ErrInvalidInput,
		},
		{
			name:        "unknown type",
			helperID:    10,
			req:         &CreateAppointmentRequest{DateTime: future, Type: "group"},
			expectedErr: domain.ErrInvalidInput,
		},
		{
			name:        "target is not a helper",
			helperID:    4,
			req:         &CreateAppointmentRequest{DateTime: future, Type: domain.AppointmentFollowup},
			expectedErr: domain.ErrHelperNotFound,
		},
		{
			name:        "unknown helper",
			helperID:    99,
			req:         &CreateAppointmentRequest{DateTime: future, Type: domain.AppointmentFollowup},
			expectedErr: domain.ErrHelperNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointmentRepo{}
			if tt.expectStore {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Appointment")).Return(nil)
			}

			a, err := newTestUseCase(t, repo).Create(context.Background(), 4, tt.helperID, tt.req)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, a)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tt.validate(t, a)
			repo.AssertExpectations(t)
		})
	}
}

func TestAppointmentUseCase_Update(t *testing.T) {
	existing := func() *domain.Appointment {
		return &domain.Appointment{
			ID: 1, HelperID: 10, SeekerID: 4, DateTime: fixedNow.Add(time.Hour), Duration: 60,
			Status: domain.AppointmentPending, Type: domain.AppointmentInitial,
		}
	}

	tests := []struct {
		name        string
		userID      int
		req         *UpdateAppointmentRequest
		expectStore bool
		expectedErr error
		validate    func(t *testing.T, a *domain.Appointment)
	}{
		{
			name:        "helper confirms with link",
			userID:      10,
			req:         &UpdateAppointmentRequest{Status: domain.AppointmentConfirmed, MeetingLink: strPtr("https://meet.example.com/abc")},
			expectStore: true,
			validate: func(t *testing.T, a *domain.Appointment) {
				assert.Equal(t, domain.AppointmentConfirmed, a.Status)
				assert.Equal(t, "https://meet.example.com/abc", *a.MeetingLink)
			},
		},
		{
			name:        "seeker cancels",
			userID:      4,
			req:         &UpdateAppointmentRequest{Status: domain.AppointmentCancelled, Notes: strPtr("sick")},
			expectStore: true,
			validate: func(t *testing.T, a *domain.Appointment) {
				assert.Equal(t, domain.AppointmentCancelled, a.Status)
				assert.Equal(t, "sick", *a.Notes)
				assert.Nil(t, a.MeetingLink)
			},
		},
		{
			name:        "seeker cannot set link",
			userID:      4,
			req:         &UpdateAppointmentRequest{Status: domain.AppointmentConfirmed, MeetingLink: strPtr("https://evil.example.com")},
			expectedErr: domain.ErrMeetingLinkNotAllowed,
		},
		{
			name:        "stranger is forbidden",
			userID:      77,
			req:         &UpdateAppointmentRequest{Status: domain.AppointmentCancelled},
			expectedErr: domain.ErrForbidden,
		},
		{
			name:        "pending is not a target status",
			userID:      10,
			req:         &UpdateAppointmentRequest{Status: domain.AppointmentPending},
			expectedErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointmentRepo{}
			repo.On("GetByID", mock.Anything, 1).Return(existing(), nil)
			if tt.expectStore {
				repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Appointment")).Return(nil)
			}

			a, err := newTestUseCase(t, repo).Update(context.Background(), tt.userID, 1, tt.req)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tt.validate(t, a)
			repo.AssertExpectations(t)
		})
	}
}

func TestAppointmentUseCase_Update_NotFound(t *testing.T) {
	repo := &mockAppointmentRepo{}
	repo.On("GetByID", mock.Anything, 5).Return(nil, domain.ErrAppointmentNotFound)

	_, err := newTestUseCase(t, repo).Update(context.Background(), 10, 5, &UpdateAppointmentRequest{Status: domain.AppointmentConfirmed})
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestAppointmentUseCase_List(t *testing.T) {
	start := fixedNow
	end := fixedNow.Add(24 * time.Hour)
	status := domain.AppointmentConfirmed

	repo := &mockAppointmentRepo{}
	repo.On("ListForUser", mock.Anything, 4, repository.AppointmentFilter{Status: &status, From: &start, To: &end}).
		Return([]*domain.Appointment{{ID: 1}}, nil)
	uc := newTestUseCase(t, repo)

	list, err := uc.List(context.Background(), 4, ListAppointmentsRequest{Status: &status, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.List(context.Background(), 4, ListAppointmentsRequest{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAppointmentUseCase_Availability(t *testing.T) {
	day := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)
	at := day.Add(10 * time.Hour)

	repo := &mockAppointmentRepo{}
	repo.On("ListForHelperBetween", mock.Anything, 10, day, day.Add(24*time.Hour), busyStatuses).
		Return([]*domain.Appointment{{ID: 3, DateTime: at, Duration: 45}}, nil)
	uc := newTestUseCase(t, repo)

	slots, err := uc.Availability(context.Background(), 10, "2026-06-03")
	require.NoError(t, err)
	assert.Equal(t, []Slot{{AppointmentID: 3, DateTime: at, Duration: 45}}, slots)

	_, err = uc.Availability(context.Background(), 10, "03/06/2026")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
