package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeProfileStore struct {
	prefs      map[int]*domain.SeekerPreferences
	helpers    []*domain.Helper
	prefsErr   error
	helpersErr error

	mu    sync.Mutex
	calls int
}

func (f *fakeProfileStore) GetSeekerPreferences(ctx context.Context, seekerID int) (*domain.SeekerPreferences, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	p, ok := f.prefs[seekerID]
	if !ok {
		return nil, domain.ErrPreferencesNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) ListVerifiedHelpers(ctx context.Context) ([]*domain.Helper, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.helpersErr != nil {
		return nil, f.helpersErr
	}
	var out []*domain.Helper
	for _, h := range f.helpers {
		if h.Profile.IsVerified {
			out = append(out, h)
		}
	}
	return out, nil
}

func createTestPreferences() *domain.SeekerPreferences {
	return &domain.SeekerPreferences{
		UserID:       1,
		Languages:    []string{"English"},
		TherapyTypes: []string{"CBT"},
		Specialties:  []string{"Anxiety"},
		Availability: domain.SeekerAvailability{
			PreferredDays:  []string{"Monday"},
			PreferredTimes: []string{"Morning"},
		},
	}
}

func createTestHelper(id int, verified bool) *domain.Helper {
	return &domain.Helper{
		ID:   id,
		Name: fmt.Sprintf("Helper %d", id),
		Profile: domain.HelperProfile{
			UserID:       id,
			Languages:    []string{"English", "Spanish"},
			TherapyTypes: []string{"CBT"},
			Specialties:  []string{"Anxiety", "Grief"},
			Availability: domain.HelperAvailability{
				AvailableDays:  []string{"Monday", "Tuesday"},
				AvailableTimes: []string{"Morning"},
			},
			IsVerified: verified,
		},
	}
}

func newTestMatcher(store *fakeProfileStore, policy EmptyPreferencePolicy) *Matcher {
	return NewMatcher(store, policy)
}

func assertValidResult(t *testing.T, m *domain.HelperMatch) {
	t.Helper()
	assert.GreaterOrEqual(t, m.Score, 0.0)
	assert.LessOrEqual(t, m.Score, 100.0)
	assert.Equal(t, m.Breakdown.Total(), m.Score)
	assert.False(t, math.IsNaN(m.Score))
	assert.False(t, math.IsInf(m.Score, 0))
	assert.Equal(t, m.Helper.ID, m.HelperID)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestMatcher_FindMatches_FullOverlap(t *testing.T) {
	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: createTestPreferences()},
		helpers: []*domain.Helper{createTestHelper(10, true)},
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, 10, m.HelperID)
	assert.Equal(t, 30.0, m.Breakdown.Languages)
	assert.Equal(t, 25.0, m.Breakdown.TherapyTypes)
	assert.Equal(t, 25.0, m.Breakdown.Specialties)
	assert.Equal(t, 20.0, m.Breakdown.Availability)
	assert.Equal(t, 100.0, m.Score)
	assertValidResult(t, m)
}

func TestMatcher_FindMatches_NoLanguageOverlap(t *testing.T) {
	helper := createTestHelper(10, true)
	helper.Profile.Languages = []string{"French", "German"}

	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: createTestPreferences()},
		helpers: []*domain.Helper{helper},
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, 0.0, m.Breakdown.Languages)
	assert.Equal(t, 25.0, m.Breakdown.TherapyTypes)
	assert.Equal(t, 25.0, m.Breakdown.Specialties)
	assert.Equal(t, 20.0, m.Breakdown.Availability)
	assert.Equal(t, 70.0, m.Score)
}

func TestMatcher_FindMatches_EmptyPreferencePolicies(t *testing.T) {
	tests := []struct {
		name              string
		policy            EmptyPreferencePolicy
		expectedLanguages float64
		expectedScore     float64
	}{
		{
			name:              "ignore contributes nothing",
			policy:            EmptyPreferenceIgnore,
			expectedLanguages: 0,
			expectedScore:     70,
		},
		{
			name:              "satisfied contributes full weight",
			policy:            EmptyPreferenceSatisfied,
			expectedLanguages: 30,
			expectedScore:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := createTestPreferences()
			prefs.Languages = []string{}

			noLanguages := createTestHelper(11, true)
			noLanguages.Profile.Languages = nil

			store := &fakeProfileStore{
				prefs:   map[int]*domain.SeekerPreferences{1: prefs},
				helpers: []*domain.Helper{createTestHelper(10, true), noLanguages},
			}

			matches, err := newTestMatcher(store, tt.policy).FindMatches(context.Background(), 1, 10)
			require.NoError(t, err)
			require.Len(t, matches, 2)

			for _, m := range matches {
				assertValidResult(t, m)
				assert.Equal(t, tt.expectedLanguages, m.Breakdown.Languages)
				assert.Equal(t, tt.expectedScore, m.Score)
			}
		})
	}
}

func TestMatcher_FindMatches_AllPreferencesEmpty(t *testing.T) {
	prefs := domain.NewSeekerPreferences(1)
	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: prefs},
		helpers: []*domain.Helper{createTestHelper(10, true)},
	}

	ignore, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, ignore, 1)
	assert.Equal(t, 0.0, ignore[0].Score)

	satisfied, err := newTestMatcher(store, EmptyPreferenceSatisfied).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, satisfied, 1)
	assert.Equal(t, 100.0, satisfied[0].Score)
}

func TestMatcher_FindMatches_PartialCoverage(t *testing.T) {
	prefs := createTestPreferences()
	prefs.Languages = []string{"English", "Spanish", "French", "German"}
	prefs.Availability.PreferredTimes = []string{"Morning", "Evening"}

	helper := createTestHelper(10, true)
	// duplicates must not inflate coverage
	helper.Profile.Languages = []string{"English", "English", "Italian"}

	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: prefs},
		helpers: []*domain.Helper{helper},
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.InDelta(t, 7.5, m.Breakdown.Languages, 1e-9)
	assert.InDelta(t, 15.0, m.Breakdown.Availability, 1e-9)
	assert.InDelta(t, 72.5, m.Score, 1e-9)
	assertValidResult(t, m)
}

func TestMatcher_FindMatches_ExcludesUnverified(t *testing.T) {
	store := &fakeProfileStore{
		prefs: map[int]*domain.SeekerPreferences{1: createTestPreferences()},
		helpers: []*domain.Helper{
			createTestHelper(10, true),
			createTestHelper(11, false),
			createTestHelper(12, true),
			createTestHelper(13, false),
		},
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 50)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.Helper.Profile.IsVerified)
		assert.NotContains(t, []int{11, 13}, m.HelperID)
	}
}

func TestMatcher_Rank_DropsUnverifiedEvenIfStoreReturnsThem(t *testing.T) {
	m := newTestMatcher(&fakeProfileStore{}, EmptyPreferenceIgnore)

	ranked := m.Rank(createTestPreferences(), []*domain.Helper{
		createTestHelper(1, false),
		createTestHelper(2, true),
		nil,
	}, 10)

	require.Len(t, ranked, 1)
	assert.Equal(t, 2, ranked[0].HelperID)
}

func TestMatcher_FindMatches_LimitAndOrdering(t *testing.T) {
	prefs := createTestPreferences()
	prefs.Specialties = []string{"Anxiety", "Grief", "Trauma", "Depression"}

	// Helper i covers i%5 of the four specialties; helpers above 6 speak no
	// matching language. Helpers 10 (45) and 11 (51.25) score lowest.
	var helpers []*domain.Helper
	for i := 1; i <= 12; i++ {
		h := createTestHelper(i, true)
		h.Profile.Specialties = prefs.Specialties[:i%5]
		if i > 6 {
			h.Profile.Languages = []string{"French"}
		}
		helpers = append(helpers, h)
	}

	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: prefs},
		helpers: helpers,
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 10)

	for i := 0; i+1 < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Score, matches[i+1].Score)
		if matches[i].Score == matches[i+1].Score {
			assert.Less(t, matches[i].HelperID, matches[i+1].HelperID)
		}
	}

	all, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 50)
	require.NoError(t, err)
	require.Len(t, all, 12)

	excluded := map[int]bool{all[10].HelperID: true, all[11].HelperID: true}
	for _, m := range matches {
		assert.False(t, excluded[m.HelperID], "helper %d should have been cut", m.HelperID)
	}
	assert.LessOrEqual(t, all[11].Score, matches[9].Score)
	assert.Equal(t, 11, all[10].HelperID)
	assert.Equal(t, 10, all[11].HelperID)
}

func TestMatcher_FindMatches_ResultLength(t *testing.T) {
	tests := []struct {
		name     string
		helpers  int
		limit    int
		expected int
	}{
		{name: "fewer helpers than limit", helpers: 3, limit: 10, expected: 3},
		{name: "more helpers than limit", helpers: 12, limit: 10, expected: 10},
		{name: "exact", helpers: 5, limit: 5, expected: 5},
		{name: "no helpers", helpers: 0, limit: 10, expected: 0},
		{name: "zero limit", helpers: 4, limit: 0, expected: 0},
		{name: "negative limit", helpers: 4, limit: -1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var helpers []*domain.Helper
			for i := 0; i < tt.helpers; i++ {
				helpers = append(helpers, createTestHelper(i+1, true))
			}
			store := &fakeProfileStore{
				prefs:   map[int]*domain.SeekerPreferences{1: createTestPreferences()},
				helpers: helpers,
			}

			matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, tt.limit)
			require.NoError(t, err)
			assert.Len(t, matches, tt.expected)
			assert.NotNil(t, matches)
		})
	}
}

func TestMatcher_FindMatches_TieBreakByHelperID(t *testing.T) {
	store := &fakeProfileStore{
		prefs: map[int]*domain.SeekerPreferences{1: createTestPreferences()},
		helpers: []*domain.Helper{
			createTestHelper(30, true),
			createTestHelper(10, true),
			createTestHelper(20, true),
		},
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{matches[0].HelperID, matches[1].HelperID, matches[2].HelperID})
}

func TestMatcher_FindMatches_Idempotent(t *testing.T) {
	var helpers []*domain.Helper
	for i := 1; i <= 8; i++ {
		h := createTestHelper(i, i%3 != 0)
		if i%2 == 0 {
			h.Profile.TherapyTypes = []string{"DBT"}
		}
		helpers = append(helpers, h)
	}
	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: createTestPreferences()},
		helpers: helpers,
	}
	m := newTestMatcher(store, EmptyPreferenceIgnore)

	first, err := m.FindMatches(context.Background(), 1, 5)
	require.NoError(t, err)
	second, err := m.FindMatches(context.Background(), 1, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMatcher_FindMatches_DoesNotMutateInputs(t *testing.T) {
	prefs := createTestPreferences()
	helper := createTestHelper(10, true)
	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: prefs},
		helpers: []*domain.Helper{helper},
	}

	before := *createTestPreferences()
	_, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, before, *prefs)
	assert.Equal(t, *createTestHelper(10, true), *helper)
}

// ==========================
// Error Handling Tests
// ==========================

func TestMatcher_FindMatches_Errors(t *testing.T) {
	storeErr := errors.New("connection refused")

	tests := []struct {
		name          string
		store         *fakeProfileStore
		seekerID      int
		expectedErr   error
		notExpected   error
		expectWrapped error
	}{
		{
			name:        "unknown seeker",
			store:       &fakeProfileStore{prefs: map[int]*domain.SeekerPreferences{}},
			seekerID:    99,
			expectedErr: domain.ErrPreferencesNotFound,
			notExpected: domain.ErrUpstreamUnavailable,
		},
		{
			name:        "nil preferences record",
			store:       &fakeProfileStore{prefs: map[int]*domain.SeekerPreferences{1: nil}},
			seekerID:    1,
			expectedErr: domain.ErrPreferencesNotFound,
		},
		{
			name: "preferences lookup fails",
			store: &fakeProfileStore{
				prefs:    map[int]*domain.SeekerPreferences{1: createTestPreferences()},
				prefsErr: storeErr,
			},
			seekerID:      1,
			expectedErr:   domain.ErrUpstreamUnavailable,
			notExpected:   domain.ErrPreferencesNotFound,
			expectWrapped: storeErr,
		},
		{
			name: "helper lookup fails",
			store: &fakeProfileStore{
				prefs:      map[int]*domain.SeekerPreferences{1: createTestPreferences()},
				helpersErr: storeErr,
			},
			seekerID:      1,
			expectedErr:   domain.ErrUpstreamUnavailable,
			expectWrapped: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := newTestMatcher(tt.store, EmptyPreferenceIgnore).FindMatches(context.Background(), tt.seekerID, 10)
			require.Error(t, err)
			assert.Nil(t, matches)
			assert.ErrorIs(t, err, tt.expectedErr)
			if tt.notExpected != nil {
				assert.NotErrorIs(t, err, tt.notExpected)
			}
			if tt.expectWrapped != nil {
				assert.ErrorIs(t, err, tt.expectWrapped)
			}
		})
	}
}

func TestMatcher_FindMatches_EmptyCandidateSetIsNotAnError(t *testing.T) {
	store := &fakeProfileStore{
		prefs:   map[int]*domain.SeekerPreferences{1: createTestPreferences()},
		helpers: []*domain.Helper{createTestHelper(1, false)},
	}

	matches, err := newTestMatcher(store, EmptyPreferenceIgnore).FindMatches(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// ==========================
// Concurrency Tests
// ==========================

func TestMatcher_FindMatches_Concurrent(t *testing.T) {
	var helpers []*domain.Helper
	for i := 1; i <= 20; i++ {
		helpers = append(helpers, createTestHelper(i, true))
	}
	store := &fakeProfileStore{
		prefs: map[int]*domain.SeekerPreferences{
			1: createTestPreferences(),
			2: domain.NewSeekerPreferences(2),
		},
		helpers: helpers,
	}
	m := newTestMatcher(store, EmptyPreferenceIgnore)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(seekerID int) {
			defer wg.Done()
			matches, err := m.FindMatches(context.Background(), seekerID, 10)
			if err != nil {
				errs <- err
				return
			}
			if len(matches) != 10 {
				errs <- fmt.Errorf("expected 10 matches, got %d", len(matches))
			}
		}(i%2 + 1)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Equal(t, 80, store.calls)
}

// ==========================
// Policy Parsing Tests
// ==========================

func TestParseEmptyPreferencePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected EmptyPreferencePolicy
		wantErr  bool
	}{
		{input: "", expected: EmptyPreferenceIgnore},
		{input: "ignore", expected: EmptyPreferenceIgnore},
		{input: "satisfied", expected: EmptyPreferenceSatisfied},
		{input: "full", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			policy, err := ParseEmptyPreferencePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}
}
