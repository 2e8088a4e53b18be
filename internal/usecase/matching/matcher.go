package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/gdugdh24/therapymatch-backend/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Matcher ranks verified helpers for a seeker. It holds no mutable state
// and is safe for concurrent use.
type Matcher struct {
	profiles repository.ProfileReader
	scorer   *Scorer
}

func NewMatcher(profiles repository.ProfileReader, policy EmptyPreferencePolicy) *Matcher {
	return &Matcher{
		profiles: profiles,
		scorer:   NewScorer(policy),
	}
}

func (m *Matcher) Scorer() *Scorer {
	return m.scorer
}

// FindMatches returns at most limit verified helpers ordered by score
// descending, ties broken by helper ID ascending.
//
// It fails with domain.ErrPreferencesNotFound when the seeker has no
// preferences, and with an error wrapping domain.ErrUpstreamUnavailable
// when the profile store cannot answer. limit is not validated here.
func (m *Matcher) FindMatches(ctx context.Context, seekerID, limit int) ([]*domain.HelperMatch, error) {
	prefs, helpers, err := m.load(ctx, seekerID)
	if err != nil {
		return nil, err
	}
	return m.Rank(prefs, helpers, limit), nil
}

// Rank scores and orders an already loaded candidate set. Unverified
// helpers are dropped.
func (m *Matcher) Rank(prefs *domain.SeekerPreferences, helpers []*domain.Helper, limit int) []*domain.HelperMatch {
	matches := make([]*domain.HelperMatch, 0, len(helpers))
	for _, helper := range helpers {
		if helper == nil || !helper.Profile.IsVerified {
			continue
		}
		matches = append(matches, &domain.HelperMatch{
			Helper:      helper,
			MatchResult: m.scorer.Result(prefs, helper),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].HelperID < matches[j].HelperID
	})

	if limit < 0 {
		limit = 0
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// load fetches the seeker's preferences and the candidate set concurrently.
func (m *Matcher) load(ctx context.Context, seekerID int) (*domain.SeekerPreferences, []*domain.Helper, error) {
	var (
		prefs   *domain.SeekerPreferences
		helpers []*domain.Helper
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := m.profiles.GetSeekerPreferences(gctx, seekerID)
		if err != nil {
			if errors.Is(err, domain.ErrPreferencesNotFound) {
				return domain.ErrPreferencesNotFound
			}
			return fmt.Errorf("%w: get seeker preferences: %w", domain.ErrUpstreamUnavailable, err)
		}
		if p == nil {
			return domain.ErrPreferencesNotFound
		}
		prefs = p
		return nil
	})
	g.Go(func() error {
		h, err := m.profiles.ListVerifiedHelpers(gctx)
		if err != nil {
			return fmt.Errorf("%w: list verified helpers: %w", domain.ErrUpstreamUnavailable, err)
		}
		helpers = h
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return prefs, helpers, nil
}
