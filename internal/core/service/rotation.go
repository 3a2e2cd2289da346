package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/carebridge/practice-api/internal/core/domain"
	"github.com/carebridge/practice-api/internal/core/ports"
	"github.com/carebridge/practice-api/internal/metrics"
)

// maxSelectAttempts bounds how many times a selection is re-run when the
// conditional rotation-index increment loses to a concurrent selection.
const maxSelectAttempts = 3

// RotationSelector picks the next practitioner for an unassigned request.
// Fairness rests on the per-practitioner rotation index: fewer past
// assignments wins, insertion order breaks ties. The winning increment is
// conditional on the index value the sort used, so two concurrent
// selections can never both count as one.
type RotationSelector struct {
	practitioners ports.PractitionerRepository
	logger        zerolog.Logger
}

func NewRotationSelector(practitioners ports.PractitionerRepository, logger zerolog.Logger) *RotationSelector {
	return &RotationSelector{practitioners: practitioners, logger: logger}
}

// SelectNext returns the next practitioner in rotation, or nil when the
// candidate pool is empty. Practitioners in exclude are dropped first; when
// needs is non-empty and at least one candidate covers a need, the pool is
// restricted to those matches — otherwise any practitioner beats none.
func (s *RotationSelector) SelectNext(ctx context.Context, exclude, needs []string) (*domain.Practitioner, error) {
	for attempt := 0; attempt < maxSelectAttempts; attempt++ {
		winner, err := s.selectOnce(ctx, exclude, needs)
		if errors.Is(err, domain.ErrRotationConflict) {
			metrics.RotationConflictsTotal.Inc()
			s.logger.Debug().Int("attempt", attempt+1).Msg("rotation increment conflict, reselecting")
			continue
		}
		return winner, err
	}
	return nil, domain.ErrRotationConflict
}

func (s *RotationSelector) selectOnce(ctx context.Context, exclude, needs []string) (*domain.Practitioner, error) {
	all, err := s.practitioners.List(ctx)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		excluded[id] = struct{}{}
	}

	pool := make([]*domain.Practitioner, 0, len(all))
	for _, p := range all {
		if _, skip := excluded[p.ID]; !skip {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	if len(needs) > 0 {
		matching := make([]*domain.Practitioner, 0, len(pool))
		for _, p := range pool {
			if p.MatchesAny(needs) {
				matching = append(matching, p)
			}
		}
		if len(matching) > 0 {
			pool = matching
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].RotationIndex != pool[j].RotationIndex {
			return pool[i].RotationIndex < pool[j].RotationIndex
		}
		return pool[i].CreatedAt.Before(pool[j].CreatedAt)
	})

	winner := pool[0]
	if err := s.practitioners.IncrementRotation(ctx, winner.ID, winner.RotationIndex); err != nil {
		return nil, err
	}
	winner.RotationIndex++
	return winner, nil
}
