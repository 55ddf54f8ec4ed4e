package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"medtrust/internal/trust"
)

const testDefault = 50.0

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New(testDefault)
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) TestScore() {
	s.Run("unseen key returns default", func() {
		score, err := s.store.Score(s.ctx, trust.Key{IdentityID: "dr-grey"})
		s.Require().NoError(err)
		s.Equal(testDefault, score)
	})

	s.Run("seen key returns stored value", func() {
		key := trust.Key{IdentityID: "dr-yang"}
		_, err := s.store.ApplyDelta(s.ctx, key, -15)
		s.Require().NoError(err)

		score, err := s.store.Score(s.ctx, key)
		s.Require().NoError(err)
		s.Equal(testDefault-15, score)
	})

	s.Run("identity and identity-patient keys are distinct", func() {
		identityWide := trust.Key{IdentityID: "dr-karev"}
		perPatient := trust.Key{IdentityID: "dr-karev", PatientID: "p-100"}

		_, err := s.store.ApplyDelta(s.ctx, perPatient, 10)
		s.Require().NoError(err)

		score, err := s.store.Score(s.ctx, identityWide)
		s.Require().NoError(err)
		s.Equal(testDefault, score)
	})
}

func (s *InMemoryStoreSuite) TestApplyDelta() {
	s.Run("creates entry with default then applies delta", func() {
		key := trust.Key{IdentityID: "dr-bailey"}
		score, err := s.store.ApplyDelta(s.ctx, key, 2)
		s.Require().NoError(err)
		s.Equal(testDefault+2, score)
	})

	s.Run("large negative delta clamps to floor", func() {
		key := trust.Key{IdentityID: "dr-floor"}
		score, err := s.store.ApplyDelta(s.ctx, key, -1000)
		s.Require().NoError(err)
		s.Equal(trust.MinScore, score)

		got, err := s.store.Score(s.ctx, key)
		s.Require().NoError(err)
		s.Equal(trust.MinScore, got)
	})

	s.Run("large positive delta clamps to ceiling", func() {
		key := trust.Key{IdentityID: "dr-ceiling"}
		score, err := s.store.ApplyDelta(s.ctx, key, 1000)
		s.Require().NoError(err)
		s.Equal(trust.MaxScore, score)

		got, err := s.store.Score(s.ctx, key)
		s.Require().NoError(err)
		s.Equal(trust.MaxScore, got)
	})

	s.Run("score recovers from floor", func() {
		key := trust.Key{IdentityID: "dr-recover"}
		_, err := s.store.ApplyDelta(s.ctx, key, -1000)
		s.Require().NoError(err)

		score, err := s.store.ApplyDelta(s.ctx, key, 3)
		s.Require().NoError(err)
		s.Equal(3.0, score)
	})
}

// TestApplyDeltaConcurrent verifies ApplyDelta is an atomic read-modify-write:
// N concurrent +1 deltas on one key must raise the score by exactly N.
func (s *InMemoryStoreSuite) TestApplyDeltaConcurrent() {
	const goroutines = 40
	key := trust.Key{IdentityID: "dr-concurrent"}

	// Start from the floor so clamping cannot mask lost updates.
	_, err := s.store.ApplyDelta(s.ctx, key, -1000)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.store.ApplyDelta(s.ctx, key, 1)
		}()
	}
	wg.Wait()

	score, err := s.store.Score(s.ctx, key)
	s.Require().NoError(err)
	s.Equal(float64(goroutines), score)
}

func (s *InMemoryStoreSuite) TestSetFactors() {
	key := trust.Key{IdentityID: "dr-factors"}

	err := s.store.SetFactors(s.ctx, key, map[string]any{"reason": "in-network grant", "score": 52.0})
	s.Require().NoError(err)
	s.Equal("in-network grant", s.store.Factors(key)["reason"])

	// Last write wins; factors are informational only.
	err = s.store.SetFactors(s.ctx, key, map[string]any{"reason": "flagged"})
	s.Require().NoError(err)
	s.Equal("flagged", s.store.Factors(key)["reason"])
}
