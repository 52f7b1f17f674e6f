package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ajharbinger/poolvest-insights/internal/events"
	"github.com/ajharbinger/poolvest-insights/internal/models"
	"github.com/ajharbinger/poolvest-insights/internal/repository"
	"github.com/ajharbinger/poolvest-insights/internal/scoring"
	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the database shared by all fake repositories
type fakeStore struct {
	users         map[uuid.UUID]*models.User
	opportunities map[uuid.UUID]*models.Opportunity
	milestones    map[uuid.UUID][]models.Milestone
	agreements    map[uuid.UUID][]models.Agreement
	members       map[uuid.UUID]map[uuid.UUID]bool
	leaders       []*models.PoolLeaderPerformance

	riskWrites map[uuid.UUID]scoring.RiskResult
	calls      map[string]int

	failMilestones error
	failUpdate     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[uuid.UUID]*models.User{},
		opportunities: map[uuid.UUID]*models.Opportunity{},
		milestones:    map[uuid.UUID][]models.Milestone{},
		agreements:    map[uuid.UUID][]models.Agreement{},
		members:       map[uuid.UUID]map[uuid.UUID]bool{},
		riskWrites:    map[uuid.UUID]scoring.RiskResult{},
		calls:         map[string]int{},
	}
}

func (s *fakeStore) repos() *repository.Repositories {
	repos := &repository.Repositories{
		User:              &fakeUserRepo{s},
		Opportunity:       &fakeOpportunityRepo{s},
		Milestone:         &fakeMilestoneRepo{s},
		Agreement:         &fakeAgreementRepo{s},
		Pool:              &fakePoolRepo{s},
		LeaderPerformance: &fakeLeaderRepo{s},
	}
	repos.Tx = &fakeTx{repos: repos}
	return repos
}

func (s *fakeStore) addUser(role models.UserRole, reliability *float64) *models.User {
	u := &models.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", Role: string(role), ReliabilityScore: reliability}
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addOpportunity(owner uuid.UUID, mutate func(*models.Opportunity)) *models.Opportunity {
	o := &models.Opportunity{ID: uuid.New(), EntrepreneurID: owner, Title: "Opportunity", AIInsights: []byte(`{}`)}
	if mutate != nil {
		mutate(o)
	}
	s.opportunities[o.ID] = o
	return o
}

type fakeTx struct {
	repos *repository.Repositories
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(f.repos)
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.calls["User.GetByID"]++
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.calls["User.GetByIDForUpdate"]++
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) UpdateReliabilityScore(ctx context.Context, id uuid.UUID, score float64) error {
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ReliabilityScore = &score
	return nil
}

func (r *fakeUserRepo) ListEntrepreneurIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, u := range r.s.users {
		if u.IsEntrepreneur() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeOpportunityRepo struct{ s *fakeStore }

func (r *fakeOpportunityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	r.s.calls["Opportunity.GetByID"]++
	o, ok := r.s.opportunities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOpportunityRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOpportunityRepo) UpdateRiskAssessment(ctx context.Context, id uuid.UUID, result scoring.RiskResult, assessedAt time.Time) error {
	if r.s.failUpdate != nil {
		return r.s.failUpdate
	}
	o, ok := r.s.opportunities[id]
	if !ok {
		return repository.ErrNotFound
	}
	risk := result.OverallRisk
	o.RiskScore = &risk
	r.s.riskWrites[id] = result
	return nil
}

func (r *fakeOpportunityRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range r.s.opportunities {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeMilestoneRepo struct{ s *fakeStore }

func (r *fakeMilestoneRepo) ListByEntrepreneur(ctx context.Context, entrepreneurID uuid.UUID) ([]models.Milestone, error) {
	if r.s.failMilestones != nil {
		return nil, r.s.failMilestones
	}
	return r.s.milestones[entrepreneurID], nil
}

type fakeAgreementRepo struct{ s *fakeStore }

func (r *fakeAgreementRepo) ListByEntrepreneur(ctx context.Context, entrepreneurID uuid.UUID) ([]models.Agreement, error) {
	return r.s.agreements[entrepreneurID], nil
}

type fakePoolRepo struct{ s *fakeStore }

func (r *fakePoolRepo) IsMember(ctx context.Context, poolID, userID uuid.UUID) (bool, error) {
	r.s.calls["Pool.IsMember"]++
	return r.s.members[poolID][userID], nil
}

type fakeLeaderRepo struct{ s *fakeStore }

func (r *fakeLeaderRepo) FindForUpdate(ctx context.Context, poolID, userID uuid.UUID, role models.LeaderRole) (*models.PoolLeaderPerformance, error) {
	var found []*models.PoolLeaderPerformance
	for _, p := range r.s.leaders {
		if p.PoolID == poolID && p.UserID == userID && p.Role == role {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return nil, repository.ErrNotFound
	case 1:
		copied := *found[0]
		return &copied, nil
	default:
		return nil, repository.ErrAmbiguous
	}
}

func (r *fakeLeaderRepo) UpdateScore(ctx context.Context, id uuid.UUID, score float64, evaluatedAt time.Time) error {
	for _, p := range r.s.leaders {
		if p.ID == id {
			p.OverallScore = &score
			p.LastEvaluationDate = &evaluatedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var errDatabaseDown = errors.New("connection refused")
