package app

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mockPhaseRepository implements the interface
var _ secondary.PhaseRepository = (*mockPhaseRepository)(nil)

// mockPhaseRepository implements secondary.PhaseRepository for testing.
type mockPhaseRepository struct {
	mu     sync.Mutex
	phases map[string]*secondary.PhaseRecord
	nextID int
	calls  []string

	fetchErr  error
	createErr error
	updateErr error
	deleteErr error

	// createErr is returned once this many creates have succeeded.
	createErrAfter int
	creates        int

	// When block is non-nil every write announces itself on entered
	// and then waits for block to be closed.
	block   chan struct{}
	entered chan struct{}

	inFlight    int
	maxInFlight int
}

func newMockPhaseRepository() *mockPhaseRepository {
	return &mockPhaseRepository{
		phases: make(map[string]*secondary.PhaseRecord),
	}
}

func (m *mockPhaseRepository) enter(call string) func() {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	block, entered := m.block, m.entered
	m.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}
}

func (m *mockPhaseRepository) FetchPhases(ctx context.Context, campaignID string) ([]*secondary.PhaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var result []*secondary.PhaseRecord
	for _, p := range m.phases {
		if p.CampaignID == campaignID {
			copied := *p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PhaseNumber < result[j].PhaseNumber })
	return result, nil
}

func (m *mockPhaseRepository) CreatePhase(ctx context.Context, campaignID string, rec *secondary.PhaseRecord) (*secondary.PhaseRecord, error) {
	defer m.enter("create")()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil && m.creates >= m.createErrAfter {
		return nil, m.createErr
	}
	m.creates++
	m.nextID++
	stored := *rec
	stored.ID = fmt.Sprintf("PHASE-%03d", m.nextID)
	stored.CampaignID = campaignID
	stored.Version = 1
	m.phases[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *mockPhaseRepository) UpdatePhase(ctx context.Context, phaseID string, rec *secondary.PhaseRecord) (*secondary.PhaseRecord, error) {
	defer m.enter("update")()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	existing, ok := m.phases[phaseID]
	if !ok || existing.Version != rec.Version {
		return nil, secondary.NewPersistenceError(secondary.Conflict, "update phase", phaseID, nil)
	}
	stored := *rec
	stored.ID = phaseID
	stored.CampaignID = existing.CampaignID
	stored.Version = existing.Version + 1
	m.phases[phaseID] = &stored
	out := stored
	return &out, nil
}

func (m *mockPhaseRepository) DeletePhase(ctx context.Context, phaseID string) error {
	defer m.enter("delete")()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.phases[phaseID]; !ok {
		return secondary.NewPersistenceError(secondary.Conflict, "delete phase", phaseID, nil)
	}
	delete(m.phases, phaseID)
	return nil
}

func (m *mockPhaseRepository) seed(campaignID string, number int, start string, days int, goal string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("PHASE-%03d", m.nextID)
	m.phases[id] = &secondary.PhaseRecord{
		ID:           id,
		CampaignID:   campaignID,
		PhaseNumber:  number,
		StartDate:    start,
		DurationDays: days,
		FundingGoal:  goal,
		Version:      1,
	}
	return id
}

func (m *mockPhaseRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.phases)
}

// mockAuditLog implements secondary.AuditLog and secondary.AuditReader for testing.
type mockAuditLog struct {
	entries []*secondary.AuditRecord
	err     error
}

func (m *mockAuditLog) LogCreate(ctx context.Context, entityType, entityID string) error {
	return m.add(entityType, entityID, "create", "", "", "")
}

func (m *mockAuditLog) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return m.add(entityType, entityID, "update", fieldName, oldValue, newValue)
}

func (m *mockAuditLog) LogDelete(ctx context.Context, entityType, entityID string) error {
	return m.add(entityType, entityID, "delete", "", "", "")
}

func (m *mockAuditLog) add(entityType, entityID, action, field, oldValue, newValue string) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, &secondary.AuditRecord{
		ID:         int64(len(m.entries) + 1),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  field,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
	return nil
}

func (m *mockAuditLog) ListForEntity(ctx context.Context, entityType, entityID string) ([]*secondary.AuditRecord, error) {
	var result []*secondary.AuditRecord
	for _, e := range m.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ============================================================================
// Test Helpers
// ============================================================================

func date(s string) phase.Date { return phase.MustParseDate(s) }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fullInput(start string, days int, goal string) phase.Input {
	s := date(start)
	g := money(goal)
	return phase.Input{StartDate: &s, DurationDays: &days, FundingGoal: &g}
}

func goalOnly(goal string) phase.Input {
	g := money(goal)
	return phase.Input{FundingGoal: &g}
}

func sequentialKeys() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("key-%d", n)
	}
}

func newTestDraft(campaignStart string, opts ...DraftOption) (*DraftController, *mockPhaseRepository) {
	repo := newMockPhaseRepository()
	executor := NewEffectExecutor(repo, nil, nil)
	opts = append([]DraftOption{WithKeyGenerator(sequentialKeys())}, opts...)
	return NewDraftController("CAMP-001", date(campaignStart), repo, executor, opts...), repo
}
