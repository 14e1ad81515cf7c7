package discovery

import (
	"context"
	"errors"
	"testing"

	"retreatly/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySessionStore struct {
	states map[string]*models.SessionState
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{states: make(map[string]*models.SessionState)}
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (*models.SessionState, error) {
	if state, ok := s.states[sessionID]; ok {
		return state, nil
	}
	return &models.SessionState{}, nil
}

func (s *memorySessionStore) Set(ctx context.Context, sessionID string, state *models.SessionState) error {
	s.states[sessionID] = state
	return nil
}

func (s *memorySessionStore) Clear(ctx context.Context, sessionID string) error {
	delete(s.states, sessionID)
	return nil
}

type fakeCompletion struct {
	out string
	err error
}

func (f fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	return f.out, f.err
}

func newTestService(repo *fakeRepo, providers []ExternalProvider, ai fakeCompletion, useAI bool) (*DefaultDiscoveryService, *memorySessionStore) {
	sessions := newMemorySessionStore()
	svc := &DefaultDiscoveryService{
		Sourcer: &Sourcer{
			Repo:      repo,
			Providers: providers,
			Logger:    zap.NewNop(),
		},
		Sessions: sessions,
		Logger:   zap.NewNop(),
	}
	if useAI {
		svc.AI = ai
	}
	return svc, sessions
}

func TestProcessTurnAccumulatesAcrossTurns(t *testing.T) {
	repo := &fakeRepo{events: []models.CanonicalEvent{
		sourcerEvent("catalog-1"), sourcerEvent("catalog-2"), sourcerEvent("catalog-3"),
	}}
	svc, sessions := newTestService(repo, nil, fakeCompletion{}, false)

	ctx := context.Background()
	resp, err := svc.ProcessTurn(ctx, models.ChatRequest{SessionID: "s1", Text: "affordable yoga please"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Reply)
	assert.NotEmpty(t, resp.Recommendations)

	state := sessions.states["s1"]
	require.NotNil(t, state)
	assert.Len(t, state.Turns, 2) // user turn plus assistant turn
	assert.Equal(t, []string{"yoga"}, state.Profile.Interests)
	assert.Equal(t, "low", state.Profile.Budget)

	// Second turn refines the budget without losing the interest.
	_, err = svc.ProcessTurn(ctx, models.ChatRequest{SessionID: "s1", Text: "actually make it luxury"})
	require.NoError(t, err)

	state = sessions.states["s1"]
	assert.Len(t, state.Turns, 4)
	assert.Equal(t, []string{"yoga"}, state.Profile.Interests)
	assert.Equal(t, "high", state.Profile.Budget)
	assert.Equal(t, []string{"affordable yoga please", "actually make it luxury"}, state.Profile.PreviousSearches)
}

func TestProcessTurnSuggestsOnEmptyResults(t *testing.T) {
	svc, _ := newTestService(&fakeRepo{}, nil, fakeCompletion{}, false)

	resp, err := svc.ProcessTurn(context.Background(), models.ChatRequest{SessionID: "s1", Text: "underwater basket weaving"})
	require.NoError(t, err)
	assert.Empty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.Suggestion)
}

func TestProcessTurnUsesAIExtraction(t *testing.T) {
	repo := &fakeRepo{events: []models.CanonicalEvent{sourcerEvent("catalog-1")}}
	ai := fakeCompletion{out: `{"interests":["meditation"],"location":"Sedona"}`}
	svc, sessions := newTestService(repo, nil, ai, true)

	_, err := svc.ProcessTurn(context.Background(), models.ChatRequest{SessionID: "s1", Text: "somewhere quiet"})
	require.NoError(t, err)

	state := sessions.states["s1"]
	assert.Equal(t, []string{"meditation"}, state.Profile.Interests)
	assert.Equal(t, "Sedona", state.Profile.Location)
	// The raw message still lands in the search history.
	assert.Equal(t, []string{"somewhere quiet"}, state.Profile.PreviousSearches)
}

func TestProcessTurnFallsBackWhenAIFails(t *testing.T) {
	repo := &fakeRepo{events: []models.CanonicalEvent{sourcerEvent("catalog-1")}}
	ai := fakeCompletion{err: errors.New("quota exceeded")}
	svc, sessions := newTestService(repo, nil, ai, true)

	_, err := svc.ProcessTurn(context.Background(), models.ChatRequest{SessionID: "s1", Text: "cheap yoga"})
	require.NoError(t, err)

	state := sessions.states["s1"]
	assert.Equal(t, []string{"yoga"}, state.Profile.Interests)
	assert.Equal(t, "low", state.Profile.Budget)
}

func TestProcessTurnReportsScraping(t *testing.T) {
	repo := &fakeRepo{} // thin catalog forces external sourcing
	provider := fakeProvider{name: "venue", events: []models.CanonicalEvent{sourcerEvent("venue-1")}}
	svc, _ := newTestService(repo, []ExternalProvider{provider}, fakeCompletion{}, false)

	resp, err := svc.ProcessTurn(context.Background(), models.ChatRequest{SessionID: "s1", Text: "yoga"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Scraping.NewRetreatsFound)
	assert.Equal(t, []string{"venue"}, resp.Scraping.Sources)
	require.NotEmpty(t, resp.Recommendations)

	found := false
	for _, rec := range resp.Recommendations {
		if rec.Event.ID == "venue-1" {
			found = true
			assert.True(t, rec.IsScraped)
		}
	}
	assert.True(t, found)
}

func TestSimilarExcludesSelf(t *testing.T) {
	self := sourcerEvent("catalog-1")
	self.Location.City = "Austin"
	other := sourcerEvent("catalog-2")
	other.Location.City = "Austin"

	repo := &fakeRepo{events: []models.CanonicalEvent{self, other}}
	svc, _ := newTestService(repo, nil, fakeCompletion{}, false)

	recs, err := svc.Similar(context.Background(), "catalog-1", 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "catalog-2", recs[0].Event.ID)
}

func TestSubmitCommunityEventRejectsMalformed(t *testing.T) {
	svc, _ := newTestService(&fakeRepo{}, nil, fakeCompletion{}, false)

	_, err := svc.SubmitCommunityEvent(context.Background(), models.CommunityRecord{Title: "No Date"})
	var malformed *MalformedRecordError
	require.ErrorAs(t, err, &malformed)
}

func TestBrowseDedupesSnapshot(t *testing.T) {
	repo := &fakeRepo{events: []models.CanonicalEvent{
		sourcerEvent("catalog-1"), sourcerEvent("catalog-1"), sourcerEvent("catalog-2"),
	}}
	svc, _ := newTestService(repo, nil, fakeCompletion{}, false)

	page, err := svc.Browse(context.Background(), models.EventFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}
