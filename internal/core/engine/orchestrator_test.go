package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/core"
)

type memoryCredentials struct {
	bundles map[string]core.TokenBundle
}

func (m *memoryCredentials) Get(account string) (*core.TokenBundle, error) {
	if bundle, ok := m.bundles[account]; ok {
		return &bundle, nil
	}
	return nil, nil
}

type fakeSearchClient struct {
	people        []core.RawMatch
	peopleErr     error
	companies     []core.RawCompanyMatch
	companiesErr  error
	peopleFilters []core.SearchFilter
	companyNames  []string
}

func (f *fakeSearchClient) SearchPeople(ctx context.Context, bundle core.TokenBundle, filter core.SearchFilter) ([]core.RawMatch, error) {
	f.peopleFilters = append(f.peopleFilters, filter)
	return f.people, f.peopleErr
}

func (f *fakeSearchClient) SearchCompanies(ctx context.Context, bundle core.TokenBundle, name string, limit int) ([]core.RawCompanyMatch, error) {
	f.companyNames = append(f.companyNames, name)
	return f.companies, f.companiesErr
}

type memoryConnectionStore struct {
	saved   []core.ConnectionRecord
	saveErr error
}

func (m *memoryConnectionStore) SaveConnection(ctx context.Context, record core.ConnectionRecord) (core.ConnectionRecord, error) {
	if m.saveErr != nil {
		return core.ConnectionRecord{}, m.saveErr
	}
	record.ID = "stored"
	m.saved = append(m.saved, record)
	return record, nil
}

func testMapper(raw core.RawMatch, searchQuery string, foundAt time.Time) core.ConnectionRecord {
	return core.ConnectionRecord{
		LinkedInURNID: raw.UrnID,
		FirstName:     raw.Name,
		SearchQuery:   searchQuery,
		FoundAt:       foundAt,
	}
}

func newTestOrchestrator(quota *memoryQuotaStore, client *fakeSearchClient, conns *memoryConnectionStore) *Orchestrator {
	clock := func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return &Orchestrator{
		Credentials: &memoryCredentials{bundles: map[string]core.TokenBundle{
			"default": {LiAt: "cookie-value-long-enough"},
		}},
		Client: client,
		Limiter: &RateLimiter{
			Ledger: &Ledger{Store: quota, Clock: clock},
			Config: config.RateLimitConfig{MaxActionsPerDay: 10},
			Clock:  clock,
		},
		Store: conns,
		Map:   testMapper,
		Clock: clock,
	}
}

func TestOrchestratorExecute(t *testing.T) {
	quota := &memoryQuotaStore{}
	client := &fakeSearchClient{
		people: []core.RawMatch{
			{UrnID: "AAA", Name: "Ada"},
			{UrnID: "BBB", Name: "Grace"},
		},
	}
	conns := &memoryConnectionStore{}
	orch := newTestOrchestrator(quota, client, conns)

	records, err := orch.Execute(context.Background(), SearchParams{Keywords: "golang engineer"})
	require.NoError(t, err)

	require.Len(t, records, 2)
	require.Equal(t, "AAA", records[0].LinkedInURNID)
	require.Equal(t, "BBB", records[1].LinkedInURNID)
	require.Equal(t, "golang engineer", records[0].SearchQuery)
	require.Equal(t, "stored", records[0].ID)
	require.Len(t, conns.saved, 2)

	// The search cost exactly one quota unit.
	require.Len(t, quota.entries, 1)
	require.Equal(t, core.ActionSearch, quota.entries[0].ActionKind)
}

func TestOrchestratorDefaultsDepthsAndLimit(t *testing.T) {
	quota := &memoryQuotaStore{}
	client := &fakeSearchClient{}
	orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})

	_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x"})
	require.NoError(t, err)

	require.Len(t, client.peopleFilters, 1)
	filter := client.peopleFilters[0]
	require.Equal(t, []core.NetworkDepth{core.DepthFirst, core.DepthSecond}, filter.NetworkDepths)
	require.Equal(t, 100, filter.Limit)
	require.Empty(t, filter.CurrentCompanyIDs)
}

func TestOrchestratorMissingCredential(t *testing.T) {
	quota := &memoryQuotaStore{}
	client := &fakeSearchClient{}
	orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})

	_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x", Account: "ghost"})

	var authErr *core.AuthMissingError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "ghost", authErr.Account)

	// A misconfigured account never reaches the remote service and never
	// consumes quota.
	require.Empty(t, client.peopleFilters)
	require.Empty(t, quota.entries)
}

func TestOrchestratorCompanyResolution(t *testing.T) {
	t.Run("match narrows the filter", func(t *testing.T) {
		quota := &memoryQuotaStore{}
		client := &fakeSearchClient{
			companies: []core.RawCompanyMatch{{UrnID: "urn:li:company:1337", Name: "Acme"}},
		}
		orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})

		_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x", CompanyName: "Acme"})
		require.NoError(t, err)

		require.Equal(t, []string{"Acme"}, client.companyNames)
		require.Equal(t, []string{"1337"}, client.peopleFilters[0].CurrentCompanyIDs)
	})

	t.Run("no match proceeds unfiltered", func(t *testing.T) {
		quota := &memoryQuotaStore{}
		client := &fakeSearchClient{}
		orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})

		_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x", CompanyName: "Nowhere Inc"})
		require.NoError(t, err)

		require.Len(t, client.peopleFilters, 1)
		require.Empty(t, client.peopleFilters[0].CurrentCompanyIDs)
	})

	t.Run("lookup failure aborts before quota", func(t *testing.T) {
		quota := &memoryQuotaStore{}
		client := &fakeSearchClient{companiesErr: &core.TransportError{Err: errors.New("boom")}}
		orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})

		_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x", CompanyName: "Acme"})

		var transportErr *core.TransportError
		require.ErrorAs(t, err, &transportErr)
		require.Empty(t, quota.entries)
	})
}

func TestOrchestratorQuotaExhausted(t *testing.T) {
	quota := &memoryQuotaStore{}
	client := &fakeSearchClient{}
	orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})
	orch.Limiter.Config.MaxActionsPerDay = 0

	_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x"})

	var quotaErr *core.QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)

	// The remote search must not have run.
	require.Empty(t, client.peopleFilters)
}

func TestOrchestratorSearchErrorPropagates(t *testing.T) {
	quota := &memoryQuotaStore{}
	client := &fakeSearchClient{peopleErr: &core.RemoteRateLimitedError{RetryAfter: time.Minute}}
	orch := newTestOrchestrator(quota, client, &memoryConnectionStore{})

	_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x"})

	var remoteErr *core.RemoteRateLimitedError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, time.Minute, remoteErr.RetryAfter)

	// The quota unit was consumed before the remote call; the failure does
	// not refund it.
	require.Len(t, quota.entries, 1)
}

func TestOrchestratorSaveFailureStopsMapping(t *testing.T) {
	quota := &memoryQuotaStore{}
	client := &fakeSearchClient{people: []core.RawMatch{{UrnID: "AAA"}, {UrnID: "BBB"}}}
	conns := &memoryConnectionStore{saveErr: errors.New("disk full")}
	orch := newTestOrchestrator(quota, client, conns)

	_, err := orch.Execute(context.Background(), SearchParams{Keywords: "x"})
	require.ErrorContains(t, err, "disk full")
}

func TestOrchestratorRemainingActions(t *testing.T) {
	quota := &memoryQuotaStore{}
	orch := newTestOrchestrator(quota, &fakeSearchClient{}, &memoryConnectionStore{})

	remaining, err := orch.RemainingActions(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, remaining)

	_, err = orch.Execute(context.Background(), SearchParams{Keywords: "x"})
	require.NoError(t, err)

	remaining, err = orch.RemainingActions(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9, remaining)
}
