package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linkscout/linkscout/internal/core"
)

// CredentialStore looks up stored session cookies by account name.
// A nil bundle with a nil error means no credential is stored.
type CredentialStore interface {
	Get(account string) (*core.TokenBundle, error)
}

// SearchClient is the remote search capability. Implementations fail with
// the error kinds in core (auth, remote rate limit, transport); the
// orchestrator never retries them.
type SearchClient interface {
	SearchPeople(ctx context.Context, bundle core.TokenBundle, filter core.SearchFilter) ([]core.RawMatch, error)
	SearchCompanies(ctx context.Context, bundle core.TokenBundle, name string, limit int) ([]core.RawCompanyMatch, error)
}

// ConnectionStore persists mapped search results.
type ConnectionStore interface {
	SaveConnection(ctx context.Context, record core.ConnectionRecord) (core.ConnectionRecord, error)
}

// Mapper converts one raw remote match into a connection record.
type Mapper func(raw core.RawMatch, searchQuery string, foundAt time.Time) core.ConnectionRecord

// SearchParams are the caller-facing inputs for one search invocation.
type SearchParams struct {
	Keywords    string
	CompanyName string
	Location    string
	Depths      []core.NetworkDepth
	Limit       int
	Account     string
}

// Orchestrator sequences one search: credential lookup, optional company
// resolution, local rate limiting, the remote search, and persistence of
// the mapped results. It keeps no state between invocations.
type Orchestrator struct {
	Credentials CredentialStore
	Client      SearchClient
	Limiter     *RateLimiter
	Store       ConnectionStore
	Map         Mapper
	Clock       func() time.Time
}

const defaultSearchLimit = 100

// Execute runs one search end to end and returns the mapped records in the
// order the remote search produced them.
func (o *Orchestrator) Execute(ctx context.Context, params SearchParams) ([]core.ConnectionRecord, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Map == nil {
		return nil, errors.New("orchestrator mapper is not configured")
	}

	account := strings.TrimSpace(params.Account)
	if account == "" {
		account = "default"
	}

	// Credential lookup comes first: a misconfigured account must never
	// cost a quota unit.
	bundle, err := o.Credentials.Get(account)
	if err != nil {
		return nil, fmt.Errorf("load credential for %q: %w", account, err)
	}
	if bundle == nil {
		return nil, &core.AuthMissingError{Account: account}
	}

	var companyIDs []string
	if name := strings.TrimSpace(params.CompanyName); name != "" {
		matches, err := o.Client.SearchCompanies(ctx, *bundle, name, 1)
		if err != nil {
			return nil, err
		}
		// No match is a best-effort degradation: search proceeds
		// without the company filter.
		if len(matches) > 0 {
			if id := core.CompanyIDFromURN(matches[0].UrnID); id != "" {
				companyIDs = []string{id}
			}
		}
	}

	if err := o.Limiter.CheckAndConsume(ctx, core.ActionSearch); err != nil {
		return nil, err
	}

	filter := o.buildFilter(params, companyIDs)
	raw, err := o.Client.SearchPeople(ctx, *bundle, filter)
	if err != nil {
		return nil, err
	}

	records := make([]core.ConnectionRecord, 0, len(raw))
	for _, match := range raw {
		record := o.Map(match, params.Keywords, o.now())
		saved, err := o.Store.SaveConnection(ctx, record)
		if err != nil {
			// Individual saves are independent; earlier records stay
			// persisted, the failure surfaces unchanged.
			return nil, err
		}
		records = append(records, saved)
	}

	return records, nil
}

// RemainingActions forwards to the rate limiter; it performs no action
// itself.
func (o *Orchestrator) RemainingActions(ctx context.Context) (int, error) {
	return o.Limiter.RemainingToday(ctx)
}

func (o *Orchestrator) buildFilter(params SearchParams, companyIDs []string) core.SearchFilter {
	depths := params.Depths
	if len(depths) == 0 {
		depths = []core.NetworkDepth{core.DepthFirst, core.DepthSecond}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var regions []string
	if location := strings.TrimSpace(params.Location); location != "" {
		regions = []string{location}
	}

	return core.SearchFilter{
		Keywords:          params.Keywords,
		NetworkDepths:     depths,
		CurrentCompanyIDs: companyIDs,
		Regions:           regions,
		Limit:             limit,
	}
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Clock != nil {
		return o.Clock().UTC()
	}
	return time.Now().UTC()
}
