// Package linkedin wraps the unofficial Voyager API behind the search
// capability the orchestrator consumes. Authentication rides on the li_at
// and JSESSIONID session cookies; there is no official client library.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/linkscout/linkscout/internal/core"
)

const (
	defaultBaseURL = "https://www.linkedin.com"
	searchPath     = "/voyager/api/search/blended"
)

// Client performs cookie-authenticated requests against the Voyager API.
// It maps remote failures onto the core error kinds and never retries.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// SearchPeople runs a people search with the given filter criteria.
func (c *Client) SearchPeople(ctx context.Context, bundle core.TokenBundle, filter core.SearchFilter) ([]core.RawMatch, error) {
	params := url.Values{}
	if filter.Keywords != "" {
		params.Set("keywords", filter.Keywords)
	}
	params.Set("origin", "GLOBAL_SEARCH_HEADER")
	params.Set("count", strconv.Itoa(searchCount(filter.Limit)))
	params.Set("filters", buildPeopleFilters(filter))

	body, err := c.get(ctx, bundle, searchPath, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Included []struct {
			EntityUrn        string `json:"entityUrn"`
			PublicIdentifier string `json:"publicIdentifier"`
			Title            struct {
				Text string `json:"text"`
			} `json:"title"`
			PrimarySubtitle struct {
				Text string `json:"text"`
			} `json:"primarySubtitle"`
			SecondarySubtitle struct {
				Text string `json:"text"`
			} `json:"secondarySubtitle"`
			MemberDistance struct {
				Value string `json:"value"`
			} `json:"memberDistance"`
		} `json:"included"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("decode people search response: %w", err)}
	}

	matches := make([]core.RawMatch, 0, len(payload.Included))
	for _, element := range payload.Included {
		urnID, ok := profileURNID(element.EntityUrn)
		if !ok {
			continue
		}
		matches = append(matches, core.RawMatch{
			UrnID:    urnID,
			PublicID: element.PublicIdentifier,
			Name:     element.Title.Text,
			JobTitle: element.PrimarySubtitle.Text,
			Location: element.SecondarySubtitle.Text,
			Distance: element.MemberDistance.Value,
		})
		if len(matches) >= searchCount(filter.Limit) {
			break
		}
	}

	return matches, nil
}

// SearchCompanies runs a company search by name.
func (c *Client) SearchCompanies(ctx context.Context, bundle core.TokenBundle, name string, limit int) ([]core.RawCompanyMatch, error) {
	params := url.Values{}
	params.Set("keywords", name)
	params.Set("origin", "GLOBAL_SEARCH_HEADER")
	params.Set("count", strconv.Itoa(searchCount(limit)))
	params.Set("filters", "List(resultType->COMPANIES)")

	body, err := c.get(ctx, bundle, searchPath, params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Included []struct {
			EntityUrn string `json:"entityUrn"`
			Name      string `json:"name"`
		} `json:"included"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &core.TransportError{Err: fmt.Errorf("decode company search response: %w", err)}
	}

	matches := make([]core.RawCompanyMatch, 0, len(payload.Included))
	for _, element := range payload.Included {
		if !strings.Contains(element.EntityUrn, ":company:") {
			continue
		}
		matches = append(matches, core.RawCompanyMatch{
			UrnID: element.EntityUrn,
			Name:  element.Name,
		})
		if len(matches) >= searchCount(limit) {
			break
		}
	}

	return matches, nil
}

func (c *Client) get(ctx context.Context, bundle core.TokenBundle, path string, params url.Values) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL() + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}

	req.Header.Set("Accept", "application/vnd.linkedin.normalized+json+2.1")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.AddCookie(&http.Cookie{Name: "li_at", Value: bundle.LiAt})
	if bundle.JSessionID != "" {
		jsession := strings.Trim(bundle.JSessionID, `"`)
		req.AddCookie(&http.Cookie{Name: "JSESSIONID", Value: jsession})
		// Voyager requires the csrf token to echo the JSESSIONID cookie.
		req.Header.Set("Csrf-Token", jsession)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &core.TransportError{Err: err}
		}
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &core.AuthFailedError{Reason: resp.Status}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &core.RemoteRateLimitedError{RetryAfter: retryAfter(resp)}
	default:
		return nil, &core.TransportError{Err: fmt.Errorf("unexpected response: %s", resp.Status)}
	}
}

func (c *Client) baseURL() string {
	if c != nil && c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
}

func buildPeopleFilters(filter core.SearchFilter) string {
	clauses := []string{"resultType->PEOPLE"}

	if len(filter.NetworkDepths) > 0 {
		codes := make([]string, 0, len(filter.NetworkDepths))
		for _, depth := range filter.NetworkDepths {
			codes = append(codes, string(depth))
		}
		clauses = append(clauses, "network->"+strings.Join(codes, "|"))
	}
	if len(filter.CurrentCompanyIDs) > 0 {
		clauses = append(clauses, "currentCompany->"+strings.Join(filter.CurrentCompanyIDs, "|"))
	}
	if len(filter.Regions) > 0 {
		clauses = append(clauses, "geoUrn->"+strings.Join(filter.Regions, "|"))
	}

	return "List(" + strings.Join(clauses, ",") + ")"
}

func profileURNID(entityUrn string) (string, bool) {
	const marker = ":fsd_profile:"
	idx := strings.Index(entityUrn, marker)
	if idx < 0 {
		return "", false
	}
	return entityUrn[idx+len(marker):], true
}

func searchCount(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil || resp.Header == nil {
		return 0
	}

	retry := resp.Header.Get("Retry-After")
	if retry == "" {
		return 0
	}

	if seconds, err := time.ParseDuration(retry + "s"); err == nil {
		return seconds
	}
	if parsed, err := http.ParseTime(retry); err == nil {
		return time.Until(parsed)
	}
	return 0
}
