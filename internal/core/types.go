package core

import (
	"strings"
	"time"
)

// ActionKind identifies a quota-consuming remote action.
type ActionKind string

const (
	ActionSearch      ActionKind = "search"
	ActionProfileView ActionKind = "profile_view"
)

// QuotaEntry is one append-only record of an action taken.
// The id is assigned by the store; OccurredAt is stamped by the ledger.
type QuotaEntry struct {
	ID         int64      `json:"id"`
	ActionKind ActionKind `json:"action_kind"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NetworkDepth is the remote service's connection degree filter code.
type NetworkDepth string

const (
	DepthFirst  NetworkDepth = "F"
	DepthSecond NetworkDepth = "S"
	DepthThird  NetworkDepth = "O"
)

// ParseNetworkDepth maps a degree number (1, 2, 3) to its filter code.
func ParseNetworkDepth(degree int) (NetworkDepth, bool) {
	switch degree {
	case 1:
		return DepthFirst, true
	case 2:
		return DepthSecond, true
	case 3:
		return DepthThird, true
	default:
		return "", false
	}
}

// SearchFilter carries the structured criteria for a people search.
type SearchFilter struct {
	Keywords          string         `json:"keywords,omitempty"`
	NetworkDepths     []NetworkDepth `json:"network_depths,omitempty"`
	CurrentCompanyIDs []string       `json:"current_company_ids,omitempty"`
	Regions           []string       `json:"regions,omitempty"`
	Limit             int            `json:"limit"`
}

// TokenBundle holds the session cookies for one stored account.
type TokenBundle struct {
	LiAt       string `json:"li_at"`
	JSessionID string `json:"jsessionid,omitempty"`
}

// RawMatch is one unparsed people-search hit from the remote service.
type RawMatch struct {
	UrnID    string `json:"urn_id"`
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
	JobTitle string `json:"jobtitle,omitempty"`
	Location string `json:"location,omitempty"`
	Distance string `json:"distance,omitempty"`
}

// RawCompanyMatch is one unparsed company-search hit.
type RawCompanyMatch struct {
	UrnID string `json:"urn_id"`
	Name  string `json:"name"`
}

// ConnectionRecord is one persisted search result. Records are immutable
// after creation; the id is assigned by the store on first save.
type ConnectionRecord struct {
	ID               string    `json:"id"`
	LinkedInURNID    string    `json:"linkedin_urn_id"`
	PublicID         string    `json:"public_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Headline         string    `json:"headline,omitempty"`
	Location         string    `json:"location,omitempty"`
	CurrentCompany   string    `json:"current_company,omitempty"`
	CurrentTitle     string    `json:"current_title,omitempty"`
	ProfileURL       string    `json:"profile_url"`
	ConnectionDegree int       `json:"connection_degree"`
	SearchQuery      string    `json:"search_query,omitempty"`
	FoundAt          time.Time `json:"found_at"`
}

// FullName joins the first and last name components.
func (r ConnectionRecord) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// CompanyIDFromURN extracts the numeric company id from an URN such as
// "urn:li:company:12345". Bare numeric ids pass through unchanged; anything
// else yields an empty string.
func CompanyIDFromURN(urn string) string {
	urn = strings.TrimSpace(urn)
	if urn == "" {
		return ""
	}
	if idx := strings.LastIndex(urn, ":"); idx >= 0 {
		urn = urn[idx+1:]
	}
	for _, r := range urn {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return urn
}

// DatabaseStats aggregates stored-connection statistics for status display.
type DatabaseStats struct {
	TotalConnections   int         `json:"total_connections"`
	UniqueCompanies    int         `json:"unique_companies"`
	UniqueLocations    int         `json:"unique_locations"`
	SearchQueries      []string    `json:"search_queries"`
	DegreeDistribution map[int]int `json:"degree_distribution"`
}
