// Package kipris is a read-only client for the KIPRIS Plus patent registry.
//
// It exposes three query operations — applicant search, patent detail, and
// citing-patent listing — over the registry's XML REST API, and can present
// them as MCP tools via RegisterMCP.
package kipris

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	defaultPageSize = 20
	// maxPageSize is the ceiling offered to callers of this client.
	maxPageSize = 100
	// maxDocsCount is the upstream registry's own per-page ceiling.
	maxDocsCount = 500
)

// statusFilters is the set of valid registration-status filters:
// "A" published, "R" registered, "J" rejected, "" no filter.
var statusFilters = map[string]bool{"": true, "A": true, "R": true, "J": true}

// ApplicantQuery describes one applicant search page.
type ApplicantQuery struct {
	// Applicant is the filer name to search for. Required.
	Applicant string
	// Page is 1-based. Values below 1 are treated as 1.
	Page int
	// PageSize in [1,100]. Zero means the default of 20.
	PageSize int
	// Status filters by registration status: "A", "R", "J" or "" for all.
	Status string
}

func (q *ApplicantQuery) validate() error {
	if q.Applicant == "" {
		return fmt.Errorf("%w: applicant name is required", ErrInvalidInput)
	}
	if q.PageSize > maxPageSize {
		return fmt.Errorf("%w: page_size exceeds %d", ErrInvalidInput, maxPageSize)
	}
	if !statusFilters[q.Status] {
		return fmt.Errorf("%w: unknown status filter %q", ErrInvalidInput, q.Status)
	}
	return nil
}

// SearchByApplicant searches patents filed by the given applicant. Zero
// upstream matches yield an empty result, never an error.
func (c *Client) SearchByApplicant(ctx context.Context, q ApplicantQuery) (*SearchResult, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxDocsCount {
		size = maxDocsCount
	}

	params := url.Values{}
	params.Set("applicant", q.Applicant)
	params.Set("docsStart", strconv.Itoa(page))
	params.Set("docsCount", strconv.Itoa(size))
	// Patent filings only; the same services also cover utility models.
	params.Set("patent", "true")
	params.Set("utility", "false")
	params.Set("lastvalue", q.Status)

	doc, err := c.execute(ctx, "applicant_search", params)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{Patents: []Patent{}, Page: page}
	if doc == nil {
		return result, nil
	}

	patents, err := collectPatents(doc, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	result.Patents = patents
	result.TotalCount = doc.intText("TotalSearchCount")
	result.PageSize = len(patents)
	if page*size < result.TotalCount {
		result.HasMore = true
		result.NextPage = page + 1
	}
	return result, nil
}

// PatentDetail fetches one patent in detailed mode. The application number
// may be hyphen-grouped or plain. Returns ErrNotFound when the registry has
// no matching record, which is distinct from a transport failure.
func (c *Client) PatentDetail(ctx context.Context, applicationNumber string) (*Patent, error) {
	appNo, err := NormalizeApplicationNumber(applicationNumber)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("applicationNumber", appNo)
	params.Set("docsStart", "1")

	doc, err := c.execute(ctx, "patent_info", params)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	patents, err := collectPatents(doc, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(patents) == 0 {
		return nil, ErrNotFound
	}
	return &patents[0], nil
}

// CitingPatents lists the later filings that cite the given patent, in
// document order. No citations is an empty slice, not an error.
func (c *Client) CitingPatents(ctx context.Context, applicationNumber string) ([]Citation, error) {
	appNo, err := NormalizeApplicationNumber(applicationNumber)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("standardCitationApplicationNumber", appNo)

	doc, err := c.execute(ctx, "citing_info", params)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return []Citation{}, nil
	}

	citations, err := collectCitations(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return citations, nil
}
