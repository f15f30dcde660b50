// CLAUDE:SUMMARY Result records returned by the query operations: Patent, SearchResult, Citation.
package kipris

// Patent is one filing as reported by the registry. Every field except the
// application number may be empty, depending on where the filing is in its
// lifecycle (published-only, registered, rejected).
type Patent struct {
	ApplicationNumber  string `json:"application_number"`
	ApplicationDate    string `json:"application_date"`
	Title              string `json:"title"`
	Applicant          string `json:"applicant"`
	RegistrationStatus string `json:"registration_status"`

	OpeningNumber string `json:"opening_number"`
	OpeningDate   string `json:"opening_date"`

	RegistrationNumber string `json:"registration_number"`
	RegistrationDate   string `json:"registration_date"`

	// Abstract and IPCNumber are populated only by detail lookups. Summary
	// records omit the keys entirely, which is distinct from a detail record
	// where the registry simply has no value.
	Abstract  *string `json:"abstract,omitempty"`
	IPCNumber *string `json:"ipc_number,omitempty"`
}

// SearchResult is one page of an applicant search.
type SearchResult struct {
	Patents    []Patent `json:"patents"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	// PageSize is the number of records actually returned on this page.
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
	// NextPage is page+1 when HasMore, otherwise omitted.
	NextPage int `json:"next_page,omitempty"`
}

// Citation is a later filing's formal reference to the standard filing.
type Citation struct {
	CitingApplicationNumber string `json:"citing_application_number"`
	StandardCitationNumber  string `json:"standard_citation_number"`
	StatusCode              string `json:"status_code"`
	StatusName              string `json:"status_name"`
	CitationTypeCode        string `json:"citation_type_code"`
	CitationTypeName        string `json:"citation_type_name"`
}
