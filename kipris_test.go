package kipris

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
)

// queryRecorder serves fixed XML and remembers each request's query values.
type queryRecorder struct {
	mu      sync.Mutex
	body    string
	queries []map[string]string
}

func (qr *queryRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	qr.mu.Lock()
	q := map[string]string{}
	for k, v := range r.URL.Query() {
		q[k] = v[0]
	}
	qr.queries = append(qr.queries, q)
	qr.mu.Unlock()
	io.WriteString(w, qr.body)
}

func (qr *queryRecorder) last(t *testing.T) map[string]string {
	t.Helper()
	qr.mu.Lock()
	defer qr.mu.Unlock()
	if len(qr.queries) == 0 {
		t.Fatal("no requests recorded")
	}
	return qr.queries[len(qr.queries)-1]
}

func searchXML(total int, items string) string {
	return fmt.Sprintf(`<response><body><items><TotalSearchCount>%d</TotalSearchCount>%s</items></body></response>`, total, items)
}

func TestSearchByApplicant(t *testing.T) {
	rec := &queryRecorder{body: searchResponseXML}
	client := newTestClient(t, Config{}, rec)

	result, err := client.SearchByApplicant(context.Background(), ApplicantQuery{
		Applicant: "Acme Electronics",
		Page:      1,
		PageSize:  20,
	})
	if err != nil {
		t.Fatalf("SearchByApplicant: %v", err)
	}

	q := rec.last(t)
	want := map[string]string{
		"applicant": "Acme Electronics",
		"docsStart": "1",
		"docsCount": "20",
		"patent":    "true",
		"utility":   "false",
		"lastvalue": "",
	}
	for k, v := range want {
		if q[k] != v {
			t.Errorf("param %s = %q, want %q", k, q[k], v)
		}
	}

	if result.TotalCount != 42 {
		t.Errorf("TotalCount = %d, want 42", result.TotalCount)
	}
	if len(result.Patents) != 2 || result.PageSize != 2 {
		t.Errorf("got %d patents (page_size %d), want 2", len(result.Patents), result.PageSize)
	}
	if result.Patents[0].ApplicationNumber != "1020200111111" {
		t.Errorf("order: first = %q", result.Patents[0].ApplicationNumber)
	}
	if !result.HasMore || result.NextPage != 2 {
		t.Errorf("HasMore = %v, NextPage = %d; want true, 2", result.HasMore, result.NextPage)
	}
}

func TestSearchByApplicant_PaginationInvariant(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int
		hasMore  bool
	}{
		{"first of many", 1, 20, 42, true},
		{"middle page", 2, 20, 42, true},
		{"last partial page", 3, 20, 42, false},
		{"exact boundary", 2, 20, 40, false},
		{"single result", 1, 1, 1, false},
		{"one past a full page", 1, 100, 101, true},
		{"empty", 1, 20, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, Config{}, xmlHandler(searchXML(tt.total, "")))
			result, err := client.SearchByApplicant(context.Background(), ApplicantQuery{
				Applicant: "Acme",
				Page:      tt.page,
				PageSize:  tt.pageSize,
			})
			if err != nil {
				t.Fatalf("SearchByApplicant: %v", err)
			}
			if result.HasMore != tt.hasMore {
				t.Errorf("HasMore = %v, want %v", result.HasMore, tt.hasMore)
			}
			if tt.hasMore && result.NextPage != tt.page+1 {
				t.Errorf("NextPage = %d, want %d", result.NextPage, tt.page+1)
			}
			if !tt.hasMore && result.NextPage != 0 {
				t.Errorf("NextPage = %d, want absent", result.NextPage)
			}
		})
	}
}

func TestSearchByApplicant_Empty(t *testing.T) {
	client := newTestClient(t, Config{}, xmlHandler(searchXML(0, "")))

	result, err := client.SearchByApplicant(context.Background(), ApplicantQuery{Applicant: "Nobody"})
	if err != nil {
		t.Fatalf("zero matches must not fail: %v", err)
	}
	if result.TotalCount != 0 {
		t.Errorf("TotalCount = %d, want 0", result.TotalCount)
	}
	if result.Patents == nil || len(result.Patents) != 0 {
		t.Errorf("Patents = %v, want empty slice", result.Patents)
	}
	if result.HasMore {
		t.Error("HasMore must be false")
	}
}

func TestSearchByApplicant_StatusFilter(t *testing.T) {
	rec := &queryRecorder{body: searchXML(0, "")}
	client := newTestClient(t, Config{}, rec)

	_, err := client.SearchByApplicant(context.Background(), ApplicantQuery{Applicant: "Acme", Status: "R"})
	if err != nil {
		t.Fatalf("SearchByApplicant: %v", err)
	}
	if q := rec.last(t); q["lastvalue"] != "R" {
		t.Errorf("lastvalue = %q, want R", q["lastvalue"])
	}
}

func TestSearchByApplicant_Validation(t *testing.T) {
	client := newTestClient(t, Config{}, xmlHandler(searchXML(0, "")))

	tests := []struct {
		name string
		q    ApplicantQuery
	}{
		{"missing applicant", ApplicantQuery{}},
		{"unknown status", ApplicantQuery{Applicant: "Acme", Status: "X"}},
		{"page size over ceiling", ApplicantQuery{Applicant: "Acme", PageSize: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SearchByApplicant(context.Background(), tt.q)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("got %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestPatentDetail(t *testing.T) {
	rec := &queryRecorder{body: searchResponseXML}
	client := newTestClient(t, Config{}, rec)

	patent, err := client.PatentDetail(context.Background(), "10-2020-0111111")
	if err != nil {
		t.Fatalf("PatentDetail: %v", err)
	}

	q := rec.last(t)
	if q["applicationNumber"] != "1020200111111" {
		t.Errorf("applicationNumber = %q, want normalized form", q["applicationNumber"])
	}
	if q["docsStart"] != "1" {
		t.Errorf("docsStart = %q, want 1", q["docsStart"])
	}

	if patent.Title != "Battery electrode assembly" {
		t.Errorf("Title = %q", patent.Title)
	}
	if patent.Abstract == nil {
		t.Error("detail lookup must include the abstract when the registry has one")
	}
	if patent.IPCNumber == nil || *patent.IPCNumber != "H01M 4/13" {
		t.Errorf("IPCNumber = %v", patent.IPCNumber)
	}
}

func TestPatentDetail_HyphenFormsIdenticalRequest(t *testing.T) {
	rec := &queryRecorder{body: searchResponseXML}
	client := newTestClient(t, Config{}, rec)

	ctx := context.Background()
	if _, err := client.PatentDetail(ctx, "10-2020-0111111"); err != nil {
		t.Fatal(err)
	}
	first := rec.last(t)
	if _, err := client.PatentDetail(ctx, "1020200111111"); err != nil {
		t.Fatal(err)
	}
	second := rec.last(t)

	if first["applicationNumber"] != second["applicationNumber"] {
		t.Errorf("requests differ: %q vs %q", first["applicationNumber"], second["applicationNumber"])
	}
}

func TestPatentDetail_NotFound(t *testing.T) {
	client := newTestClient(t, Config{}, xmlHandler(searchXML(0, "")))

	_, err := client.PatentDetail(context.Background(), "1020200999999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCitingPatents(t *testing.T) {
	rec := &queryRecorder{body: citingResponseXML}
	client := newTestClient(t, Config{}, rec)

	citations, err := client.CitingPatents(context.Background(), "10-2020-0111111")
	if err != nil {
		t.Fatalf("CitingPatents: %v", err)
	}

	if q := rec.last(t); q["standardCitationApplicationNumber"] != "1020200111111" {
		t.Errorf("standardCitationApplicationNumber = %q", q["standardCitationApplicationNumber"])
	}

	if len(citations) != 3 {
		t.Fatalf("got %d citations, want 3", len(citations))
	}
	want := []string{"1020210333333", "1020210444444", "1020220555555"}
	for i, w := range want {
		if citations[i].CitingApplicationNumber != w {
			t.Errorf("citations[%d] = %q, want %q", i, citations[i].CitingApplicationNumber, w)
		}
	}
}

func TestCitingPatents_Empty(t *testing.T) {
	client := newTestClient(t, Config{}, xmlHandler(`<response><body><items/></body></response>`))

	citations, err := client.CitingPatents(context.Background(), "1020200111111")
	if err != nil {
		t.Fatalf("no citations must not fail: %v", err)
	}
	if citations == nil || len(citations) != 0 {
		t.Errorf("citations = %v, want empty slice", citations)
	}
}

func TestOperations_PropagateTransportErrors(t *testing.T) {
	client := newTestClient(t, Config{MaxRetries: 1}, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	ctx := context.Background()

	var statusErr *StatusError
	if _, err := client.SearchByApplicant(ctx, ApplicantQuery{Applicant: "Acme"}); !errors.As(err, &statusErr) {
		t.Errorf("search: got %v, want StatusError", err)
	}
	if _, err := client.PatentDetail(ctx, "1020200111111"); !errors.As(err, &statusErr) {
		t.Errorf("detail: got %v, want StatusError", err)
	}
	if _, err := client.CitingPatents(ctx, "1020200111111"); !errors.As(err, &statusErr) {
		t.Errorf("citations: got %v, want StatusError", err)
	}
}
