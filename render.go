// CLAUDE:SUMMARY Markdown rendering of patents, search pages, and citation lists for human-readable tool output.
package kipris

import (
	"fmt"
	"strings"
)

const abstractPreviewLen = 500

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderPatent renders one patent as markdown. In detailed mode the IPC
// classification and a truncated abstract are included when present.
func RenderPatent(p *Patent, detailed bool) string {
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	lines := []string{
		"### " + title,
		"",
		"- **Application number**: " + orDash(p.ApplicationNumber),
		"- **Application date**: " + orDash(p.ApplicationDate),
		"- **Applicant**: " + orDash(p.Applicant),
		"- **Status**: " + orDash(p.RegistrationStatus),
	}
	if p.OpeningNumber != "" {
		lines = append(lines, fmt.Sprintf("- **Publication number**: %s (%s)", p.OpeningNumber, orDash(p.OpeningDate)))
	}
	if p.RegistrationNumber != "" {
		lines = append(lines, fmt.Sprintf("- **Registration number**: %s (%s)", p.RegistrationNumber, orDash(p.RegistrationDate)))
	}
	if detailed {
		if p.IPCNumber != nil {
			lines = append(lines, "- **IPC classification**: "+*p.IPCNumber)
		}
		if p.Abstract != nil {
			abstract := *p.Abstract
			// Truncate by rune, not byte: Korean abstracts are multi-byte.
			if runes := []rune(abstract); len(runes) > abstractPreviewLen {
				abstract = string(runes[:abstractPreviewLen]) + "..."
			}
			lines = append(lines, "", "**Abstract**:", "> "+abstract)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderSearchResult renders one search page as a numbered markdown list
// with a next-page hint when more results exist.
func RenderSearchResult(r *SearchResult) string {
	lines := []string{
		"## Search results",
		"",
		fmt.Sprintf("Showing %d of %d total (page %d)", len(r.Patents), r.TotalCount, r.Page),
		"",
	}
	if len(r.Patents) == 0 {
		lines = append(lines, "No patents found.")
		return strings.Join(lines, "\n")
	}
	for i, p := range r.Patents {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		lines = append(lines,
			"---",
			fmt.Sprintf("**[%d]** %s", i+1, title),
			"- Application number: `"+orDash(p.ApplicationNumber)+"`",
			"- Applicant: "+orDash(p.Applicant),
			"- Status: "+orDash(p.RegistrationStatus),
			"")
	}
	if r.HasMore {
		lines = append(lines, "---", fmt.Sprintf("Next page: `page=%d`", r.NextPage))
	}
	return strings.Join(lines, "\n")
}

// RenderCitations renders a citation listing for the given base patent.
func RenderCitations(citations []Citation, baseAppNo string) string {
	lines := []string{
		"## Citing patents",
		"",
		fmt.Sprintf("Later filings citing `%s`: **%d**", baseAppNo, len(citations)),
		"",
	}
	if len(citations) == 0 {
		lines = append(lines, "No later filings cite this patent.")
		return strings.Join(lines, "\n")
	}
	for i, c := range citations {
		lines = append(lines,
			"---",
			fmt.Sprintf("**[%d]** Application number: `%s`", i+1, orDash(c.CitingApplicationNumber)),
			fmt.Sprintf("- Status: %s (%s)", orDash(c.StatusName), orDash(c.StatusCode)),
			"- Citation type: "+orDash(c.CitationTypeName),
			"")
	}
	return strings.Join(lines, "\n")
}
