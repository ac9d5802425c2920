package report

import "strings"

// DefaultPageSize matches the number of accounts the dashboard shows per page.
const DefaultPageSize = 50

// ListPage is one page of a filtered identifier list.
type ListPage struct {
	Identifiers []string `json:"identifiers"`
	Query       string   `json:"query"`
	Page        int      `json:"page"`
	PageSize    int      `json:"pageSize"`
	TotalPages  int      `json:"totalPages"`
	TotalItems  int      `json:"totalItems"`
}

// Page filters identifiers by a case-insensitive substring query and returns the requested 1-based page.
// Page numbers outside the available range are clamped and a non-positive page size selects
// DefaultPageSize.
func Page(identifiers []string, query string, page int, pageSize int) ListPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	trimmedQuery := strings.TrimSpace(query)
	filtered := filterIdentifiers(identifiers, trimmedQuery)

	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	pageIdentifiers := make([]string, end-start)
	copy(pageIdentifiers, filtered[start:end])

	return ListPage{
		Identifiers: pageIdentifiers,
		Query:       trimmedQuery,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  len(filtered),
	}
}

func filterIdentifiers(identifiers []string, query string) []string {
	if query == "" {
		return identifiers
	}
	lowerQuery := strings.ToLower(query)
	filtered := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		if strings.Contains(strings.ToLower(identifier), lowerQuery) {
			filtered = append(filtered, identifier)
		}
	}
	return filtered
}
