package gh

import (
	"strings"
	"testing"
)

func TestDiscussionsQuery_FirstPage(t *testing.T) {
	query := DiscussionsQuery("owner", "repo", "DIC_123", nil, 100)

	if !strings.Contains(query, `repository(owner: "owner", name: "repo")`) {
		t.Errorf("Query missing repository clause:\n%s", query)
	}
	if !strings.Contains(query, "first: 100") {
		t.Errorf("Query missing page size:\n%s", query)
	}
	if !strings.Contains(query, `categoryId: "DIC_123"`) {
		t.Errorf("Query missing category:\n%s", query)
	}
	if !strings.Contains(query, "orderBy: {field: CREATED_AT, direction: ASC}") {
		t.Errorf("Query missing ascending creation order:\n%s", query)
	}
	if strings.Contains(query, "after:") {
		t.Errorf("First page query must omit the after argument:\n%s", query)
	}

	// Requested fields
	for _, field := range []string{"hasNextPage", "endCursor", "number", "bodyHTML", "title", "createdAt", "url"} {
		if !strings.Contains(query, field) {
			t.Errorf("Query missing field %q:\n%s", field, query)
		}
	}
}

func TestDiscussionsQuery_WithCursor(t *testing.T) {
	cursor := "Y3Vyc29yOjEwMA=="
	query := DiscussionsQuery("owner", "repo", "DIC_123", &cursor, 100)

	if !strings.Contains(query, `after: "Y3Vyc29yOjEwMA=="`) {
		t.Errorf("Query missing after clause:\n%s", query)
	}
}

func TestDiscussionsQuery_DefaultPageSize(t *testing.T) {
	query := DiscussionsQuery("owner", "repo", "DIC_123", nil, 0)

	if !strings.Contains(query, "first: 100") {
		t.Errorf("Zero page size should default to 100:\n%s", query)
	}
}
