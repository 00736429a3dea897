package gh

import "testing"

func TestDiscussionNode_Record(t *testing.T) {
	node := DiscussionNode{
		Number:    42,
		Title:     "a title",
		CreatedAt: "2024-06-01T12:00:00Z",
		URL:       "https://github.com/o/r/discussions/42",
		BodyHTML:  "<p>hello</p>",
	}

	d := node.Record()

	if d.Number != node.Number {
		t.Errorf("Number = %d, want %d", d.Number, node.Number)
	}
	if d.Title != node.Title {
		t.Errorf("Title = %q, want %q", d.Title, node.Title)
	}
	if d.CreatedAt != node.CreatedAt {
		t.Errorf("CreatedAt = %q, want %q", d.CreatedAt, node.CreatedAt)
	}
	if d.URL != node.URL {
		t.Errorf("URL = %q, want %q", d.URL, node.URL)
	}
	if d.BodyHTML != node.BodyHTML {
		t.Errorf("BodyHTML = %q, want %q", d.BodyHTML, node.BodyHTML)
	}
}
