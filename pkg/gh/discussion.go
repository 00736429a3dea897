package gh

// Discussion is the archiver's record of one discussion thread. Records
// are immutable once fetched; identity is the repository-unique Number.
// The JSON field names are the on-disk schema shared by the checkpoint
// file and the final archive.
type Discussion struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
	BodyHTML  string `json:"bodyHTML"`
}

// Record maps a raw API node to a Discussion, field for field.
func (n DiscussionNode) Record() Discussion {
	return Discussion{
		Number:    n.Number,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
		URL:       n.URL,
		BodyHTML:  n.BodyHTML,
	}
}
