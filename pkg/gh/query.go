package gh

import "fmt"

// DefaultPageSize is the number of discussions requested per page.
// 100 is the maximum the GitHub GraphQL API allows for connections.
const DefaultPageSize = 100

// DiscussionsQuery builds the GraphQL query for one page of discussions in
// the given repository and category, ordered by creation time ascending.
// A nil cursor omits the `after` argument (first page).
func DiscussionsQuery(owner, name, categoryID string, cursor *string, pageSize int) string {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	afterClause := ""
	if cursor != nil {
		afterClause = fmt.Sprintf(`, after: %q`, *cursor)
	}

	return fmt.Sprintf(`
query {
  repository(owner: %q, name: %q) {
    discussions(
      first: %d
      categoryId: %q
      orderBy: {field: CREATED_AT, direction: ASC}
      %s
    ) {
      pageInfo {
        hasNextPage
        endCursor
      }
      edges {
        node {
          number
          bodyHTML
          title
          createdAt
          url
        }
      }
    }
  }
}`, owner, name, pageSize, categoryID, afterClause)
}

// Response is the parsed body of a GraphQL response. Either Data or Errors
// (or both, for partial responses) may be set.
type Response struct {
	Data   *ResponseData  `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// ResponseData is the `data` section of a discussions query response.
type ResponseData struct {
	Repository *RepositoryData `json:"repository"`
}

// RepositoryData holds the discussions connection of the queried repository.
type RepositoryData struct {
	Discussions DiscussionConnection `json:"discussions"`
}

// DiscussionConnection is one page of the discussions connection.
type DiscussionConnection struct {
	PageInfo PageInfo         `json:"pageInfo"`
	Edges    []DiscussionEdge `json:"edges"`
}

// PageInfo carries the pagination metadata of a connection page.
type PageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

// DiscussionEdge wraps a single discussion node.
type DiscussionEdge struct {
	Node DiscussionNode `json:"node"`
}

// DiscussionNode is the raw discussion item as returned by the API.
type DiscussionNode struct {
	Number    int    `json:"number"`
	BodyHTML  string `json:"bodyHTML"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	URL       string `json:"url"`
}

// GraphQLError is one entry of the response `errors` list.
type GraphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}
