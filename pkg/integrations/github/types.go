package github

// graphQLRequest is the body POSTed to the GraphQL endpoint.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLError is one entry of a GraphQL "errors" array.
type graphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type repositoryEdge struct {
	Cursor string `json:"cursor"`
	Node   struct {
		Name string `json:"name"`
	} `json:"node"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type repositoriesResponse struct {
	Data struct {
		Organization *struct {
			Repositories struct {
				Edges    []repositoryEdge `json:"edges"`
				PageInfo pageInfo         `json:"pageInfo"`
			} `json:"repositories"`
		} `json:"organization"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// contentResponse is the REST contents API answer for a single file.
type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Size     int    `json:"size"`
	Path     string `json:"path"`
	Content  string `json:"content"`
}
