package types

// Video is the canonical record produced for one search result.
// Instances are built fresh per request and never mutated afterwards.
type Video struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	URL         string   `json:"url"`
	Cover       *string  `json:"cover"`
	Duration    *int64   `json:"duration"`
	Music       Music    `json:"music"`
	Stats       Stats    `json:"stats"`
	PublishedAt *string  `json:"publishedAt"`
	Hashtags    []string `json:"hashtags"`
}

// Music carries the soundtrack metadata attached to a video.
type Music struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

// Stats aggregates the engagement counters reported by the platform.
// Counters the platform omitted stay nil rather than defaulting to zero.
type Stats struct {
	Views     *int64 `json:"views"`
	Likes     *int64 `json:"likes"`
	Comments  *int64 `json:"comments"`
	Shares    *int64 `json:"shares"`
	Bookmarks *int64 `json:"bookmarks"`
}

// SearchResponse is the payload returned for one search request.
type SearchResponse struct {
	Query   string  `json:"query"`
	Country string  `json:"country"`
	Total   int     `json:"total"`
	Results []Video `json:"results"`
}
