package models

// Message is the body returned by delete endpoints.
type Message struct {
	Message string `json:"message"`
}

// Health is the payload of GET /health.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Pagination struct {
	Next           *int `json:"next,omitempty"`
	Previous       *int `json:"previous,omitempty"`
	CurrentPage    int  `json:"currentPage"`
	RecordsPerPage int  `json:"recordsPerPage"`
	TotalPages     int  `json:"totalPages"`
	TotalRecords   int  `json:"totalRecords"`
}
