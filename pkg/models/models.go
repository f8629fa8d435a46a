package models

import "time"

// FetchResult represents one fetched page or binary resource
type FetchResult struct {
	URL          string            `json:"url"`
	FinalURL     string            `json:"final_url,omitempty"`
	StatusCode   int               `json:"status_code"`
	Body         []byte            `json:"-"`
	Headers      map[string]string `json:"headers,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
	FromCache    bool              `json:"from_cache,omitempty"`
}

// ScrapeOrder defines the direction of the gallery page walk
type ScrapeOrder string

const (
	OrderNewestFirst ScrapeOrder = "newest"
	OrderOldestFirst ScrapeOrder = "oldest"
)

// SalonProfile is a snapshot of a salon's public profile page
type SalonProfile struct {
	URL          string    `json:"url"`
	Name         string    `json:"name"`
	StyleBaseURL string    `json:"style_base_url"`
	GalleryPages int       `json:"gallery_pages"`
	ImageURLs    []string  `json:"image_urls,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Download records one image written to local storage
type Download struct {
	URL   string `json:"url"`
	Path  string `json:"path"`
	Index int    `json:"index"`
	Size  int64  `json:"size"`
}

// UploadReport captures the outcome of one upload attempt
type UploadReport struct {
	DestinationURL string    `json:"destination_url"`
	ImageCount     int       `json:"image_count"`
	Success        bool      `json:"success"`
	FailedStep     string    `json:"failed_step,omitempty"`
	Diagnostics    []string  `json:"diagnostics,omitempty"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}

// RequestOptions contains options for fetch requests
type RequestOptions struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
	Proxy   string
}
