package captcha

import "time"

// Challenge is a stored captcha: the selectable cells and the cells holding
// a stereocenter.
type Challenge struct {
	ID        string
	Regions   []string
	Answers   []string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// StartResponse is returned by /api/challenge/start
type StartResponse struct {
	UUID    string   `json:"uuid"`
	Image   string   `json:"image"` // data URL of the PNG
	Regions []string `json:"regions"`
}

// VerifyRequest is the JSON body for /api/challenge/verify
type VerifyRequest struct {
	UUID       string   `json:"uuid"`
	Selections []string `json:"selections"`
}

// VerifyResponse is returned by /api/challenge/verify
type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
