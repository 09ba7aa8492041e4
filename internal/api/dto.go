package api

import (
	"github.com/calder/folio/internal/index"
	"github.com/calder/folio/internal/models"
)

// SearchResult is a single search hit (aliased from the index layer).
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// LoginRequest carries the admin password for session login.
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token.
type LoginResponse struct {
	Token string `json:"token" validate:"required"`
}

// SessionStatus describes the gate for the admin UI.
type SessionStatus struct {
	Enabled     bool `json:"enabled"`
	Provisioned bool `json:"provisioned"`
}

// ChatRequest is one visitor chat turn with the prior conversation.
type ChatRequest struct {
	Message string               `json:"message" validate:"required"`
	History []models.ChatMessage `json:"history"`
}

// ChatResponse is the assistant's reply. IsError marks a fallback reply
// produced when the model was unreachable; the HTTP status stays 200.
type ChatResponse struct {
	Reply   string `json:"reply" validate:"required"`
	IsError bool   `json:"isError,omitempty"`
}

// UploadResponse is returned after a successful asset upload.
type UploadResponse struct {
	Filename string `json:"filename" example:"headshot.png" validate:"required"`
	Size     int64  `json:"size" example:"12345" validate:"required"`
	URL      string `json:"url" example:"/uploads/headshot.png" validate:"required"`
}
