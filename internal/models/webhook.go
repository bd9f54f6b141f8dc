package models

import "time"

// Webhook actions sent by the CMS flow
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// WebhookEvent is the JSON body the CMS posts when content changes
type WebhookEvent struct {
	Collection string         `json:"collection" binding:"required"`
	Action     string         `json:"action"`
	Key        string         `json:"key"`
	Data       map[string]any `json:"data,omitempty"`
}

// RevalidateResponse reports what a revalidation dispatch did
type RevalidateResponse struct {
	Success          bool      `json:"success"`
	Message          string    `json:"message"`
	Collection       string    `json:"collection"`
	Action           string    `json:"action"`
	Key              string    `json:"key,omitempty"`
	RevalidatedPaths []string  `json:"revalidatedPaths"`
	RevalidatedTags  []string  `json:"revalidatedTags"`
	FailedPaths      []string  `json:"failedPaths,omitempty"`
	FailedTags       []string  `json:"failedTags,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// RebuildResponse reports the outcome of a build hook request
type RebuildResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Collection string    `json:"collection,omitempty"`
	Action     string    `json:"action,omitempty"`
	Key        string    `json:"key,omitempty"`
	BuildID    string    `json:"buildId,omitempty"`
	Triggered  bool      `json:"triggered"`
	Timestamp  time.Time `json:"timestamp"`
}

// ErrorResponse is the body of every failed webhook or content request
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Details []ValidationError `json:"details,omitempty"`
}

// ValidationError describes one invalid request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
