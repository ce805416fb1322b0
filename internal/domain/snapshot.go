package domain

import "time"

type ProjectSource string

const (
	ProjectSourceClickUpAPI     ProjectSource = "clickup-api"
	ProjectSourceClickUpWebhook ProjectSource = "clickup-webhook"
)

type ProjectSnapshot struct {
	Project   Project
	ListID    string
	Source    ProjectSource
	FetchedAt time.Time
	// Set when the snapshot is served after a failed refresh
	Stale bool
}
