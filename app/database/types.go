package database

import (
	"time"
)

// Build is one saved deck.
type Build struct {
	ID         int64
	Month      string
	OutputPath string
	ItemCount  int
	CreatedAt  time.Time
}

// BuildItem is an update as it appeared in a build, in slide order.
type BuildItem struct {
	BuildID   int64
	Position  int
	RoadmapID string
	Title     string
	URL       string
	Product   string
	Status    string
	Source    string
}
