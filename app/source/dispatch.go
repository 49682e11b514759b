package source

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatRoadmap       Format = "roadmap"
	FormatMessageCenter Format = "messagecenter"
	FormatFeed          Format = "feed"
)

// messageCenterMarkers are filename fragments that route an input to the
// message-center parser.
var messageCenterMarkers = []string{"messagecenter", "message_center", "briefing"}

// DetectFormat picks a parser from the input path alone.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".rss", ".atom":
		return FormatFeed
	}

	lower := strings.ToLower(path)
	for _, marker := range messageCenterMarkers {
		if strings.Contains(lower, marker) {
			return FormatMessageCenter
		}
	}
	return FormatRoadmap
}

type Dispatcher struct {
	roadmap       *RoadmapParser
	messageCenter *MessageCenterParser
	feed          *FeedParser
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		roadmap:       NewRoadmapParser(),
		messageCenter: NewMessageCenterParser(),
		feed:          NewFeedParser(),
	}
}

// Run parses one input with the parser its filename selects.
func (d *Dispatcher) Run(path, month string) []RawRecord {
	switch DetectFormat(path) {
	case FormatFeed:
		return d.feed.Run(path, month)
	case FormatMessageCenter:
		return d.messageCenter.Run(path, month)
	default:
		return d.roadmap.Run(path, month)
	}
}
