package source

import (
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"exports/roadmap.html", FormatRoadmap},
		{"exports/MessageCenter-2025-09.html", FormatMessageCenter},
		{"exports/message_center.htm", FormatMessageCenter},
		{"exports/briefing.html", FormatMessageCenter},
		{"exports/roadmap.xml", FormatFeed},
		{"exports/Roadmap.RSS", FormatFeed},
		{"exports/unknown.txt", FormatRoadmap},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("Expected DetectFormat(%q) = %s, got %s", tt.path, tt.want, got)
		}
	}
}

func TestDispatcher_Run(t *testing.T) {
	// The same markup yields different records depending on the filename.
	markup := `<div class="ms-card"><p>Body text</p><a href="https://example.com/a">Card title</a></div>`

	dispatcher := NewDispatcher()

	mc := dispatcher.Run(writeFixture(t, "messagecenter.html", markup), "")
	if len(mc) != 1 || mc[0].String("source") != OriginMessageCenter {
		t.Fatalf("Expected one message center record, got %v", mc)
	}

	rm := dispatcher.Run(writeFixture(t, "roadmap.html", markup), "")
	if len(rm) != 1 || rm[0].String("source") != OriginRoadmap {
		t.Fatalf("Expected one roadmap record, got %v", rm)
	}
}
