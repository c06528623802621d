package domain

import (
	"errors"
	"fmt"
	"strings"
)

// EventType is the occasion a booking enquiry is made for. Values are the
// labels shown on the enquiry form and sent over the wire.
type EventType string

const (
	EventBridal     EventType = "Bridal Makeup"
	EventEngagement EventType = "Engagement Makeup"
	EventReception  EventType = "Reception Makeup"
	EventParty      EventType = "Party Makeup"
	EventEditorial  EventType = "Editorial / Photoshoot"
	EventCelebrity  EventType = "Celebrity / Red Carpet"
	EventOther      EventType = "Other"
)

// ErrUnknownEventType is returned by ParseEventType for unrecognised input.
var ErrUnknownEventType = errors.New("unknown event type")

var eventTypes = []EventType{
	EventBridal,
	EventEngagement,
	EventReception,
	EventParty,
	EventEditorial,
	EventCelebrity,
	EventOther,
}

// short names accepted in addition to the full labels
var eventTypeAliases = map[string]EventType{
	"bridal":               EventBridal,
	"engagement":           EventEngagement,
	"reception":            EventReception,
	"party":                EventParty,
	"editorial":            EventEditorial,
	"photoshoot":           EventEditorial,
	"editorial/photoshoot": EventEditorial,
	"celebrity":            EventCelebrity,
	"red-carpet":           EventCelebrity,
	"celebrity/red-carpet": EventCelebrity,
	"other":                EventOther,
}

// EventTypes returns the event types in form order.
func EventTypes() []EventType {
	out := make([]EventType, len(eventTypes))
	copy(out, eventTypes)
	return out
}

// Valid reports whether e is one of the known labels.
func (e EventType) Valid() bool {
	for _, known := range eventTypes {
		if e == known {
			return true
		}
	}
	return false
}

func (e EventType) String() string {
	return string(e)
}

// ParseEventType accepts a label or a short name, case-insensitively, and
// returns the canonical label.
func ParseEventType(s string) (EventType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, known := range eventTypes {
		if key == strings.ToLower(string(known)) {
			return known, nil
		}
	}
	if et, ok := eventTypeAliases[strings.ReplaceAll(key, " ", "")]; ok {
		return et, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEventType, s)
}
