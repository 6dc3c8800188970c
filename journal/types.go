package journal

import (
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("journal")

// DefaultDisabledEvents lists the event types journaled only on request.
// Status reads are frequent and change nothing.
var DefaultDisabledEvents = DisabledEvents{
	EventType{System: "delegation", Event: "status"},
}

// DisabledEvents is the set of event types whose journaling is suppressed.
type DisabledEvents []EventType

// ParseDisabledEvents parses "system1:event1,system1:event2[,...]".
func ParseDisabledEvents(s string) (DisabledEvents, error) {
	s = strings.TrimSpace(s)
	ret := DisabledEvents{}
	if len(s) == 0 {
		return ret, nil
	}
	for _, evt := range strings.Split(s, ",") {
		parts := strings.Split(strings.TrimSpace(evt), ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, xerrors.Errorf("invalid event type: %q", evt)
		}
		ret = append(ret, EventType{System: parts[0], Event: parts[1]})
	}
	return ret, nil
}

// EventType names a kind of journal entry. Only values handed out by a
// registry are ever enabled.
type EventType struct {
	System string
	Event  string

	enabled bool
	safe    bool
}

func (et EventType) String() string {
	return et.System + ":" + et.Event
}

// Enabled returns whether entries of this type are recorded. Check it
// before building an expensive payload.
func (et EventType) Enabled() bool {
	return et.safe && et.enabled
}

type EventTypeRegistry interface {
	// RegisterEventType returns the token components use to tag entries of
	// the given system and event.
	RegisterEventType(system, event string) EventType
}

// Journal is an append-only audit trail. Payloads must be JSON
// serializable.
type Journal interface {
	EventTypeRegistry

	// RecordEvent records an entry if evtType is enabled, calling supplier
	// for the payload. Implementations recover from supplier panics.
	RecordEvent(evtType EventType, supplier func() interface{})

	Close() error
}

type Event struct {
	EventType

	Timestamp time.Time
	Data      interface{}
}
