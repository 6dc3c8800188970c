package journal

import (
	"sync"

	"github.com/raulk/clock"
)

// MemJournal keeps entries in memory. Used by tests and short-lived tools.
type MemJournal struct {
	EventTypeRegistry

	clk clock.Clock

	lk     sync.Mutex
	events []*Event
}

var _ Journal = (*MemJournal)(nil)

func NewMemJournal(clk clock.Clock, disabled DisabledEvents) *MemJournal {
	return &MemJournal{
		EventTypeRegistry: NewEventTypeRegistry(disabled),
		clk:               clk,
	}
}

func (m *MemJournal) RecordEvent(evtType EventType, supplier func() interface{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("recovered from panic while recording journal event; type=%s, err=%v", evtType, r)
		}
	}()

	if !evtType.Enabled() {
		return
	}

	e := &Event{
		EventType: evtType,
		Timestamp: m.clk.Now(),
		Data:      supplier(),
	}

	m.lk.Lock()
	m.events = append(m.events, e)
	m.lk.Unlock()
}

// Events returns the entries recorded so far.
func (m *MemJournal) Events() []*Event {
	m.lk.Lock()
	defer m.lk.Unlock()

	return append([]*Event(nil), m.events...)
}

func (m *MemJournal) Close() error { return nil }
