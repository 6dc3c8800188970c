package fsjournal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/raulk/clock"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/journal"
)

var log = logging.Logger("fsjournal")

const RFC3339nocolon = "2006-01-02T150405Z0700"

const (
	currentName  = "fairy-journal.ndjson"
	rolledPrefix = "fairy-journal-"
)

// fsJournal is a rolling journal of ndjson files in one directory.
type fsJournal struct {
	journal.EventTypeRegistry

	clk clock.Clock

	dir       string
	sizeLimit int64
	keep      int

	fi    *os.File
	fSize int64

	incoming chan *journal.Event

	closing chan struct{}
	closed  chan struct{}
}

type Options struct {
	// SizeLimit is the size at which the current file is rolled.
	SizeLimit int64
	// Keep is how many rolled files are retained; 0 keeps all.
	Keep int
}

var DefaultOptions = Options{SizeLimit: 1 << 30, Keep: 3}

// OpenFSJournal opens the journal in <repoPath>/journal.
func OpenFSJournal(repoPath string, clk clock.Clock, disabled journal.DisabledEvents, opts Options) (journal.Journal, error) {
	return openFSJournal(repoPath, clk, disabled, opts)
}

func openFSJournal(repoPath string, clk clock.Clock, disabled journal.DisabledEvents, opts Options) (*fsJournal, error) {
	path, err := homedir.Expand(repoPath)
	if err != nil {
		return nil, xerrors.Errorf("failed to expand repo path: %w", err)
	}

	dir := filepath.Join(path, "journal")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to mk directory %s for file journal: %w", dir, err)
	}

	if opts.SizeLimit <= 0 {
		opts.SizeLimit = DefaultOptions.SizeLimit
	}

	f := &fsJournal{
		EventTypeRegistry: journal.NewEventTypeRegistry(disabled),
		clk:               clk,
		dir:               dir,
		sizeLimit:         opts.SizeLimit,
		keep:              opts.Keep,
		incoming:          make(chan *journal.Event, 32),
		closing:           make(chan struct{}),
		closed:            make(chan struct{}),
	}

	if err := f.rollJournalFile(); err != nil {
		return nil, err
	}

	go f.runLoop()

	return f, nil
}

func (f *fsJournal) RecordEvent(evtType journal.EventType, supplier func() interface{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("recovered from panic while recording journal event; type=%s, err=%v", evtType, r)
		}
	}()

	if !evtType.Enabled() {
		return
	}

	je := &journal.Event{
		EventType: evtType,
		Timestamp: f.clk.Now(),
		Data:      supplier(),
	}
	select {
	case f.incoming <- je:
	case <-f.closing:
		log.Warnw("journal closed but tried to log event", "event", je)
	}
}

func (f *fsJournal) Close() error {
	close(f.closing)
	<-f.closed
	return nil
}

func (f *fsJournal) putEvent(evt *journal.Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	n, err := f.fi.Write(append(b, '\n'))
	if err != nil {
		return err
	}

	f.fSize += int64(n)

	if f.fSize >= f.sizeLimit {
		if err := f.rollJournalFile(); err != nil {
			log.Errorw("failed to roll journal file", "err", err)
		}
	}

	return nil
}

func (f *fsJournal) rollJournalFile() error {
	if f.fi != nil {
		_ = f.fi.Close()
	}
	current := filepath.Join(f.dir, currentName)
	rolled := filepath.Join(f.dir, fmt.Sprintf(
		"%s%s.ndjson",
		rolledPrefix,
		f.clk.Now().Format(RFC3339nocolon),
	))

	if fi, err := os.Stat(current); err == nil && !fi.IsDir() && fi.Size() > 0 {
		if err := os.Rename(current, rolled); err != nil {
			return xerrors.Errorf("failed to roll journal file: %w", err)
		}
	}

	nfi, err := os.OpenFile(current, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return xerrors.Errorf("failed to create journal file: %w", err)
	}

	f.fi = nfi
	f.fSize = 0

	return f.prune()
}

// prune removes the oldest rolled files beyond the keep limit.
func (f *fsJournal) prune() error {
	if f.keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return xerrors.Errorf("listing journal dir: %w", err)
	}

	var rolled []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), rolledPrefix) {
			rolled = append(rolled, e.Name())
		}
	}
	if len(rolled) <= f.keep {
		return nil
	}

	// timestamps in the names sort chronologically
	sort.Strings(rolled)
	for _, name := range rolled[:len(rolled)-f.keep] {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil {
			return xerrors.Errorf("pruning journal file %s: %w", name, err)
		}
	}
	return nil
}

func (f *fsJournal) runLoop() {
	defer close(f.closed)

	for {
		select {
		case je := <-f.incoming:
			if err := f.putEvent(je); err != nil {
				log.Errorw("failed to write out journal event", "event", je, "err", err)
			}
		case <-f.closing:
			// drain what was accepted before closing
			for {
				select {
				case je := <-f.incoming:
					if err := f.putEvent(je); err != nil {
						log.Errorw("failed to write out journal event", "event", je, "err", err)
					}
				default:
					_ = f.fi.Close()
					return
				}
			}
		}
	}
}
