package fsjournal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"

	"github.com/billyjitsu/liquidation-fairy/journal"
)

func TestRecordEvents(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	clk := clock.NewMock()

	disabled := journal.DisabledEvents{{System: "wallet", Event: "noisy"}}
	j, err := openFSJournal(dir, clk, disabled, Options{Keep: 2})
	req.NoError(err)

	evt := j.RegisterEventType("wallet", "propose")
	noisy := j.RegisterEventType("wallet", "noisy")
	req.True(evt.Enabled())
	req.False(noisy.Enabled())

	j.RecordEvent(evt, func() interface{} { return map[string]uint64{"index": 7} })
	j.RecordEvent(noisy, func() interface{} { panic("supplier of a disabled event must not run") })
	j.RecordEvent(evt, func() interface{} { panic("boom") })
	req.NoError(j.Close())

	f, err := os.Open(filepath.Join(dir, "journal", currentName))
	req.NoError(err)
	defer f.Close() //nolint:errcheck

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	req.Len(lines, 1)

	var out struct {
		System string
		Event  string
		Data   map[string]uint64
	}
	req.NoError(json.Unmarshal([]byte(lines[0]), &out))
	req.Equal("wallet", out.System)
	req.Equal("propose", out.Event)
	req.Equal(uint64(7), out.Data["index"])
}

func TestRollingRemovesOldFiles(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	clk := clock.NewMock()

	j, err := openFSJournal(dir, clk, nil, Options{Keep: 2})
	req.NoError(err)
	defer j.Close() //nolint:errcheck

	evt := j.RegisterEventType("wallet", "propose")
	countRolled := func() int {
		entries, err := os.ReadDir(j.dir)
		req.NoError(err)
		n := 0
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), rolledPrefix) {
				n++
			}
		}
		return n
	}

	for i := 1; i <= 4; i++ {
		clk.Add(time.Minute)
		req.NoError(j.putEvent(&journal.Event{EventType: evt, Timestamp: clk.Now(), Data: i}))
		req.NoError(j.rollJournalFile())
		if i <= 2 {
			req.Equal(i, countRolled())
		}
	}
	req.Equal(2, countRolled(), "old journal files are pruned")
}
