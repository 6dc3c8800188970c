package journal

import (
	"testing"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
)

func TestParseDisabledEvents(t *testing.T) {
	de, err := ParseDisabledEvents(" wallet:propose, delegation:status ")
	require.NoError(t, err)
	require.Equal(t, DisabledEvents{
		{System: "wallet", Event: "propose"},
		{System: "delegation", Event: "status"},
	}, de)

	de, err = ParseDisabledEvents("")
	require.NoError(t, err)
	require.Empty(t, de)

	for _, bad := range []string{"wallet", "wallet:", "a:b:c", "a:b,,c:d"} {
		_, err := ParseDisabledEvents(bad)
		require.Error(t, err, bad)
	}
}

func TestEnvDisabledEvents(t *testing.T) {
	t.Setenv(envDisabledEvents, "wallet:fund")
	require.Equal(t, DisabledEvents{{System: "wallet", Event: "fund"}}, EnvDisabledEvents(DefaultDisabledEvents))

	t.Setenv(envDisabledEvents, "garbage")
	require.Equal(t, DefaultDisabledEvents, EnvDisabledEvents(DefaultDisabledEvents))
}

func TestRegistryAndMemJournal(t *testing.T) {
	clk := clock.NewMock()
	j := NewMemJournal(clk, DisabledEvents{{System: "delegation", Event: "status"}})

	on := j.RegisterEventType("wallet", "execute")
	off := j.RegisterEventType("delegation", "status")
	require.True(t, on.Enabled())
	require.False(t, off.Enabled())
	require.Equal(t, on, j.RegisterEventType("wallet", "execute"))

	// values not obtained from a registry are never enabled
	require.False(t, EventType{System: "wallet", Event: "execute"}.Enabled())

	j.RecordEvent(on, func() interface{} { return 1 })
	j.RecordEvent(off, func() interface{} { return 2 })
	evts := j.Events()
	require.Len(t, evts, 1)
	require.Equal(t, 1, evts[0].Data)
	require.Equal(t, clk.Now(), evts[0].Timestamp)

	nj := NilJournal()
	require.False(t, nj.RegisterEventType("wallet", "execute").Enabled())
	require.NoError(t, nj.Close())
}
