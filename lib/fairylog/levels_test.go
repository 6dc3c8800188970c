package fairylog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetSubsystemLevels(t *testing.T) {
	t.Setenv("GOLOG_LOG_LEVEL", "info")
	require.NoError(t, SetSubsystemLevels(map[string]string{"*": "nope"}))

	require.NoError(t, os.Unsetenv("GOLOG_LOG_LEVEL"))
	require.NoError(t, SetSubsystemLevels(map[string]string{"*": "debug"}))
	require.Error(t, SetSubsystemLevels(map[string]string{"*": "nope"}))
}
