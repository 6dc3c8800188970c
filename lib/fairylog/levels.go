package fairylog

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

func SetupLogLevels() {
	if _, set := os.LookupEnv("GOLOG_LOG_LEVEL"); !set {
		_ = logging.SetLogLevel("*", "INFO")
		_ = logging.SetLogLevel("rpc", "WARN")
		_ = logging.SetLogLevel("metrics", "WARN")
	}
	// Always mute RpcMetrics, it's noisy on every request
	_ = logging.SetLogLevel("rpcmetrics", "ERROR")
}

// SetSubsystemLevels applies per-subsystem levels from the node config.
// GOLOG_LOG_LEVEL still wins when set.
func SetSubsystemLevels(levels map[string]string) error {
	if _, set := os.LookupEnv("GOLOG_LOG_LEVEL"); set {
		return nil
	}
	for sys, lvl := range levels {
		if err := logging.SetLogLevel(sys, lvl); err != nil {
			return xerrors.Errorf("setting log level of %s to %s: %w", sys, lvl, err)
		}
	}
	return nil
}
