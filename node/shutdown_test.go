package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/node/modules/dtypes"
)

func TestMonitorShutdown(t *testing.T) {
	shutdownCh := make(dtypes.ShutdownChan, 1)

	var order []string
	handler := func(name string, err error) ShutdownHandler {
		return ShutdownHandler{
			Component: name,
			StopFunc: func(_ context.Context) error {
				order = append(order, name)
				return err
			},
		}
	}

	finishCh := MonitorShutdown(shutdownCh,
		handler("rpc server", nil),
		handler("ledger", xerrors.New("flush failed")),
		handler("node", nil),
	)

	// nothing runs until asked to
	time.Sleep(10 * time.Millisecond)
	select {
	case <-finishCh:
		t.Fatal("shutdown finished without a trigger")
	default:
	}

	// a single send is enough, the channel need not be closed
	shutdownCh <- struct{}{}

	select {
	case <-finishCh:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not finish")
	}

	// a failing handler does not stop the ones after it
	require.Equal(t, []string{"rpc server", "ledger", "node"}, order)
}
