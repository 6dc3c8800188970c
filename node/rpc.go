package node

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc"
	"github.com/filecoin-project/go-jsonrpc/auth"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/metrics"
	"github.com/billyjitsu/liquidation-fairy/metrics/proxy"
	"github.com/billyjitsu/liquidation-fairy/node/config"
)

var rpclog = logging.Logger("rpc")

// ServeRPC serves an HTTP handler over the supplied listen multiaddr.
//
// This function spawns a goroutine to run the server, and returns immediately.
// It returns the stop function to be called to terminate the endpoint.
func ServeRPC(h http.Handler, id string, addr multiaddr.Multiaddr, timeout time.Duration) (StopFunc, error) {
	// Start listening to the addr; if invalid or empty, this will fail.
	lst, err := manet.Listen(addr)
	if err != nil {
		return nil, xerrors.Errorf("could not listen: %w", err)
	}

	// Instantiate the server and start listening.
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: timeout,
	}

	go func() {
		err := srv.Serve(manet.NetListener(lst))
		if err != http.ErrServerClosed {
			rpclog.Warnf("rpc server failed: %s", err)
		}
	}()

	rpclog.Infow("serving rpc", "id", id, "addr", addr)
	return srv.Shutdown, nil
}

// VaultHandler returns a handler to be mounted as-is on the server.
func VaultHandler(a api.Vault, permissioned bool, mcfg config.Metrics, opts ...jsonrpc.ServerOption) (http.Handler, error) {
	m := mux.NewRouter()

	serveRpc := func(path string, hnd interface{}) {
		rpcServer := jsonrpc.NewServer(append(opts, jsonrpc.WithServerErrors(api.RPCErrors))...)
		rpcServer.Register(build.APINamespace, hnd)

		var handler http.Handler = rpcServer
		if permissioned {
			handler = &auth.Handler{Verify: a.AuthVerify, Next: rpcServer.ServeHTTP}
		}

		m.Handle(path, handler)
	}

	vapi := a
	if mcfg.Enabled {
		vapi = proxy.MetricedVaultAPI(vapi)
	}
	if permissioned {
		vapi = api.PermissionedVaultAPI(vapi)
	}

	serveRpc("/rpc/v0", vapi)

	// debugging
	if mcfg.Enabled {
		m.Handle("/debug/metrics", metrics.Exporter(mcfg.Namespace))
	}

	return m, nil
}
