package client

import (
	"context"
	"net/http"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/build"
)

// NewVaultRPC creates a new http jsonrpc client.
func NewVaultRPC(ctx context.Context, addr string, requestHeader http.Header, opts ...jsonrpc.Option) (api.Vault, jsonrpc.ClientCloser, error) {
	var res api.VaultStruct
	closer, err := jsonrpc.NewMergeClient(ctx, addr, build.APINamespace,
		api.GetInternalStructs(&res),
		requestHeader,
		append([]jsonrpc.Option{jsonrpc.WithErrors(api.RPCErrors)}, opts...)...,
	)

	return &res, closer, err
}
