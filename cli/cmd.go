package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/api/client"
	"github.com/billyjitsu/liquidation-fairy/node/repo"
)

var log = logging.Logger("cli")

const (
	metadataContext = "context"

	// APIInfoEnv holds "token:multiaddr" of a remote node; it takes
	// precedence over the repo's api files.
	APIInfoEnv = "FAIRY_API_INFO"
)

// FlagRepoPath is the flag selecting the node repo.
var FlagRepoPath = &cli.StringFlag{
	Name:    "repo",
	EnvVars: []string{"FAIRY_PATH"},
	Value:   "~/.fairy",
	Usage:   "path to the fairy repo",
}

type APIInfo struct {
	Addr  string
	Token []byte
}

func ParseAPIInfo(s string) APIInfo {
	var tok []byte
	if sp := strings.SplitN(s, ":", 2); len(sp) == 2 && !strings.HasPrefix(s, "/") {
		tok = []byte(sp[0])
		s = sp[1]
	}
	return APIInfo{Addr: s, Token: tok}
}

func (a APIInfo) DialArgs() (string, error) {
	ma, err := multiaddr.NewMultiaddr(a.Addr)
	if err != nil {
		return "", xerrors.Errorf("parsing api multiaddr %q: %w", a.Addr, err)
	}
	return dialURL(ma)
}

func (a APIInfo) AuthHeader() http.Header {
	if len(a.Token) == 0 {
		return nil
	}
	headers := http.Header{}
	headers.Add("Authorization", "Bearer "+string(a.Token))
	return headers
}

func dialURL(ma multiaddr.Multiaddr) (string, error) {
	_, addr, err := manet.DialArgs(ma)
	if err != nil {
		return "", err
	}
	return "http://" + addr + "/rpc/v0", nil
}

// GetAPIInfo locates the node: FAIRY_API_INFO first, then the repo.
func GetAPIInfo(cctx *cli.Context) (APIInfo, error) {
	if env, ok := os.LookupEnv(APIInfoEnv); ok && env != "" {
		return ParseAPIInfo(env), nil
	}

	r, err := repo.NewFS(cctx.String(FlagRepoPath.Name))
	if err != nil {
		return APIInfo{}, xerrors.Errorf("opening repo: %w", err)
	}

	ma, err := r.APIEndpoint()
	if err != nil {
		return APIInfo{}, xerrors.Errorf("could not get api endpoint (is the daemon running?): %w", err)
	}

	token, err := r.APIToken()
	if err != nil {
		log.Warnf("Couldn't load CLI token, capabilities may be limited: %v", err)
	}

	return APIInfo{Addr: ma.String(), Token: token}, nil
}

func GetVaultAPI(cctx *cli.Context) (api.Vault, jsonrpc.ClientCloser, error) {
	if tn, ok := cctx.App.Metadata["testnode"]; ok {
		return tn.(api.Vault), func() {}, nil
	}

	ainfo, err := GetAPIInfo(cctx)
	if err != nil {
		return nil, nil, err
	}
	addr, err := ainfo.DialArgs()
	if err != nil {
		return nil, nil, err
	}

	log.Debugw("dialing node", "addr", addr)
	return client.NewVaultRPC(cctx.Context, addr, ainfo.AuthHeader())
}

// ReqContext returns context for cli execution. Calling it for the first time
// installs SIGTERM handler that will close returned context.
// Not safe for concurrent execution.
func ReqContext(cctx *cli.Context) context.Context {
	if uctx, ok := cctx.App.Metadata[metadataContext]; ok {
		// unchecked cast as if something else is in there
		// it is crash worthy either way
		return uctx.(context.Context)
	}

	tCtx := cctx.Context
	if tCtx == nil {
		tCtx = context.Background()
	}

	ctx, done := context.WithCancel(tCtx)
	sigChan := make(chan os.Signal, 2)
	go func() {
		<-sigChan
		done()
	}()
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	if cctx.App.Metadata == nil {
		cctx.App.Metadata = map[string]interface{}{}
	}
	cctx.App.Metadata[metadataContext] = ctx
	return ctx
}

var Commands = []*cli.Command{
	authCmd,
	multisigCmd,
	delegationCmd,
	walletCmd,
}
