package common

import (
	"context"

	"github.com/gbrlsnchs/jwt/v3"
	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc/auth"

	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/build"
	"github.com/billyjitsu/liquidation-fairy/node/modules/dtypes"
)

var log = logging.Logger("node")

type CommonAPI struct {
	fx.In

	APISecret *dtypes.APIAlg
}

type jwtPayload struct {
	Allow []auth.Permission
}

func (a *CommonAPI) AuthVerify(ctx context.Context, token string) ([]auth.Permission, error) {
	var payload jwtPayload
	if _, err := jwt.Verify([]byte(token), (*jwt.HMACSHA)(a.APISecret), &payload); err != nil {
		return nil, xerrors.Errorf("JWT Verification failed: %w", err)
	}

	return payload.Allow, nil
}

func (a *CommonAPI) AuthNew(ctx context.Context, perms []auth.Permission) ([]byte, error) {
	for _, perm := range perms {
		if !knownPerm(perm) {
			return nil, xerrors.Errorf("unknown permission %q", perm)
		}
	}

	p := jwtPayload{
		Allow: perms,
	}

	log.Infow("issuing API token", "perms", perms)
	return jwt.Sign(&p, (*jwt.HMACSHA)(a.APISecret))
}

func (a *CommonAPI) Version(context.Context) (api.APIVersion, error) {
	return api.APIVersion{
		Version:    build.UserVersion(),
		APIVersion: build.VaultAPIVersion,
	}, nil
}

func knownPerm(p auth.Permission) bool {
	for _, known := range api.AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
