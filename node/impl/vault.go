package impl

import (
	"github.com/billyjitsu/liquidation-fairy/api"
	"github.com/billyjitsu/liquidation-fairy/node/impl/common"
	"github.com/billyjitsu/liquidation-fairy/node/impl/full"
)

type VaultAPI struct {
	common.CommonAPI
	full.MsigAPI
	full.DelegationAPI
	full.WalletAPI
}

var _ api.Vault = &VaultAPI{}
