// Package state holds the wallet ledger: signers, proposals, grants and
// asset holdings. A State is never mutated once published; transitions work
// on a Copy and hand back the new value, so a failed transition leaves the
// caller's State exactly as it was.
package state

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/big"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

// HoldingKey locates the balance of one asset held by one address.
type HoldingKey struct {
	Asset  address.Address
	Holder address.Address
}

// AllowanceKey locates what Spender may pull from Owner's Token balance.
type AllowanceKey struct {
	Token   address.Address
	Owner   address.Address
	Spender address.Address
}

// Meta is the wallet-wide part of the state.
type Meta struct {
	Version     uint64
	Wallet      address.Address
	Signers     types.SignerSet
	Policy      types.RevocationPolicy
	NextTxIndex uint64
}

// Changes lists what a State changed relative to the State it was copied
// from.
type Changes struct {
	Meta       bool
	Proposals  map[uint64]struct{}
	Grants     map[types.GrantKey]struct{}
	Balances   map[HoldingKey]struct{}
	Allowances map[AllowanceKey]struct{}
}

func newChanges() Changes {
	return Changes{
		Proposals:  map[uint64]struct{}{},
		Grants:     map[types.GrantKey]struct{}{},
		Balances:   map[HoldingKey]struct{}{},
		Allowances: map[AllowanceKey]struct{}{},
	}
}

func (c Changes) Empty() bool {
	return !c.Meta && len(c.Proposals) == 0 && len(c.Grants) == 0 && len(c.Balances) == 0 && len(c.Allowances) == 0
}

type State struct {
	meta Meta

	proposals  map[uint64]*types.Proposal
	grants     map[types.GrantKey]*types.Grant
	balances   map[HoldingKey]abi.TokenAmount
	allowances map[AllowanceKey]abi.TokenAmount

	changes Changes
}

// New creates the genesis state of a wallet.
func New(params types.WalletParams) (*State, error) {
	if params.Address == address.Undef {
		return nil, xerrors.New("wallet address is undefined")
	}
	if params.Signers.Len() == 0 {
		return nil, xerrors.New("wallet has no signers")
	}
	policy, err := types.ParseRevocationPolicy(string(params.Policy))
	if err != nil {
		return nil, err
	}

	st := &State{
		meta: Meta{
			Wallet:  params.Address,
			Signers: params.Signers,
			Policy:  policy,
		},
		proposals:  map[uint64]*types.Proposal{},
		grants:     map[types.GrantKey]*types.Grant{},
		balances:   map[HoldingKey]abi.TokenAmount{},
		allowances: map[AllowanceKey]abi.TokenAmount{},
		changes:    newChanges(),
	}
	st.changes.Meta = true
	return st, nil
}

// Restore rebuilds a State from persisted parts. The result reports no
// changes.
func Restore(meta Meta, proposals []*types.Proposal, grants []*types.Grant, balances map[HoldingKey]abi.TokenAmount, allowances map[AllowanceKey]abi.TokenAmount) (*State, error) {
	if meta.Wallet == address.Undef || meta.Signers.Len() == 0 {
		return nil, xerrors.New("restoring state: incomplete wallet metadata")
	}

	st := &State{
		meta:       meta,
		proposals:  make(map[uint64]*types.Proposal, len(proposals)),
		grants:     make(map[types.GrantKey]*types.Grant, len(grants)),
		balances:   make(map[HoldingKey]abi.TokenAmount, len(balances)),
		allowances: make(map[AllowanceKey]abi.TokenAmount, len(allowances)),
		changes:    newChanges(),
	}
	for _, p := range proposals {
		if p.Index >= meta.NextTxIndex {
			return nil, xerrors.Errorf("restoring state: proposal %d beyond next index %d", p.Index, meta.NextTxIndex)
		}
		st.proposals[p.Index] = p.Clone()
	}
	for _, g := range grants {
		st.grants[g.Key()] = g.Clone()
	}
	for k, v := range balances {
		st.balances[k] = types.OrZero(v)
	}
	for k, v := range allowances {
		st.allowances[k] = types.OrZero(v)
	}
	return st, nil
}

// Copy returns the next version of the state. Entries are shared with the
// receiver until they are replaced, so neither State may mutate a value it
// got from the other; the getters hand out clones for that reason.
func (st *State) Copy() *State {
	out := &State{
		meta:       st.meta,
		proposals:  make(map[uint64]*types.Proposal, len(st.proposals)+1),
		grants:     make(map[types.GrantKey]*types.Grant, len(st.grants)),
		balances:   make(map[HoldingKey]abi.TokenAmount, len(st.balances)),
		allowances: make(map[AllowanceKey]abi.TokenAmount, len(st.allowances)),
		changes:    newChanges(),
	}
	for k, v := range st.proposals {
		out.proposals[k] = v
	}
	for k, v := range st.grants {
		out.grants[k] = v
	}
	for k, v := range st.balances {
		out.balances[k] = v
	}
	for k, v := range st.allowances {
		out.allowances[k] = v
	}

	out.meta.Version++
	out.changes.Meta = true
	return out
}

func (st *State) Meta() Meta                     { return st.meta }
func (st *State) Version() uint64                { return st.meta.Version }
func (st *State) Wallet() address.Address        { return st.meta.Wallet }
func (st *State) Signers() types.SignerSet       { return st.meta.Signers }
func (st *State) Policy() types.RevocationPolicy { return st.meta.Policy }
func (st *State) NextTxIndex() uint64            { return st.meta.NextTxIndex }
func (st *State) Changes() Changes               { return st.changes }

// AllocTxIndex reserves the next proposal index.
func (st *State) AllocTxIndex() uint64 {
	idx := st.meta.NextTxIndex
	st.meta.NextTxIndex++
	st.changes.Meta = true
	return idx
}

func (st *State) GetProposal(idx uint64) (*types.Proposal, bool) {
	p, ok := st.proposals[idx]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

func (st *State) SetProposal(p *types.Proposal) {
	st.proposals[p.Index] = p
	st.changes.Proposals[p.Index] = struct{}{}
}

// Proposals returns all proposals ordered by index.
func (st *State) Proposals() []*types.Proposal {
	out := make([]*types.Proposal, 0, len(st.proposals))
	for _, p := range st.proposals {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (st *State) GetGrant(k types.GrantKey) (*types.Grant, bool) {
	g, ok := st.grants[k]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

func (st *State) SetGrant(g *types.Grant) {
	st.grants[g.Key()] = g
	st.changes.Grants[g.Key()] = struct{}{}
}

// Grants returns all grants ordered by asset, then delegate.
func (st *State) Grants() []*types.Grant {
	out := make([]*types.Grant, 0, len(st.grants))
	for _, g := range st.grants {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().String() < out[j].Key().String() })
	return out
}

func (st *State) Balance(asset, holder address.Address) abi.TokenAmount {
	b, ok := st.balances[HoldingKey{Asset: asset, Holder: holder}]
	if !ok {
		return big.Zero()
	}
	return b
}

// Balances returns a snapshot of every recorded holding.
func (st *State) Balances() map[HoldingKey]abi.TokenAmount {
	out := make(map[HoldingKey]abi.TokenAmount, len(st.balances))
	for k, v := range st.balances {
		out[k] = v
	}
	return out
}

func (st *State) setBalance(k HoldingKey, v abi.TokenAmount) {
	st.balances[k] = v
	st.changes.Balances[k] = struct{}{}
}

func (st *State) Credit(asset, holder address.Address, amt abi.TokenAmount) error {
	if amt.Sign() < 0 {
		return aerrors.ErrInvalidAmount
	}
	k := HoldingKey{Asset: asset, Holder: holder}
	st.setBalance(k, big.Add(st.Balance(asset, holder), amt))
	return nil
}

func (st *State) Debit(asset, holder address.Address, amt abi.TokenAmount) error {
	if amt.Sign() < 0 {
		return aerrors.ErrInvalidAmount
	}
	cur := st.Balance(asset, holder)
	if cur.LessThan(amt) {
		return aerrors.ErrInsufficientFunds
	}
	st.setBalance(HoldingKey{Asset: asset, Holder: holder}, big.Sub(cur, amt))
	return nil
}

// Transfer moves amt of asset between holders. Nothing changes on error.
func (st *State) Transfer(asset, from, to address.Address, amt abi.TokenAmount) error {
	if err := st.Debit(asset, from, amt); err != nil {
		return err
	}
	return st.Credit(asset, to, amt)
}

func (st *State) Allowance(token, owner, spender address.Address) abi.TokenAmount {
	a, ok := st.allowances[AllowanceKey{Token: token, Owner: owner, Spender: spender}]
	if !ok {
		return big.Zero()
	}
	return a
}

func (st *State) Allowances() map[AllowanceKey]abi.TokenAmount {
	out := make(map[AllowanceKey]abi.TokenAmount, len(st.allowances))
	for k, v := range st.allowances {
		out[k] = v
	}
	return out
}

func (st *State) SetAllowance(token, owner, spender address.Address, amt abi.TokenAmount) {
	k := AllowanceKey{Token: token, Owner: owner, Spender: spender}
	st.allowances[k] = amt
	st.changes.Allowances[k] = struct{}{}
}
