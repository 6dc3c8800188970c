package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	dsq "github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/abi"

	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
)

var log = logging.Logger("store")

var ErrNoState = errors.New("no wallet state in datastore")

const (
	pfxProposals  = "proposals"
	pfxGrants     = "grants"
	pfxBalances   = "balances"
	pfxAllowances = "allowances"
)

var metaKey = datastore.NewKey("/meta")

// Store persists wallet state in a datastore. Each transition's changes are
// written in a single batch.
type Store struct {
	lk sync.Mutex

	ds datastore.Batching
}

func NewStore(ds datastore.Batching) *Store {
	return &Store{
		ds: namespace.Wrap(ds, datastore.NewKey("/vault/")),
	}
}

func dskeyForProposal(idx uint64) datastore.Key {
	return datastore.KeyWithNamespaces([]string{pfxProposals, strconv.FormatUint(idx, 10)})
}

func dskeyForGrant(k types.GrantKey) datastore.Key {
	return datastore.KeyWithNamespaces([]string{pfxGrants, types.AssetString(k.Asset), k.Delegate.String()})
}

func dskeyForBalance(k state.HoldingKey) datastore.Key {
	return datastore.KeyWithNamespaces([]string{pfxBalances, types.AssetString(k.Asset), k.Holder.String()})
}

func dskeyForAllowance(k state.AllowanceKey) datastore.Key {
	return datastore.KeyWithNamespaces([]string{pfxAllowances, k.Token.String(), k.Owner.String(), k.Spender.String()})
}

// Initialized reports whether a wallet has been written to the store.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	return s.ds.Has(ctx, metaKey)
}

// Flush writes everything st changed.
func (s *Store) Flush(ctx context.Context, st *state.State) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	ch := st.Changes()
	if ch.Empty() {
		return nil
	}

	b, err := s.ds.Batch(ctx)
	if err != nil {
		return xerrors.Errorf("opening batch: %w", err)
	}

	put := func(k datastore.Key, v interface{}) error {
		data, err := json.Marshal(v)
		if err != nil {
			return xerrors.Errorf("encoding %s: %w", k, err)
		}
		return b.Put(ctx, k, data)
	}

	if ch.Meta {
		if err := put(metaKey, st.Meta()); err != nil {
			return err
		}
	}
	for idx := range ch.Proposals {
		p, ok := st.GetProposal(idx)
		if !ok {
			return xerrors.Errorf("proposal %d marked changed but missing", idx)
		}
		if err := put(dskeyForProposal(idx), p); err != nil {
			return err
		}
	}
	for k := range ch.Grants {
		g, ok := st.GetGrant(k)
		if !ok {
			return xerrors.Errorf("grant %s marked changed but missing", k)
		}
		if err := put(dskeyForGrant(k), g); err != nil {
			return err
		}
	}
	for k := range ch.Balances {
		if err := put(dskeyForBalance(k), st.Balance(k.Asset, k.Holder)); err != nil {
			return err
		}
	}
	for k := range ch.Allowances {
		if err := put(dskeyForAllowance(k), st.Allowance(k.Token, k.Owner, k.Spender)); err != nil {
			return err
		}
	}

	if err := b.Commit(ctx); err != nil {
		return xerrors.Errorf("committing state version %d: %w", st.Version(), err)
	}

	log.Debugw("flushed state", "version", st.Version(), "proposals", len(ch.Proposals), "grants", len(ch.Grants), "balances", len(ch.Balances), "allowances", len(ch.Allowances))
	return nil
}

// Load rebuilds the last flushed state.
func (s *Store) Load(ctx context.Context) (*state.State, error) {
	s.lk.Lock()
	defer s.lk.Unlock()

	mb, err := s.ds.Get(ctx, metaKey)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, xerrors.Errorf("reading wallet metadata: %w", err)
	}

	var meta state.Meta
	if err := json.Unmarshal(mb, &meta); err != nil {
		return nil, xerrors.Errorf("decoding wallet metadata: %w", err)
	}

	var proposals []*types.Proposal
	err = s.forEach(ctx, pfxProposals, func(_ []string, v []byte) error {
		var p types.Proposal
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		proposals = append(proposals, &p)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("loading proposals: %w", err)
	}

	var grants []*types.Grant
	err = s.forEach(ctx, pfxGrants, func(_ []string, v []byte) error {
		var g types.Grant
		if err := json.Unmarshal(v, &g); err != nil {
			return err
		}
		grants = append(grants, &g)
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("loading grants: %w", err)
	}

	balances := map[state.HoldingKey]abi.TokenAmount{}
	err = s.forEach(ctx, pfxBalances, func(parts []string, v []byte) error {
		if len(parts) != 3 {
			return xerrors.Errorf("malformed balance key %v", parts)
		}
		asset, err := types.ParseAsset(parts[1])
		if err != nil {
			return err
		}
		holder, err := address.NewFromString(parts[2])
		if err != nil {
			return err
		}
		var amt abi.TokenAmount
		if err := json.Unmarshal(v, &amt); err != nil {
			return err
		}
		balances[state.HoldingKey{Asset: asset, Holder: holder}] = amt
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("loading balances: %w", err)
	}

	allowances := map[state.AllowanceKey]abi.TokenAmount{}
	err = s.forEach(ctx, pfxAllowances, func(parts []string, v []byte) error {
		if len(parts) != 4 {
			return xerrors.Errorf("malformed allowance key %v", parts)
		}
		var addrs [3]address.Address
		for i := range addrs {
			a, err := address.NewFromString(parts[i+1])
			if err != nil {
				return err
			}
			addrs[i] = a
		}
		var amt abi.TokenAmount
		if err := json.Unmarshal(v, &amt); err != nil {
			return err
		}
		allowances[state.AllowanceKey{Token: addrs[0], Owner: addrs[1], Spender: addrs[2]}] = amt
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("loading allowances: %w", err)
	}

	st, err := state.Restore(meta, proposals, grants, balances, allowances)
	if err != nil {
		return nil, err
	}

	log.Infow("loaded wallet state", "version", meta.Version, "proposals", len(proposals), "grants", len(grants))
	return st, nil
}

func (s *Store) forEach(ctx context.Context, prefix string, cb func(parts []string, v []byte) error) error {
	res, err := s.ds.Query(ctx, dsq.Query{Prefix: "/" + prefix})
	if err != nil {
		return err
	}
	defer res.Close() //nolint:errcheck

	for {
		r, ok := res.NextSync()
		if !ok {
			return nil
		}
		if r.Error != nil {
			return r.Error
		}

		parts := datastore.RawKey(r.Key).Namespaces()
		if err := cb(parts, r.Value); err != nil {
			return xerrors.Errorf("entry %s: %w", r.Key, err)
		}
	}
}
