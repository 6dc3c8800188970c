package stmgr

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/billyjitsu/liquidation-fairy/chain/actors/aerrors"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/delegation"
	"github.com/billyjitsu/liquidation-fairy/chain/actors/multisig"
	"github.com/billyjitsu/liquidation-fairy/chain/state"
	"github.com/billyjitsu/liquidation-fairy/chain/store"
	"github.com/billyjitsu/liquidation-fairy/chain/types"
	"github.com/billyjitsu/liquidation-fairy/chain/vm"
	"github.com/billyjitsu/liquidation-fairy/journal"
	"github.com/billyjitsu/liquidation-fairy/metrics"
)

var log = logging.Logger("stmgr")

// Call names a state transition. It doubles as the journal event name.
type Call int

const (
	CallPropose Call = iota
	CallApprove
	CallExecute
	CallGrantSubmit
	CallGrantConfirm
	CallGrantRevoke
	CallDelegatedTransfer
	CallFund

	numCalls
)

var callEvents = [numCalls]struct{ system, event string }{
	CallPropose:           {"msig", "proposed"},
	CallApprove:           {"msig", "approved"},
	CallExecute:           {"msig", "executed"},
	CallGrantSubmit:       {"delegation", "submitted"},
	CallGrantConfirm:      {"delegation", "confirmed"},
	CallGrantRevoke:       {"delegation", "revoked"},
	CallDelegatedTransfer: {"delegation", "transfer"},
	CallFund:              {"wallet", "funded"},
}

func (c Call) String() string {
	if c < 0 || c >= numCalls {
		return "unknown"
	}
	e := callEvents[c]
	return e.system + "/" + e.event
}

// RejectedEvt is journaled when an engine turns a call down.
type RejectedEvt struct {
	Call      string
	Rejection string
	Error     string
}

// StatusEvt is journaled on delegation status reads, when enabled.
type StatusEvt struct {
	Grant  types.GrantKey
	Status types.DelegationStatus
}

// StateManager owns the wallet state. Transitions are applied one at a time
// against the current head; a transition's changes are flushed to the store
// before the head moves, so a failed flush leaves the head untouched.
type StateManager struct {
	lk   sync.Mutex
	head *state.State

	cs  *store.Store
	clk clock.Clock

	msig       *multisig.Actor
	delegation *delegation.Actor

	journal   journal.Journal
	evtTypes  [numCalls]journal.EventType
	evtReject journal.EventType
	evtStatus journal.EventType
}

// NewStateManager loads the wallet state from cs, creating it from params
// when the store is empty.
func NewStateManager(ctx context.Context, cs *store.Store, params types.WalletParams, clk clock.Clock, j journal.Journal, v *vm.VM) (*StateManager, error) {
	head, err := cs.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNoState):
		head, err = state.New(params)
		if err != nil {
			return nil, xerrors.Errorf("creating wallet state: %w", err)
		}
		if err := cs.Flush(ctx, head); err != nil {
			return nil, xerrors.Errorf("writing initial wallet state: %w", err)
		}
		log.Infow("created wallet state", "wallet", params.Address, "signers", params.Signers.Len(), "threshold", params.Signers.Threshold())
	case err != nil:
		return nil, xerrors.Errorf("loading wallet state: %w", err)
	default:
		if head.Wallet() != params.Address {
			log.Warnw("configured wallet differs from stored state, using stored", "stored", head.Wallet(), "configured", params.Address)
		}
		log.Infow("loaded wallet state", "wallet", head.Wallet(), "version", head.Version(), "proposals", head.NextTxIndex())
	}

	sm := &StateManager{
		head:       head,
		cs:         cs,
		clk:        clk,
		msig:       multisig.NewActor(v),
		delegation: delegation.NewActor(),
		journal:    j,
	}
	for c := Call(0); c < numCalls; c++ {
		sm.evtTypes[c] = j.RegisterEventType(callEvents[c].system, callEvents[c].event)
	}
	sm.evtReject = j.RegisterEventType("engine", "rejected")
	sm.evtStatus = j.RegisterEventType("delegation", "status")

	stats.Record(ctx, metrics.StateVersion.M(int64(head.Version())))
	return sm, nil
}

func (sm *StateManager) Msig() *multisig.Actor {
	return sm.msig
}

func (sm *StateManager) Delegation() *delegation.Actor {
	return sm.delegation
}

func (sm *StateManager) Clock() clock.Clock {
	return sm.clk
}

// Head returns the current state. Callers must not mutate it.
func (sm *StateManager) Head() *state.State {
	sm.lk.Lock()
	defer sm.lk.Unlock()
	return sm.head
}

// TransitionFunc computes the next state from st at time now. It returns
// the journal payload of the transition alongside.
type TransitionFunc func(st *state.State, now time.Time) (*state.State, interface{}, error)

// Apply runs fn against the head and, on success, persists and installs the
// state it returns. An engine rejection is returned as the bare
// aerrors.ActorError so that RPC clients get the same type back.
func (sm *StateManager) Apply(ctx context.Context, call Call, fn TransitionFunc) error {
	sm.lk.Lock()
	defer sm.lk.Unlock()

	now := sm.clk.Now()
	next, evt, err := fn(sm.head, now)
	if err != nil {
		return sm.rejected(ctx, call, err)
	}

	if next == sm.head || next.Changes().Empty() {
		return nil
	}

	if err := sm.cs.Flush(ctx, next); err != nil {
		return xerrors.Errorf("persisting %s: %w", call, err)
	}
	sm.head = next

	stats.Record(ctx, metrics.StateVersion.M(int64(next.Version())))
	sm.journal.RecordEvent(sm.evtTypes[call], func() interface{} {
		return evt
	})
	return nil
}

func (sm *StateManager) rejected(ctx context.Context, call Call, err error) error {
	var aerr aerrors.ActorError
	if !errors.As(err, &aerr) {
		log.Errorw("transition failed", "call", call, "error", err)
		return xerrors.Errorf("%s: %w", call, err)
	}

	kind := rejectionName(aerr)
	log.Debugw("call rejected", "call", call, "rejection", kind, "error", err)

	metrics.RecordWithTags(ctx, []tag.Mutator{
		tag.Upsert(metrics.Call, call.String()),
		tag.Upsert(metrics.Rejection, kind),
	}, metrics.Rejections.M(1))

	sm.journal.RecordEvent(sm.evtReject, func() interface{} {
		return RejectedEvt{
			Call:      call.String(),
			Rejection: kind,
			Error:     err.Error(),
		}
	})
	return aerr
}

// RecordStatus journals a delegation status read.
func (sm *StateManager) RecordStatus(k types.GrantKey, ds types.DelegationStatus) {
	sm.journal.RecordEvent(sm.evtStatus, func() interface{} {
		return StatusEvt{Grant: k, Status: ds}
	})
}

func rejectionName(aerr aerrors.ActorError) string {
	t := reflect.TypeOf(aerr)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
