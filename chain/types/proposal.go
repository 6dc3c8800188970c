package types

import (
	"time"

	"github.com/filecoin-project/go-address"
)

type Proposal struct {
	Index    uint64
	Op       Operation
	Proposer address.Address

	Confirmations Approvals
	Executed      bool

	SubmittedAt time.Time
	ExecutedAt  time.Time `json:",omitempty"`
	Return      []byte    `json:",omitempty"`
}

func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	out := *p
	out.Op = p.Op.Normalized()
	out.Confirmations = append(Approvals(nil), p.Confirmations...)
	if p.Return != nil {
		out.Return = append([]byte(nil), p.Return...)
	}
	return &out
}

// ExecResult is returned when a proposal is executed.
type ExecResult struct {
	Index  uint64
	Return []byte
}
