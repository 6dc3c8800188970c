package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"

	rpcmetrics "github.com/filecoin-project/go-jsonrpc/metrics"
)

var defaultMillisecondsDistribution = view.Distribution(
	0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8,
	10, 20, 30, 40, 50, 60, 70, 80, 90, 100,
	150, 200, 250, 300, 350, 400, 450, 500,
	600, 700, 800, 900, 1000, 2000, 5000, 10000,
)

// whole asset units
var volumeDistribution = view.Distribution(0.001, 0.01, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 10_000, 100_000)

// Tags
var (
	Version, _  = tag.NewKey("version")
	Commit, _   = tag.NewKey("commit")
	Endpoint, _ = tag.NewKey("endpoint")

	// OpKind is the kind of a proposed operation.
	OpKind, _ = tag.NewKey("op_kind")
	// Asset is "native" or a token address.
	Asset, _ = tag.NewKey("asset")
	// Rejection is the error type that turned a call down.
	Rejection, _ = tag.NewKey("rejection")
	// Call is the engine operation that produced a rejection.
	Call, _ = tag.NewKey("call")
)

// Measures
var (
	FairyInfo = stats.Int64("info", "Arbitrary counter to tag fairy info to", stats.UnitDimensionless)

	ProposalSubmitted = stats.Int64("msig/proposal_submitted", "Counter for submitted proposals", stats.UnitDimensionless)
	ProposalConfirmed = stats.Int64("msig/proposal_confirmed", "Counter for proposal confirmations", stats.UnitDimensionless)
	ProposalExecuted  = stats.Int64("msig/proposal_executed", "Counter for executed proposals", stats.UnitDimensionless)
	ProposalsPending  = stats.Int64("msig/proposals_pending", "Number of proposals not yet executed", stats.UnitDimensionless)

	GrantSubmitted     = stats.Int64("delegation/grant_submitted", "Counter for submitted delegations", stats.UnitDimensionless)
	GrantActivated     = stats.Int64("delegation/grant_activated", "Counter for delegations reaching quorum", stats.UnitDimensionless)
	GrantRevoked       = stats.Int64("delegation/grant_revoked", "Counter for revoked delegations", stats.UnitDimensionless)
	DelegatedTransfers = stats.Int64("delegation/transfers", "Counter for delegated transfers", stats.UnitDimensionless)
	DelegatedVolume    = stats.Float64("delegation/volume", "Whole units moved by delegated transfers", stats.UnitDimensionless)

	WalletFunded = stats.Int64("wallet/funded", "Counter for deposits into the wallet", stats.UnitDimensionless)
	StateVersion = stats.Int64("state/version", "Version of the current wallet state", stats.UnitDimensionless)
	Rejections   = stats.Int64("rejections", "Counter for calls rejected by the engines", stats.UnitDimensionless)

	APIRequestDuration = stats.Float64("api/request_duration_ms", "Duration of API requests", stats.UnitMilliseconds)
)

var (
	InfoView = &view.View{
		Name:        "info",
		Description: "Fairy node information",
		Measure:     FairyInfo,
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{Version, Commit},
	}
	ProposalSubmittedView = &view.View{
		Measure:     ProposalSubmitted,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{OpKind},
	}
	ProposalConfirmedView = &view.View{
		Measure:     ProposalConfirmed,
		Aggregation: view.Count(),
	}
	ProposalExecutedView = &view.View{
		Measure:     ProposalExecuted,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{OpKind},
	}
	ProposalsPendingView = &view.View{
		Measure:     ProposalsPending,
		Aggregation: view.LastValue(),
	}
	GrantSubmittedView = &view.View{
		Measure:     GrantSubmitted,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Asset},
	}
	GrantActivatedView = &view.View{
		Measure:     GrantActivated,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Asset},
	}
	GrantRevokedView = &view.View{
		Measure:     GrantRevoked,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Asset},
	}
	DelegatedTransfersView = &view.View{
		Measure:     DelegatedTransfers,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Asset},
	}
	DelegatedVolumeView = &view.View{
		Measure:     DelegatedVolume,
		Aggregation: volumeDistribution,
		TagKeys:     []tag.Key{Asset},
	}
	WalletFundedView = &view.View{
		Measure:     WalletFunded,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Asset},
	}
	StateVersionView = &view.View{
		Measure:     StateVersion,
		Aggregation: view.LastValue(),
	}
	RejectionsView = &view.View{
		Measure:     Rejections,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Call, Rejection},
	}
	APIRequestDurationView = &view.View{
		Measure:     APIRequestDuration,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{Endpoint},
	}
)

// DefaultViews is an array of OpenCensus views for metric gathering purposes
var DefaultViews = func() []*view.View {
	views := []*view.View{
		InfoView,
		ProposalSubmittedView,
		ProposalConfirmedView,
		ProposalExecutedView,
		ProposalsPendingView,
		GrantSubmittedView,
		GrantActivatedView,
		GrantRevokedView,
		DelegatedTransfersView,
		DelegatedVolumeView,
		WalletFundedView,
		StateVersionView,
		RejectionsView,
		APIRequestDurationView,
	}
	return append(views, rpcmetrics.DefaultViews...)
}()

// SinceInMilliseconds returns the duration of time since the provide time as a float64.
func SinceInMilliseconds(startTime time.Time) float64 {
	return float64(time.Since(startTime).Nanoseconds()) / 1e6
}

// Timer is a function stopwatch, calling it starts the timer,
// calling the returned function will record the duration.
func Timer(ctx context.Context, m *stats.Float64Measure) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		stats.Record(ctx, m.M(SinceInMilliseconds(start)))
		return time.Since(start)
	}
}

// RecordWithTags records ms under the given tag mutators. Tag errors drop
// the sample.
func RecordWithTags(ctx context.Context, mutators []tag.Mutator, ms ...stats.Measurement) {
	_ = stats.RecordWithTags(ctx, mutators, ms...)
}
