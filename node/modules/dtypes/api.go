package dtypes

import (
	"time"

	"github.com/gbrlsnchs/jwt/v3"
	"github.com/ipfs/go-datastore"
	"github.com/multiformats/go-multiaddr"
)

type APIAlg jwt.HMACSHA

type APIEndpoint multiaddr.Multiaddr

type NodeStartTime time.Time

// MetadataDS is the datastore the wallet ledger lives in.
type MetadataDS datastore.Batching
