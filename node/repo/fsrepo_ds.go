package repo

import (
	"os"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	badger "github.com/ipfs/go-ds-badger2"
	levelds "github.com/ipfs/go-ds-leveldb"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
	"golang.org/x/xerrors"
)

type dsCtor func(path string) (datastore.Batching, error)

var dsCtors = map[string]dsCtor{
	"leveldb": levelDs,
	"badger":  badgerDs,
	"memory":  memoryDs,
}

// openDatastore opens the ledger datastore of the given backend type at path.
// An empty type means leveldb.
func openDatastore(typ, path string) (datastore.Batching, error) {
	if typ == "" {
		typ = "leveldb"
	}

	ctor, ok := dsCtors[typ]
	if !ok {
		return nil, xerrors.Errorf("unknown datastore type %q", typ)
	}

	if typ != "memory" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, xerrors.Errorf("mkdir %s: %w", path, err)
		}
	}

	ds, err := ctor(path)
	if err != nil {
		return nil, xerrors.Errorf("opening %s datastore: %w", typ, err)
	}
	log.Infow("opened datastore", "type", typ, "path", path)
	return ds, nil
}

func levelDs(path string) (datastore.Batching, error) {
	return levelds.NewDatastore(path, &levelds.Options{
		Compression: ldbopts.NoCompression,
		NoSync:      false,
		Strict:      ldbopts.StrictAll,
	})
}

func badgerDs(path string) (datastore.Batching, error) {
	return badger.NewDatastore(path, nil)
}

func memoryDs(string) (datastore.Batching, error) {
	return dssync.MutexWrap(datastore.NewMapDatastore()), nil
}
