package benchmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/tecbot/gorocksdb"
	bolt "go.etcd.io/bbolt"

	"github.com/Giulio2002/colstore"
)

// Cached benchmark databases, one per engine, pre-populated once per run.
const benchCacheDir = "testdata/benchdb"

const benchKeys = 10_000

var (
	cacheMu      sync.Mutex
	colstoreCtx  *colstore.StorageContext
	colstoreCol  *colstore.Collection
	boltDB       *bolt.DB
	rocksDB      *gorocksdb.DB
	rocksReadOpt *gorocksdb.ReadOptions
	rocksWrtOpt  *gorocksdb.WriteOptions
)

func benchKey(i int) string {
	return fmt.Sprintf("bench.%08d", i)
}

// getColstore returns a cached store pre-populated with benchKeys records.
func getColstore(b *testing.B) *colstore.Collection {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if colstoreCol != nil {
		return colstoreCol
	}
	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	cfg := colstore.DefaultConfig()
	cfg.Path = filepath.Join(benchCacheDir, "colstore.db")
	populated := fileExists(cfg.Path)

	ctx := colstore.NewContext(cfg)
	if !ctx.Valid() {
		b.Fatalf("cannot open %s", cfg.Path)
	}
	col := colstore.NewCollection(ctx, "bench")

	if !populated {
		b.Logf("populating colstore bench DB with %d keys...", benchKeys)
		for i := 0; i < benchKeys; i++ {
			col.Store(benchKey(i), "benchmark-value-payload")
		}
	}

	colstoreCtx = ctx
	colstoreCol = col
	return col
}

// getBoltDB returns a cached bolt baseline with the same records in a
// "bench" bucket.
func getBoltDB(b *testing.B) *bolt.DB {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if boltDB != nil {
		return boltDB
	}
	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	path := filepath.Join(benchCacheDir, "bolt.db")
	populated := fileExists(path)

	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		b.Fatal(err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte("bench"))
		if err != nil {
			return err
		}
		if populated {
			return nil
		}
		b.Logf("populating bolt bench DB with %d keys...", benchKeys)
		for i := 0; i < benchKeys; i++ {
			if err := bucket.Put([]byte(benchKey(i)), []byte("benchmark-value-payload")); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.Fatal(err)
	}

	boltDB = db
	return db
}

// getRocksDB returns a cached rocksdb baseline with the same records.
func getRocksDB(b *testing.B) (*gorocksdb.DB, *gorocksdb.ReadOptions, *gorocksdb.WriteOptions) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if rocksDB != nil {
		return rocksDB, rocksReadOpt, rocksWrtOpt
	}
	if err := os.MkdirAll(benchCacheDir, 0755); err != nil {
		b.Fatal(err)
	}

	path := filepath.Join(benchCacheDir, "rocksdb")
	populated := fileExists(filepath.Join(path, "CURRENT"))

	opts := gorocksdb.NewDefaultOptions()
	opts.SetCreateIfMissing(true)
	db, err := gorocksdb.OpenDb(opts, path)
	if err != nil {
		b.Fatal(err)
	}

	ro := gorocksdb.NewDefaultReadOptions()
	wo := gorocksdb.NewDefaultWriteOptions()
	wo.DisableWAL(true) // fair comparison, others don't sync per op either

	if !populated {
		b.Logf("populating rocksdb bench DB with %d keys...", benchKeys)
		for i := 0; i < benchKeys; i++ {
			if err := db.Put(wo, []byte(benchKey(i)), []byte("benchmark-value-payload")); err != nil {
				b.Fatal(err)
			}
		}
	}

	rocksDB = db
	rocksReadOpt = ro
	rocksWrtOpt = wo
	return db, ro, wo
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
