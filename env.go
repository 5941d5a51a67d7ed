package colstore

import (
	"runtime"
	"sync"

	"github.com/erigontech/mdbx-go/mdbx"
)

// StorageContext owns the process-wide handle to the backing memory-mapped
// file and the one table inside it. Construct it once, pass it to every
// collection, and close it only at process teardown.
//
// The environment is opened lazily on the first transaction. If the open
// fails the context stays permanently invalid: every subsequent operation
// fails fast instead of retrying the open.
type StorageContext struct {
	cfg Config

	once  sync.Once
	env   *mdbx.Env
	dbi   mdbx.DBI
	valid bool
}

// NewContext creates a context for the given configuration.
// No file is touched until the first operation.
func NewContext(cfg Config) *StorageContext {
	return &StorageContext{cfg: cfg}
}

// handles returns the environment and table, opening them on first use.
// ok is false when the one-time open failed.
func (c *StorageContext) handles() (env *mdbx.Env, dbi mdbx.DBI, ok bool) {
	c.once.Do(c.open)
	return c.env, c.dbi, c.valid
}

// open performs the one-time environment and table setup. Runs under once.
func (c *StorageContext) open() {
	env, err := mdbx.NewEnv(mdbx.Label("colstore"))
	if err != nil {
		debugf(LogLvlError, "env", "create failed: %v", err)
		return
	}

	if err := env.SetOption(mdbx.OptMaxDB, 2); err != nil {
		debugf(LogLvlError, "env", "set max dbs: %v", err)
		env.Close()
		return
	}
	if c.cfg.MaxReaders > 0 {
		if err := env.SetOption(mdbx.OptMaxReaders, uint64(c.cfg.MaxReaders)); err != nil {
			debugf(LogLvlError, "env", "set max readers: %v", err)
			env.Close()
			return
		}
	}
	if err := env.SetGeometry(-1, -1, int(c.cfg.MapSize), -1, -1, 4096); err != nil {
		debugf(LogLvlError, "env", "set geometry: %v", err)
		env.Close()
		return
	}

	// Single data file next to the process, shared between cooperating
	// processes through the write-enabled memory map.
	err = env.Open(c.cfg.Path, mdbx.Create|mdbx.NoSubdir|mdbx.WriteMap, c.cfg.Mode)
	if err != nil {
		debugf(LogLvlError, "env", "open %s: %s", c.cfg.Path, describeOpenError(err))
		env.Close()
		return
	}

	// Bootstrap transaction: create the dupsort table once, then reuse the
	// handle for the context lifetime.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	txn, err := env.BeginTxn(nil, 0)
	if err != nil {
		debugf(LogLvlError, "env", "bootstrap txn: %s", describeBeginError(err))
		env.Close()
		return
	}
	dbi, err := txn.OpenDBI(c.cfg.Table, mdbx.Create|mdbx.DupSort, nil, nil)
	if err != nil {
		debugf(LogLvlError, "env", "open table %s: %v", c.cfg.Table, err)
		txn.Abort()
		env.Close()
		return
	}
	if _, err := txn.Commit(); err != nil {
		debugf(LogLvlError, "env", "bootstrap commit: %s", describeCommitError(err))
		env.Close()
		return
	}

	c.env = env
	c.dbi = dbi
	c.valid = true
}

// Valid reports whether the environment opened successfully. It forces the
// lazy open, so the first caller pays for the file open.
func (c *StorageContext) Valid() bool {
	_, _, ok := c.handles()
	return ok
}

// Path returns the configured backing file path.
func (c *StorageContext) Path() string {
	return c.cfg.Path
}

// Close releases the environment. Only call this at process teardown, after
// every collection using the context is quiescent. Safe on an invalid or
// never-opened context.
func (c *StorageContext) Close() {
	c.once.Do(func() {}) // never open after Close
	if c.env != nil {
		c.env.Close()
		c.env = nil
		c.valid = false
	}
}
