package colstore

import (
	"github.com/erigontech/mdbx-go/mdbx"
)

// Collection is a named view over the shared table. All collections in a
// process share one StorageContext; the name is carried into resolved
// variables but does not partition the key space.
//
// Every method opens its own transaction and terminates it before returning.
// Engine failures never cross the method boundary: read paths degrade to
// "no value found" and write paths to a no-op, matching the behavior callers
// of this backend rely on.
type Collection struct {
	name string
	ctx  *StorageContext
}

// NewCollection creates a collection bound to the shared context.
func NewCollection(ctx *StorageContext, name string) *Collection {
	return &Collection{name: name, ctx: ctx}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// ResolveFirst returns the first stored value for key in the engine's sort
// order. ok is false when the key is absent or the lookup failed.
func (c *Collection) ResolveFirst(key string) (value string, ok bool) {
	scope, err := c.ctx.begin(true)
	if err != nil {
		debugf(LogLvlError, "ResolveFirst", "txn: %s", describeBeginError(err))
		return "", false
	}
	defer scope.abort()

	v, err := scope.txn.Get(scope.dbi, keyView(key))
	if err != nil {
		debugf(LogLvlDebug, "ResolveFirst", "get: %s", describeGetError(err))
		return "", false
	}
	return ownString(v), true
}

// Store appends a record for key. The table keeps duplicates, so storing an
// already-present key adds a second value rather than replacing the first.
// Failures abort the transaction and discard the write; no outcome is
// reported to the caller.
func (c *Collection) Store(key, value string) {
	scope, err := c.ctx.begin(false)
	if err != nil {
		debugf(LogLvlError, "Store", "txn: %s", describeBeginError(err))
		return
	}
	defer scope.abort()

	if err := scope.txn.Put(scope.dbi, keyView(key), keyView(value), 0); err != nil {
		debugf(LogLvlError, "Store", "put: %v", err)
		return
	}
	if err := scope.commit(); err != nil {
		debugf(LogLvlError, "Store", "commit: %s", describeCommitError(err))
	}
}

// StoreOrUpdateFirst replaces the first value under key with value, or
// stores it when the key is absent. At most one value survives under the key
// on success. The return is unconditionally true: callers of this backend
// depend on it, and internal failures are visible only through the
// diagnostic channel.
func (c *Collection) StoreOrUpdateFirst(key, value string) bool {
	scope, err := c.ctx.begin(false)
	if err != nil {
		debugf(LogLvlError, "StoreOrUpdateFirst", "txn: %s", describeBeginError(err))
		return true
	}
	defer scope.abort()

	old, err := scope.txn.Get(scope.dbi, keyView(key))
	if err == nil {
		if err := scope.txn.Del(scope.dbi, keyView(key), old); err != nil {
			debugf(LogLvlError, "StoreOrUpdateFirst", "del: %s", describeDelError(err))
			return true
		}
	} else if !mdbx.IsNotFound(err) {
		debugf(LogLvlDebug, "StoreOrUpdateFirst", "get: %s", describeGetError(err))
	}

	if err := scope.txn.Put(scope.dbi, keyView(key), keyView(value), 0); err != nil {
		debugf(LogLvlError, "StoreOrUpdateFirst", "put: %v", err)
		return true
	}
	if err := scope.commit(); err != nil {
		debugf(LogLvlError, "StoreOrUpdateFirst", "commit: %s", describeCommitError(err))
	}
	return true
}

// UpdateFirst replaces the first value under key and requires the key to
// exist. Returns true only when the lookup, delete, put and commit all
// succeeded; otherwise the transaction is aborted and the store unchanged.
func (c *Collection) UpdateFirst(key, value string) bool {
	scope, err := c.ctx.begin(false)
	if err != nil {
		debugf(LogLvlError, "UpdateFirst", "txn: %s", describeBeginError(err))
		return false
	}
	defer scope.abort()

	old, err := scope.txn.Get(scope.dbi, keyView(key))
	if err != nil {
		debugf(LogLvlDebug, "UpdateFirst", "get: %s", describeGetError(err))
		return false
	}
	if err := scope.txn.Del(scope.dbi, keyView(key), old); err != nil {
		debugf(LogLvlError, "UpdateFirst", "del: %s", describeDelError(err))
		return false
	}
	if err := scope.txn.Put(scope.dbi, keyView(key), keyView(value), 0); err != nil {
		debugf(LogLvlError, "UpdateFirst", "put: %v", err)
		return false
	}
	if err := scope.commit(); err != nil {
		debugf(LogLvlError, "UpdateFirst", "commit: %s", describeCommitError(err))
		return false
	}
	return true
}

// Del removes the first value under key. Absent keys are a no-op.
func (c *Collection) Del(key string) {
	scope, err := c.ctx.begin(false)
	if err != nil {
		debugf(LogLvlError, "Del", "txn: %s", describeBeginError(err))
		return
	}
	defer scope.abort()

	old, err := scope.txn.Get(scope.dbi, keyView(key))
	if err != nil {
		debugf(LogLvlDebug, "Del", "get: %s", describeGetError(err))
		return
	}
	if err := scope.txn.Del(scope.dbi, keyView(key), old); err != nil {
		debugf(LogLvlError, "Del", "del: %s", describeDelError(err))
		return
	}
	if err := scope.commit(); err != nil {
		debugf(LogLvlError, "Del", "commit: %s", describeCommitError(err))
	}
}
