package colstore

import (
	"errors"
	"runtime"

	"github.com/erigontech/mdbx-go/mdbx"
)

// errInvalidEnv is returned by begin when the one-time environment open
// failed. Operations treat it like any other begin failure: fail fast.
var errInvalidEnv = errors.New("colstore: storage environment is not usable")

// txnScope pairs a transaction with its guaranteed termination. Every begin
// must be matched by exactly one commit or abort on every exit path; callers
// defer abort immediately and call commit on the success path. abort after
// commit is a no-op, so the deferred call stays correct on all paths.
//
// The scope also pins the goroutine to its OS thread for the transaction
// lifetime, which the engine requires.
type txnScope struct {
	txn  *mdbx.Txn
	dbi  mdbx.DBI
	done bool
}

// begin opens a transaction against the shared environment, triggering the
// lazy environment open on first use. Begin failures (fatal prior corruption,
// map resized by another process, reader table full, out of memory) are
// terminal for the operation and never retried here.
func (c *StorageContext) begin(readOnly bool) (*txnScope, error) {
	env, dbi, ok := c.handles()
	if !ok {
		return nil, errInvalidEnv
	}

	flags := uint(0)
	if readOnly {
		flags = mdbx.Readonly
	}

	runtime.LockOSThread()
	txn, err := env.BeginTxn(nil, flags)
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return &txnScope{txn: txn, dbi: dbi}, nil
}

// abort terminates the transaction, discarding any writes. No-op when the
// scope already ended.
func (s *txnScope) abort() {
	if s.done {
		return
	}
	s.done = true
	s.txn.Abort()
	runtime.UnlockOSThread()
}

// commit terminates the transaction, making its writes durable.
func (s *txnScope) commit() error {
	if s.done {
		return nil
	}
	s.done = true
	_, err := s.txn.Commit()
	runtime.UnlockOSThread()
	return err
}
