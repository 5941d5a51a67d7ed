// Package colstore is a transactional, persistent key-value backend for
// named collections of string variables, built on MDBX.
//
// A single memory-mapped, crash-consistent store is shared by every
// collection in the process. One named table holds all records and is
// configured with duplicate values per key, kept in sorted order, so a key
// may map to an ordered set of values.
//
// Collections resolve variables four ways: exact-key lookup, ordered
// duplicate-value lookup under one key, prefix-based key matching, and
// regular-expression key matching. The pattern-matching resolvers are built
// from a single forward cursor scan inside one read-only transaction.
//
// Every operation opens its own transaction against the shared environment
// and terminates it (commit or abort) before returning; no transaction is
// ever held across operations or nested.
//
// Basic usage:
//
//	ctx := colstore.NewContext(colstore.DefaultConfig())
//	defer ctx.Close()
//
//	col := colstore.NewCollection(ctx, "ip")
//
//	col.Store("ip.counter", "1")
//	if v, ok := col.ResolveFirst("ip.counter"); ok {
//	    fmt.Println(v)
//	}
//
//	var out []colstore.ResolvedVariable
//	col.ResolveMultiMatches("ip.", &out, nil)
//
// Concurrency follows the engine's MVCC model: any number of concurrent
// read-only transactions alongside at most one write transaction. This
// package adds no locking of its own beyond one-time context initialization.
package colstore
