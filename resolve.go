package colstore

import (
	"bytes"
	"regexp"

	"github.com/erigontech/mdbx-go/mdbx"
)

// ResolvedVariable is one record handed back by a resolver. Name is the
// variable name the record resolves under: the matched key for the
// key-addressed resolvers, the collection name for the prefix resolver.
// Key and Value are owned copies of the stored record. Ownership transfers
// to the caller's output sequence.
type ResolvedVariable struct {
	Name  string
	Key   string
	Value string
}

// KeyExclusions suppresses keys from regular-expression resolution.
type KeyExclusions interface {
	ShouldOmit(key string) bool
}

// ResolveSingleMatch appends every value stored under exactly key, in the
// engine's sort order, to out.
func (c *Collection) ResolveSingleMatch(key string, out *[]ResolvedVariable) {
	scope, err := c.ctx.begin(true)
	if err != nil {
		debugf(LogLvlError, "ResolveSingleMatch", "txn: %s", describeBeginError(err))
		return
	}
	defer scope.abort()

	cur, err := scope.txn.OpenCursor(scope.dbi)
	if err != nil {
		debugf(LogLvlError, "ResolveSingleMatch", "cursor: %v", err)
		return
	}
	defer cur.Close()

	// Position on the key's first duplicate, then walk the chain.
	_, v, err := cur.Get(keyView(key), nil, mdbx.SetKey)
	for err == nil {
		*out = append(*out, ResolvedVariable{Name: key, Key: key, Value: ownString(v)})
		_, v, err = cur.Get(nil, nil, mdbx.NextDup)
	}
	if !mdbx.IsNotFound(err) {
		debugf(LogLvlDebug, "ResolveSingleMatch", "get: %s", describeGetError(err))
	}
}

// ResolveMultiMatches scans the whole table and collects every record whose
// key starts with keyPrefix; an empty prefix matches everything. Matches are
// placed at the front of out in reverse scan order. The exclusions
// collaborator is accepted but not consulted on this path.
func (c *Collection) ResolveMultiMatches(keyPrefix string, out *[]ResolvedVariable, ke KeyExclusions) {
	scope, err := c.ctx.begin(true)
	if err != nil {
		debugf(LogLvlError, "ResolveMultiMatches", "txn: %s", describeBeginError(err))
		return
	}
	defer scope.abort()

	cur, err := scope.txn.OpenCursor(scope.dbi)
	if err != nil {
		debugf(LogLvlError, "ResolveMultiMatches", "cursor: %v", err)
		return
	}
	defer cur.Close()

	prefix := keyView(keyPrefix)

	var matches []ResolvedVariable
	k, v, err := cur.Get(nil, nil, mdbx.Next)
	for err == nil {
		if len(prefix) == 0 || bytes.HasPrefix(k, prefix) {
			matches = append(matches, ResolvedVariable{
				Name:  c.name,
				Key:   ownString(k),
				Value: ownString(v),
			})
		}
		k, v, err = cur.Get(nil, nil, mdbx.Next)
	}
	if !mdbx.IsNotFound(err) {
		debugf(LogLvlDebug, "ResolveMultiMatches", "get: %s", describeGetError(err))
	}

	prependReversed(out, matches)
}

// ResolveRegularExpression scans the whole table and collects every record
// whose key matches pattern and is not omitted by ke. Matches are placed at
// the front of out in reverse scan order. A pattern that does not compile
// resolves to nothing.
func (c *Collection) ResolveRegularExpression(pattern string, out *[]ResolvedVariable, ke KeyExclusions) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		debugf(LogLvlError, "ResolveRegularExpression", "compile %q: %v", pattern, err)
		return
	}

	scope, err := c.ctx.begin(true)
	if err != nil {
		debugf(LogLvlError, "ResolveRegularExpression", "txn: %s", describeBeginError(err))
		return
	}
	defer scope.abort()

	cur, err := scope.txn.OpenCursor(scope.dbi)
	if err != nil {
		debugf(LogLvlError, "ResolveRegularExpression", "cursor: %v", err)
		return
	}
	defer cur.Close()

	var matches []ResolvedVariable
	k, v, err := cur.Get(nil, nil, mdbx.Next)
	for err == nil {
		if re.Match(k) {
			key := ownString(k)
			if ke == nil || !ke.ShouldOmit(key) {
				matches = append(matches, ResolvedVariable{
					Name:  key,
					Key:   key,
					Value: ownString(v),
				})
			}
		}
		k, v, err = cur.Get(nil, nil, mdbx.Next)
	}
	if !mdbx.IsNotFound(err) {
		debugf(LogLvlDebug, "ResolveRegularExpression", "get: %s", describeGetError(err))
	}

	prependReversed(out, matches)
}

// prependReversed puts matches at the front of out, newest-scanned first,
// keeping any prior contents of out behind them.
func prependReversed(out *[]ResolvedVariable, matches []ResolvedVariable) {
	if len(matches) == 0 {
		return
	}
	merged := make([]ResolvedVariable, 0, len(matches)+len(*out))
	for i := len(matches) - 1; i >= 0; i-- {
		merged = append(merged, matches[i])
	}
	merged = append(merged, *out...)
	*out = merged
}
