package colstore

import "unsafe"

// keyView returns a byte-slice view of s without copying. The view aliases
// the string's memory: pass it only to engine calls that neither mutate nor
// retain the buffer, and never keep it past the enclosing transaction.
func keyView(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// ownString copies an engine buffer into a caller-owned string. Engine
// buffers point into the memory map and are valid only until the
// transaction terminates, so every read path copies before then.
func ownString(b []byte) string {
	return string(b)
}
