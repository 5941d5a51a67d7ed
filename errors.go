package colstore

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/erigontech/mdbx-go/mdbx"
	"golang.org/x/sys/unix"
)

// LogLvl is the verbosity of the diagnostic channel.
type LogLvl int

const (
	LogLvlError LogLvl = iota
	LogLvlDebug
)

// LoggerFunc is a callback for diagnostic output.
type LoggerFunc func(msg string, args ...any)

// Diagnostics are disabled by default. Engine failures are part of normal
// operation (a failed read is "no value found"), so nothing is written
// unless a logger is installed.
var (
	logFn  LoggerFunc
	logLvl LogLvl = LogLvlError
)

// SetLogger installs a diagnostic logger and level. Pass nil to disable.
// The logger describes engine-level failure codes for operational debugging;
// it is not part of the functional contract of any operation.
func SetLogger(fn LoggerFunc, level LogLvl) {
	logFn = fn
	logLvl = level
}

func debugf(level LogLvl, scope, format string, args ...any) {
	if logFn == nil || level > logLvl {
		return
	}
	logFn(scope + ": " + fmt.Sprintf(format, args...))
}

// errnoUnableExtendMapsize is MDBX_UNABLE_EXTEND_MAPSIZE, the engine's
// successor to MDB_MAP_RESIZED: the data file grew beyond this process's
// mapping. mdbx-go does not export a named constant for it.
const errnoUnableExtendMapsize mdbx.Errno = -30785

// isSysErrno reports whether err carries the given system errno.
func isSysErrno(err error, errno unix.Errno) bool {
	return mdbx.IsErrnoSys(err, syscall.Errno(errno))
}

// describeOpenError names the reason an environment open failed.
func describeOpenError(err error) string {
	switch {
	case isSysErrno(err, unix.EACCES):
		return "permission denied on the backing file"
	case isSysErrno(err, unix.ENOENT):
		return "backing file path does not exist"
	case isSysErrno(err, unix.EAGAIN):
		return "backing file is locked by another environment"
	default:
		return err.Error()
	}
}

// describeBeginError names the reason a transaction begin failed.
func describeBeginError(err error) string {
	switch {
	case errors.Is(err, errInvalidEnv):
		return "environment is invalid and the store is unusable"
	case mdbx.IsErrno(err, mdbx.Panic):
		return "panic: a fatal error occurred earlier and the environment must be shut down"
	case mdbx.IsErrno(err, errnoUnableExtendMapsize):
		return "map resized: another process grew the data file beyond this mapping"
	case mdbx.IsErrno(err, mdbx.ReadersFull):
		return "max readers: the reader lock table is full"
	case isSysErrno(err, unix.ENOMEM):
		return "out of memory"
	default:
		return err.Error()
	}
}

// describeGetError names the reason a lookup failed.
func describeGetError(err error) string {
	switch {
	case mdbx.IsNotFound(err):
		return "not found: the key was not in the table"
	case isSysErrno(err, unix.EINVAL):
		return "an invalid parameter was specified"
	default:
		return err.Error()
	}
}

// describeDelError names the reason a delete failed.
func describeDelError(err error) string {
	switch {
	case isSysErrno(err, unix.EACCES):
		return "an attempt was made to write in a read-only transaction"
	case isSysErrno(err, unix.EINVAL):
		return "an invalid parameter was specified"
	default:
		return err.Error()
	}
}

// describeCommitError names the reason a commit failed.
func describeCommitError(err error) string {
	switch {
	case isSysErrno(err, unix.EINVAL):
		return "an invalid parameter was specified"
	case isSysErrno(err, unix.ENOSPC):
		return "no more disk space"
	case isSysErrno(err, unix.EIO):
		return "a low-level I/O error occurred while writing"
	case isSysErrno(err, unix.ENOMEM):
		return "out of memory"
	default:
		return err.Error()
	}
}
