package colstore

import (
	"errors"
	"strings"
	"testing"

	"github.com/erigontech/mdbx-go/mdbx"
)

func TestDescribeBeginError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"invalid env", errInvalidEnv, "unusable"},
		{"map grew beyond mapping", errnoUnableExtendMapsize, "map resized"},
		{"unknown error passes through", errors.New("boom"), "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := describeBeginError(tc.err)
			if !strings.Contains(got, tc.want) {
				t.Fatalf("describeBeginError(%v) = %q, want it to mention %q", tc.err, got, tc.want)
			}
		})
	}
}

func TestDescribeGetError(t *testing.T) {
	notFound := mdbx.Errno(-30798) // MDBX_NOTFOUND
	got := describeGetError(notFound)
	if !strings.Contains(got, "not found") {
		t.Fatalf("describeGetError(%v) = %q", notFound, got)
	}
}

func TestLoggerDisabledByDefault(t *testing.T) {
	called := false
	SetLogger(func(msg string, args ...any) { called = true }, LogLvlError)
	defer SetLogger(nil, LogLvlError)

	debugf(LogLvlDebug, "scope", "suppressed below level")
	if called {
		t.Fatal("debug message logged at error level")
	}

	debugf(LogLvlError, "scope", "visible")
	if !called {
		t.Fatal("error message not logged")
	}
}
