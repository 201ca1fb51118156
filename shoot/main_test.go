package main

import (
	"flag"
	"os"
	"testing"
)

func runWithArgs(t *testing.T, args ...string) int {
	t.Helper()
	oldArgs, oldFlags := os.Args, flag.CommandLine
	t.Cleanup(func() { os.Args, flag.CommandLine = oldArgs, oldFlags })

	os.Args = append([]string{"shoot"}, args...)
	flag.CommandLine = flag.NewFlagSet("shoot", flag.ContinueOnError)
	return run()
}

func TestRun_UnknownCropExitsNonZero(t *testing.T) {
	if code := runWithArgs(t, "-url", "http://127.0.0.1:1/", "-crop", "bogus"); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestRun_MissingURLExitsNonZero(t *testing.T) {
	if code := runWithArgs(t); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestCaptureFunc(t *testing.T) {
	for _, mode := range []string{"shrink", "smart", "none"} {
		fn, err := captureFunc(mode)
		if err != nil || fn == nil {
			t.Errorf("captureFunc(%q) = (%v, %v), want a routine", mode, fn != nil, err)
		}
	}
	if _, err := captureFunc("bogus"); err == nil {
		t.Error("expected error for unknown crop mode")
	}
}
