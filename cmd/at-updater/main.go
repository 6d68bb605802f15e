// Command at-updater rewrites an access transformer file written against
// stable class names and mnemonic member names into obfuscated names, using
// the published mapping releases.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"at-updater/internal/rewrite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if code := exitCode(os.Stderr, err); code != 0 {
		stop()
		os.Exit(code)
	}
}

// exitCode reports err on w and returns the process status. A missing
// access transformer file leaves nothing to do, so it is not a failure.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var missing *rewrite.ConfigMissingError
	if errors.As(err, &missing) {
		fmt.Fprintln(w, missing.Error())
		return 0
	}

	fmt.Fprintf(w, "at-updater: %v\n", err)

	return 1
}
