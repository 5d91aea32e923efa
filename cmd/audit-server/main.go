// cmd/audit-server/main.go
package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitError   = 1 // runtime failure
	ExitConfig  = 2 // the configuration could not be loaded or is incomplete
)

// ConfigError marks failures that happen before any work starts.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			os.Exit(ExitConfig)
		}
		os.Exit(ExitError)
	}
}
