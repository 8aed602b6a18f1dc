package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess  = 0 // Analysis completed, no HIGH-risk finding
	ExitHighRisk = 1 // Analysis completed but found a HIGH overall risk
	ExitError    = 2 // Configuration or runtime error
)

// HighRiskError indicates the analysis ran successfully but the gap
// assessment came back with HIGH overall risk.
type HighRiskError struct {
	Message string
}

func (e *HighRiskError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var highRiskErr *HighRiskError
		if errors.As(err, &highRiskErr) {
			os.Exit(ExitHighRisk)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
