package main

import (
	"errors"
	"os"

	"github.com/karust/navprobe/cmd"
	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
)

// Exit codes. A case fails only when its evidence can't be written, CI can
// tell that apart from bad flags or config.
const (
	exitUsage    = 1
	exitEvidence = 2
)

func main() {
	defer recoverPanic()

	if err := cmd.RootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, core.ErrEvidenceCapture) {
		return exitEvidence
	}
	return exitUsage
}

func recoverPanic() {
	if r := recover(); r != nil {
		logrus.Fatalf("Error: %v\n", r)
	}
}
