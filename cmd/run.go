package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCMD = &cobra.Command{
	Use:     "run [case ids...]",
	Aliases: []string{"test"},
	Short:   "Run suite cases (all when no ids given) and print reports",
	RunE:    run,
}

func run(cmd *cobra.Command, args []string) error {
	runner, session, err := newRunner()
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logrus.Debugf("Cannot close session: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports, runErr := runner.Run(ctx, args...)

	b, err := json.MarshalIndent(reports, "", " ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))

	passed := 0
	for _, r := range reports {
		if r.Passed {
			passed++
		}
	}
	logrus.Infof("%d/%d cases passed", passed, len(reports))

	return runErr
}

func init() {
	RootCmd.AddCommand(runCMD)
}
