package cmd

import (
	"github.com/karust/navprobe/core"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCMD = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"listen"},
	Short:   "Start HTTP server to run cases and fetch evidence via API",
	Args:    cobra.MatchAll(cobra.NoArgs),
	RunE:    serve,
}

func serve(cmd *cobra.Command, args []string) error {
	runner, session, err := newRunner()
	if err != nil {
		return err
	}
	defer session.Close()

	opts := runnerOpts()
	opts.Init()

	serv := core.NewServer(config.App.Host, config.App.Port, runner, opts.GetRateLimiter())
	logrus.Infof("Listening on %s:%d", config.App.Host, config.App.Port)
	return serv.Listen()
}

func init() {
	RootCmd.AddCommand(serveCMD)
}
