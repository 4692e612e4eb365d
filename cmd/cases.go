package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var casesCMD = &cobra.Command{
	Use:     "cases",
	Aliases: []string{"list"},
	Short:   "List suite cases as YAML",
	Args:    cobra.NoArgs,
	RunE:    listCases,
}

func listCases(cmd *cobra.Command, args []string) error {
	s, err := loadSuite(config.Suite.Path)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	if err := enc.Encode(s.Cases); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

func init() {
	RootCmd.AddCommand(casesCMD)
}
