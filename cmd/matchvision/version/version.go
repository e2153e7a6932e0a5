// Package versioncmder
package versioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/matchvision/pkg/cliui"
	"github.com/papercomputeco/matchvision/pkg/utils"
)

type VersionCommander struct{}

func NewVersionCmd() *cobra.Command {
	cmder := &VersionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "displays version",
		Long:  "displays the version of the matchvision CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	return cmd
}

func (c *VersionCommander) run(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", cliui.KeyStyle.Render("Version: "), cliui.ValueStyle.Render(utils.Version))
	fmt.Fprintf(out, "%s %s\n", cliui.KeyStyle.Render("Sha:     "), cliui.IDStyle.Render(utils.Sha))
	fmt.Fprintf(out, "%s %s\n", cliui.KeyStyle.Render("Built at:"), cliui.DimStyle.Render(utils.Buildtime))
	return nil
}
