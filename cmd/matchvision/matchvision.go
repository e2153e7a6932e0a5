// Package matchvisioncmder
package matchvisioncmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/matchvision/cmd/matchvision/chat"
	configcmder "github.com/papercomputeco/matchvision/cmd/matchvision/config"
	predictcmder "github.com/papercomputeco/matchvision/cmd/matchvision/predict"
	servecmder "github.com/papercomputeco/matchvision/cmd/matchvision/serve"
	teamscmder "github.com/papercomputeco/matchvision/cmd/matchvision/teams"
	versioncmder "github.com/papercomputeco/matchvision/cmd/matchvision/version"
)

const matchvisionLongDesc string = `MatchVision is a football match prediction tool.

Ask questions and get predictions using:
  matchvision chat                   Chat with the football assistant
  matchvision teams <query>          Search teams by name
  matchvision predict <home> <away>  Predict a fixture
  matchvision serve                  Run the API server`

const matchvisionShortDesc string = "MatchVision - Football Match Predictions"

func NewMatchvisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "matchvision",
		Short:        matchvisionShortDesc,
		Long:         matchvisionLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .matchvision/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(predictcmder.NewPredictCmd())
	cmd.AddCommand(teamscmder.NewTeamsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
