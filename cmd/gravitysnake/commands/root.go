package commands

import (
	"fmt"
	"os"

	"github.com/battlesnakeio/gravitysnake/cmd/gravitysnake/commands/server"
	"github.com/battlesnakeio/gravitysnake/highscore/backend"
	"github.com/battlesnakeio/gravitysnake/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "gravitysnake",
	Short:   "gravitysnake is a snake game steered by tilting",
	Version: version.Version,
	PersistentPreRun: func(c *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(c *cobra.Command, args []string) {
		playCmd.Run(c, args)
	},
}

var (
	verbose     bool
	backendName = backend.File
	backendArgs = ""
)

// Execute runs the root command
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.Flags().AddFlagSet(playCmd.Flags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(server.RootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
