package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "pkgcompare",
		Short: "Compare the binary packages of two ALT Linux branches",
		Long: `Pkgcompare downloads the binary package lists of two branches
from the ALT Linux package database (or reads them from local
directories of .rpm files) and reports:

  - packages present only in the base branch
  - packages present only in the candidate branch
  - packages whose version-release is higher in the candidate branch

Results are printed as a summary table and written as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is .pkgcompare.yaml in . or $HOME)")

	// Add subcommands
	rootCmd.AddCommand(NewCompareCmd(v))

	return rootCmd
}
