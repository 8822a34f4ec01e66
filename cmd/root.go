package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "dmq",
		Short:         "Data Meq CLI (dmq): allocate lines from the shared data pools",
		Long:          "dmq (Data Meq CLI) manages a shared pool of two line inventories (data1, data2). Users draw quota-limited, non-overlapping slices and compose them with positional inserts; administrators manage inventory, quotas, and the system lock.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().StringVar(&app.actor, "as", app.actor, "Acting user ID (env DMQ_ACTOR)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if verbose {
			app.logLevel.SetLevel(zapcore.DebugLevel)
		}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newPoolCmd(app),
		newGenerateCmd(app),
		newUserCmd(app),
		newQuotaCmd(app),
		newSystemCmd(app),
		newActivityCmd(app),
	)

	return rootCmd
}
