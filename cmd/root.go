package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pocketbot",
		Short:         "PocketBot: save links to Pocket from Mastodon direct messages",
		Long:          "pocketbot listens to a Mastodon account's direct messages, walks users through Pocket authorization, and runs their add/get/show commands.",
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

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "Optional TOML config file; environment variables take precedence")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newSetupCmd(app),
		newSessionsCmd(app),
	)

	return rootCmd
}
