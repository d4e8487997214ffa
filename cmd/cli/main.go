package main

import (
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/mindjournal/internal/buildinfo"
	"github.com/dmitrijs2005/mindjournal/internal/cli"
	"github.com/dmitrijs2005/mindjournal/internal/config"
	"github.com/dmitrijs2005/mindjournal/internal/logging"
	"github.com/spf13/cobra"
)

var verbose bool

// Storage and secret flags (-k, -f, -c, ...) belong to the config package;
// cobra only routes subcommands and leaves them alone.
var rootCmd = &cobra.Command{
	Use:                "journal",
	Short:              "Mindful Journal in your terminal.",
	SilenceUsage:       true,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.Context(), nil)
	},
}

var replCmd = &cobra.Command{
	Use:                "repl",
	Short:              "Start the interactive journal",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.Context(), nil)
	},
}

var signupCmd = &cobra.Command{
	Use:                "signup",
	Short:              "Create an account, then start the interactive journal",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.Context(), (*cli.App).SignUp)
	},
}

var migrateCmd = &cobra.Command{
	Use:                "migrate",
	Short:              "Apply storage migrations and exit",
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Migrate(cmd.Context(), loadConfig(), cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		buildinfo.PrintBuildData(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "write debug logs to stderr")
	rootCmd.AddCommand(replCmd, signupCmd, migrateCmd, versionCmd)
}

func loadConfig() *config.Config {
	return config.LoadConfig(os.Args[1:])
}

func runREPL(ctx context.Context, first func(*cli.App, context.Context) error) error {
	cfg := loadConfig()

	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	log := logging.New(cfg.LogFormat, w, verbose)

	app, closeFn, err := cli.Setup(ctx, cfg, log, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer closeFn()

	if first != nil {
		_ = first(app, ctx)
	}
	return app.Run(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
