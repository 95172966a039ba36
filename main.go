package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MYRITHM"

// loadedSecrets holds values read from .secrets/ at startup
var loadedSecrets map[string]string

var rootCmd = &cobra.Command{
	Use:   "myrithm",
	Short: "Rank today's news against your own preferences",
	Long: `MyRithm fetches a news index page, asks a language model to score every
article against a free-text preference, and shows the top articles in a web UI
or on the console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("debug") {
			SetDebugMode(true)
		}

		s, err := loadSecrets(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig()
		if err != nil {
			return err
		}
		processor, err := buildProcessor(config)
		if err != nil {
			return err
		}
		renderer, err := NewRenderer()
		if err != nil {
			return err
		}

		addr := viper.GetString("addr")
		if addr == "" {
			addr = config.Settings.Server.Addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, addr, newRouter(processor, renderer))
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank articles once and print the top results as Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		preference, _ := cmd.Flags().GetString("preference")
		count, _ := cmd.Flags().GetInt("count")
		table, _ := cmd.Flags().GetBool("table")

		config, err := buildConfig()
		if err != nil {
			return err
		}
		processor, err := buildProcessor(config)
		if err != nil {
			return err
		}
		renderer, err := NewRenderer()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		result, err := processor.Run(ctx, RankRequest{Preference: preference, Count: count})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if table {
			return WriteTable(out, result.Articles, 72)
		}
		markdown, err := renderer.Markdown(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, markdown)
		return nil
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List the article links found on the index page",
	Long: `Links prints the links extracted from the index page. With --untrimmed the
positional trim is disabled, which helps retune source.skip_leading and
source.skip_trailing after the site layout changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		untrimmed, _ := cmd.Flags().GetBool("untrimmed")

		config, err := buildConfig()
		if err != nil {
			return err
		}
		// Listing links makes no model calls.
		processor, err := NewProcessor(config, nil)
		if err != nil {
			return err
		}

		trim := config.Settings.Source.Trim()
		if untrimmed {
			trim = Trim{}
		}
		links, err := processor.IndexLinks(cmd.Context(), trim)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, link := range links {
			fmt.Fprintf(out, "%3d  %s\n     %s\n", link.Index, link.Title, link.URL)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings and prompts to " + defaultConfigDir,
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := ensureConfigExists(defaultConfigDir)
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		}
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", defaultConfigDir)
		}
		return nil
	},
}

// buildConfig loads settings with any file overrides given on the command line
func buildConfig() (*Config, error) {
	overrides := &ConfigOverrides{}
	if path := viper.GetString("settings"); path != "" {
		overrides.SettingsPath = &path
	}
	if path := viper.GetString("system-prompt"); path != "" {
		overrides.SystemPromptPath = &path
	}
	if path := viper.GetString("user-prompt"); path != "" {
		overrides.UserPromptPath = &path
	}
	return NewConfig(overrides)
}

// buildProcessor creates the Anthropic-backed processor
func buildProcessor(config *Config) (*Processor, error) {
	apiKey := resolveAPIKey(viper.GetString("api-key"), loadedSecrets)
	model, err := NewAnthropicModel(apiKey, config.GetSystemPrompt(), config.Settings.Ranker)
	if err != nil {
		return nil, err
	}
	return NewProcessor(config, model)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("api-key", "", "Anthropic API key")
	flags.String("settings", "", "Path to settings file (default "+getConfigPath("settings.yaml")+")")
	flags.String("system-prompt", "", "Path to custom scorer system prompt file")
	flags.String("user-prompt", "", "Path to custom scorer user prompt file")
	flags.Bool("debug", false, "Enable debug logging")

	serveCmd.Flags().String("addr", "", "Listen address (default from settings)")

	rankCmd.Flags().String("preference", "", "What you want to read about")
	rankCmd.Flags().Int("count", 5, "Number of articles to show")
	rankCmd.Flags().Bool("table", false, "Print a summary table instead of Markdown")
	rankCmd.MarkFlagRequired("preference")

	linksCmd.Flags().Bool("untrimmed", false, "Show every link, including navigation links")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"api-key", "settings", "system-prompt", "user-prompt", "debug"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd, rankCmd, linksCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
