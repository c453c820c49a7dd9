package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pexnet/sift-highlight/internal/model"
)

var (
	cfgFile string
	verbose bool
	noColor bool

	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sift-highlight",
	Short: "sift-highlight - match evidence highlighting for feed articles",
	Long: `sift-highlight explains why a monitoring stream matched an article.

It reads an article's sanitized HTML, its plain text and the evidence each
matching stream produced (keyword, regex, query and classifier hits), then:
- highlights the matched spans in the HTML with <mark> elements
- falls back to term highlighting when offsets cannot be placed
- summarizes matched terms, match reasons and evidence rows`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "sift-highlight v0.3.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sift-highlight/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.sift-highlight")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// SIFT_HIGHLIGHT_CACHE_ENABLED overrides cache.enabled, and so on
	viper.SetEnvPrefix("SIFT_HIGHLIGHT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults(model.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every default so env overrides and Unmarshal see all keys
func setDefaults(cfg *model.Config) {
	viper.SetDefault("highlight.show_highlights", cfg.Highlight.ShowHighlights)
	viper.SetDefault("highlight.term_fallback", cfg.Highlight.TermFallback)
	viper.SetDefault("highlight.max_terms", cfg.Highlight.MaxTerms)
	viper.SetDefault("highlight.mark_class", cfg.Highlight.MarkClass)
	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_dir", cfg.Cache.DiskDir)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	viper.SetDefault("rate_limiting.articles_per_second", cfg.RateLimiting.ArticlesPerSecond)
	viper.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	viper.SetDefault("output.verbose", cfg.Output.Verbose)
	viper.SetDefault("output.color", cfg.Output.Color)
	viper.SetDefault("output.log_level", cfg.Output.LogLevel)
}

// loadConfig merges defaults, config file, environment and global flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	return cfg, nil
}

// initLogger builds the process logger: human readable when verbose, JSON otherwise
func initLogger() error {
	level, err := zapcore.ParseLevel(viper.GetString("output.log_level"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if verbose || viper.GetBool("output.verbose") {
		zcfg = zap.NewDevelopmentConfig()
		level = zapcore.DebugLevel
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Sampling = nil
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}

	l, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l
	return nil
}
