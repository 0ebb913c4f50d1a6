package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/0xBEEFCAF3/LND-config-generator/internal/config"
	"github.com/0xBEEFCAF3/LND-config-generator/internal/logging"
)

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	platformID string
	schemaPath string
	presetsDir string

	// Version info - set via SetVersion()
	appVersion string
	appCommit  string
	appDate    string

	// Set by initConfig for every command.
	appCfg *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lndconf",
	Short: "Generate lnd.conf files from a described settings schema",
	Long: `lndconf turns a schema of lnd settings into an editable form: every
entry is resolved into a typed field with its current value and a
description filled in from that value. Presets merge prepared settings
over the defaults.

Edit interactively with 'lndconf edit' or serve the form over HTTP with
'lndconf serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command and prints the error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func SetVersion(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "",
		"config file (default: .lndconf/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "auto",
		"log format (auto, text, json)")
	flags.StringVar(&platformID, "platform", "",
		"target platform: Linux, Mac OS or Windows (default: this host)")
	flags.StringVar(&schemaPath, "schema", "",
		"schema document (default: embedded lnd schema)")
	flags.StringVar(&presetsDir, "presets-dir", "",
		"directory of extra preset files")
}

// initConfig loads the configuration into a fresh viper bound to the
// persistent flags, validates it and builds the logger.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		"log.level":       "log-level",
		"log.format":      "log-format",
		"editor.platform": "platform",
		"schema.path":     "schema",
		"presets.dir":     "presets-dir",
	} {
		// Errors are nil when the flag exists.
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	loader := config.NewLoaderWithViper(v)
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	appCfg = cfg
	logger = logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if used := loader.ConfigFile(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}
