package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ppiankov/lexcore/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	// Populated by PersistentPreRunE
	v      *viper.Viper
	cfg    *model.Config
	logger = zap.NewNop()
)

// optionalKeys are omitted from the default YAML, so they are bound to the
// environment explicitly
var optionalKeys = []string{
	"llm.api_key",
	"llm.base_url",
	"llm.http_proxy",
	"llm.https_proxy",
	"llm.no_proxy",
	"procedural.table_path",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lexcore",
	Short: "lexcore - deterministic legal-text core",
	Long: `lexcore summarizes judgments into five fixed sections by literal extraction,
format-checks case citations, and resolves procedural next steps and timelines.

It never rewrites a citation and never invents a deadline. Timelines come
from a built-in statutory table; anything outside it is either answered by a
configured language-model collaborator with a statutory reference, or
explicitly withheld.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is normal
		_ = godotenv.Load()

		var err error
		v, err = newViper(cfgFile)
		if err != nil {
			return err
		}
		cfg, err = loadConfig(v)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Output.Verbose = true
		}

		logger, err = newLogger(cfg.Output.Verbose)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("Using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps an error returned by Execute to a process exit status:
// 2 for configuration errors, 3 for collaborator failures, 1 otherwise
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, model.ErrConfiguration):
		return 2
	case errors.Is(err, model.ErrCollaborator):
		return 3
	default:
		return 1
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of lexcore.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lexcore %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.lexcore/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// newViper layers defaults, the config file and LEXCORE_* environment variables
func newViper(configFile string) (*viper.Viper, error) {
	vp := viper.New()
	vp.SetConfigType("yaml")

	defaults, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}
	if err := vp.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("load default config: %w", err)
	}

	vp.SetEnvPrefix("LEXCORE")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	for _, key := range optionalKeys {
		_ = vp.BindEnv(key)
	}

	if configFile != "" {
		vp.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return vp, nil
		}
		vp.AddConfigPath(filepath.Join(home, ".lexcore"))
		vp.SetConfigName("config")
	}

	if err := vp.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return vp, nil
}

// loadConfig decodes the layered settings over the defaults
func loadConfig(vp *viper.Viper) (*model.Config, error) {
	c := model.DefaultConfig()
	if err := vp.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// newLogger builds the production logger; verbose lowers the level to debug
func newLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}
