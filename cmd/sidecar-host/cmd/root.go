package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/giantswarm/sidecar"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sidecar-host",
	Short: "Run and inspect a supervised backend process",
	Long: `sidecar-host drives the sidecar supervisor without a GUI. It locates the backend
artifact and runtime, launches the backend, and terminates it on SIGINT, SIGTERM
or SIGHUP exactly as a desktop host would on app exit or window close.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setupLogging()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sidecar/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	flags.String("build-mode", "", "development or release (default from the build tags)")
	flags.String("project-root", "", "project root holding the development artifact")
	flags.String("resource-dir", "", "bundled resources directory holding the packaged artifact")
	flags.String("log-dir", "", "directory for the backend log and lock")
	flags.Bool("no-log", false, "do not redirect backend output to a log file")
	flags.String("runtime", "", "system runtime command (default "+sidecar.DefaultRuntimeCommand+")")
	flags.StringSlice("runtime-args", nil, "extra runtime arguments placed before the artifact flag")
	flags.Bool("bundled-runtime", true, "prefer the bundled runtime in release mode")
	flags.Bool("instance-lock", true, "refuse to start a second backend sharing the log dir")
	flags.Int("ready-port", sidecar.DefaultReadyPort, "backend port polled for readiness")
	flags.String("ready-path", sidecar.DefaultReadyPath, "backend health endpoint; empty waits for a TCP connect only")
	flags.Int("ready-attempts", sidecar.DefaultReadyAttempts, "maximum readiness checks, 0 for no limit")

	for _, name := range []string{
		"build-mode", "project-root", "resource-dir", "log-dir", "no-log", "runtime",
		"runtime-args", "bundled-runtime", "instance-lock", "ready-port", "ready-path",
		"ready-attempts",
	} {
		_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".sidecar"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SIDECAR")
	viper.AutomaticEnv()

	// A missing default config file is fine; an explicit one must load.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

func setupLogging() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	sidecar.SetLogger(logger.With("component", "sidecar"))
	return nil
}

// supervisorOptions translates the merged flag, env and file configuration
// into supervisor options. Unset values keep the library defaults.
func supervisorOptions() ([]sidecar.Option, error) {
	var opts []sidecar.Option

	switch mode := viper.GetString("build_mode"); mode {
	case "":
	case "development", "dev":
		opts = append(opts, sidecar.WithBuildMode(sidecar.BuildDevelopment))
	case "release":
		opts = append(opts, sidecar.WithBuildMode(sidecar.BuildRelease))
	default:
		return nil, fmt.Errorf("unknown build mode %q", mode)
	}

	if v := viper.GetString("project_root"); v != "" {
		opts = append(opts, sidecar.WithProjectRoot(v))
	}
	if v := viper.GetString("resource_dir"); v != "" {
		opts = append(opts, sidecar.WithResourceDir(v))
	}
	if v := viper.GetString("runtime"); v != "" {
		opts = append(opts, sidecar.WithRuntimeCommand(v))
	}
	if v := viper.GetStringSlice("runtime_args"); len(v) > 0 {
		opts = append(opts, sidecar.WithRuntimeArgs(v...))
	}
	if viper.GetBool("no_log") {
		opts = append(opts, sidecar.WithoutDiagnostics())
	} else if v := viper.GetString("log_dir"); v != "" {
		opts = append(opts, sidecar.WithLogDir(v))
	}

	port := viper.GetInt("ready_port")
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("ready port must be in 1..65535, got %d", port)
	}
	opts = append(opts,
		sidecar.WithBundledRuntime(viper.GetBool("bundled_runtime")),
		sidecar.WithInstanceLock(viper.GetBool("instance_lock")),
		sidecar.WithReadyPort(port),
	)

	switch path := viper.GetString("ready_path"); {
	case path == "":
		opts = append(opts, sidecar.WithTCPReadiness())
	case !strings.HasPrefix(path, "/"):
		return nil, fmt.Errorf("ready path must start with /, got %q", path)
	default:
		opts = append(opts, sidecar.WithReadyPath(path))
	}
	attempts := viper.GetInt("ready_attempts")
	if attempts < 0 {
		return nil, fmt.Errorf("ready attempts must not be negative, got %d", attempts)
	}
	opts = append(opts, sidecar.WithReadyAttempts(attempts))
	return opts, nil
}
