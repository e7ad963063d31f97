package cmd

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/sidecar"
)

// errWindowClosed ends the run loop when the terminal goes away.
var errWindowClosed = errors.New("controlling terminal closed")

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Launch the backend and keep it alive until the host exits",
	Long: `Launch the backend and block until SIGINT or SIGTERM (app exit) or SIGHUP
(window destroyed). The backend is terminated exactly once on the way out,
whichever signal arrives first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts, err := supervisorOptions()
		if err != nil {
			return err
		}
		sup := sidecar.NewSupervisor(opts...)
		hooks := sup.Hooks()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		defer hooks.OnAppExit()

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		hooks.OnStartup(ctx)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			select {
			case <-hup:
				hooks.OnWindowDestroyed()
				return errWindowClosed
			case <-gctx.Done():
				return nil
			}
		})
		if viper.GetBool("wait_ready") {
			g.Go(func() error {
				if err := sup.WaitReady(gctx); err != nil {
					slog.Warn("backend did not become ready", "error", err)
					return nil
				}
				if pid, ok := sup.Pid(); ok {
					slog.Info("backend is serving", "pid", pid, "port", viper.GetInt("ready_port"))
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil && !errors.Is(err, errWindowClosed) {
			return err
		}
		slog.Info("host shutting down")
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("wait-ready", false, "log once the backend reports ready")
	_ = viper.BindPFlag("wait_ready", runCmd.Flags().Lookup("wait-ready"))
	rootCmd.AddCommand(runCmd)
}
