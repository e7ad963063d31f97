package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/giantswarm/sidecar"
)

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Show the runtime, artifact and log paths the supervisor would use",
	Long:  `Resolve the backend runtime and artifact without launching anything. Useful to check a build layout or an installed bundle.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		opts, err := supervisorOptions()
		if err != nil {
			return err
		}
		r := sidecar.NewSupervisor(opts...).Resolve()

		artifact := r.Artifact
		if !r.ArtifactFound {
			artifact = "(not found)"
		}
		projectRoot := r.ProjectRoot
		if projectRoot == "" {
			projectRoot = "(not found)"
		}
		logPath := r.LogPath
		if logPath == "" {
			logPath = "(disabled)"
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")
		table.Append([]string{"Build mode", r.BuildMode.String()})
		table.Append([]string{"Project root", projectRoot})
		table.Append([]string{"Runtime", r.Runtime})
		table.Append([]string{"Bundled runtime", r.BundledRuntimePath})
		table.Append([]string{"Artifact", artifact})
		table.Append([]string{"Development path", r.DevArtifactPath})
		table.Append([]string{"Packaged path", r.PackagedPath})
		table.Append([]string{"Log file", logPath})
		if err := table.Render(); err != nil {
			return fmt.Errorf("render table: %w", err)
		}

		if !r.ArtifactFound {
			return sidecar.ErrArtifactNotFound
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locateCmd)
}
