package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cluster-deployment-automation/gocli/matrix"
)

// NewMatrixCommand prints the registered build matrix
func NewMatrixCommand() *cobra.Command {
	show := &cobra.Command{
		Use:   "matrix",
		Short: "print the registered (component, release) build matrix",
		RunE:  showMatrix,
		Args:  cobra.NoArgs,
	}
	return show
}

func showMatrix(cmd *cobra.Command, args []string) error {
	releases, err := matrix.SortedReleases()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tRELEASE\tBRANCH\tDOCKERFILE\tDOWNSTREAM\tENV VAR")
	for _, component := range matrix.Components() {
		for _, release := range releases {
			spec, err := matrix.Resolve(release, component)
			if err != nil {
				continue
			}
			downstream := spec.DownstreamDockerfile
			if downstream == "" {
				downstream = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				spec.Component, spec.Release, spec.Branch, spec.Dockerfile, downstream, spec.EnvVar)
		}
	}
	return w.Flush()
}
