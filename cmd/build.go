package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cluster-deployment-automation/gocli/cmd/buildconfig"
	"github.com/cluster-deployment-automation/gocli/cmd/utils"
	"github.com/cluster-deployment-automation/gocli/gitsync"
	"github.com/cluster-deployment-automation/gocli/imagebuild"
	"github.com/cluster-deployment-automation/gocli/manifest"
	"github.com/cluster-deployment-automation/gocli/matrix"
	"github.com/cluster-deployment-automation/gocli/pkg/runner"
)

// NewBuildCommand builds the component image matrix, or a filtered subset
func NewBuildCommand() *cobra.Command {
	build := &cobra.Command{
		Use:   "build [RELEASE [COMPONENT]] REGISTRY",
		Short: "build and push container images for the registered (component, release) matrix",
		RunE:  runBuild,
		Args:  cobra.RangeArgs(1, 3),
	}
	build.Flags().Bool("rebuild", true, "build even when the tag already exists locally")
	build.Flags().Bool("push", true, "push images after building")
	build.Flags().Bool("downstream", false, "use the downstream Dockerfile variant, requires a prior registry login")
	build.Flags().Bool("keep-git-dir", false, "keep local edits in the working tree, requires an explicit release")
	build.Flags().String("extra-push-args", "", "extra arguments passed through to the push command")
	build.Flags().String("manifest", "images.env", "file the ENV_VAR=tag lines are appended to")
	build.Flags().String("git-base-dir", "", "directory the component repositories are cloned under (default: home directory)")
	build.Flags().String("config", "", "YAML file with build defaults")

	return build
}

func runBuild(cmd *cobra.Command, args []string) error {
	release, component, registry, err := utils.ParseBuildArgs(args)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	fsys := afero.NewOsFs()

	opts := imagebuild.DefaultOptions()
	if opts.Rebuild, err = flags.GetBool("rebuild"); err != nil {
		return err
	}
	if opts.Push, err = flags.GetBool("push"); err != nil {
		return err
	}
	if opts.Downstream, err = flags.GetBool("downstream"); err != nil {
		return err
	}
	if opts.PreserveGitDir, err = flags.GetBool("keep-git-dir"); err != nil {
		return err
	}
	if opts.ExtraPushArgs, err = flags.GetString("extra-push-args"); err != nil {
		return err
	}
	manifestPath, err := flags.GetString("manifest")
	if err != nil {
		return err
	}
	gitBaseDir, err := flags.GetString("git-base-dir")
	if err != nil {
		return err
	}

	configPath, err := flags.GetString("config")
	if err != nil {
		return err
	}
	if configPath != "" {
		cfg, err := buildconfig.Load(fsys, configPath)
		if err != nil {
			return err
		}
		utils.OverrideBoolIfUnset(flags, "rebuild", &opts.Rebuild, cfg.Rebuild)
		utils.OverrideBoolIfUnset(flags, "push", &opts.Push, cfg.Push)
		utils.OverrideBoolIfUnset(flags, "downstream", &opts.Downstream, cfg.Downstream)
		utils.OverrideStringIfUnset(flags, "extra-push-args", &opts.ExtraPushArgs, cfg.ExtraPushArgs)
		utils.OverrideStringIfUnset(flags, "manifest", &manifestPath, cfg.Manifest)
		utils.OverrideStringIfUnset(flags, "git-base-dir", &gitBaseDir, cfg.GitBaseDir)
	}

	if opts.PreserveGitDir && release == "" {
		return fmt.Errorf("--keep-git-dir requires an explicit release")
	}

	if gitBaseDir == "" {
		if gitBaseDir, err = os.UserHomeDir(); err != nil {
			return err
		}
	}

	// an explicitly requested pair must exist; a full-matrix run tolerates
	// sparse cells, a targeted one does not
	if release != "" && component != "" {
		if _, err := matrix.Resolve(release, component); err != nil {
			return err
		}
	}

	collector := manifest.NewCollector()
	local := runner.NewLocalRunner()
	sync := gitsync.NewRepoSync(local, fsys, gitBaseDir)
	builder := imagebuild.NewImageBuilder(local, sync, collector)
	driver := imagebuild.NewMatrixDriver(builder, registry, opts)

	runErr := driver.Run(release, component)

	// entries of already-completed builds are kept even when a later build
	// aborted the run
	if err := collector.Flush(fsys, manifestPath); err != nil {
		if runErr != nil {
			return runErr
		}
		return err
	}
	return runErr
}
