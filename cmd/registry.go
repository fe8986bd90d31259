package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"

	"github.com/cluster-deployment-automation/gocli/pkg/libssh"
	"github.com/cluster-deployment-automation/gocli/pkg/runner"
	"github.com/cluster-deployment-automation/gocli/registry"
)

// NewRegistryCommand manages the local container registry downstream builds push to
func NewRegistryCommand() *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "manage the local container registry used by downstream builds",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStderr(), cmd.UsageString())
		},
	}
	registryCmd.PersistentFlags().Int("port", 5000, "host port the registry listens on")
	registryCmd.PersistentFlags().String("base-dir", "", "registry state directory (default: ~/.local-container-registry)")

	run := &cobra.Command{
		Use:   "run",
		Short: "start the local registry if it is not already running",
		RunE:  runRegistry,
		Args:  cobra.NoArgs,
	}
	run.Flags().Bool("delete-all", false, "tear down an existing registry, including stored images, before starting")

	rm := &cobra.Command{
		Use:   "rm",
		Short: "remove the local registry container and its state",
		RunE:  removeRegistry,
		Args:  cobra.NoArgs,
	}

	trust := &cobra.Command{
		Use:   "trust",
		Short: "install the registry CA into the local or a remote trust store",
		RunE:  trustRegistry,
		Args:  cobra.NoArgs,
	}
	trust.Flags().String("host", "", "remote host to trust the registry on (default: local trust store)")
	trust.Flags().String("ssh-user", "root", "ssh user for the remote host")
	trust.Flags().Uint16("ssh-port", 22, "ssh port of the remote host")
	trust.Flags().String("ssh-key", "", "ssh private key (default: ~/.ssh/id_rsa)")

	registryCmd.AddCommand(run, rm, trust)
	return registryCmd
}

func registryFromFlags(cmd *cobra.Command) (*registry.Registry, error) {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return nil, err
	}
	baseDir, err := cmd.Flags().GetString("base-dir")
	if err != nil {
		return nil, err
	}
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(home, ".local-container-registry")
	}
	return registry.New(runner.NewLocalRunner(), afero.NewOsFs(), baseDir, port), nil
}

func runRegistry(cmd *cobra.Command, args []string) error {
	deleteAll, err := cmd.Flags().GetBool("delete-all")
	if err != nil {
		return err
	}
	reg, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	address, err := reg.EnsureRunning(context.Background(), deleteAll)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), address)
	return nil
}

func removeRegistry(cmd *cobra.Command, args []string) error {
	reg, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	return reg.Delete()
}

func trustRegistry(cmd *cobra.Command, args []string) error {
	reg, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}

	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return err
	}
	if host == "" {
		return reg.TrustLocal()
	}

	user, err := cmd.Flags().GetString("ssh-user")
	if err != nil {
		return err
	}
	port, err := cmd.Flags().GetUint16("ssh-port")
	if err != nil {
		return err
	}
	keyPath, err := cmd.Flags().GetString("ssh-key")
	if err != nil {
		return err
	}
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		keyPath = filepath.Join(home, ".ssh", "id_rsa")
	}

	client, err := libssh.NewSSHClient(host, port, user, keyPath)
	if err != nil {
		return err
	}
	return reg.TrustRemote(client)
}
