package system

import (
	"github.com/containers/lxd-bindings/cmd/lxdremote/registry"
	"github.com/containers/lxd-bindings/cmd/lxdremote/report"
	"github.com/containers/lxd-bindings/pkg/bindings/system"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	infoDescription = `Display information about the daemon.

  Shows the API version and status, the environment of the server and its configuration.`

	// Command: lxdremote _info_
	infoCmd = &cobra.Command{
		Use:               "info [options]",
		Args:              cobra.NoArgs,
		Short:             "Display daemon information",
		Long:              infoDescription,
		PersistentPreRunE: registry.ConnectPreRunE,
		RunE:              info,
		Example: `lxdremote info
  lxdremote --url unix:///var/snap/lxd/common/lxd/unix.socket info --format json`,
	}

	infoFormat string
)

func init() {
	registry.Commands = append(registry.Commands, registry.CliCommand{
		Command: infoCmd,
	})
	infoCmd.Flags().StringVarP(&infoFormat, "format", "f", "", "Print as JSON with \"json\", YAML otherwise")
}

func info(cmd *cobra.Command, args []string) error {
	server, err := system.Info(registry.GetContext())
	if err != nil {
		return err
	}
	if infoFormat == "json" {
		return report.JSON(cmd.OutOrStdout(), server)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(server); err != nil {
		return err
	}
	return enc.Close()
}
