package app

import (
	"context"
	"flag"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/component-base/cli/globalflag"
	controllerruntime "sigs.k8s.io/controller-runtime"

	"cloupeer.io/missiontransfer/cmd/cpeer-groundstation/app/options"
	"cloupeer.io/missiontransfer/internal/missiongroundstation"
	"cloupeer.io/missiontransfer/pkg/log"
)

// NewGroundStationCommand builds the cpeer-groundstation root command.
func NewGroundStationCommand(ctx context.Context) *cobra.Command {
	opts := options.NewGroundStationOptions()
	cmd := &cobra.Command{
		Use:  "cpeer-groundstation",
		Long: "cpeer-groundstation bridges one or more vehicle MAVLink links over MQTT and runs the MissionJob controller against them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init(opts.LogOptions)
			controllerruntime.SetLogger(log.Std().Logr())

			cfg, err := opts.Config()
			if err != nil {
				log.Error(err, "failed to build ground station config")
				return err
			}
			cfg.Kubeconfig = controllerruntime.GetConfigOrDie()

			opts.WatchConfigFile(func(e fsnotify.Event) {
				log.Warn("config file changed on disk, restart to apply", "path", e.Name)
			})

			gs, err := missiongroundstation.New(ctx, cfg)
			if err != nil {
				log.Error(err, "failed to build ground station")
				return err
			}

			return gs.Run(ctx)
		},
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	fs := cmd.Flags()
	namedfs := opts.Flags()
	globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	cmd.AddCommand(newMissionCommand())

	return cmd
}
