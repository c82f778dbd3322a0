package app

import (
	"context"
	"flag"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/component-base/cli/globalflag"
	controllerruntime "sigs.k8s.io/controller-runtime"

	"cloupeer.io/missiontransfer/cmd/cpeer-vehicle-agent/app/options"
	"cloupeer.io/missiontransfer/internal/missiongroundstation"
	"cloupeer.io/missiontransfer/pkg/log"
)

// NewVehicleAgentCommand builds the cpeer-vehicle-agent root command.
// The agent runs the same ground station engine as cpeer-groundstation,
// scoped to the single vehicle it is deployed alongside; whether a
// process is "the ground station" or "a vehicle agent" is purely a
// matter of which peer's system ID it presents as its own.
func NewVehicleAgentCommand(ctx context.Context) *cobra.Command {
	opts := options.NewAgentOptions()
	cmd := &cobra.Command{
		Use:  "cpeer-vehicle-agent",
		Long: "cpeer-vehicle-agent bridges a single vehicle's MAVLink mission traffic onto MQTT.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init(opts.LogOptions)
			controllerruntime.SetLogger(log.Std().Logr())

			if err := opts.Validate(); err != nil {
				log.Error(err, "invalid vehicle agent options")
				return err
			}

			cfg := opts.Config()
			cfg.Kubeconfig = controllerruntime.GetConfigOrDie()

			agent, err := missiongroundstation.New(ctx, cfg)
			if err != nil {
				log.Error(err, "failed to build vehicle agent")
				return err
			}

			return agent.Run(ctx)
		},
	}

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	fs := cmd.Flags()
	namedfs := opts.Flags()
	globalflag.AddGlobalFlags(namedfs.FlagSet("global"), cmd.Name())
	for _, f := range namedfs.FlagSets {
		fs.AddFlagSet(f)
	}

	return cmd
}
