package main

import (
	"os"

	_ "go.uber.org/automaxprocs"
	"k8s.io/apiserver/pkg/server"

	"cloupeer.io/missiontransfer/cmd/cpeer-vehicle-agent/app"
)

func main() {
	ctx := server.SetupSignalContext()
	if err := app.NewVehicleAgentCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
