package main

import (
	"os"

	_ "go.uber.org/automaxprocs"
	"k8s.io/apiserver/pkg/server"

	"cloupeer.io/missiontransfer/cmd/cpeer-groundstation/app"
)

func main() {
	ctx := server.SetupSignalContext()
	if err := app.NewGroundStationCommand(ctx).Execute(); err != nil {
		os.Exit(1)
	}
}
