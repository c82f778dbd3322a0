package app

import (
	"context"
	"fmt"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes/scheme"
	controllerruntime "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	missionv1alpha1 "cloupeer.io/missiontransfer/pkg/apis/mission/v1alpha1"
)

func newMissionCommand() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Inspect MissionJob resources",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List MissionJob resources in a namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMissionList(cmd.Context(), namespace)
		},
	}
	list.Flags().StringVarP(&namespace, "namespace", "n", "default", "Namespace to list MissionJob resources from.")
	cmd.AddCommand(list)

	return cmd
}

func runMissionList(ctx context.Context, namespace string) error {
	sche := runtime.NewScheme()
	utilruntime.Must(scheme.AddToScheme(sche))
	utilruntime.Must(missionv1alpha1.AddToScheme(sche))

	cli, err := client.New(controllerruntime.GetConfigOrDie(), client.Options{Scheme: sche})
	if err != nil {
		return fmt.Errorf("build kubernetes client: %w", err)
	}

	var jobs missionv1alpha1.MissionJobList
	if err := cli.List(ctx, &jobs, client.InNamespace(namespace)); err != nil {
		return fmt.Errorf("list mission jobs: %w", err)
	}

	table := uitable.New()
	table.MaxColWidth = 80
	table.AddRow("NAME", "VEHICLE", "OPERATION", "PHASE", "RESULT", "PROGRESS")
	for _, job := range jobs.Items {
		table.AddRow(job.Name, job.Spec.VehicleName, job.Spec.Operation, job.Status.Phase, job.Status.Result, job.Status.Progress)
	}

	fmt.Println(table)
	return nil
}
