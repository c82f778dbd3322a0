package missioncontroller

import (
	"context"

	apiextensionsscheme "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/scheme"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	controllerruntime "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	"sigs.k8s.io/controller-runtime/pkg/metrics/server"

	missionv1alpha1 "cloupeer.io/missiontransfer/pkg/apis/mission/v1alpha1"
	"cloupeer.io/missiontransfer/pkg/log"
)

var missionScheme = runtime.NewScheme()

func init() {
	utilruntime.Must(scheme.AddToScheme(missionScheme))
	// Registering the apiextensions scheme lets this manager's client
	// inspect the MissionJob CustomResourceDefinition itself (e.g. to
	// confirm it's installed before starting), not just MissionJob objects.
	utilruntime.Must(apiextensionsscheme.AddToScheme(missionScheme))
	utilruntime.Must(missionv1alpha1.AddToScheme(missionScheme))
}

// NewControllerManager wires up the MissionJob reconciler behind a
// controller-runtime manager. registry is queried by the reconciler
// each time it needs the Coordinator for a job's target vehicle.
func NewControllerManager(ctx context.Context, kubeconfig *rest.Config, healthProbe string, registry CoordinatorRegistry) (manager.Manager, error) {
	mgr, err := controllerruntime.NewManager(kubeconfig, controllerruntime.Options{
		Scheme:                 missionScheme,
		Metrics:                server.Options{BindAddress: "0"},
		HealthProbeBindAddress: healthProbe,
	})
	if err != nil {
		log.Error(err, "failed to create controller manager")
		return nil, err
	}

	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		log.Error(err, "unable to set up health check")
		return nil, err
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		log.Error(err, "unable to set up ready check")
		return nil, err
	}

	reconciler := NewReconciler(mgr.GetClient(), mgr.GetScheme(), mgr.GetEventRecorderFor("missioncontroller"), registry)
	if err := reconciler.SetupWithManager(ctx, mgr); err != nil {
		log.Error(err, "failed to set up mission job controller")
		return nil, err
	}

	return mgr, nil
}
