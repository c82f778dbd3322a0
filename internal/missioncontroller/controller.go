package missioncontroller

import (
	"context"
	"fmt"
	"sync"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	"k8s.io/utils/ptr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	missionv1alpha1 "cloupeer.io/missiontransfer/pkg/apis/mission/v1alpha1"
	"cloupeer.io/missiontransfer/pkg/missiontransfer"
)

// Reconciler drives a MissionJob from Pending through to a terminal
// Succeeded/Failed phase by dispatching it to the Coordinator for its
// target vehicle. Once dispatched, the Reconciler is passive: the work
// item's own callback, firing from whatever goroutine the Coordinator's
// link delivers it on, patches Status directly, which re-triggers a
// reconcile through the normal watch machinery.
type Reconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Registry CoordinatorRegistry

	mu      sync.Mutex
	handles map[types.NamespacedName]*missiontransfer.WorkItemHandle
}

// NewReconciler creates a new Reconciler for MissionJob.
func NewReconciler(cli client.Client, sche *runtime.Scheme, recorder record.EventRecorder, registry CoordinatorRegistry) *Reconciler {
	return &Reconciler{
		Client:   cli,
		Scheme:   sche,
		Recorder: recorder,
		Registry: registry,
		handles:  make(map[types.NamespacedName]*missiontransfer.WorkItemHandle),
	}
}

//+kubebuilder:rbac:groups=mission.cloupeer.io,resources=missionjobs,verbs=get;list;watch;create;update;patch;delete
//+kubebuilder:rbac:groups=mission.cloupeer.io,resources=missionjobs/status,verbs=get;update;patch
//+kubebuilder:rbac:groups=mission.cloupeer.io,resources=missionjobs/finalizers,verbs=update
//+kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile handles the lifecycle of a MissionJob.
// 1. New (Phase="") -> Pending
// 2. Pending -> dispatch to Coordinator -> Running
// 3. Running -> passive, waiting for the dispatched work item's callback
// 4. Succeeded/Failed -> terminal
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	var job missionv1alpha1.MissionJob
	if err := r.Get(ctx, req.NamespacedName, &job); err != nil {
		if client.IgnoreNotFound(err) == nil {
			r.forgetHandle(req.NamespacedName)
		}
		return ctrl.Result{}, client.IgnoreNotFound(err)
	}

	if !job.DeletionTimestamp.IsZero() {
		r.cancelHandle(req.NamespacedName)
		return ctrl.Result{}, nil
	}

	if job.Status.Phase == "" {
		logger.Info("initializing mission job status")
		job.Status.Phase = missionv1alpha1.MissionJobPhasePending
		job.Status.Message = "job created, waiting to be dispatched"
		if err := r.Status().Update(ctx, &job); err != nil {
			logger.Error(err, "failed to initialize status")
			return ctrl.Result{}, err
		}
		return ctrl.Result{}, nil
	}

	switch job.Status.Phase {
	case missionv1alpha1.MissionJobPhasePending:
		if err := r.start(ctx, req.NamespacedName, &job); err != nil {
			logger.Error(err, "failed to dispatch mission job")
			return ctrl.Result{}, err
		}

	case missionv1alpha1.MissionJobPhaseRunning,
		missionv1alpha1.MissionJobPhaseSucceeded,
		missionv1alpha1.MissionJobPhaseFailed:
		// Running is passive; Succeeded/Failed are terminal. Either way
		// there is nothing for this reconcile to do.
	}

	return ctrl.Result{}, nil
}

func (r *Reconciler) start(ctx context.Context, key types.NamespacedName, job *missionv1alpha1.MissionJob) error {
	logger := log.FromContext(ctx)

	coordinator, err := r.Registry.Coordinator(job.Spec.VehicleName)
	if err != nil {
		job.Status.Phase = missionv1alpha1.MissionJobPhaseFailed
		job.Status.Result = missiontransfer.ResultConnectionError.String()
		job.Status.Message = fmt.Sprintf("no link for vehicle %q: %v", job.Spec.VehicleName, err)
		return r.Status().Update(ctx, job)
	}

	job.Status.Phase = missionv1alpha1.MissionJobPhaseRunning
	job.Status.Message = fmt.Sprintf("%s dispatched to coordinator", job.Spec.Operation)
	if err := r.Status().Update(ctx, job); err != nil {
		return err
	}

	handle := r.dispatch(coordinator, key, job)
	r.mu.Lock()
	r.handles[key] = handle
	r.mu.Unlock()

	r.Recorder.Event(job, corev1.EventTypeNormal, "Dispatched",
		fmt.Sprintf("%s sent to coordinator for vehicle %s", job.Spec.Operation, job.Spec.VehicleName))
	logger.Info("dispatched mission job", "operation", job.Spec.Operation, "vehicle", job.Spec.VehicleName)
	return nil
}

func (r *Reconciler) dispatch(c *missiontransfer.Coordinator, key types.NamespacedName, job *missionv1alpha1.MissionJob) *missiontransfer.WorkItemHandle {
	switch job.Spec.Operation {
	case missionv1alpha1.MissionOperationUpload:
		return c.Upload(job.Spec.MissionType, toItemInts(job.Spec.Items),
			func(result missiontransfer.Result) { r.finish(key, result, nil) },
			func(progress float32) { r.reportProgress(key, progress) },
		)

	case missionv1alpha1.MissionOperationDownload:
		return c.Download(job.Spec.MissionType,
			func(result missiontransfer.Result, items []missiontransfer.ItemInt) { r.finish(key, result, items) },
			func(progress float32) { r.reportProgress(key, progress) },
		)

	case missionv1alpha1.MissionOperationReceiveIncoming:
		// The CRD has no natural way to express a peer-initiated push's
		// announced count ahead of time; a MissionJob of this kind is
		// for manual/test triggering, using the requested item count as
		// a stand-in for the count the peer will announce itself.
		return c.ReceiveIncoming(job.Spec.MissionType, uint32(len(job.Spec.Items)), 0,
			func(result missiontransfer.Result, items []missiontransfer.ItemInt) { r.finish(key, result, items) },
		)

	case missionv1alpha1.MissionOperationClear:
		return c.Clear(job.Spec.MissionType, func(result missiontransfer.Result) { r.finish(key, result, nil) })

	case missionv1alpha1.MissionOperationSetCurrent:
		return c.SetCurrent(int(job.Spec.CurrentSeq), func(result missiontransfer.Result) { r.finish(key, result, nil) })

	default:
		return nil
	}
}

// finish records a work item's terminal result onto the MissionJob it
// was dispatched for. It runs on whatever goroutine the Coordinator
// delivers the callback from, so it re-fetches the object rather than
// reusing the one start() last saw.
func (r *Reconciler) finish(key types.NamespacedName, result missiontransfer.Result, items []missiontransfer.ItemInt) {
	r.mu.Lock()
	delete(r.handles, key)
	r.mu.Unlock()

	ctx := context.Background()
	var job missionv1alpha1.MissionJob
	if err := r.Get(ctx, key, &job); err != nil {
		log.Log.Error(err, "failed to fetch mission job to record completion", "job", key)
		return
	}

	if result == missiontransfer.ResultSuccess {
		job.Status.Phase = missionv1alpha1.MissionJobPhaseSucceeded
	} else {
		job.Status.Phase = missionv1alpha1.MissionJobPhaseFailed
	}
	job.Status.Result = result.String()
	job.Status.Progress = 1
	if items != nil {
		job.Status.Items = toMissionItems(items)
	}
	job.Status.LastUpdateTime = ptr.To(metav1.Now())

	if err := r.Status().Update(ctx, &job); err != nil {
		log.Log.Error(err, "failed to record mission job completion", "job", key)
	}
}

func (r *Reconciler) reportProgress(key types.NamespacedName, progress float32) {
	ctx := context.Background()
	var job missionv1alpha1.MissionJob
	if err := r.Get(ctx, key, &job); err != nil {
		return
	}
	if job.Status.Phase != missionv1alpha1.MissionJobPhaseRunning {
		return
	}
	job.Status.Progress = progress
	job.Status.LastUpdateTime = ptr.To(metav1.Now())
	_ = r.Status().Update(ctx, &job)
}

func (r *Reconciler) cancelHandle(key types.NamespacedName) {
	r.mu.Lock()
	h, ok := r.handles[key]
	delete(r.handles, key)
	r.mu.Unlock()
	if ok && h != nil {
		h.Cancel()
	}
}

func (r *Reconciler) forgetHandle(key types.NamespacedName) {
	r.mu.Lock()
	delete(r.handles, key)
	r.mu.Unlock()
}

// SetupWithManager sets up the controller with the Manager.
func (r *Reconciler) SetupWithManager(ctx context.Context, mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&missionv1alpha1.MissionJob{}).
		Complete(r)
}
