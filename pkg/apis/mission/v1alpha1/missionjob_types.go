package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// MissionOperation names one of the five operations the coordinator can run.
type MissionOperation string

const (
	MissionOperationUpload          MissionOperation = "Upload"
	MissionOperationDownload        MissionOperation = "Download"
	MissionOperationReceiveIncoming MissionOperation = "ReceiveIncoming"
	MissionOperationClear           MissionOperation = "Clear"
	MissionOperationSetCurrent      MissionOperation = "SetCurrent"
)

// MissionJobPhase mirrors a work item's lifecycle (queued, started, done)
// plus the terminal success/failure split a caller cares about.
type MissionJobPhase string

const (
	MissionJobPhasePending MissionJobPhase = "Pending"
	MissionJobPhaseRunning MissionJobPhase = "Running"
	MissionJobPhaseSucceeded MissionJobPhase = "Succeeded"
	MissionJobPhaseFailed    MissionJobPhase = "Failed"
)

// MissionItem is the CRD-serializable counterpart of missiontransfer.ItemInt.
type MissionItem struct {
	Seq          uint16  `json:"seq"`
	Frame        uint8   `json:"frame"`
	Command      uint16  `json:"command"`
	Current      uint8   `json:"current,omitempty"`
	Autocontinue uint8   `json:"autocontinue,omitempty"`
	Param1       float32 `json:"param1,omitempty"`
	Param2       float32 `json:"param2,omitempty"`
	Param3       float32 `json:"param3,omitempty"`
	Param4       float32 `json:"param4,omitempty"`
	X            int32   `json:"x,omitempty"`
	Y            int32   `json:"y,omitempty"`
	Z            float32 `json:"z,omitempty"`
	MissionType  uint8   `json:"missionType,omitempty"`
}

// MissionJobSpec defines the desired mission-transfer operation.
type MissionJobSpec struct {
	// VehicleName names the vehicle whose coordinator the controller looks
	// up in the ground station's registry.
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	VehicleName string `json:"vehicleName"`

	// Operation selects which of the five mission-transfer operations to run.
	// +kubebuilder:validation:Enum=Upload;Download;ReceiveIncoming;Clear;SetCurrent
	Operation MissionOperation `json:"operation"`

	// MissionType is the MAVLink mission type (waypoint/geofence/rally) this
	// operation applies to. Ignored for SetCurrent.
	// +optional
	MissionType uint8 `json:"missionType,omitempty"`

	// Items is the mission list to upload when Operation is Upload. For
	// ReceiveIncoming, its length is the item count the vehicle is expected
	// to send.
	// +optional
	Items []MissionItem `json:"items,omitempty"`

	// CurrentSeq is the sequence index to activate. Required (and only
	// meaningful) when Operation is SetCurrent.
	// +optional
	CurrentSeq int32 `json:"currentSeq,omitempty"`
}

// MissionJobStatus reports the outcome the coordinator produced.
type MissionJobStatus struct {
	// Phase represents the current stage of the job.
	// +optional
	Phase MissionJobPhase `json:"phase,omitempty"`

	// Result is the work item's terminal Result once Phase is Succeeded or
	// Failed; empty while Pending or Running.
	// +optional
	Result string `json:"result,omitempty"`

	// Progress is the most recent fractional completion reported for
	// Upload and Download operations, in [0, 1]. It is set to 1 when the
	// job reaches Succeeded or Failed, whatever the operation.
	// +optional
	Progress float32 `json:"progress,omitempty"`

	// Items holds the downloaded mission list once a Download or
	// ReceiveIncoming operation succeeds.
	// +optional
	Items []MissionItem `json:"items,omitempty"`

	// Message provides human-readable detail about the current status.
	// +optional
	Message string `json:"message,omitempty"`

	// LastUpdateTime is the timestamp of the last status update.
	// +optional
	LastUpdateTime *metav1.Time `json:"lastUpdateTime,omitempty"`
}

//+kubebuilder:object:root=true
//+kubebuilder:subresource:status
//+kubebuilder:printcolumn:name="Vehicle",type="string",JSONPath=".spec.vehicleName",description="Target Vehicle Name"
//+kubebuilder:printcolumn:name="Operation",type="string",JSONPath=".spec.operation",description="Mission Operation"
//+kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase",description="Job Phase"
//+kubebuilder:printcolumn:name="Result",type="string",JSONPath=".status.result",description="Terminal Result"
//+kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// MissionJob is the Schema for the missionjobs API
type MissionJob struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   MissionJobSpec   `json:"spec,omitempty"`
	Status MissionJobStatus `json:"status,omitempty"`
}

//+kubebuilder:object:root=true

// MissionJobList contains a list of MissionJob
type MissionJobList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MissionJob `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MissionJob{}, &MissionJobList{})
}
