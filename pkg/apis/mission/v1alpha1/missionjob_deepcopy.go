package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver into out.
func (in *MissionItem) DeepCopyInto(out *MissionItem) {
	*out = *in
}

// DeepCopy returns a deep copy of MissionItem.
func (in *MissionItem) DeepCopy() *MissionItem {
	if in == nil {
		return nil
	}
	out := new(MissionItem)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *MissionJobSpec) DeepCopyInto(out *MissionJobSpec) {
	*out = *in
	if in.Items != nil {
		out.Items = make([]MissionItem, len(in.Items))
		copy(out.Items, in.Items)
	}
}

// DeepCopy returns a deep copy of MissionJobSpec.
func (in *MissionJobSpec) DeepCopy() *MissionJobSpec {
	if in == nil {
		return nil
	}
	out := new(MissionJobSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *MissionJobStatus) DeepCopyInto(out *MissionJobStatus) {
	*out = *in
	if in.Items != nil {
		out.Items = make([]MissionItem, len(in.Items))
		copy(out.Items, in.Items)
	}
	if in.LastUpdateTime != nil {
		out.LastUpdateTime = in.LastUpdateTime.DeepCopy()
	}
}

// DeepCopy returns a deep copy of MissionJobStatus.
func (in *MissionJobStatus) DeepCopy() *MissionJobStatus {
	if in == nil {
		return nil
	}
	out := new(MissionJobStatus)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *MissionJob) DeepCopyInto(out *MissionJob) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy returns a deep copy of MissionJob.
func (in *MissionJob) DeepCopy() *MissionJob {
	if in == nil {
		return nil
	}
	out := new(MissionJob)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *MissionJob) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver into out.
func (in *MissionJobList) DeepCopyInto(out *MissionJobList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]MissionJob, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of MissionJobList.
func (in *MissionJobList) DeepCopy() *MissionJobList {
	if in == nil {
		return nil
	}
	out := new(MissionJobList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *MissionJobList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

var _ runtime.Object = (*MissionJob)(nil)
var _ runtime.Object = (*MissionJobList)(nil)
