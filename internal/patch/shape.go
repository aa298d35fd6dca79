package patch

import (
	"fmt"
	"sort"

	"github.com/cameronsjo/patchlib/internal/merge"
)

// Shape records where a workload kind keeps its pod spec and whether it
// has a replica count.
type Shape struct {
	Kind        string
	PodSpecPath []string
	Replicas    bool
}

var (
	workloadPodSpec = []string{"spec", "template", "spec"}
	cronJobPodSpec  = []string{"spec", "jobTemplate", "spec", "template", "spec"}

	replicaKinds = map[string]bool{
		"Deployment":  true,
		"StatefulSet": true,
		"ReplicaSet":  true,
	}
)

// WorkloadShape returns the shape of kinds whose pod template sits at
// spec.template: DaemonSet, Deployment, StatefulSet, ReplicaSet and Job.
func WorkloadShape(kind string) Shape {
	return Shape{
		Kind:        kind,
		PodSpecPath: append([]string(nil), workloadPodSpec...),
		Replicas:    replicaKinds[kind],
	}
}

// CronJobShape returns the shape of a CronJob, whose pod template sits
// inside its job template.
func CronJobShape() Shape {
	return Shape{
		Kind:        "CronJob",
		PodSpecPath: append([]string(nil), cronJobPodSpec...),
	}
}

// DefaultShapes returns the built-in shape records keyed by kind.
func DefaultShapes() map[string]Shape {
	shapes := map[string]Shape{
		"CronJob": CronJobShape(),
	}
	for _, kind := range []string{"DaemonSet", "Deployment", "StatefulSet", "ReplicaSet", "Job"} {
		shapes[kind] = WorkloadShape(kind)
	}
	return shapes
}

// Kinds returns the kinds of shapes in sorted order.
func Kinds(shapes map[string]Shape) []string {
	kinds := make([]string, 0, len(shapes))
	for k := range shapes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Validate reports whether the shape can address a pod spec.
func (s Shape) Validate() error {
	if len(s.PodSpecPath) == 0 {
		return fmt.Errorf("%w: %s has an empty pod spec path", ErrInvalidShape, s.Kind)
	}
	for _, f := range s.PodSpecPath {
		if f == "" {
			return fmt.Errorf("%w: %s has an empty pod spec path segment", ErrInvalidShape, s.Kind)
		}
	}
	return nil
}

func (s Shape) podSpec() merge.Path {
	return merge.Fields(s.PodSpecPath...)
}

// podMetadata is the metadata sibling of the pod spec, e.g.
// spec.template.metadata for spec.template.spec.
func (s Shape) podMetadata() merge.Path {
	p := merge.Fields(s.PodSpecPath[:len(s.PodSpecPath)-1]...)
	return p.Append(merge.Field("metadata"))
}
