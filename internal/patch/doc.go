// Package patch provides the combinators that patch workload manifests:
// containers, env entries, volumes, the pod spec, pod template metadata,
// replicas and ConfigMap/Secret data.
//
// Workload combinators are scoped by a Shape, which records where the pod
// spec lives for a family of kinds and whether the kind has replicas. A
// Patcher pairs a Shape with the key field of keyed lists:
//
//	p := patch.Patcher{Shape: patch.WorkloadShape("DaemonSet")}
//	out, err := p.PatchContainer(doc, patch.ContainerPatch{Name: "main", Image: "nginx:stable"})
//
// Every combinator returns a new document. A container, env entry or volume
// that does not exist fails the whole call and leaves the input untouched.
package patch
