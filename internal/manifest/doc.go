// Package manifest loads Kubernetes-style YAML/JSON streams and projects them
// into canonical, keyed document sets.
//
// The loading pipeline is:
//
//   - Variable interpolation (${var} syntax) on raw text, when requested
//   - Multi-document decoding; empty documents are dropped
//   - Keying by (kind, metadata.name) with strict structural checks
//   - Canonical re-serialization for stable diffing
//
// # Keyed objects
//
// Every document in a canonical set must look like:
//
//	kind: ConfigMap
//	metadata:
//	  name: cm
//
// Duplicates of the same kind and name are rejected:
//
//	Duplicate element cm.ConfigMap in list
package manifest
