// Package merge implements the deep-merge engine and keyed-list addressing
// used by every patch combinator.
//
// Values are untyped trees as produced by the manifest loader: map[string]any,
// []any, scalars and nil. Merging never mutates its inputs; each call returns
// a new tree that shares no mutable structure with either argument.
//
// # Merge rules
//
// The patch side decides what happens at each position:
//
//   - null: leave the base value as it is
//   - map over map: union of keys, shared keys merged recursively
//   - map over anything else: the patch replaces the base
//   - scalar or list: the patch replaces the base, lists are never merged by index
//
// # Keyed lists
//
// A keyed list is a list of maps identified by a key field (normally "name").
// Addressing an element that does not exist is an error, never an insert:
//
//	spec.template.spec.containers[main].env[foo]
//
// resolves container "main", then its env entry "foo".
package merge
