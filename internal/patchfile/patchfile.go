// Package patchfile reads declarative patch files and applies them to a
// canonical document set.
//
// A patch file names each target document by kind and name and lists the
// changes to make:
//
//	apiVersion: patchlib.io/v1
//	kind: PatchSet
//	patches:
//	  - target: {kind: DaemonSet, name: ds1}
//	    containers:
//	      - name: main
//	        image: nginx:stable
//	    replicas: 3
//
// The file text is interpolated with ${var} placeholders before it is parsed.
package patchfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/patchlib/internal/manifest"
	"github.com/cameronsjo/patchlib/internal/patch"
)

const (
	// APIVersion is the only supported patch file version.
	APIVersion = "patchlib.io/v1"

	// Kind is the kind of a patch file.
	Kind = "PatchSet"
)

var (
	// ErrUnsupportedAPIVersion indicates an unknown apiVersion.
	ErrUnsupportedAPIVersion = errors.New("unsupported apiVersion")

	// ErrInvalidKind indicates a kind other than PatchSet.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidTarget indicates a patch without a target kind or name.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrUnsupportedKind indicates workload fields on a kind with no shape record.
	ErrUnsupportedKind = errors.New("unsupported kind")

	// ErrTargetNotFound indicates a target missing from the document set.
	ErrTargetNotFound = errors.New("target not found")
)

// File is a parsed patch file.
type File struct {
	APIVersion string  `yaml:"apiVersion"`
	Kind       string  `yaml:"kind"`
	Patches    []Patch `yaml:"patches"`
}

// Target names the document a patch applies to.
type Target struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`
}

func (t Target) key() manifest.Key {
	return manifest.Key{Kind: t.Kind, Name: t.Name}
}

// Patch holds the changes for one target document.
type Patch struct {
	Target      Target                 `yaml:"target"`
	Metadata    map[string]any         `yaml:"metadata,omitempty"`
	PodMetadata map[string]any         `yaml:"podMetadata,omitempty"`
	PodSpec     map[string]any         `yaml:"podSpec,omitempty"`
	Volumes     []patch.Volume         `yaml:"volumes,omitempty"`
	Containers  []patch.ContainerPatch `yaml:"containers,omitempty"`
	Replicas    *int                   `yaml:"replicas,omitempty"`
	Data        map[string]any         `yaml:"data,omitempty"`
	StringData  map[string]any         `yaml:"stringData,omitempty"`
	Merge       []MergeEntry           `yaml:"merge,omitempty"`
}

// MergeEntry merges Value at a textual path such as
// spec.template.spec.containers[main].env[foo].
type MergeEntry struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

// usesShape reports whether the patch needs the target's shape record.
func (p *Patch) usesShape() bool {
	return p.PodMetadata != nil || p.PodSpec != nil || len(p.Volumes) > 0 ||
		len(p.Containers) > 0 || p.Replicas != nil
}

// TargetNotFoundError reports a target missing from the document set.
type TargetNotFoundError struct {
	Target Target
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("%s with name %s not found", e.Target.Kind, e.Target.Name)
}

func (e *TargetNotFoundError) Is(target error) bool { return target == ErrTargetNotFound }

// ReadFile reads and parses the patch file at path.
func ReadFile(path string, vars map[string]string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch file: %w", err)
	}
	f, err := Parse(data, vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse interpolates data with vars, decodes it and validates the result.
// Unknown fields are rejected.
func Parse(data []byte, vars map[string]string) (*File, error) {
	text, err := manifest.Interpolate(string(data), vars)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(text)))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty patch file", ErrInvalidKind)
		}
		return nil, fmt.Errorf("parse patch file: %w", err)
	}

	if err := f.normalize(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the header and every target.
func (f *File) Validate() error {
	if f.APIVersion != APIVersion {
		return fmt.Errorf("%w %q, expected %q", ErrUnsupportedAPIVersion, f.APIVersion, APIVersion)
	}
	if f.Kind != Kind {
		return fmt.Errorf("%w %q, expected %q", ErrInvalidKind, f.Kind, Kind)
	}
	for i, p := range f.Patches {
		if p.Target.Kind == "" || p.Target.Name == "" {
			return fmt.Errorf("patch %d: %w: kind and name are required", i, ErrInvalidTarget)
		}
	}
	return nil
}
