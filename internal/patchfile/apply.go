package patchfile

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cameronsjo/patchlib/internal/config"
	"github.com/cameronsjo/patchlib/internal/manifest"
	"github.com/cameronsjo/patchlib/internal/merge"
	"github.com/cameronsjo/patchlib/internal/patch"
)

// Applier applies patch files using a configuration.
type Applier struct {
	Config *config.Config
	Log    logrus.FieldLogger
}

// NewApplier returns an Applier. A nil cfg means the defaults and a nil log
// discards output.
func NewApplier(cfg *config.Config, log logrus.FieldLogger) *Applier {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Applier{Config: cfg, Log: log}
}

// Apply applies f to set using the default configuration.
func Apply(set *manifest.CanonicalSet, f *File, cfg *config.Config) (*manifest.CanonicalSet, error) {
	return NewApplier(cfg, nil).Apply(set, f)
}

// Apply applies every patch of f in order and returns the new set. The
// first error aborts the whole file; set itself is never modified.
func (a *Applier) Apply(set *manifest.CanonicalSet, f *File) (*manifest.CanonicalSet, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	cur := set
	for i := range f.Patches {
		p := &f.Patches[i]
		log := a.Log.WithFields(logrus.Fields{
			"patch": i,
			"kind":  p.Target.Kind,
			"name":  p.Target.Name,
		})

		doc, ok := cur.Get(p.Target.Kind, p.Target.Name)
		if !ok {
			return nil, fmt.Errorf("patch %d: %w", i, &TargetNotFoundError{Target: p.Target})
		}

		log.Debug("Applying patch")
		patched, err := a.applyPatch(doc, p, log)
		if err != nil {
			return nil, fmt.Errorf("patch %d (%s): %w", i, p.Target.key(), err)
		}

		next, err := cur.Replace(p.Target.key(), patched)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		cur = next
	}

	a.Log.WithField("patches", len(f.Patches)).Info("Patch file applied")
	return cur, nil
}

// step is one stage of a patch; stages run in a fixed order.
type step struct {
	name string
	skip bool
	run  func(doc any) (any, error)
}

func (a *Applier) applyPatch(doc any, p *Patch, log logrus.FieldLogger) (any, error) {
	var patcher *patch.Patcher
	if p.usesShape() {
		var err error
		patcher, err = a.Config.Patcher(p.Target.Kind)
		if errors.Is(err, config.ErrUnknownKind) {
			return nil, fmt.Errorf("%w %s: workload fields need a shape record", ErrUnsupportedKind, p.Target.Kind)
		}
		if err != nil {
			return nil, err
		}
	}

	steps := []step{
		{name: "metadata", skip: p.Metadata == nil, run: func(d any) (any, error) {
			return patch.PatchMetadata(d, p.Metadata)
		}},
		{name: "podMetadata", skip: p.PodMetadata == nil, run: func(d any) (any, error) {
			return patcher.PatchPodMetadata(d, p.PodMetadata)
		}},
		{name: "podSpec", skip: p.PodSpec == nil, run: func(d any) (any, error) {
			return patcher.PatchPodSpec(d, p.PodSpec)
		}},
		{name: "volumes", skip: len(p.Volumes) == 0, run: func(d any) (any, error) {
			return patcher.PatchVolumes(d, p.Volumes)
		}},
		{name: "containers", skip: len(p.Containers) == 0, run: func(d any) (any, error) {
			return patcher.PatchContainers(d, p.Containers)
		}},
		{name: "replicas", skip: p.Replicas == nil, run: func(d any) (any, error) {
			return patcher.PatchReplicas(d, *p.Replicas)
		}},
		{name: "data", skip: p.Data == nil, run: func(d any) (any, error) {
			if p.Target.Kind == "Secret" {
				return patch.PatchSecretData(d, p.Data)
			}
			return patch.PatchData(d, p.Data)
		}},
		{name: "stringData", skip: p.StringData == nil, run: func(d any) (any, error) {
			return patch.PatchStringData(d, p.StringData)
		}},
		{name: "merge", skip: len(p.Merge) == 0, run: func(d any) (any, error) {
			return a.applyMerges(d, p.Merge)
		}},
	}

	cur := doc
	for _, s := range steps {
		if s.skip {
			continue
		}
		log.WithField("step", s.name).Debug("Patching")
		next, err := s.run(cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		cur = next
	}
	return cur, nil
}

func (a *Applier) applyMerges(doc any, entries []MergeEntry) (any, error) {
	specs := make([]merge.PatchSpec, 0, len(entries))
	for _, e := range entries {
		path, err := merge.ParsePath(e.Path)
		if err != nil {
			return nil, err
		}
		specs = append(specs, merge.PatchSpec{Path: path, Value: e.Value})
	}
	return merge.ApplyAll(doc, specs, a.Config.KeyField)
}
