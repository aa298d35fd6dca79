package patch

import (
	"fmt"

	"github.com/cameronsjo/patchlib/internal/merge"
)

// Patcher applies workload combinators for one Shape.
type Patcher struct {
	Shape Shape

	// KeyField identifies elements of keyed lists; empty means "name".
	KeyField string
}

// NewPatcher returns a Patcher for shape using keyField.
func NewPatcher(shape Shape, keyField string) (*Patcher, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Patcher{Shape: shape, KeyField: keyField}, nil
}

func (p *Patcher) keyField() string {
	if p.KeyField == "" {
		return merge.DefaultKeyField
	}
	return p.KeyField
}

func (p *Patcher) apply(doc any, specs ...merge.PatchSpec) (any, error) {
	if err := p.Shape.Validate(); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return merge.DeepCopy(doc)
	}
	return merge.ApplyAll(doc, specs, p.keyField())
}

func (p *Patcher) container(name string) merge.Path {
	return p.Shape.podSpec().Append(merge.Keyed("containers", name))
}

// PatchContainer merges cp into the container named cp.Name. The container
// must exist, and so must every Env entry and volume mount cp names.
func (p *Patcher) PatchContainer(doc any, cp ContainerPatch) (any, error) {
	if cp.Name == "" {
		return nil, fmt.Errorf("%w: container patch without a name", ErrInvalidPatch)
	}

	body := fieldsPatch(cp.Fields)
	if cp.Image != "" {
		body["image"] = cp.Image
	}
	if cp.Resources != nil {
		body["resources"] = cp.Resources
	}

	path := p.container(cp.Name)
	specs := []merge.PatchSpec{{Path: path, Value: body}}
	for _, m := range cp.VolumeMounts {
		if m.Name == "" {
			return nil, fmt.Errorf("%w: volume mount without a name in container %s", ErrInvalidPatch, cp.Name)
		}
		specs = append(specs, merge.PatchSpec{
			Path:  path.Append(merge.Keyed("volumeMounts", m.Name)),
			Value: fieldsPatch(m.Fields),
		})
	}

	out, err := p.apply(doc, specs...)
	if err != nil {
		return nil, err
	}
	out, err = p.patchEnv(out, path, cp.Env)
	if err != nil {
		return nil, err
	}
	return p.addEnv(out, path, cp.AddEnv)
}

// PatchContainers applies each container patch in order.
func (p *Patcher) PatchContainers(doc any, patches []ContainerPatch) (any, error) {
	cur := doc
	for _, cp := range patches {
		next, err := p.PatchContainer(cur, cp)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if len(patches) == 0 {
		return merge.DeepCopy(doc)
	}
	return cur, nil
}

// PatchEnv patches env entries of the named container in order.
func (p *Patcher) PatchEnv(doc any, container string, env []EnvVar) (any, error) {
	if container == "" {
		return nil, fmt.Errorf("%w: env patch without a container name", ErrInvalidPatch)
	}
	path := p.container(container)
	// resolve the container even when env is empty
	if _, err := merge.Get(doc, path, p.keyField()); err != nil {
		return nil, err
	}
	if len(env) == 0 {
		return merge.DeepCopy(doc)
	}
	return p.patchEnv(doc, path, env)
}

// patchEnv replaces each addressed entry with its merged form, so that the
// exclusive value/valueFrom key can be removed.
func (p *Patcher) patchEnv(doc any, container merge.Path, env []EnvVar) (any, error) {
	cur := doc
	for _, e := range env {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: env entry without a name", ErrInvalidPatch)
		}
		path := container.Append(merge.Keyed("env", e.Name))
		found, err := merge.Get(cur, path, p.keyField())
		if err != nil {
			return nil, err
		}

		body, drop, err := e.patch()
		if err != nil {
			return nil, err
		}
		existing, _ := found.(map[string]any)
		kept := make(map[string]any, len(existing))
		for k, v := range existing {
			if k != drop {
				kept[k] = v
			}
		}
		merged, err := merge.Merge(kept, body)
		if err != nil {
			return nil, err
		}

		cur, err = p.apply(cur, merge.PatchSpec{Path: path, Value: merged, Replace: true})
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// AddEnv adds env entries to the named container, or patches them when an
// entry of that name already exists.
func (p *Patcher) AddEnv(doc any, container string, env []EnvVar) (any, error) {
	if container == "" {
		return nil, fmt.Errorf("%w: env patch without a container name", ErrInvalidPatch)
	}
	path := p.container(container)
	if _, err := merge.Get(doc, path, p.keyField()); err != nil {
		return nil, err
	}
	if len(env) == 0 {
		return merge.DeepCopy(doc)
	}
	return p.addEnv(doc, path, env)
}

func (p *Patcher) addEnv(doc any, container merge.Path, env []EnvVar) (any, error) {
	cur := doc
	for _, e := range env {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: env entry without a name", ErrInvalidPatch)
		}
		c, err := merge.Get(cur, container, p.keyField())
		if err != nil {
			return nil, err
		}
		cm, _ := c.(map[string]any)

		var list []any
		switch v := cm["env"].(type) {
		case nil:
		case []any:
			list = v
		default:
			return nil, fmt.Errorf("%w: %q holds a %s", merge.ErrNotAList, "env", merge.ShapeOf(v))
		}

		idx, err := merge.FindElement(list, p.keyField(), e.Name, merge.Label("env"))
		if err != nil {
			return nil, err
		}
		if idx >= 0 {
			cur, err = p.patchEnv(cur, container, []EnvVar{e})
			if err != nil {
				return nil, err
			}
			continue
		}

		body, _, err := e.patch()
		if err != nil {
			return nil, err
		}
		body[p.keyField()] = e.Name
		appended := make([]any, 0, len(list)+1)
		appended = append(appended, list...)
		appended = append(appended, body)

		cur, err = p.apply(cur, merge.PatchSpec{
			Path:    container.Append(merge.Field("env")),
			Value:   appended,
			Replace: true,
		})
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// PatchVolumes merges each volume patch into the pod volume of that name.
func (p *Patcher) PatchVolumes(doc any, volumes []Volume) (any, error) {
	specs := make([]merge.PatchSpec, 0, len(volumes))
	for _, v := range volumes {
		if v.Name == "" {
			return nil, fmt.Errorf("%w: volume without a name", ErrInvalidPatch)
		}
		specs = append(specs, merge.PatchSpec{
			Path:  p.Shape.podSpec().Append(merge.Keyed("volumes", v.Name)),
			Value: fieldsPatch(v.Fields),
		})
	}
	return p.apply(doc, specs...)
}

// PatchPodSpec merges obj directly into the pod spec.
func (p *Patcher) PatchPodSpec(doc any, obj map[string]any) (any, error) {
	return p.apply(doc, merge.PatchSpec{Path: p.Shape.podSpec(), Value: obj})
}

// PatchPodMetadata merges obj into the pod template metadata.
func (p *Patcher) PatchPodMetadata(doc any, obj map[string]any) (any, error) {
	if err := p.Shape.Validate(); err != nil {
		return nil, err
	}
	return p.apply(doc, merge.PatchSpec{Path: p.Shape.podMetadata(), Value: obj})
}

// PatchReplicas sets spec.replicas.
func (p *Patcher) PatchReplicas(doc any, replicas int) (any, error) {
	if !p.Shape.Replicas {
		return nil, fmt.Errorf("%w: %s", ErrNoReplicas, p.Shape.Kind)
	}
	if replicas < 0 {
		return nil, fmt.Errorf("%w: negative replicas %d", ErrInvalidPatch, replicas)
	}
	return p.apply(doc, merge.PatchSpec{
		Path:  merge.Fields("spec", "replicas"),
		Value: float64(replicas),
	})
}
