package patchfile

import (
	"fmt"
)

// normalize converts the free-form values decoded from YAML to the JSON
// model the document loader produces: string-keyed maps and float64 numbers.
func (f *File) normalize() error {
	for i := range f.Patches {
		if err := f.Patches[i].normalize(); err != nil {
			return fmt.Errorf("patch %d: %w", i, err)
		}
	}
	return nil
}

func (p *Patch) normalize() error {
	maps := []*map[string]any{&p.Metadata, &p.PodMetadata, &p.PodSpec, &p.Data, &p.StringData}
	for i := range p.Volumes {
		maps = append(maps, &p.Volumes[i].Fields)
	}
	for i := range p.Containers {
		c := &p.Containers[i]
		maps = append(maps, &c.Resources, &c.Fields)
		for j := range c.Env {
			maps = append(maps, &c.Env[j].ValueFrom)
		}
		for j := range c.AddEnv {
			maps = append(maps, &c.AddEnv[j].ValueFrom)
		}
		for j := range c.VolumeMounts {
			maps = append(maps, &c.VolumeMounts[j].Fields)
		}
	}

	for _, m := range maps {
		if *m == nil {
			continue
		}
		v, err := normalizeValue(*m)
		if err != nil {
			return err
		}
		*m = v.(map[string]any)
	}

	for i := range p.Merge {
		v, err := normalizeValue(p.Merge[i].Value)
		if err != nil {
			return fmt.Errorf("merge %s: %w", p.Merge[i].Path, err)
		}
		p.Merge[i].Value = v
	}
	return nil
}

func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string map key %v", k)
			}
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	default:
		return v, nil
	}
}
