package patch

import "fmt"

// ContainerPatch describes the changes to one container, addressed by Name.
// Fields holds any other container attributes to merge, such as args or
// securityContext. Env entries must already exist; AddEnv entries are
// appended when missing and patched when present.
type ContainerPatch struct {
	Name         string         `yaml:"name" json:"name"`
	Image        string         `yaml:"image,omitempty" json:"image,omitempty"`
	Resources    map[string]any `yaml:"resources,omitempty" json:"resources,omitempty"`
	Env          []EnvVar       `yaml:"env,omitempty" json:"env,omitempty"`
	AddEnv       []EnvVar       `yaml:"addEnv,omitempty" json:"addEnv,omitempty"`
	VolumeMounts []VolumeMount  `yaml:"volumeMounts,omitempty" json:"volumeMounts,omitempty"`
	Fields       map[string]any `yaml:",inline" json:"-"`
}

// EnvVar patches one env entry. Exactly one of Value and ValueFrom must be
// set. They are exclusive: setting ValueFrom removes an existing value, and
// setting Value removes an existing valueFrom.
type EnvVar struct {
	Name      string         `yaml:"name" json:"name"`
	Value     *string        `yaml:"value,omitempty" json:"value,omitempty"`
	ValueFrom map[string]any `yaml:"valueFrom,omitempty" json:"valueFrom,omitempty"`
}

// EnvValue returns an EnvVar setting a literal value.
func EnvValue(name, value string) EnvVar {
	return EnvVar{Name: name, Value: &value}
}

func (e EnvVar) patch() (body map[string]any, drop string, err error) {
	switch {
	case e.Value != nil && e.ValueFrom != nil:
		return nil, "", fmt.Errorf("%w: env %s sets both value and valueFrom", ErrInvalidPatch, e.Name)
	case e.ValueFrom != nil:
		return map[string]any{"valueFrom": e.ValueFrom}, "value", nil
	case e.Value != nil:
		return map[string]any{"value": *e.Value}, "valueFrom", nil
	default:
		return nil, "", fmt.Errorf("%w: env %s needs a value or valueFrom", ErrInvalidPatch, e.Name)
	}
}

// VolumeMount patches one volume mount of a container.
type VolumeMount struct {
	Name   string         `yaml:"name" json:"name"`
	Fields map[string]any `yaml:",inline" json:"-"`
}

// Volume patches one pod volume.
type Volume struct {
	Name   string         `yaml:"name" json:"name"`
	Fields map[string]any `yaml:",inline" json:"-"`
}

func fieldsPatch(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
