package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeBool denotes boolean parameters.
	ParamTypeBool ParamType = "bool"
	// ParamTypeString denotes free-form values such as engine names.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single value of a run configuration.
type Parameter struct {
	Key   string    `yaml:"key"`
	Label string    `yaml:"label"`
	Type  ParamType `yaml:"type"`
	Value string    `yaml:"value"`
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string      `yaml:"name"`
	Params []Parameter `yaml:"params"`
}

// ParameterSnapshot captures the current set of values exposed by a run.
type ParameterSnapshot struct {
	Groups []ParameterGroup `yaml:"groups"`
}

// Lookup returns the first parameter with the given key.
func (s ParameterSnapshot) Lookup(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// IntParameterSetter allows interactive front ends to update integer
// parameters such as thread counts.
type IntParameterSetter interface {
	SetIntParameter(key string, value int) bool
}
