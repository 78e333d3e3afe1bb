package core

import "fmt"

// Transform computes one field of dst for every index in r, reading only src.
// src and dst always have the same length.
type Transform func(r Range, src, dst []Cell)

// Stage is a named transform together with the single field it writes.
type Stage struct {
	Name   string
	Writes Field
	Fn     Transform
}

// Pipeline is an ordered set of stages with pairwise disjoint target fields.
type Pipeline struct {
	stages []Stage
	writes FieldMask
}

// NewPipeline validates and orders the given stages. Field C is constant for a
// run and may not be targeted; no two stages may write the same field.
func NewPipeline(stages ...Stage) (*Pipeline, error) {
	p := &Pipeline{stages: make([]Stage, 0, len(stages))}
	for _, s := range stages {
		if s.Fn == nil {
			return nil, fmt.Errorf("%w: stage %q has no transform", ErrInvalidConfiguration, s.Name)
		}
		if s.Writes == FieldC {
			return nil, fmt.Errorf("%w: stage %q targets constant field c", ErrInvalidConfiguration, s.Name)
		}
		if s.Writes > FieldC {
			return nil, fmt.Errorf("%w: stage %q targets unknown field %d", ErrInvalidConfiguration, s.Name, s.Writes)
		}
		if p.writes.Has(s.Writes) {
			return nil, fmt.Errorf("%w: stage %q writes field %s already owned by another stage", ErrInvalidConfiguration, s.Name, s.Writes)
		}
		p.writes |= s.Writes.Mask()
		p.stages = append(p.stages, s)
	}
	return p, nil
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage { return p.stages }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Writes returns the set of fields the pipeline overwrites.
func (p *Pipeline) Writes() FieldMask { return p.writes }

// Names returns the stage names in order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run applies every stage in order over r. A panicking stage is converted into
// a *TransformError.
func (p *Pipeline) Run(r Range, src, dst []Cell) (err error) {
	if r.Empty() {
		return nil
	}
	current := ""
	defer func() {
		if rec := recover(); rec != nil {
			err = &TransformError{Stage: current, Range: r, Cause: rec}
		}
	}()
	for _, s := range p.stages {
		current = s.Name
		s.Fn(r, src, dst)
	}
	return nil
}
