package core

// Engine advances a generation by one step over a fixed pipeline.
type Engine interface {
	Name() string
	Pipeline() *Pipeline
	// Step returns the successor of src computed with threads workers. src is
	// never modified.
	Step(src *Generation, threads int) (*Generation, error)
}

// Recycler is implemented by engines that can reuse a superseded generation
// as the destination buffer of a later step.
type Recycler interface {
	Recycle(g *Generation)
}

// Factory constructs an engine running the given pipeline.
type Factory func(p *Pipeline) Engine

var engines = map[string]Factory{}

// Register adds an engine factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	engines[name] = f
}

// Engines exposes the registry of available engine factories.
func Engines() map[string]Factory {
	return engines
}
