package until

import (
	"sync"

	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
)

// BuildFunc builds the named condition for arg. It runs at build time, so
// bad arguments must be reported here rather than while polling.
type BuildFunc func(b *Builder, arg interface{}) (poll.Condition, error)

// Builder turns condition specs into conditions using its registry of named
// builders. Selectors inside specs are resolved with its query factory.
type Builder struct {
	mu       sync.RWMutex
	builders map[string]BuildFunc
	queries  *query.Factory
}

// NewBuilder with the built-in conditions: element, scoped, url, title,
// visible and unless. A nil factory gets a default one.
func NewBuilder(queries *query.Factory) *Builder {
	if queries == nil {
		queries = query.NewFactory()
	}
	b := &Builder{
		builders: make(map[string]BuildFunc),
		queries:  queries,
	}
	for name, fn := range builtins() {
		b.builders[name] = fn
	}
	return b
}

// Register adds or replaces the builder for name
func (b *Builder) Register(name string, fn BuildFunc) {
	b.mu.Lock()
	b.builders[name] = fn
	b.mu.Unlock()
}

// Queries is the factory selectors are resolved with
func (b *Builder) Queries() *query.Factory {
	return b.queries
}

// Build parses v and builds it into a single condition
func (b *Builder) Build(v interface{}) (poll.Condition, error) {
	spec, err := Parse(v)
	if err != nil {
		return poll.Condition{}, err
	}
	return b.BuildSpec(spec)
}

// BuildSpec builds a parsed spec. Every call returns a fresh condition.
func (b *Builder) BuildSpec(spec Spec) (poll.Condition, error) {
	switch s := spec.(type) {
	case AnyOf:
		conds, err := b.buildEach(s)
		if err != nil {
			return poll.Condition{}, err
		}
		return All(conds, Some), nil
	case AllOf:
		conds, err := b.buildEach(s)
		if err != nil {
			return poll.Condition{}, err
		}
		return All(conds, Every), nil
	case Not:
		inner, err := b.BuildSpec(s.Spec)
		if err != nil {
			return poll.Condition{}, err
		}
		return Unless(inner), nil
	case Is:
		b.mu.RLock()
		fn, ok := b.builders[s.Name]
		b.mu.RUnlock()
		if !ok {
			return poll.Condition{}, selene.Errorf(selene.ErrNoSuchCondition, "%s", s.Name)
		}
		return fn(b, s.Arg)
	case Built:
		if s.Condition.IsZero() {
			return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "condition has no probe function")
		}
		return s.Condition, nil
	}
	return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "unsupported spec %T", spec)
}

func (b *Builder) buildEach(specs []Spec) ([]poll.Condition, error) {
	if len(specs) == 0 {
		return nil, selene.Errorf(selene.ErrInvalidArgument, "empty condition list")
	}
	conds := make([]poll.Condition, len(specs))
	for i, spec := range specs {
		c, err := b.BuildSpec(spec)
		if err != nil {
			return nil, err
		}
		conds[i] = c
	}
	return conds, nil
}

// queryFor resolves a selector argument, passing queries through untouched
func (b *Builder) queryFor(arg interface{}) (*query.Query, error) {
	if q, ok := arg.(*query.Query); ok && q != nil {
		return q, nil
	}
	return b.queries.NewQuery(arg, nil, 0)
}
