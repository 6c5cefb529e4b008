package fluent

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
	"gitlab.com/selene/until"
)

// Registrar is what plugins extend: the locator and filter registries and
// the named conditions of a single Browser
type Registrar interface {
	AddLocator(m query.LocatorMapper)
	AddFilter(m query.FilterMapper)
	RegisterCondition(name string, fn until.BuildFunc)
}

// Browser wraps a driven session with queries and waits. Registries are
// owned by the Browser, so plugins used on one never leak into another.
type Browser struct {
	session    selene.Session
	cfg        *selene.Config
	queries    *query.Factory
	conditions *until.Builder
	waiter     *poll.Waiter
}

// New Browser over session. A nil cfg uses selene.DefaultConfig.
func New(session selene.Session, cfg *selene.Config) *Browser {
	if cfg == nil {
		cfg = selene.DefaultConfig()
	} else {
		merged := *cfg
		merged.Merge(selene.DefaultConfig())
		cfg = &merged
	}

	waiter := poll.NewWaiter(cfg.PollInterval)
	queries := query.NewFactory()
	queries.SetWaiter(waiter)
	return &Browser{
		session:    session,
		cfg:        cfg,
		queries:    queries,
		conditions: until.NewBuilder(queries),
		waiter:     waiter,
	}
}

// Session the browser drives
func (b *Browser) Session() selene.Session {
	return b.session
}

// Config in effect, defaults filled in
func (b *Browser) Config() *selene.Config {
	return b.cfg
}

// Use runs each plugin against the browser's registries
func (b *Browser) Use(plugins ...func(Registrar)) *Browser {
	for _, plugin := range plugins {
		plugin(b)
	}
	return b
}

// AddLocator appends m to the locator registry
func (b *Browser) AddLocator(m query.LocatorMapper) {
	b.queries.AddLocator(m)
}

// AddFilter appends m to the filter registry
func (b *Browser) AddFilter(m query.FilterMapper) {
	b.queries.AddFilter(m)
}

// RegisterCondition makes name usable in condition specs
func (b *Browser) RegisterCondition(name string, fn until.BuildFunc) {
	b.conditions.Register(name, fn)
}

// CreateQuery resolves sel and filter against the registries
func (b *Browser) CreateQuery(sel interface{}, filter query.FilterSpec, timeout time.Duration) (*query.Query, error) {
	return b.queries.NewQuery(sel, filter, timeout)
}

// CreateCondition builds spec into a condition
func (b *Browser) CreateCondition(spec interface{}) (poll.Condition, error) {
	return b.conditions.Build(spec)
}

// Find the first element matching sel and filter, polling up to timeout
func (b *Browser) Find(ctx context.Context, sel interface{}, filter query.FilterSpec, timeout time.Duration) (*Element, error) {
	return b.find(ctx, b.session, sel, filter, timeout)
}

// FindAll elements matching sel and filter, polling up to timeout for at
// least one
func (b *Browser) FindAll(ctx context.Context, sel interface{}, filter query.FilterSpec, timeout time.Duration) ([]*Element, error) {
	return b.findAll(ctx, b.session, sel, filter, timeout)
}

// Exists looks once for sel. Any failure, bad selectors included, is false.
func (b *Browser) Exists(ctx context.Context, sel interface{}, filter query.FilterSpec) bool {
	return b.exists(ctx, b.session, sel, filter)
}

// Wait until spec holds, returning its value. Elements come back decorated.
// A zero timeout uses the configured default; a negative one checks once.
func (b *Browser) Wait(ctx context.Context, spec interface{}, timeout time.Duration, message string) (interface{}, error) {
	cond, err := b.conditions.Build(spec)
	if err != nil {
		return nil, err
	}
	return b.wait(ctx, "Wait", cond, timeout, message)
}

// ReloadUntil checks spec once, refreshing the page whenever the check does
// not pass, until it does or timeout elapses. A violated unless fails at once.
func (b *Browser) ReloadUntil(ctx context.Context, spec interface{}, timeout time.Duration, message string) (interface{}, error) {
	cond, err := b.conditions.Build(spec)
	if err != nil {
		return nil, err
	}
	if message == "" {
		message = cond.Description
	}

	reloading := poll.NewCondition("reloading "+cond.Description, func(ctx context.Context, s selene.Session) (interface{}, error) {
		v, err := b.waiter.Wait(ctx, s, cond, 0, "")
		switch {
		case err == nil && poll.Truthy(v):
			return v, nil
		case errors.Is(err, selene.ErrConditionViolated):
			return nil, err
		case ctx.Err() != nil:
			return nil, ctx.Err()
		}
		log.Ctx(ctx).Debug().Err(err).Str("condition", cond.Description).Msg("reloading")
		if rerr := s.Refresh(ctx); rerr != nil {
			log.Ctx(ctx).Warn().Err(rerr).Msg("refresh failed")
		}
		return nil, nil
	})
	// a negative spec holds by surviving every reload until the deadline
	reloading.Negative = cond.Negative
	return b.wait(ctx, "ReloadUntil", reloading, timeout, message)
}

func (b *Browser) wait(ctx context.Context, op string, cond poll.Condition, timeout time.Duration, message string) (interface{}, error) {
	if timeout == 0 {
		timeout = b.cfg.DefaultTimeout
	}
	ctx, span := startSpan(ctx, op, cond.Description)
	defer span.End()

	v, err := b.waiter.Wait(ctx, b.session, cond, timeout, message)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return b.decorate(v), nil
}

func (b *Browser) find(ctx context.Context, scope selene.Scope, sel interface{}, filter query.FilterSpec, timeout time.Duration) (*Element, error) {
	q, err := b.queries.NewQuery(sel, filter, timeout)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "Find", q.Description)
	defer span.End()

	el, err := q.One(ctx, scope)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return b.element(el), nil
}

func (b *Browser) findAll(ctx context.Context, scope selene.Scope, sel interface{}, filter query.FilterSpec, timeout time.Duration) ([]*Element, error) {
	q, err := b.queries.NewQuery(sel, filter, timeout)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "FindAll", q.Description)
	defer span.End()

	els, err := q.All(ctx, scope)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	span.SetAttributes(attrMatches.Int(len(els)))
	return b.elements(els), nil
}

func (b *Browser) exists(ctx context.Context, scope selene.Scope, sel interface{}, filter query.FilterSpec) bool {
	q, err := b.queries.NewQuery(sel, filter, 0)
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("exists: bad query")
		return false
	}
	_, ok := q.Probe(ctx, scope)
	return ok
}

func (b *Browser) element(el selene.Element) *Element {
	if decorated, ok := el.(*Element); ok {
		return decorated
	}
	return &Element{Element: el, browser: b}
}

func (b *Browser) elements(els []selene.Element) []*Element {
	ret := make([]*Element, len(els))
	for i, el := range els {
		ret[i] = b.element(el)
	}
	return ret
}

func (b *Browser) decorate(v interface{}) interface{} {
	switch t := v.(type) {
	case selene.Element:
		return b.element(t)
	case []selene.Element:
		return b.elements(t)
	}
	return v
}

// AsElement unwraps a Wait result into an element
func AsElement(v interface{}) (*Element, error) {
	el, ok := v.(*Element)
	if !ok {
		return nil, errors.Wrapf(selene.ErrInvalidArgument, "wait result is %T, not an element", v)
	}
	return el, nil
}
