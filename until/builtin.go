package until

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
)

// Scoped is the argument of the scoped condition: Query looked up inside
// Scope rather than the whole session
type Scoped struct {
	Query interface{}
	Scope selene.Scope
}

func builtins() map[string]BuildFunc {
	return map[string]BuildFunc{
		"element": buildElement,
		"scoped":  buildScoped,
		"url":     buildURL,
		"title":   buildTitle,
		"visible": buildVisible,
		"unless":  buildUnless,
	}
}

func buildElement(b *Builder, arg interface{}) (poll.Condition, error) {
	q, err := b.queryFor(arg)
	if err != nil {
		return poll.Condition{}, err
	}
	return q.UntilOne(nil), nil
}

func buildScoped(b *Builder, arg interface{}) (poll.Condition, error) {
	var sc Scoped
	switch t := arg.(type) {
	case Scoped:
		sc = t
	case *Scoped:
		if t == nil {
			return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "scoped needs a query")
		}
		sc = *t
	default:
		return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "scoped does not accept %T", arg)
	}
	if sc.Scope == nil {
		return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "scoped needs a scope")
	}
	q, err := b.queryFor(sc.Query)
	if err != nil {
		return poll.Condition{}, err
	}
	return q.UntilOne(sc.Scope), nil
}

func buildURL(b *Builder, arg interface{}) (poll.Condition, error) {
	raw, ok := arg.(string)
	if !ok {
		if u, isURL := arg.(*url.URL); isURL && u != nil {
			raw = u.String()
		} else {
			return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "url does not accept %T", arg)
		}
	}
	target, err := url.Parse(raw)
	if err != nil {
		return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "url %q: %s", raw, err)
	}

	return poll.NewCondition("for URL to become "+raw, func(ctx context.Context, s selene.Session) (interface{}, error) {
		current, err := s.CurrentURL(ctx)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("reading current url")
			return false, nil
		}
		return URLMatches(current, target), nil
	}), nil
}

// URLMatches reports whether resolving target against current lands on
// current, so relative targets and bare paths match the page they name
func URLMatches(current string, target *url.URL) bool {
	cur, err := url.Parse(current)
	if err != nil {
		return false
	}
	resolved := cur.ResolveReference(target)
	return normalizeURL(resolved) == normalizeURL(cur)
}

func normalizeURL(u *url.URL) string {
	c := *u
	if c.Path == "" && c.Host != "" {
		c.Path = "/"
	}
	return c.String()
}

func buildTitle(b *Builder, arg interface{}) (poll.Condition, error) {
	var (
		desc  string
		match func(string) bool
	)
	switch t := arg.(type) {
	case *regexp.Regexp:
		desc = "for title to match /" + t.String() + "/"
		match = t.MatchString
	case string:
		if len(t) > 1 && strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/") {
			re, err := regexp.Compile(t[1 : len(t)-1])
			if err != nil {
				return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "title pattern %s: %s", t, err)
			}
			desc = "for title to match " + t
			match = re.MatchString
			break
		}
		want := t
		desc = fmt.Sprintf("for title to be %q", want)
		match = func(title string) bool { return title == want }
	default:
		return poll.Condition{}, selene.Errorf(selene.ErrInvalidArgument, "title does not accept %T", arg)
	}

	return poll.NewCondition(desc, func(ctx context.Context, s selene.Session) (interface{}, error) {
		title, err := s.Title(ctx)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Msg("reading title")
			return false, nil
		}
		return match(title), nil
	}), nil
}

func buildVisible(b *Builder, arg interface{}) (poll.Condition, error) {
	q, err := b.queryFor(arg)
	if err != nil {
		return poll.Condition{}, err
	}
	return poll.NewCondition("for "+q.Description+" to become visible", func(ctx context.Context, s selene.Session) (interface{}, error) {
		return firstVisible(ctx, q, s)
	}), nil
}

func firstVisible(ctx context.Context, q *query.Query, s selene.Session) (interface{}, error) {
	els, err := q.FindAll(ctx, s)
	if err != nil {
		if selene.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	for _, el := range els {
		displayed, err := el.IsDisplayed(ctx)
		if err != nil {
			log.Ctx(ctx).Debug().Err(err).Str("query", q.Description).Msg("display check failed")
			continue
		}
		if displayed {
			return el, nil
		}
	}
	return nil, nil
}

func buildUnless(b *Builder, arg interface{}) (poll.Condition, error) {
	inner, err := b.Build(arg)
	if err != nil {
		return poll.Condition{}, err
	}
	return Unless(inner), nil
}
