package query_test

import (
	"context"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gitlab.com/selene/mock"
	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
)

func TestOne(t *testing.T) {
	ctx := context.Background()
	btn := mock.NewElement("save", "button")
	s := mock.NewSession("http://localhost/").Add(selene.ByCSS("button"), btn)

	q, err := query.NewFactory().NewQuery("button", nil, 0)
	if err != nil {
		t.Fatalf("error creating query: %s\n", err)
	}
	el, err := q.One(ctx, s)
	if err != nil {
		t.Fatalf("error finding button: %s\n", err)
	}
	if el != btn {
		spew.Dump(el)
		t.Fatalf("expected the save button")
	}

	q, _ = query.NewFactory().NewQuery(".missing", nil, 0)
	_, err = q.One(ctx, s)
	var notFound *selene.NoSuchElementErr
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NoSuchElementErr got %v\n", err)
	}
	if notFound.Description != ".missing" || err.Error() != "no such element: .missing" {
		t.Fatalf("unexpected error %s\n", err)
	}
}

func TestOneLookupErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	s := mock.NewSession("http://localhost/").FailNext(selene.ByCSS("button"), boom)
	q, _ := query.NewFactory().NewQuery("button", nil, 0)
	_, err := q.One(context.Background(), s)
	if errors.Cause(err) != boom {
		t.Fatalf("expected lookup error got %v\n", err)
	}
	if selene.IsNotFound(err) {
		t.Fatalf("lookup error should not look like not found")
	}
}

func TestFiltersSelectMiddle(t *testing.T) {
	ctx := context.Background()
	a := mock.NewElement("a", "button").WithText("Cancel")
	b := mock.NewElement("b", "button").WithText("Save")
	c := mock.NewElement("c", "button").WithText("Save").Hidden()
	s := mock.NewSession("http://localhost/").Add(selene.ByCSS("button"), a, b, c)

	q, err := query.NewFactory().NewQuery("button", query.FilterSpec{"visible": true, "text": "Save"}, 0)
	if err != nil {
		t.Fatalf("error creating query: %s\n", err)
	}
	els, err := q.All(ctx, s)
	if err != nil {
		t.Fatalf("error finding all: %s\n", err)
	}
	if len(els) != 1 || els[0] != b {
		spew.Dump(els)
		t.Fatalf("expected only b")
	}

	el, err := q.One(ctx, s)
	if err != nil || el != b {
		t.Fatalf("expected One to return b, got %v %v\n", el, err)
	}
}

func TestFilteredNone(t *testing.T) {
	s := mock.NewSession("http://localhost/").Add(selene.ByCSS("button"), mock.NewElement("a", "button").Hidden())
	q, _ := query.NewFactory().NewQuery("button", query.FilterSpec{"visible": true}, 0)

	els, err := q.All(context.Background(), s)
	if err != nil || len(els) != 0 {
		t.Fatalf("expected an empty match set got %v %v\n", els, err)
	}
	if _, err := q.One(context.Background(), s); !selene.IsNotFound(err) {
		t.Fatalf("expected not found got %v\n", err)
	}
}

func TestPollingRecovers(t *testing.T) {
	by := selene.ByCSS(".late")
	late := mock.NewElement("late", "span")
	s := mock.NewSession("http://localhost/").
		Add(by, late).
		FailNext(by, errors.New("stale"), errors.New("stale"))

	f := query.NewFactory()
	f.SetWaiter(poll.NewWaiter(5 * time.Millisecond))
	q, _ := f.NewQuery(".late", query.FilterSpec{"visible": true}, time.Second)

	el, err := q.One(context.Background(), s)
	if err != nil {
		t.Fatalf("error polling: %s\n", err)
	}
	if el != late {
		t.Fatalf("expected the late element")
	}
	if n := s.Lookups(by); n != 3 {
		t.Fatalf("expected 3 lookups got %d\n", n)
	}
}

func TestPollingTimesOut(t *testing.T) {
	f := query.NewFactory()
	f.SetWaiter(poll.NewWaiter(5 * time.Millisecond))
	q, _ := f.NewQuery(".never", nil, 30*time.Millisecond)

	_, err := q.All(context.Background(), mock.NewSession("http://localhost/"))
	var timeout *selene.TimeoutErr
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutErr got %v\n", err)
	}
	if timeout.Message != "for .never" {
		t.Fatalf("unexpected message %s\n", timeout.Message)
	}
}

func TestScopedQuery(t *testing.T) {
	ctx := context.Background()
	inner := mock.NewElement("inner", "input")
	outer := mock.NewElement("outer", "input")
	form := mock.NewElement("form", "form").AddChild(selene.ByCSS("input"), inner)
	s := mock.NewSession("http://localhost/").
		Add(selene.ByCSS("form"), form).
		Add(selene.ByCSS("input"), outer, inner)

	q, _ := query.NewFactory().NewQuery("input", nil, 0)
	els, err := q.All(ctx, form)
	if err != nil || len(els) != 1 || els[0] != inner {
		t.Fatalf("expected only the input inside the form, got %v %v\n", els, err)
	}

	if form.RootSession() != s {
		t.Fatalf("element should report its session")
	}

	el, ok := q.Probe(ctx, s)
	if !ok || el != outer {
		t.Fatalf("expected probe on the session to find outer")
	}
	if _, ok := q.Probe(ctx, mock.NewSession("about:blank")); ok {
		t.Fatalf("expected probe on an empty session to fail")
	}
}

func TestNilScope(t *testing.T) {
	ctx := context.Background()
	for _, timeout := range []time.Duration{0, 20 * time.Millisecond} {
		q, err := query.NewFactory().NewQuery("button", nil, timeout)
		if err != nil {
			t.Fatalf("error creating query: %s\n", err)
		}
		if _, err := q.One(ctx, nil); !errors.Is(err, selene.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument from One got %v\n", timeout, err)
		}
		if _, err := q.All(ctx, nil); !errors.Is(err, selene.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument from All got %v\n", timeout, err)
		}
		if _, ok := q.Probe(ctx, nil); ok {
			t.Fatalf("%s: a nil scope should never probe true\n", timeout)
		}
	}
}
