package fluent_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/selene/fluent"
	"gitlab.com/selene/mock"
	"gitlab.com/selene/poll"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
	"gitlab.com/selene/until"
)

func newBrowser(s selene.Session) *fluent.Browser {
	return fluent.New(s, &selene.Config{
		DefaultTimeout: 50 * time.Millisecond,
		PollInterval:   5 * time.Millisecond,
	})
}

func TestNewDefaults(t *testing.T) {
	b := fluent.New(mock.NewSession("about:blank"), nil)
	if b.Config().DefaultTimeout != 5*time.Second || b.Config().Driver != selene.DriverGCD {
		t.Fatalf("expected defaults got %#v\n", b.Config())
	}

	cfg := &selene.Config{PollInterval: time.Millisecond}
	b = fluent.New(mock.NewSession("about:blank"), cfg)
	if b.Config().PollInterval != time.Millisecond || b.Config().DefaultTimeout != 5*time.Second {
		t.Fatalf("expected merged config got %#v\n", b.Config())
	}
	if cfg.DefaultTimeout != 0 {
		t.Fatalf("caller's config should not be modified")
	}
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	save := mock.NewElement("save", "button").WithText("Save")
	s := mock.NewSession("http://localhost/").
		Add(selene.ByCSS("button"), mock.NewElement("cancel", "button").Hidden(), save)
	b := newBrowser(s)

	el, err := b.Find(ctx, "button", query.FilterSpec{"visible": true}, 0)
	if err != nil {
		t.Fatalf("error finding: %s\n", err)
	}
	if el.Unwrap() != save {
		t.Fatalf("expected the visible button got %v\n", el.Unwrap())
	}
	if text, _ := el.Text(ctx); text != "Save" {
		t.Fatalf("decorated element should expose the driver element, got %s\n", text)
	}

	if _, err := b.Find(ctx, ".missing", nil, 0); !selene.IsNotFound(err) {
		t.Fatalf("expected not found got %v\n", err)
	}
	if _, err := b.Find(ctx, 42, nil, 0); !errors.Is(err, selene.ErrNoLocator) {
		t.Fatalf("expected ErrNoLocator got %v\n", err)
	}
}

func TestFindPolls(t *testing.T) {
	late := mock.NewElement("late", "span")
	s := mock.NewSession("http://localhost/")
	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Add(selene.ByCSS(".late"), late)
	}()

	el, err := newBrowser(s).Find(context.Background(), ".late", nil, time.Second)
	if err != nil {
		t.Fatalf("error polling: %s\n", err)
	}
	if el.Unwrap() != late {
		t.Fatalf("expected the late element")
	}
}

func TestFindAll(t *testing.T) {
	ctx := context.Background()
	items := []*mock.Element{mock.NewElement("a", "li"), mock.NewElement("b", "li"), mock.NewElement("c", "li")}
	s := mock.NewSession("http://localhost/").Add(selene.ByCSS("li"), items...)
	b := newBrowser(s)

	els, err := b.FindAll(ctx, "li", nil, 0)
	if err != nil {
		t.Fatalf("error finding all: %s\n", err)
	}
	if len(els) != len(items) {
		t.Fatalf("expected %d elements got %d\n", len(items), len(els))
	}
	for i, el := range els {
		if el.Unwrap() != items[i] {
			t.Fatalf("%d: elements out of document order\n", i)
		}
	}

	els, err = b.FindAll(ctx, ".none", nil, 0)
	if err != nil || len(els) != 0 {
		t.Fatalf("expected an empty result got %v %v\n", els, err)
	}
	if _, err := b.FindAll(ctx, ".none", nil, 20*time.Millisecond); !errors.Is(err, selene.ErrTimedOut) {
		t.Fatalf("expected a timeout with a timeout set got %v\n", err)
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	s := mock.NewSession("http://localhost/").
		Add(selene.ByCSS(".ok"), mock.NewElement("ok", "div")).
		FailNext(selene.ByCSS(".flaky"), errors.New("stale"))
	b := newBrowser(s)

	if !b.Exists(ctx, ".ok", nil) {
		t.Fatalf("expected .ok to exist")
	}
	if b.Exists(ctx, ".ok", query.FilterSpec{"visible": false}) {
		t.Fatalf("filters should apply to exists")
	}
	for _, sel := range []interface{}{".missing", ".flaky", 42} {
		if b.Exists(ctx, sel, nil) {
			t.Fatalf("expected %v not to exist\n", sel)
		}
	}
	if b.Exists(ctx, ".ok", query.FilterSpec{"bogus": 1}) {
		t.Fatalf("unknown filters should report false")
	}
}

func TestWait(t *testing.T) {
	ctx := context.Background()
	ok := mock.NewElement("ok", "div")
	s := mock.NewSession("http://localhost/").Add(selene.ByCSS(".ok"), ok)
	b := newBrowser(s)

	v, err := b.Wait(ctx, ".ok", time.Second, "")
	if err != nil {
		t.Fatalf("error waiting: %s\n", err)
	}
	el, err := fluent.AsElement(v)
	if err != nil || el.Unwrap() != ok {
		t.Fatalf("expected a decorated element got %v %v\n", v, err)
	}

	v, err = b.Wait(ctx, map[string]interface{}{"url": "/"}, time.Second, "")
	if err != nil || v != true {
		t.Fatalf("expected true got %v %v\n", v, err)
	}
	if _, err := fluent.AsElement(v); !errors.Is(err, selene.ErrInvalidArgument) {
		t.Fatalf("a bool is not an element, got %v\n", err)
	}

	if _, err := b.Wait(ctx, map[string]interface{}{"hover": ".ok"}, time.Second, ""); !errors.Is(err, selene.ErrNoSuchCondition) {
		t.Fatalf("expected ErrNoSuchCondition got %v\n", err)
	}
}

func TestWaitTimeouts(t *testing.T) {
	ctx := context.Background()
	by := selene.ByCSS(".never")
	s := mock.NewSession("http://localhost/")
	b := newBrowser(s)

	start := time.Now()
	_, err := b.Wait(ctx, ".never", 0, "the banner to show")
	var timeout *selene.TimeoutErr
	if !errors.As(err, &timeout) || timeout.Message != "the banner to show" {
		t.Fatalf("expected a timeout with the message got %v\n", err)
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Fatalf("a zero timeout should wait for the configured default")
	}

	before := s.Lookups(by)
	if _, err := b.Wait(ctx, ".never", -1, ""); !errors.Is(err, selene.ErrTimedOut) {
		t.Fatalf("expected a timeout got %v\n", err)
	}
	if n := s.Lookups(by) - before; n != 1 {
		t.Fatalf("a negative timeout should check once, checked %d times\n", n)
	}
}

func TestWaitUnless(t *testing.T) {
	errEl := mock.NewElement("error", "div").WithText("Wrong password")
	s := mock.NewSession("http://localhost/login")
	b := newBrowser(s)
	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Add(selene.ByCSS(".error"), errEl)
	}()

	_, err := b.Wait(context.Background(), map[string]interface{}{"url": "/home", "unless": ".error"}, time.Second, "")
	var violated *selene.ConditionErr
	if !errors.As(err, &violated) || violated.Value != errEl {
		t.Fatalf("expected the error element to fail the wait, got %v\n", err)
	}
}

func TestReloadUntil(t *testing.T) {
	by := selene.ByCSS(".report")
	report := mock.NewElement("report", "table")
	s := mock.NewSession("http://localhost/reports")
	s.OnRefresh(func(s *mock.Session) {
		if s.Refreshes() == 2 {
			s.Set(by, report)
		}
	})

	v, err := newBrowser(s).ReloadUntil(context.Background(), ".report", time.Second, "")
	if err != nil {
		t.Fatalf("error reloading: %s\n", err)
	}
	if el, err := fluent.AsElement(v); err != nil || el.Unwrap() != report {
		t.Fatalf("expected the report got %v %v\n", v, err)
	}
	if n := s.Refreshes(); n != 2 {
		t.Fatalf("expected 2 refreshes got %d\n", n)
	}
}

func TestReloadUntilTimesOut(t *testing.T) {
	s := mock.NewSession("http://localhost/reports")
	_, err := newBrowser(s).ReloadUntil(context.Background(), ".report", 30*time.Millisecond, "")
	var timeout *selene.TimeoutErr
	if !errors.As(err, &timeout) || timeout.Message != "for .report" {
		t.Fatalf("expected a timeout naming the condition got %v\n", err)
	}
	if s.Refreshes() == 0 {
		t.Fatalf("expected the page to be refreshed")
	}
}

func TestReloadUntilUnless(t *testing.T) {
	s := mock.NewSession("http://localhost/reports")
	b := newBrowser(s)
	spec := map[string]interface{}{"unless": ".error"}

	v, err := b.Wait(context.Background(), spec, 30*time.Millisecond, "")
	if err != nil || v != nil {
		t.Fatalf("expected the unless to hold got %v %v\n", v, err)
	}
	v, err = b.ReloadUntil(context.Background(), spec, 30*time.Millisecond, "")
	if err != nil || v != nil {
		t.Fatalf("expected the unless to hold across reloads got %v %v\n", v, err)
	}
	if s.Refreshes() == 0 {
		t.Fatalf("expected the page to be refreshed")
	}

	errEl := mock.NewElement("error", "div")
	s.OnRefresh(func(s *mock.Session) {
		s.Set(selene.ByCSS(".error"), errEl)
	})
	refreshes := s.Refreshes()
	_, err = b.ReloadUntil(context.Background(), spec, time.Second, "")
	var violated *selene.ConditionErr
	if !errors.As(err, &violated) {
		t.Fatalf("expected the error element to fail the reload, got %v\n", err)
	}
	if s.Refreshes() != refreshes+1 {
		t.Fatalf("expected the failure right after one refresh, got %d\n", s.Refreshes()-refreshes)
	}
}

type marker string

func TestUse(t *testing.T) {
	ctx := context.Background()
	flag := mock.NewElement("flag", "div")
	s := mock.NewSession("http://localhost/").Add(selene.ByAttr("data-marker", "ready"), flag)

	plugin := func(r fluent.Registrar) {
		r.AddLocator(query.LocatorFunc(func(sel interface{}) (query.Locator, bool) {
			m, ok := sel.(marker)
			if !ok {
				return query.Locator{}, false
			}
			return query.Locator{By: selene.ByAttr("data-marker", string(m)), Description: "marker " + string(m)}, true
		}))
		r.RegisterCondition("marker", func(b *until.Builder, arg interface{}) (poll.Condition, error) {
			name, _ := arg.(string)
			q, err := b.Queries().NewQuery(marker(name), nil, 0)
			if err != nil {
				return poll.Condition{}, err
			}
			return q.UntilOne(nil), nil
		})
	}

	b := newBrowser(s).Use(plugin)
	el, err := b.Find(ctx, marker("ready"), nil, 0)
	if err != nil || el.Unwrap() != flag {
		t.Fatalf("expected the plugin locator to find the flag, got %v %v\n", el, err)
	}
	if _, err := b.Wait(ctx, map[string]interface{}{"marker": "ready"}, time.Second, ""); err != nil {
		t.Fatalf("error waiting on plugin condition: %s\n", err)
	}

	other := newBrowser(s)
	if _, err := other.Find(ctx, marker("ready"), nil, 0); !errors.Is(err, selene.ErrNoLocator) {
		t.Fatalf("plugins should not leak between browsers, got %v\n", err)
	}
	if _, err := other.CreateCondition(map[string]interface{}{"marker": "ready"}); !errors.Is(err, selene.ErrNoSuchCondition) {
		t.Fatalf("conditions should not leak between browsers, got %v\n", err)
	}
}
