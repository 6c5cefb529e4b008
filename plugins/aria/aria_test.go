package aria_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gitlab.com/selene/fluent"
	"gitlab.com/selene/mock"
	"gitlab.com/selene/plugins/aria"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
)

func TestLocate(t *testing.T) {
	var inputs = []struct {
		in   interface{}
		by   selene.By
		desc string
	}{
		{aria.Role("dialog"), selene.ByCSS(`[role="dialog"]`), `role "dialog"`},
		{aria.Label("Close"), selene.ByCSS(`[aria-label="Close"]`), `label "Close"`},
		{aria.TestID("save"), selene.ByCSS(`[data-testid="save"]`), `testid "save"`},
		{map[string]string{"testid": "save"}, selene.ByCSS(`[data-testid="save"]`), `testid "save"`},
		{map[string]interface{}{"role": "tab"}, selene.ByCSS(`[role="tab"]`), `role "tab"`},
	}
	for _, in := range inputs {
		loc, ok := aria.Locate(in.in)
		if !ok {
			t.Fatalf("expected %#v to be located\n", in.in)
		}
		if loc.By != in.by || loc.Description != in.desc {
			t.Fatalf("expected %s (%s) got %s (%s)\n", in.by, in.desc, loc.By, loc.Description)
		}
	}

	for _, in := range []interface{}{"button", aria.Role(""), map[string]string{"css": "a"}, map[string]interface{}{"role": 1}} {
		if _, ok := aria.Locate(in); ok {
			t.Fatalf("expected %#v to be declined\n", in)
		}
	}
}

func TestPlugin(t *testing.T) {
	ctx := context.Background()
	collapsed := mock.NewElement("menu", "button").WithAttr("aria-expanded", "false")
	expanded := mock.NewElement("account", "button").WithAttr("aria-expanded", "true")
	s := mock.NewSession("http://localhost/").
		Add(selene.ByAttr("role", "button"), collapsed, expanded)

	b := fluent.New(s, &selene.Config{PollInterval: 5 * time.Millisecond}).Use(aria.New().Register)

	el, err := b.Find(ctx, aria.Role("button"), query.FilterSpec{"aria": map[string]interface{}{"expanded": true}}, 0)
	if err != nil {
		t.Fatalf("error finding expanded button: %s\n", err)
	}
	if el.Unwrap() != expanded {
		t.Fatalf("expected the expanded button got %v\n", el.Unwrap())
	}

	q, err := b.CreateQuery(map[string]string{"role": "button"}, query.FilterSpec{"aria": map[string]interface{}{"expanded": false, "haspopup": "menu"}}, 0)
	if err != nil {
		t.Fatalf("error creating query: %s\n", err)
	}
	if q.Description != `role "button" (aria-expanded=false aria-haspopup=menu)` {
		t.Fatalf("unexpected description %s\n", q.Description)
	}

	if _, err := b.CreateQuery(aria.Role("button"), query.FilterSpec{"aria": "expanded"}, 0); !errors.Is(err, selene.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument got %v\n", err)
	}
	if _, err := fluent.New(s, nil).CreateQuery(aria.Role("button"), nil, 0); !errors.Is(err, selene.ErrNoLocator) {
		t.Fatalf("browsers without the plugin should not locate roles, got %v\n", err)
	}
}

func TestTestIDCondition(t *testing.T) {
	ctx := context.Background()
	saved := mock.NewElement("toast", "div")
	s := mock.NewSession("http://localhost/")
	b := fluent.New(s, &selene.Config{PollInterval: 5 * time.Millisecond}).Use(aria.New().Register)

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.Add(selene.ByAttr("data-testid", "saved"), saved)
	}()
	v, err := b.Wait(ctx, map[string]interface{}{"testid": "saved"}, time.Second, "")
	if err != nil {
		t.Fatalf("error waiting: %s\n", err)
	}
	if el, err := fluent.AsElement(v); err != nil || el.Unwrap() != saved {
		t.Fatalf("expected the toast got %v %v\n", v, err)
	}

	if _, err := b.CreateCondition(map[string]interface{}{"testid": ""}); !errors.Is(err, selene.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument got %v\n", err)
	}
}
