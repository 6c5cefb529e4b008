package query_test

import (
	"testing"

	"github.com/pkg/errors"
	"gitlab.com/selene/query"
	"gitlab.com/selene/selene"
)

func TestResolveLocator(t *testing.T) {
	by := selene.ByID("main")
	var inputs = []struct {
		in   interface{}
		by   selene.By
		desc string
	}{
		{".btn", selene.ByCSS(".btn"), ".btn"},
		{"//div[@id='x']", selene.ByXPath("//div[@id='x']"), "//div[@id='x']"},
		{"./span", selene.ByXPath("./span"), "./span"},
		{"/html/body", selene.ByXPath("/html/body"), "/html/body"},
		{by, by, `id "main"`},
		{&by, by, `id "main"`},
		{map[string]string{"linkText": "Next"}, selene.ByLinkText("Next"), `linkText "Next"`},
		{map[string]interface{}{"name": "q"}, selene.ByName("q"), `name "q"`},
	}

	f := query.NewFactory()
	for _, in := range inputs {
		loc, err := f.ResolveLocator(in.in)
		if err != nil {
			t.Fatalf("error resolving %#v: %s\n", in.in, err)
		}
		if loc.By != in.by || loc.Description != in.desc {
			t.Fatalf("expected %s (%s) got %s (%s)\n", in.by, in.desc, loc.By, loc.Description)
		}
	}
}

func TestResolveLocatorFails(t *testing.T) {
	f := query.NewFactory()
	for _, in := range []interface{}{"", 42, nil, map[string]string{"bogus": "x"}, map[string]string{"css": "a", "id": "b"}, selene.By{}} {
		if _, err := f.ResolveLocator(in); !errors.Is(err, selene.ErrNoLocator) {
			t.Fatalf("expected ErrNoLocator for %#v got %v\n", in, err)
		}
	}
}

type testID string

func TestAddLocator(t *testing.T) {
	f := query.NewFactory()
	other := f.Clone()

	f.AddLocator(query.LocatorFunc(func(sel interface{}) (query.Locator, bool) {
		id, ok := sel.(testID)
		if !ok {
			return query.Locator{}, false
		}
		return query.Locator{By: selene.ByAttr("data-testid", string(id)), Description: "testid " + string(id)}, true
	}))

	loc, err := f.ResolveLocator(testID("save"))
	if err != nil {
		t.Fatalf("error resolving custom locator: %s\n", err)
	}
	if loc.By != selene.ByCSS(`[data-testid="save"]`) {
		t.Fatalf("unexpected by %s\n", loc.By)
	}

	// defaults still win for what they claim
	if loc, _ := f.ResolveLocator(".btn"); loc.By != selene.ByCSS(".btn") {
		t.Fatalf("default css locator lost precedence")
	}

	if _, err := other.ResolveLocator(testID("save")); !errors.Is(err, selene.ErrNoLocator) {
		t.Fatalf("clone should not see locators added later")
	}
	if _, err := query.NewFactory().ResolveLocator(testID("save")); err == nil {
		t.Fatalf("new factory should not see locators of another")
	}
}
