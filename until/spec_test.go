package until_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"gitlab.com/selene/selene"
	"gitlab.com/selene/until"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	spec, err := until.Parse(map[string]interface{}{
		"url":     "/done",
		"element": ".ok",
		"unless":  []interface{}{".error", map[string]interface{}{"title": "Oops"}},
	})
	if err != nil {
		t.Fatalf("error parsing: %s\n", err)
	}

	expected := until.AllOf{
		until.Is{Name: "element", Arg: ".ok"},
		until.Not{Spec: until.AnyOf{
			until.Is{Name: "element", Arg: ".error"},
			until.AllOf{until.Is{Name: "title", Arg: "Oops"}},
		}},
		until.Is{Name: "url", Arg: "/done"},
	}
	if spew.Sdump(spec) != spew.Sdump(expected) {
		t.Fatalf("unexpected spec:\n%s\n", spew.Sdump(spec))
	}
}

func TestParseSelectors(t *testing.T) {
	for _, in := range []interface{}{".btn", selene.ByID("x")} {
		spec, err := until.Parse(in)
		if err != nil {
			t.Fatalf("error parsing %#v: %s\n", in, err)
		}
		is, ok := spec.(until.Is)
		if !ok || is.Name != "element" {
			t.Fatalf("expected element condition got %#v\n", spec)
		}
	}

	spec, err := until.Parse([]string{".a", ".b"})
	if err != nil {
		t.Fatalf("error parsing list: %s\n", err)
	}
	if members, ok := spec.(until.AnyOf); !ok || len(members) != 2 {
		t.Fatalf("expected a two member AnyOf got %#v\n", spec)
	}
}

func TestParseYAML(t *testing.T) {
	doc := []byte(`
visible: "#save"
unless:
  - .error
  - title: Oops
`)
	var raw interface{}
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		t.Fatalf("error decoding yaml: %s\n", err)
	}
	spec, err := until.Parse(raw)
	if err != nil {
		t.Fatalf("error parsing yaml spec: %s\n", err)
	}
	all, ok := spec.(until.AllOf)
	if !ok || len(all) != 2 {
		t.Fatalf("expected two AND-ed members got %s\n", spew.Sdump(spec))
	}
	if _, ok := all[0].(until.Not); !ok {
		t.Fatalf("expected unless first in key order got %#v\n", all[0])
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []interface{}{nil, []interface{}{}, map[string]interface{}{}, 42, []interface{}{".a", 3.5}} {
		if _, err := until.Parse(in); !errors.Is(err, selene.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument for %#v got %v\n", in, err)
		}
	}
}
