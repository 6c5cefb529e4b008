package rodpage_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
	"gitlab.com/selene/driver/rodpage"
	"gitlab.com/selene/selene"
)

const listPage = `<html><head><title>Results</title></head><body>
<ul id="results"><li class="hit">one</li><li class="hit">two</li></ul>
<a href="/next">Next page</a>
</body></html>`

func launch(t *testing.T) (*rodpage.Launcher, *rodpage.Page) {
	bin, ok := launcher.LookPath()
	if path := os.Getenv("SELENE_CHROME"); path != "" {
		bin, ok = path, true
	}
	if !ok {
		t.Skipf("no browser found")
	}

	l := &rodpage.Launcher{Bin: bin, Headless: true}
	page, err := l.Launch(context.Background())
	if err != nil {
		t.Fatalf("error launching browser: %s\n", err)
	}
	return l, page
}

func TestPageFindElements(t *testing.T) {
	l, page := launch(t)
	defer l.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listPage)
	}))
	defer srv.Close()

	ctx := context.Background()
	if err := page.Navigate(ctx, srv.URL); err != nil {
		t.Fatalf("error navigating %s\n", err)
	}
	if title, err := page.Title(ctx); err != nil || title != "Results" {
		t.Fatalf("expected title Results got %q %v\n", title, err)
	}

	var inputs = []struct {
		by    selene.By
		count int
	}{
		{selene.ByCSS("li.hit"), 2},
		{selene.ByXPath("//li"), 2},
		{selene.ByID("results"), 1},
		{selene.ByLinkText("Next page"), 1},
		{selene.ByCSS(".missing"), 0},
	}
	for _, in := range inputs {
		els, err := page.FindElements(ctx, in.by)
		if err != nil || len(els) != in.count {
			t.Fatalf("expected %d for %s got %d %v\n", in.count, in.by, len(els), err)
		}
	}

	list, err := page.FindElement(ctx, selene.ByID("results"))
	if err != nil {
		t.Fatalf("error finding list: %s\n", err)
	}
	if tag, _ := list.TagName(ctx); tag != "ul" {
		t.Fatalf("expected ul got %s\n", tag)
	}
	if _, err := list.FindElement(ctx, selene.ByCSS("a")); !selene.IsNotFound(err) {
		t.Fatalf("expected not found inside the list got %v\n", err)
	}
	if _, err := page.FindElement(ctx, selene.ByCSS(".missing")); !selene.IsNotFound(err) {
		t.Fatalf("expected not found got %v\n", err)
	}
}
