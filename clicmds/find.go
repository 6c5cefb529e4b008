package clicmds

import (
	"fmt"
	"regexp"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"gitlab.com/selene/fluent"
	"gitlab.com/selene/query"
)

// FindFlags for the find command
func FindFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "url",
			Usage:    "page to load, relative to base_url when one is configured",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "selector",
			Aliases:  []string{"s"},
			Usage:    "css selector, or xpath starting with / or ./",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "visible",
			Usage: "only visible elements",
		},
		&cli.StringFlag{
			Name:  "text",
			Usage: "only elements whose text contains this, or matches it when written /re/",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "keep looking this long, 0 to look once",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "print every match instead of the first",
		},
	}
}

// Find prints the elements matching --selector
func Find(c *cli.Context) error {
	filter, err := findFilter(c)
	if err != nil {
		return err
	}

	r, err := start(c)
	if err != nil {
		return err
	}
	defer r.close()

	var els []*fluent.Element
	if c.Bool("all") {
		els, err = r.browser.FindAll(r.ctx, c.String("selector"), filter, c.Duration("timeout"))
	} else {
		var el *fluent.Element
		el, err = r.browser.Find(r.ctx, c.String("selector"), filter, c.Duration("timeout"))
		els = []*fluent.Element{el}
	}
	if err != nil {
		return err
	}

	for i, el := range els {
		tag, _ := el.TagName(r.ctx)
		text, _ := el.Text(r.ctx)
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%q\n", i, tag, text)
		if c.Bool("dump") {
			spew.Fdump(c.App.Writer, el.Unwrap())
		}
	}
	return nil
}

func findFilter(c *cli.Context) (query.FilterSpec, error) {
	filter := query.FilterSpec{}
	if c.Bool("visible") {
		filter["visible"] = true
	}
	if text := c.String("text"); text != "" {
		if len(text) > 1 && text[0] == '/' && text[len(text)-1] == '/' {
			re, err := regexp.Compile(text[1 : len(text)-1])
			if err != nil {
				return nil, err
			}
			filter["text"] = re
		} else {
			filter["text"] = text
		}
	}
	return filter, nil
}
