package clicmds

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
	"gitlab.com/selene/fluent"
	"gitlab.com/selene/selene"
)

// WaitFlags for the wait command
func WaitFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "url",
			Usage:    "page to load, relative to base_url when one is configured",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "spec",
			Usage: "condition spec file (.yaml, .yml, .json or .toml)",
		},
		&cli.StringFlag{
			Name:  "cond",
			Usage: `inline JSON condition spec, e.g. '{"url": "/done", "unless": ".error"}'`,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "how long to wait, 0 for the configured default",
		},
		&cli.StringFlag{
			Name:  "message",
			Usage: "message reported on timeout",
		},
		&cli.BoolFlag{
			Name:  "reload",
			Usage: "refresh the page between checks",
		},
	}
}

// Wait blocks until the condition spec holds
func Wait(c *cli.Context) error {
	spec, err := waitSpec(c)
	if err != nil {
		return err
	}

	r, err := start(c)
	if err != nil {
		return err
	}
	defer r.close()

	cond, err := r.browser.CreateCondition(spec)
	if err != nil {
		return err
	}

	var v interface{}
	if c.Bool("reload") {
		v, err = r.browser.ReloadUntil(r.ctx, spec, c.Duration("timeout"), c.String("message"))
	} else {
		v, err = r.browser.Wait(r.ctx, spec, c.Duration("timeout"), c.String("message"))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "satisfied %s\n", cond.Description)
	if el, ok := v.(*fluent.Element); ok {
		tag, _ := el.TagName(r.ctx)
		text, _ := el.Text(r.ctx)
		fmt.Fprintf(c.App.Writer, "%s\t%q\n", tag, text)
	}
	if c.Bool("dump") {
		spew.Fdump(c.App.Writer, v)
	}
	return nil
}

func waitSpec(c *cli.Context) (interface{}, error) {
	switch {
	case c.String("spec") != "" && c.String("cond") != "":
		return nil, selene.Errorf(selene.ErrInvalidArgument, "use one of --spec and --cond")
	case c.String("spec") != "":
		return LoadSpec(c.String("spec"))
	case c.String("cond") != "":
		var spec interface{}
		if err := json.Unmarshal([]byte(c.String("cond")), &spec); err != nil {
			return nil, selene.Errorf(selene.ErrInvalidArgument, "--cond: %s", err)
		}
		return spec, nil
	}
	return nil, selene.Errorf(selene.ErrInvalidArgument, "one of --spec and --cond is required")
}
