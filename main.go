package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gitlab.com/selene/clicmds"
)

func main() {
	clicmds.LoadDotEnv()

	app := cli.NewApp()
	app.Name = "selene"
	app.Version = "0.1"
	app.Usage = "find elements and wait on conditions in a driven browser"
	app.Flags = clicmds.GlobalFlags()
	app.Before = clicmds.Setup
	app.Commands = []*cli.Command{
		{
			Name:    "find",
			Aliases: []string{"f"},
			Usage:   "print the elements matching a selector",
			Action:  clicmds.Find,
			Flags:   clicmds.FindFlags(),
		},
		{
			Name:    "wait",
			Aliases: []string{"w"},
			Usage:   "wait until a condition spec holds",
			Action:  clicmds.Wait,
			Flags:   clicmds.WaitFlags(),
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
