// Package main is the fillvolume command.
package main

import (
	"os"

	"go.viam.com/fillvolume/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		cli.Errorf(app.ErrWriter, "%v", err)
	}
}
