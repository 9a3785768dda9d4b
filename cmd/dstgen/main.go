// cmd/dstgen/main.go
//
// dstgen writes the DST transition table consumed by ntpclock:
// for every year, the last Sunday of March and of October at 00:00 UTC.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tamzrod/ntpclock/internal/dst"
)

func main() {
	app := &cli.App{
		Name:  "dstgen",
		Usage: "generate the DST transition table",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "start", Value: 2023, Usage: "first year in the table"},
			&cli.IntFlag{Name: "count", Value: 50, Usage: "number of years"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
		},
		Action: generate,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dstgen: %v\n", err)
		os.Exit(1)
	}
}

func generate(c *cli.Context) error {
	table, err := dst.Generate(c.Int("start"), c.Int("count"))
	if err != nil {
		return err
	}

	path := c.String("out")
	if path == "" {
		return table.Write(c.App.Writer)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
