// cmd/ntpclock/main.go
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:      "ntpclock",
		Usage:     "keep a real-time clock in step with an SNTP server and drive its display",
		ArgsUsage: "[config.yaml]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "ntpclock.yaml",
				Usage:   "path to the YAML config",
				EnvVars: []string{"NTPCLOCK_CONFIG"},
			},
		},
		Action: runCommand,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the clock daemon (default)",
				Action: runCommand,
			},
			{
				Name:   "check",
				Usage:  "query the time server once and read the clock, without writing anything",
				Action: checkCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ntpclock: %v\n", err)
		os.Exit(1)
	}
}

// configPath prefers a positional argument over --config.
func configPath(c *cli.Context) string {
	if c.Args().Present() {
		return c.Args().First()
	}
	return c.String("config")
}
