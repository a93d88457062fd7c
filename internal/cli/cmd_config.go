package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

func (a *app) configCmd() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "Print the effective configuration",
		UsageText: "sisyphus [global options] config",
		Description: `Shows the values in use after the config file, environment and flags
have been applied.`,
		Action: a.showConfig,
	}
}

func (a *app) showConfig(ctx context.Context, c *cli.Command) error {
	source := a.flags.ConfigPath
	if source == "" {
		source = "(defaults)"
	}
	logFile := a.cfg.Log.File
	if logFile == "" {
		logFile = "(stderr)"
	}

	w := tabwriter.NewWriter(a.stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintf(w, "config_path\t%s\n", source)
	fmt.Fprintf(w, "data_file\t%s\n", a.cfg.DataFile)
	fmt.Fprintf(w, "separator\t%q\n", a.cfg.Separator)
	fmt.Fprintf(w, "divider\t%s\n", a.cfg.Divider)
	fmt.Fprintf(w, "indent\t%q\n", a.cfg.Indent)
	fmt.Fprintf(w, "log.level\t%s\n", a.cfg.Log.Level)
	fmt.Fprintf(w, "log.file\t%s\n", logFile)
	return w.Flush()
}
