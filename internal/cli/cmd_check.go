package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (a *app) checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate the task file",
		UsageText: "sisyphus [global options] check",
		Description: `Loads the task file and lists every record that would be skipped.
Exits with status 4 when any record is corrupt. The file is never modified.`,
		Action: a.check,
	}
}

func (a *app) check(ctx context.Context, c *cli.Command) error {
	st := a.openStore()
	res, err := st.Load()
	if err != nil {
		return withCode(ExitInternal, err)
	}
	if res.Fresh {
		fmt.Fprintf(a.stdout, "%s: no file found\n", st.Path())
		return nil
	}

	fmt.Fprintf(a.stdout, "%s: %d ok, %d skipped\n", st.Path(), res.Tasks.Len(), len(res.Skipped))
	for _, s := range res.Skipped {
		fmt.Fprintf(a.stdout, "  %s\n", s.Error())
	}
	if len(res.Skipped) > 0 {
		return withCode(ExitCorrupt, fmt.Errorf("%s has %d corrupt record(s)", st.Path(), len(res.Skipped)))
	}
	return nil
}
