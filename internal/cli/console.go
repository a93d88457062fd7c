package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/amirbrooks/sisyphus/internal/command"
	"github.com/amirbrooks/sisyphus/internal/logging"
	"github.com/amirbrooks/sisyphus/internal/store"
)

// console feeds input lines to the dispatcher and prints each reply followed
// by the divider.
type console struct {
	in      io.Reader
	out     io.Writer
	divider string
	theme   theme
	d       *command.Dispatcher
	log     zerolog.Logger
}

func (a *app) runConsole(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 0 {
		return withCode(ExitUsage, fmt.Errorf("unknown command %q. Run 'sisyphus --help' for usage", c.Args().First()))
	}

	st := a.openStore()
	res, err := st.Load()
	if err != nil {
		return withCode(ExitInternal, err)
	}

	session := ulid.Make().String()
	log := logging.Component("console").With().Str("session", session).Logger()
	d := command.New(res.Tasks, st,
		command.WithConfig(command.Config{Divider: a.cfg.Divider, Indent: a.cfg.Indent}),
		command.WithLogger(logging.Component("command").With().Str("session", session).Logger()),
	)

	con := &console{
		in:      a.stdin,
		out:     a.stdout,
		divider: a.cfg.Divider,
		theme:   newTheme(colorEnabled(a.stdout)),
		d:       d,
		log:     log,
	}
	log.Info().Str("data", st.Path()).Int("tasks", res.Tasks.Len()).Msg("session started")
	con.greet(res)

	if err := con.run(ctx); err != nil {
		return withCode(ExitInternal, err)
	}
	log.Info().Msg("session ended")
	return nil
}

func (c *console) greet(res store.LoadResult) {
	if res.Fresh {
		fmt.Fprintln(c.out, "No file found, starting fresh!")
	} else {
		fmt.Fprintln(c.out, loadedLine(res.Tasks.Len()))
	}
	for _, s := range res.Skipped {
		fmt.Fprintln(c.out, c.theme.paint(c.theme.warn, "Skipped "+s.Error()))
	}
	fmt.Fprintln(c.out, c.theme.paint(c.theme.banner, command.Banner()))
	fmt.Fprintln(c.out, c.theme.paint(c.theme.muted, c.divider))
}

func loadedLine(n int) string {
	if n == 1 {
		return "1 task loaded."
	}
	return fmt.Sprintf("%d tasks loaded.", n)
}

// run reads until bye or end of input. Running out of input counts as bye,
// so the list is saved either way.
func (c *console) run(ctx context.Context) error {
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		reply := c.d.Handle(sc.Text())
		c.show(reply)
		if reply.Exit {
			return nil
		}
	}

	err := sc.Err()
	if err != nil {
		c.log.Error().Err(err).Msg("read input")
	} else {
		c.log.Debug().Msg("input closed")
	}
	c.show(c.d.Handle("bye"))
	return err
}

func (c *console) show(r command.Reply) {
	text := r.Text
	if r.Rejected {
		text = c.theme.paint(c.theme.errText, text)
	}
	fmt.Fprintln(c.out, text)
	fmt.Fprintln(c.out, c.theme.paint(c.theme.muted, c.divider))
}
