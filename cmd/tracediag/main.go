package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"

	"tracediag/config"
	"tracediag/misc"
	"tracediag/render"
	"tracediag/state"
)

const renderHelp = `%s
TRACE:
    path to trace file (YAML or JSON) with executed steps, it may also carry
    program source and flow graph, both could be supplied separately

DESTINATION:
    always a path, output file name is derived from trace file name or
    configured name template, if absent - current working directory

OUTPUT:
    diagram is a single SVG file, step shown is selected by adding "step{N}"
    class to its root element; static images (--preview, --snapshots) are
    written next to it
`

const dumpconfigHelp = `%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition
of default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`

func main() {
	// interrupt stops processing before next diagram is started
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetExeName(),
		Usage:           "renders program execution traces as step by step SVG diagrams",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          setupEnv,
		After:           teardownEnv,
		OnUsageError:    passUsageError,
		ExitErrHandler:  logError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "render",
				Usage:        "Renders trace as animated diagram",
				OnUsageError: passUsageError,
				Action:       render.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "read traced program from `FILE` instead of the trace"},
					&cli.StringFlag{Name: "flow", Aliases: []string{"f"},
						Usage: "use flow diagram from `FILE`: SVG is used as is, DOT (.dot, .gv) is laid out with Graphviz"},
					&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "program `LANGUAGE` (lexer name), overrides trace and configuration"},
					&cli.StringFlag{Name: "source-cp",
						Usage: "decode program source from `ENCODING` (see IANA.org for character set names)"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					&cli.StringFlag{Name: "preview",
						Usage: "write static image of the first step, `TYPE` (supported types: " + strings.Join(config.PreviewFormatNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "snapshots", Usage: "write static SVG image of every step"},
				},
				ArgsUsage:          "TRACE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(renderHelp, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError:       passUsageError,
				Action:             outputConfiguration,
				ArgsUsage:          "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(dumpconfigHelp, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit skips deferred calls, it must stay the last thing main does
	defer func() {
		stop()
		if err != nil {
			// log may be not ready yet (argument parsing) or already closed
			if !errLogged {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
