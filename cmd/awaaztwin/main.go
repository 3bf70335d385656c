// AwaazTwin portal: documentation, connectivity checks and practice sessions for a
// voice-cloning TTS stack.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mukundajmera/AwaazTwin/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet(version.Name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, rest := "serve", fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "serve":
		return runServe(ctx, out)
	case "mcp":
		return runMCP(ctx)
	case "migrate":
		return runMigrate(ctx, rest, out)
	case "version":
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", command) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

func printHelp(out io.Writer) {
	helpText := `AwaazTwin - voice cloning and TTS learning portal

Usage:
  awaaztwin [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve            Start the HTTP server (default)
  mcp              Serve the connectivity tools over MCP on stdin/stdout
  migrate [up]     Apply pending database migrations
  migrate status   Show the schema version and pending migrations
  version          Show version information

Configuration is read from ./awaaztwin.yaml (or $AWAAZTWIN_CONFIG) and
AWAAZTWIN_* environment variables.

Examples:
  awaaztwin --version
  AWAAZTWIN_SERVER_PORT=8080 awaaztwin serve
  awaaztwin migrate status`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
