package cli

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"shopctl/internal/config"
	"shopctl/internal/util"
)

// Run is the main entry point. Returns the exit code.
func Run(out, errOut io.Writer, args []string) int {
	global := flag.NewFlagSet("shopctl", flag.ContinueOnError)
	global.SetOutput(errOut)
	global.SetInterspersed(false)
	cfgPath := global.String("config", "", "config file path (default shopctl.yaml)")
	logLevel := global.String("log-level", "", "override configured log level")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out)
			return 0
		}
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	rest := global.Args()
	if len(rest) == 0 || rest[0] == "help" {
		printUsage(out)
		return 0
	}

	cmd := lookup(rest[0])
	if cmd == nil {
		fmt.Fprintf(errOut, "error: unknown command %q\n", rest[0])
		printUsage(errOut)
		return 1
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	util.InitLogger(errOut, cfg.LogLevel)

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	return cmd.run(app, out, errOut, rest[1:])
}

func commands() []*Command {
	return []*Command{
		cmdLogin(),
		cmdLogout(),
		cmdWhoami(),
		cmdList(),
		cmdSearch(),
		cmdShow(),
		cmdBuy(),
		cmdCreate(),
		cmdUpdate(),
		cmdDelete(),
		cmdAdjustStock(),
		cmdSetStock(),
		cmdExport(),
	}
}

func lookup(name string) *Command {
	for _, c := range commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: shopctl [--config file] [--log-level level] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands() {
		fmt.Fprintln(w, c.helpLine())
	}
}
