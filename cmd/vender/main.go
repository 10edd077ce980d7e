package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/coinvend/cmd/vender/cli"
	"github.com/temoto/coinvend/cmd/vender/show"
	"github.com/temoto/coinvend/cmd/vender/subcmd"
	"github.com/temoto/coinvend/internal/state"
	state_new "github.com/temoto/coinvend/internal/state/new"
	"github.com/temoto/coinvend/internal/tele"
	"github.com/temoto/coinvend/log2"
)

var log = log2.NewStderr(log2.LInfo)

var modules = []subcmd.Mod{
	cli.Mod,
	show.Mod,
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagConfig := cmdline.String("config", "vender.hcl", "")
	cmdline.Usage = func() {
		fmt.Fprintf(cmdline.Output(), "Usage: %s [option...] command\n\nOptions:\n", os.Args[0])
		cmdline.PrintDefaults()
		fmt.Fprintf(cmdline.Output(), "\nCommands:\n")
		for _, m := range modules {
			fmt.Fprintf(cmdline.Output(), "  %-8s%s\n", m.Name, m.Usage)
		}
	}
	err := cmdline.Parse(os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	} else if err != nil {
		log.Fatal(err)
	}

	mod, err := subcmd.Parse(strings.Join(cmdline.Args(), " "), modules)
	if err != nil {
		cmdline.Usage()
		log.Fatal(err)
	}

	if subcmd.SdNotify("start") {
		// under systemd assume systemd journal logging, no timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Debugf("starting command=%s", mod.Name)

	ctx, g := state_new.NewContext(log, tele.New())
	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)

	if err := mod.Main(ctx, config); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	g.Stop()
	g.Alive.Wait()
	g.Shutdown()
}
