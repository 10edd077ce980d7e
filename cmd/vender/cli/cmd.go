// Operator console for the vending machine.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/coinvend/cmd/vender/subcmd"
	"github.com/temoto/coinvend/currency"
	"github.com/temoto/coinvend/helpers/cli"
	"github.com/temoto/coinvend/internal/catalog"
	"github.com/temoto/coinvend/internal/machine"
	"github.com/temoto/coinvend/internal/state"
)

const usage = `commands:
- add KIND NAME PRICE [INFO...]  load product, KIND is candy|beverage|food
- money N                        insert one coin or bill
- buy NAME                       purchase product
- show                           list inventory
- credit                         show inserted money
- end                            end transaction, return change
- quit
`

const stopTimeout = 5 * time.Second

var Mod = subcmd.Mod{Name: "cli", Usage: "interactive operator console", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	g.MustInit(ctx, config)

	subcmd.SdNotify(daemon.SdNotifyReady)
	g.Log.Debugf("cli init complete products=%d", g.Machine.Len())

	exec := newExecutor(ctx, os.Stdout)
	stop := func() {
		g.StopWait(stopTimeout)
		g.Shutdown()
	}
	cli.MainLoop("vender", func(line string) {
		if line == "quit" || line == "exit" {
			stop()
			os.Exit(0)
		}
		exec(line)
	}, newCompleter(ctx), stop)
	return nil
}

func newExecutor(ctx context.Context, w io.Writer) func(string) {
	g := state.GetGlobal(ctx)

	return func(line string) {
		if !g.Alive.Add(1) {
			g.Log.Infof("stopping, ignored line=%q", line)
			return
		}
		defer g.Alive.Done()

		if err := execLine(g.Machine, w, line); err != nil {
			fmt.Fprintf(w, "error: %s\n", err.Error())
			g.Log.Debugf("%s", errors.ErrorStack(err))
		}
	}
}

func execLine(m *machine.VendingMachine, w io.Writer, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "help", "?":
		fmt.Fprint(w, usage)

	case "add":
		if len(fields) < 4 {
			return errors.NewNotValid(nil, "usage: add KIND NAME PRICE [INFO...]")
		}
		kind, err := catalog.ParseKind(fields[1])
		if err != nil {
			return err
		}
		price, err := strconv.Atoi(fields[3])
		if err != nil {
			return errors.Annotatef(err, "price=%s", fields[3])
		}
		p, err := catalog.NewProduct(kind, fields[2], strings.Join(fields[4:], " "), price)
		if err != nil {
			return err
		}
		if err = m.InsertProduct(&p); err != nil {
			return err
		}
		fmt.Fprintf(w, "added %s\n", p.String())

	case "money":
		if len(fields) != 2 {
			return errors.NewNotValid(nil, "usage: money N")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			return errors.Annotatef(err, "amount=%s", fields[1])
		}
		if err = m.InsertMoney(amount); err != nil {
			return err
		}
		fmt.Fprintf(w, "credit: %s\n", m.InsertedMoney())

	case "buy":
		if len(fields) < 2 {
			return errors.NewNotValid(nil, "usage: buy NAME")
		}
		p, err := m.Purchase(strings.Join(fields[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(w, p.Use())
		fmt.Fprintf(w, "credit: %s\n", m.InsertedMoney())

	case "show":
		if s := m.ShowAll(); s != "" {
			fmt.Fprint(w, s)
		} else {
			fmt.Fprintln(w, "inventory is empty")
		}

	case "credit":
		fmt.Fprintf(w, "credit: %s\n", m.InsertedMoney())

	case "end":
		fmt.Fprintf(w, "change: %s\n", formatChange(m.EndTransaction()))

	default:
		return errors.Errorf("unknown command=%q, try help", fields[0])
	}
	return nil
}

// formatChange lists nominals descending: 100x2 20x1
func formatChange(change map[currency.Nominal]uint) string {
	if len(change) == 0 {
		return "none"
	}
	ns := make([]currency.Nominal, 0, len(change))
	for n := range change {
		ns = append(ns, n)
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i] > ns[j] })
	parts := make([]string, 0, len(ns))
	for _, n := range ns {
		parts = append(parts, fmt.Sprintf("%dx%d", n, change[n]))
	}
	return strings.Join(parts, " ")
}

var commandSuggests = []prompt.Suggest{
	{Text: "add", Description: "load product"},
	{Text: "buy", Description: "purchase product"},
	{Text: "credit", Description: "show inserted money"},
	{Text: "end", Description: "end transaction, return change"},
	{Text: "help"},
	{Text: "money", Description: "insert coin or bill"},
	{Text: "quit"},
	{Text: "show", Description: "list inventory"},
}

var kindSuggests = []prompt.Suggest{
	{Text: catalog.KindCandy.String()},
	{Text: catalog.KindBeverage.String()},
	{Text: catalog.KindFood.String()},
}

func newCompleter(ctx context.Context) func(d prompt.Document) []prompt.Suggest {
	g := state.GetGlobal(ctx)

	return func(d prompt.Document) []prompt.Suggest {
		return complete(g.Machine, d.TextBeforeCursor(), d.GetWordBeforeCursor())
	}
}

func complete(m *machine.VendingMachine, before, word string) []prompt.Suggest {
	fields := strings.Fields(before)
	// number of finished words before the one being typed
	done := len(fields)
	if word != "" {
		done--
	}

	switch {
	case done == 0:
		return prompt.FilterHasPrefix(commandSuggests, word, true)
	case fields[0] == "add" && done == 1:
		return prompt.FilterHasPrefix(kindSuggests, word, true)
	case fields[0] == "buy" && done == 1:
		return prompt.FilterHasPrefix(productSuggests(m), word, true)
	case fields[0] == "money" && done == 1:
		ns := currency.Denominations()
		suggests := make([]prompt.Suggest, 0, len(ns))
		for _, n := range ns {
			suggests = append(suggests, prompt.Suggest{Text: strconv.Itoa(int(n))})
		}
		return prompt.FilterHasPrefix(suggests, word, true)
	}
	return nil
}

func productSuggests(m *machine.VendingMachine) []prompt.Suggest {
	seen := make(map[string]struct{})
	suggests := make([]prompt.Suggest, 0)
	for _, p := range m.Products() {
		if _, ok := seen[p.Name()]; ok {
			continue
		}
		seen[p.Name()] = struct{}{}
		suggests = append(suggests, prompt.Suggest{
			Text:        p.Name(),
			Description: fmt.Sprintf("%s price=%s", p.Kind(), p.Price()),
		})
	}
	return suggests
}
