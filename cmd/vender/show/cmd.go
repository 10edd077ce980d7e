// Print inventory loaded from config and exit.
package show

import (
	"context"
	"fmt"
	"os"

	"github.com/temoto/coinvend/cmd/vender/subcmd"
	"github.com/temoto/coinvend/internal/state"
)

var Mod = subcmd.Mod{Name: "show", Usage: "print configured inventory", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	if err := g.Init(ctx, config); err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, g.Machine.ShowAll())
	g.Log.Infof("products=%d", g.Machine.Len())
	return nil
}
