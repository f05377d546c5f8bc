package subcmd

import (
	"flag"
	"fmt"

	"github.com/qkepia/muhpixels/cmdmain"
)

func init() {
	cmdmain.RegisterSubCmd("help", func() cmdmain.SubCmd { return new(help) })
}

type help struct{}

// Exec implements cmdmain.SubCmd. With a command name it shows that
// command's flags.
func (h *help) Exec(cmd string, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return nil
	}
	sub, ok := cmdmain.Lookup(args[0])
	if !ok {
		flag.Usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
	return sub.Exec(cmd, []string{"-h"})
}

// Help implements cmdmain.SubCmd.
func (h *help) Help() string {
	return "Print help, or the flags of a command"
}
