package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
)

type CmdDescribe struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("describe",
		"Describe files",
		"Print the kind, reference system, size and extent of vector files",
		&CmdDescribe{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdDescribe) Usage() string {
	return "file..."
}

func (cmd *CmdDescribe) Execute(args []string) error {
	if len(args) == 0 {
		args = []string{cmd.global.cfg.Caches}
	}
	if args[0] == "" {
		return errors.Errorf("no file given, usage: %s", cmd.Usage())
	}

	for _, path := range args {
		c, err := cmd.global.open(path)
		if err != nil {
			return err
		}

		s := c.Describe()
		fmt.Fprintf(os.Stdout, "%s\n  kind:     %s\n  EPSG:     %d\n  features: %d\n  extent:   %v %v\n",
			path, s.Kind, s.EPSG, s.Features, s.Bound.Min, s.Bound.Max)
	}
	return nil
}
