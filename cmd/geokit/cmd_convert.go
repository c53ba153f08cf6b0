package main

import (
	"github.com/pkg/errors"
)

type CmdConvert struct {
	global *GlobalOptions

	EPSG   int    `short:"e" long:"epsg"   description:"Target EPSG code (keeps the source reference when unset)"`
	Output string `short:"o" long:"output" description:"Output file (defaults to stdout)"`
	Format string `short:"f" long:"format" description:"Output format" choice:"geojson" choice:"fgb" default:"geojson"`
	Layer  string `short:"l" long:"layer"  description:"FlatGeobuf layer name (defaults to the configured one)"`
}

func init() {
	_, err := parser.AddCommand("convert",
		"Convert a file",
		"Reproject a vector file and write it as GeoJSON or FlatGeobuf",
		&CmdConvert{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdConvert) Usage() string {
	return "file"
}

func (cmd *CmdConvert) Execute(args []string) error {
	if len(args) != 1 {
		return errors.Errorf("expected one file, usage: %s", cmd.Usage())
	}

	c, err := cmd.global.open(args[0])
	if err != nil {
		return err
	}
	if cmd.EPSG != 0 && cmd.EPSG != c.EPSG() {
		if c, err = c.Reproject(cmd.EPSG); err != nil {
			return err
		}
	}

	layer := pick(cmd.Layer, cmd.global.cfg.Server.Layer)
	return cmd.global.write(c, pick(cmd.Output, cmd.global.cfg.Output), cmd.Format, layer)
}
