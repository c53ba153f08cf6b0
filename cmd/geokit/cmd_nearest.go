package main

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/tingold/orb-geokit/crs"
)

type CmdNearest struct {
	global *GlobalOptions

	Lon *float64 `long:"lon" description:"Longitude of the location (defaults to the configured one)"`
	Lat *float64 `long:"lat" description:"Latitude of the location (defaults to the configured one)"`
}

func init() {
	_, err := parser.AddCommand("nearest",
		"Find the closest geocache",
		"Find the geocache closest to a WGS 84 location, measured in World Mercator",
		&CmdNearest{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdNearest) Usage() string {
	return "[file]"
}

func (cmd *CmdNearest) Execute(args []string) error {
	cfg := cmd.global.cfg
	path := cfg.Caches
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.Errorf("no file given, usage: %s", cmd.Usage())
	}

	location, err := cmd.location()
	if err != nil {
		return err
	}

	c, err := cmd.global.open(path)
	if err != nil {
		return err
	}
	if c.EPSG() != crs.WGS84 {
		tr, err := crs.MakeTransform(crs.WGS84, c.EPSG())
		if err != nil {
			return err
		}
		if location, err = tr.Point(location); err != nil {
			return err
		}
	}

	obj, meters, err := c.Nearest(location)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s\nClosest point at: %.0fm\n", obj, meters)
	return nil
}

func (cmd *CmdNearest) location() (orb.Point, error) {
	if cmd.Lon != nil && cmd.Lat != nil {
		return orb.Point{*cmd.Lon, *cmd.Lat}, nil
	}
	if loc := cmd.global.cfg.Location; len(loc) == 2 {
		return orb.Point{loc[0], loc[1]}, nil
	}
	return orb.Point{}, errors.New("no location given, pass --lon and --lat")
}
