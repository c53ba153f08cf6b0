package main

import (
	"github.com/pkg/errors"

	geokit "github.com/tingold/orb-geokit"
)

type CmdFilter struct {
	global *GlobalOptions

	Boundaries string `short:"b" long:"boundaries" description:"Boundary file (defaults to the configured one)"`
	Name       string `short:"n" long:"name"       description:"Keep items within the boundary with this name"`
	Attribute  string `short:"a" long:"attribute"  description:"Keep items whose attribute equals --value"`
	Value      string `short:"v" long:"value"      description:"Attribute value to match"`
	Output     string `short:"o" long:"output"     description:"Output file (defaults to stdout)"`
	Format     string `short:"f" long:"format"     description:"Output format" choice:"geojson" choice:"fgb" default:"geojson"`
}

func init() {
	_, err := parser.AddCommand("filter",
		"Filter a collection",
		"Filter a collection by attribute value and by containment in a named boundary",
		&CmdFilter{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdFilter) Usage() string {
	return "[file]"
}

func (cmd *CmdFilter) Execute(args []string) error {
	cfg := cmd.global.cfg
	path := cfg.Caches
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return errors.Errorf("no file given, usage: %s", cmd.Usage())
	}
	if cmd.Attribute == "" && cmd.Name == "" {
		return errors.New("nothing to filter by, pass --attribute or --name")
	}

	c, err := cmd.global.open(path)
	if err != nil {
		return err
	}
	if c.EPSG() != cfg.EPSG {
		if c, err = c.Reproject(cfg.EPSG); err != nil {
			return err
		}
	}

	if cmd.Attribute != "" {
		if c, err = c.FilterByAttribute(cmd.Attribute, cmd.Value); err != nil {
			return err
		}
	}

	if cmd.Name != "" {
		boundary, err := cmd.boundary(cmd.Name, cfg.EPSG)
		if err != nil {
			return err
		}
		if c, err = c.WithinBoundary(boundary); err != nil {
			return err
		}
	}

	cmd.global.log.Info().
		Str("path", path).
		Int("matches", c.Len()).
		Msg("Filter finished")
	return cmd.global.write(c, pick(cmd.Output, cfg.Output), cmd.Format, "filtered")
}

// boundary looks name up in the boundary file, in the epsg reference.
func (cmd *CmdFilter) boundary(name string, epsg int) (*geokit.Boundary, error) {
	path := pick(cmd.Boundaries, cmd.global.cfg.Boundaries)
	if path == "" {
		return nil, errors.New("no boundary file given, pass --boundaries")
	}

	boundaries, err := cmd.global.open(path)
	if err != nil {
		return nil, err
	}
	if boundaries.Kind() != geokit.KindBoundary {
		return nil, &geokit.VariantMismatchError{Left: boundaries.Kind(), Right: geokit.KindBoundary}
	}

	obj, err := boundaries.GetByName(name)
	if err != nil {
		return nil, err
	}
	if obj.EPSG() != epsg {
		if obj, err = geokit.Reproject(obj, epsg); err != nil {
			return nil, err
		}
	}
	return obj.(*geokit.Boundary), nil
}
