package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"

	geokit "github.com/tingold/orb-geokit"
	"github.com/tingold/orb-geokit/units"
)

type CmdLengths struct {
	global *GlobalOptions

	Unit string `short:"u" long:"unit" description:"Length unit (mi, km, m)"`
}

type CmdAreas struct {
	global *GlobalOptions

	Unit string `short:"u" long:"unit" description:"Area unit (sqmi, km2, m2)"`
	Sort bool   `short:"s" long:"sort" description:"Rank boundaries by geodesic area, biggest first"`
	Top  int    `short:"n" long:"top"  description:"Print only the first N boundaries (0 prints all)"`
}

// areaRow is one line of the areas table.
type areaRow struct {
	name     string
	planar   float64
	geodesic float64
}

func init() {
	_, err := parser.AddCommand("lengths",
		"Measure linestrings",
		"Print the World Mercator and geodesic length of every linestring",
		&CmdLengths{global: &globalOpts})
	if err != nil {
		panic(err)
	}

	_, err = parser.AddCommand("areas",
		"Measure boundaries",
		"Print the World Mercator and geodesic area of every boundary",
		&CmdAreas{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd *CmdLengths) Usage() string {
	return "file"
}

func (cmd *CmdLengths) Execute(args []string) error {
	if len(args) != 1 {
		return errors.Errorf("expected one file, usage: %s", cmd.Usage())
	}
	unit, err := units.ParseLengthUnit(pick(cmd.Unit, cmd.global.cfg.Units.Length))
	if err != nil {
		return err
	}

	c, err := cmd.global.open(args[0])
	if err != nil {
		return err
	}
	if c.Kind() != geokit.KindLineString {
		return &geokit.VariantMismatchError{Left: c.Kind(), Right: geokit.KindLineString}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tMERCATOR (%s)\tGEODESIC (%s)\n", unit, unit)
	for _, item := range c.Items() {
		line := item.(*geokit.LineString)
		planar, err := line.Length(unit)
		if err != nil {
			return err
		}
		geodesic, err := line.GeodesicLength(unit)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%v\t%v\n", displayName(item), planar, geodesic)
	}
	return w.Flush()
}

func (cmd *CmdAreas) Usage() string {
	return "file"
}

func (cmd *CmdAreas) Execute(args []string) error {
	if len(args) != 1 {
		return errors.Errorf("expected one file, usage: %s", cmd.Usage())
	}
	unit, err := units.ParseAreaUnit(pick(cmd.Unit, cmd.global.cfg.Units.Area))
	if err != nil {
		return err
	}

	c, err := cmd.global.open(args[0])
	if err != nil {
		return err
	}
	if c.Kind() != geokit.KindBoundary {
		return &geokit.VariantMismatchError{Left: c.Kind(), Right: geokit.KindBoundary}
	}

	rows := make([]areaRow, 0, c.Len())
	for _, item := range c.Items() {
		b := item.(*geokit.Boundary)
		planar, err := b.Area(unit)
		if err != nil {
			return err
		}
		geodesic, err := b.GeodesicArea(unit)
		if err != nil {
			return err
		}
		rows = append(rows, areaRow{name: displayName(item), planar: planar, geodesic: geodesic})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tMERCATOR (%s)\tGEODESIC (%s)\n", unit, unit)
	for _, row := range rankAreas(rows, cmd.Sort, cmd.Top) {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", row.name, row.planar, row.geodesic)
	}
	return w.Flush()
}

// rankAreas orders rows by geodesic area, biggest first, when byArea is set
// and keeps the first top rows when top is positive. Ties keep file order.
func rankAreas(rows []areaRow, byArea bool, top int) []areaRow {
	if byArea {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].geodesic > rows[j].geodesic })
	}
	if top > 0 && top < len(rows) {
		rows = rows[:top]
	}
	return rows
}

func displayName(o geokit.Object) string {
	v, err := o.Attribute("name")
	if err != nil || v == nil {
		return "Unnamed"
	}
	return fmt.Sprint(v)
}
