// Command geokit inspects, filters, measures and converts geocaching
// vector data.
package main

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	geokit "github.com/tingold/orb-geokit"
	"github.com/tingold/orb-geokit/internal/config"
	"github.com/tingold/orb-geokit/internal/logger"
)

type GlobalOptions struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"GEOKIT_CONFIG" description:"Path to configuration file"`

	cfg *config.Config
	log zerolog.Logger
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.Default)

func main() {
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if err := globalOpts.setup(); err != nil {
			return err
		}
		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func (g *GlobalOptions) setup() error {
	g.log = g.Logger.Setup()

	g.cfg = config.Default()
	if g.ConfigFile == "" {
		return nil
	}
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		log.Error().Err(err).Str("path", g.ConfigFile).Msg("Failed to load configuration")
		return err
	}
	g.cfg = cfg
	return nil
}

// open reads a collection, logging through the process logger.
func (g *GlobalOptions) open(path string) (*geokit.Collection, error) {
	c, err := geokit.Open(path, geokit.WithLogger(g.log))
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open file")
		return nil, err
	}
	return c, nil
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// write exports c to path, or to stdout when path is empty.
func (g *GlobalOptions) write(c *geokit.Collection, path, format, layer string) (err error) {
	if path == "" {
		return export(c, os.Stdout, format, layer)
	}
	if format == "geojson" {
		return c.ExportFile(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close output")
		}
	}()

	if err = export(c, f, format, layer); err != nil {
		return err
	}
	g.log.Info().Str("path", path).Str("format", format).Int("features", c.Len()).Msg("File exported")
	return nil
}

func export(c *geokit.Collection, w io.Writer, format, layer string) error {
	if format == "fgb" {
		return c.ExportFlatGeobuf(w, layer)
	}
	return c.Export(w)
}
