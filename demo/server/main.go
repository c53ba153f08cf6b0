package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	geokit "github.com/tingold/orb-geokit"
	"github.com/tingold/orb-geokit/internal/config"
	"github.com/tingold/orb-geokit/internal/logger"
	"github.com/tingold/orb-geokit/source"
)

type Cache struct {
	Code      string
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	Status    string
}

var caches = []Cache{
	{"GC1TKY", "Shinjuku Gyoen", "Japan", 35.6852, 139.7100, "Available"},
	{"GC2NYC", "Bryant Park Micro", "United States", 40.7536, -73.9832, "Available"},
	{"GC3LON", "Thames Path", "United Kingdom", 51.5074, -0.1276, "Available"},
	{"GC4PAR", "Jardin du Luxembourg", "France", 48.8462, 2.3372, "Unavailable"},
	{"GC5BER", "Tiergarten", "Germany", 52.5145, 13.3501, "Available"},
	{"GC6SAO", "Ibirapuera", "Brazil", -23.5874, -46.6576, "Available"},
	{"GC7SYD", "Harbour Bridge", "Australia", -33.8523, 151.2108, "Unavailable"},
	{"GC8CAI", "Al-Azhar Park", "Egypt", 30.0406, 31.2640, "Available"},
	{"GC9BUE", "Bosques de Palermo", "Argentina", -34.5711, -58.4165, "Available"},
	{"GCAMUM", "Marine Drive", "India", 18.9440, 72.8237, "Available"},
	{"GCBVT", "Lake Champlain Shore", "United States", 43.0, -73.0, "Available"},
}

// newCollection builds the demo collection from records shaped like the
// file readers' output: points as [lat, lon].
func newCollection(log zerolog.Logger) (*geokit.Collection, error) {
	features := make([]source.Feature, len(caches))
	for i, c := range caches {
		features[i] = source.Feature{
			Type:     "Feature",
			Geometry: source.Geometry{Type: "Point", Coordinates: []float64{c.Latitude, c.Longitude}},
			Properties: geojson.Properties{
				"code":    c.Code,
				"name":    c.Name,
				"country": c.Country,
				"status":  c.Status,
			},
		}
	}

	collection := geokit.NewPointCollection(geokit.WithLogger(log))
	if err := collection.Parse(features); err != nil {
		return nil, err
	}
	return collection, nil
}

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"GEOKIT_CONFIG" description:"Path to configuration file"`
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	opts.Logger.Setup()

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
	}

	collection, err := newCollection(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build collection")
	}
	collection.Describe()

	var fgb bytes.Buffer
	if err := collection.ExportFlatGeobuf(&fgb, cfg.Server.Layer); err != nil {
		log.Fatal().Err(err).Msg("Failed to create FlatGeobuf")
	}
	flatgeobufData := fgb.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("/data.fgb", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Write(flatgeobufData)
	})
	mux.HandleFunc("/data.geojson", func(w http.ResponseWriter, r *http.Request) {
		c := collection
		if status := r.URL.Query().Get("status"); status != "" {
			filtered, err := collection.FilterByAttribute("status", status)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			c = filtered
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := c.Export(w); err != nil {
			log.Error().Err(err).Msg("Failed to write GeoJSON")
		}
	})
	mux.HandleFunc("/nearest", func(w http.ResponseWriter, r *http.Request) {
		lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		if errLon != nil || errLat != nil {
			http.Error(w, "lon and lat are required", http.StatusBadRequest)
			return
		}

		obj, meters, err := collection.Nearest(orb.Point{lon, lat})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f := obj.FeatureRecord()
		f.Properties["distance_m"] = meters
		w.Header().Set("Content-Type", "application/geo+json")
		json.NewEncoder(w).Encode(f)
	})

	log.Info().Str("listen", cfg.Server.Listen).Msg("Server starting")
	log.Fatal().Err(http.ListenAndServe(cfg.Server.Listen, requestLogger(mux))).Msg("Server stopped")
}

// requestLogger logs every request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Msg("Request processed")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
