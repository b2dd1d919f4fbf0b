// contours builds the region contours of a compact heightfield dump.
//
// The input is a compact heightfield written by DuDumpCompactHeightfield with
// its regions already assigned. The contour set can be written as a binary
// dump (-out), in protobuf wire form (-proto) and as GeoJSON (-geojson).
//
//	contours -in level.chf -config contours.yaml -geojson level.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gorustyt/navcontour/common/message"
	"github.com/gorustyt/navcontour/common/rw"
	"github.com/gorustyt/navcontour/common/xlog"
	"github.com/gorustyt/navcontour/config"
	"github.com/gorustyt/navcontour/debug_utils"
	"github.com/gorustyt/navcontour/recast"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "contours:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("contours", flag.ContinueOnError)
	in := fs.String("in", "", "Compact heightfield dump to read (required)")
	cfgPath := fs.String("config", "", "YAML configuration file")
	out := fs.String("out", "", "Write the contour set as a binary dump")
	protoOut := fs.String("proto", "", "Write the contour set in protobuf wire form")
	geojsonOut := fs.String("geojson", "", "Write the simplified contours as GeoJSON")
	maxError := fs.Float64("max-error", 0, "Override contour.max_simplification_error")
	maxEdgeLen := fs.Int("max-edge-len", 0, "Override contour.max_edge_len")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("-in must be supplied")
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-error":
			cfg.Contour.MaxSimplificationError = *maxError
		case "max-edge-len":
			cfg.Contour.MaxEdgeLen = *maxEdgeLen
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := xlog.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	chf, err := debug_utils.DuReadCompactHeightfield(rw.NewReader(data))
	if err != nil {
		return fmt.Errorf("%v: %w", *in, err)
	}
	logger.Info("read compact heightfield",
		zap.String("file", *in),
		zap.Int("width", chf.Width),
		zap.Int("height", chf.Height),
		zap.Int("spans", chf.SpanCount),
		zap.Int("regions", chf.MaxRegions))

	ctx := recast.NewBuildContext(logger)
	start := time.Now()
	cset, err := recast.RcBuildContours(ctx, chf, cfg.Contour.MaxSimplificationError, cfg.Contour.MaxEdgeLen, cfg.Contour.BuildFlags())
	total := time.Since(start)
	if err != nil {
		return err
	}
	debug_utils.DuLogBuildTimes(logger, ctx, total)

	nverts, nrverts := cset.NumVerts()
	logger.Info("built contours",
		zap.Int("contours", len(cset.Conts)),
		zap.Int("verts", nverts),
		zap.Int("rverts", nrverts),
		zap.Int("warnings", len(ctx.Warnings())))

	if *out != "" {
		w := rw.NewWriter()
		if err := debug_utils.DuDumpContourSet(cset, w); err != nil {
			return err
		}
		if err := os.WriteFile(*out, w.Bytes(), 0o644); err != nil {
			return err
		}
	}
	if *protoOut != "" {
		if err := os.WriteFile(*protoOut, message.EncodeContourSet(cset), 0o644); err != nil {
			return err
		}
	}
	if *geojsonOut != "" {
		f, err := os.Create(*geojsonOut)
		if err != nil {
			return err
		}
		if err := debug_utils.DuWriteContourSetGeoJSON(cset, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
