// terracast is a CLI utility for probing terrascape regions: it builds a
// document over a region definition, casts screen rays against the terrain
// and exports flattened-cache snapshots.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/camera"
	"github.com/Faultbox/terrascape/internal/config"
	"github.com/Faultbox/terrascape/internal/document"
	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/picking"
	"github.com/Faultbox/terrascape/internal/terrain"
)

var (
	flagPixelX      = flag.Float64("px", 640, "Pixel X to cast through")
	flagPixelY      = flag.Float64("py", 360, "Pixel Y to cast through")
	flagCenterX     = flag.Float64("cx", 0, "Camera orbit center X")
	flagCenterY     = flag.Float64("cy", 0, "Camera orbit center Y")
	flagDistance    = flag.Float64("distance", 400, "Camera orbit distance")
	flagHeightIndex = flag.Int("height-index", 10, "Height-table index for the flat base layer (-1 for none)")
	flagOut         = flag.String("out", "cache.tsc", "Output snapshot path for dump")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	switch command {
	case "", "info":
		cmdInfo(cfg)
	case "cast":
		cmdCast(cfg)
	case "dump":
		cmdDump(cfg)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terracast - terrascape region probing utility

Usage:
  terracast [options] <command>

Commands:
  info    Show region information (default)
  cast    Cast a screen ray at the terrain and report the hit
  dump    Export the flattened cache as a compressed snapshot

Examples:
  terracast -region dereth.yaml info
  terracast -region dereth.yaml -px 640 -py 360 -cx 1200 -cy 900 cast
  terracast -region dereth.yaml -height-index 12 -out dereth.tsc dump`)
}

func loadRegion(cfg *config.Config) *terrain.Region {
	if cfg.Region.File == "" {
		return terrain.DefaultRegion()
	}
	region, err := terrain.LoadRegion(cfg.Region.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return region
}

// buildDocument creates a document whose base layer sets every vertex to
// the configured height-table index.
func buildDocument(region *terrain.Region) *document.Document {
	doc := document.New(region, logger.Log)
	base := doc.BaseLayer()

	if *flagHeightIndex >= 0 {
		entry := terrain.EntryFromHeight(uint8(*flagHeightIndex))
		total := region.WidthInVertices() * region.HeightInVertices()
		for idx := 0; idx < total; idx++ {
			if err := doc.SetVertex(base.ID(), idx, &entry); err != nil {
				logger.Fatal("seeding base layer", zap.Int("index", idx), zap.Error(err))
			}
		}
	}
	return doc
}

func cmdInfo(cfg *config.Config) {
	region := loadRegion(cfg)
	offX, offY := region.MapOffset()

	fmt.Printf("Region:     %s\n", region.Name)
	fmt.Printf("Landblocks: %dx%d\n", region.WidthInLandblocks(), region.HeightInLandblocks())
	fmt.Printf("Vertices:   %dx%d\n", region.WidthInVertices(), region.HeightInVertices())
	fmt.Printf("Cell size:  %.1f units, landblock %.1f units\n", region.CellSize(), region.LandblockSize())
	fmt.Printf("Offset:     (%.1f, %.1f)\n", offX, offY)
}

func cmdCast(cfg *config.Config) {
	region := loadRegion(cfg)
	doc := buildDocument(region)

	cam := camera.New()
	cam.Center.X = *flagCenterX
	cam.Center.Y = *flagCenterY
	cam.Distance = *flagDistance

	rc := &picking.Raycaster{
		Info:        region,
		Cache:       doc.CacheSnapshot(),
		MaxDistance: cfg.Picking.MaxDistance,
		MaxSteps:    cfg.Picking.MaxSteps,
	}
	result := rc.CastPixel(*flagPixelX, *flagPixelY,
		float64(cfg.Viewport.Width), float64(cfg.Viewport.Height), cam)

	if !result.Hit {
		logger.Info("no hit",
			zap.Float64("px", *flagPixelX),
			zap.Float64("py", *flagPixelY))
		return
	}
	logger.Info("hit",
		zap.Float64("x", result.HitPosition.X),
		zap.Float64("y", result.HitPosition.Y),
		zap.Float64("z", result.HitPosition.Z),
		zap.Float64("distance", result.Distance),
		zap.Int("landblock_x", result.LandblockX),
		zap.Int("landblock_y", result.LandblockY),
		zap.Uint16("landblock_id", result.LandblockID),
		zap.Int("cell_x", result.CellX),
		zap.Int("cell_y", result.CellY),
		zap.Int("nearest_vertice", result.NearestVertice))
}

func cmdDump(cfg *config.Config) {
	region := loadRegion(cfg)
	doc := buildDocument(region)

	f, err := os.Create(*flagOut)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := doc.ExportCache(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("snapshot written",
		zap.String("path", *flagOut),
		zap.Int("vertices", region.WidthInVertices()*region.HeightInVertices()),
		zap.Uint64("version", doc.Version()))
}
