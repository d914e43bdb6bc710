package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/attendance-map/internal/dataset"
	"github.com/sells-group/attendance-map/internal/mapview"
	"github.com/sells-group/attendance-map/internal/render"
)

var (
	renderYear     string
	renderDivision string
	renderEvents   string
	renderFormat   string
	renderOut      string
	renderAllYears bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the map headlessly",
	Long: `Builds a map view, applies the division filter and year, replays scripted UI
events and writes the result as SVG or GeoJSON.

Events are comma separated: forward, reverse, slide:N, filter:CODE,
hover:TEAM, unhover:TEAM.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderYear, "year", "", "year to show, e.g. 2014 (default first year)")
	renderCmd.Flags().StringVar(&renderDivision, "division", dataset.AllDivisions, "division filter")
	renderCmd.Flags().StringVar(&renderEvents, "events", "", "comma separated UI events to replay")
	renderCmd.Flags().StringVar(&renderFormat, "format", "", "svg or geojson (default render.format)")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output file, - for stdout (default under render.output_dir)")
	renderCmd.Flags().BoolVar(&renderAllYears, "all-years", false, "write one frame per year")
	rootCmd.AddCommand(renderCmd)
}

// frameOptions describes one rendered frame.
type frameOptions struct {
	Division  string
	YearIndex int
	Steps     []mapview.Step
	Format    string
	Width     int
	Height    int
}

type frame struct {
	Attribute dataset.YearAttribute
	Division  string
	Markers   int
	Data      []byte
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format := renderFormat
	if format == "" {
		format = cfg.Render.Format
	}

	ds, err := loadDataset(ctx)
	if err != nil {
		return err
	}

	base := frameOptions{
		Division: renderDivision,
		Steps:    mapview.ParseScript(renderEvents),
		Format:   format,
		Width:    cfg.Map.Width,
		Height:   cfg.Map.Height,
	}

	if renderAllYears {
		return renderAll(ctx, ds, base, cfg.Render.OutputDir, cfg.Render.Concurrency)
	}

	base.YearIndex, err = yearIndex(ds, renderYear)
	if err != nil {
		return err
	}
	f, err := renderFrame(ds, base)
	if err != nil {
		return err
	}

	if renderOut == "-" {
		_, err := os.Stdout.Write(f.Data)
		return eris.Wrap(err, "render: write stdout")
	}
	path := renderOut
	if path == "" {
		path = framePath(cfg.Render.OutputDir, f.Attribute, f.Division, format)
	}
	return writeFrame(path, f)
}

// renderAll writes one frame per year. Each frame gets its own view over the
// shared dataset.
func renderAll(ctx context.Context, ds *dataset.Dataset, base frameOptions, dir string, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	years := ds.Years()
	zap.L().Info("render: all years",
		zap.Int("years", len(years)),
		zap.Int("concurrency", concurrency),
		zap.String("division", base.Division),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range years {
		i := i
		opts := base
		opts.YearIndex = i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := renderFrame(ds, opts)
			if err != nil {
				return eris.Wrapf(err, "render: frame %s", years[i])
			}
			return writeFrame(framePath(dir, f.Attribute, f.Division, opts.Format), f)
		})
	}
	return g.Wait()
}

func renderFrame(ds *dataset.Dataset, opts frameOptions) (frame, error) {
	canvas := render.NewCanvas()
	v, err := mapview.New(ds, canvas, viewport())
	if err != nil {
		return frame{}, err
	}

	if opts.Division != "" && opts.Division != dataset.AllDivisions {
		if err := v.SelectDivision(opts.Division); err != nil {
			return frame{}, err
		}
	}
	if opts.YearIndex != 0 {
		if err := v.SetYearIndex(opts.YearIndex); err != nil {
			return frame{}, err
		}
	}
	if err := v.Replay(opts.Steps); err != nil {
		return frame{}, err
	}

	var buf bytes.Buffer
	switch opts.Format {
	case "geojson":
		err = canvas.WriteGeoJSON(&buf)
	case "svg", "":
		err = canvas.WriteSVG(&buf, opts.Width, opts.Height)
	default:
		err = eris.Errorf("render: unknown format %q", opts.Format)
	}
	if err != nil {
		return frame{}, err
	}

	return frame{
		Attribute: v.Attribute(),
		Division:  v.Division(),
		Markers:   len(canvas.Markers()),
		Data:      buf.Bytes(),
	}, nil
}

// yearIndex resolves a calendar year like "2014" to its slider index.
func yearIndex(ds *dataset.Dataset, year string) (int, error) {
	if year == "" {
		return 0, nil
	}
	for i, attr := range ds.Years() {
		if attr.Year() == year || attr.String() == year {
			return i, nil
		}
	}
	return 0, eris.Errorf("render: year %q not in dataset", year)
}

func framePath(dir string, attr dataset.YearAttribute, division, format string) string {
	if format == "" {
		format = "svg"
	}
	name := "attendance-" + attr.Year()
	if division != "" && division != dataset.AllDivisions {
		name += "-" + strings.ToLower(strings.ReplaceAll(division, " ", "-"))
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s", name, format))
}

func writeFrame(path string, f frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "render: create %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	zap.L().Info("render: wrote frame",
		zap.String("path", path),
		zap.String("year", f.Attribute.Year()),
		zap.Int("markers", f.Markers),
	)
	return nil
}
