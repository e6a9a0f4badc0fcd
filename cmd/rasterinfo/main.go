// Command rasterinfo prints the structure of a monthly climate raster:
// dimensions, geotransform, no-data sentinel, and the band calendar
// derived from a given start month. Useful for checking that a downloaded
// file matches the configured time span before running an extraction.
//
// Usage:
//
//	go run ./cmd/rasterinfo -raster input/temp_2018_2025.grib -start 2018-01
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/couchcryptid/climate-raster-etl/internal/adapter/gdalio"
	"github.com/couchcryptid/climate-raster-etl/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	rasterPath := flag.String("raster", "", "path to the multi-band raster file")
	start := flag.String("start", "", "month of band 1 as YYYY-MM")
	listBands := flag.Bool("bands", false, "list every band with its month label")
	flag.Parse()

	if *rasterPath == "" || *start == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -raster, -start")
	}

	startMonth, err := domain.ParseMonthKey(*start)
	if err != nil {
		return err
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	stack, err := gdalio.OpenStack(*rasterPath, quiet)
	if err != nil {
		return err
	}

	calendar := domain.NewBandCalendar(startMonth, stack.Bands())
	months := calendar.Months()

	fmt.Printf("raster:    %s\n", *rasterPath)
	fmt.Printf("size:      %d x %d cells\n", stack.Width(), stack.Height())
	fmt.Printf("bands:     %d\n", stack.Bands())
	fmt.Printf("span:      %s through %s\n", months[0], months[len(months)-1])

	gt := stack.Transform()
	fmt.Printf("origin:    (%g, %g)\n", gt[0], gt[3])
	fmt.Printf("cell size: (%g, %g)\n", gt[1], gt[5])
	if gt[2] != 0 || gt[4] != 0 {
		fmt.Printf("rotation:  (%g, %g)\n", gt[2], gt[4])
	}

	if noData, ok := stack.NoData(); ok {
		fmt.Printf("no-data:   %g\n", noData)
	} else {
		fmt.Println("no-data:   not declared")
	}

	if *listBands {
		fmt.Println()
		for band := 1; band <= calendar.Bands(); band++ {
			fmt.Fprintf(os.Stdout, "  band %3d  %s\n", band, calendar.Label(band))
		}
	}

	return nil
}
