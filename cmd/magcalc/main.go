package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"

	"github.com/alitto/pond"
	"github.com/urfave/cli/v2"

	magnitude "github.com/sixy6e/go-magnitude"
	"github.com/sixy6e/go-magnitude/encode"
	"github.com/sixy6e/go-magnitude/geo"
	"github.com/sixy6e/go-magnitude/magobj"
	"github.com/sixy6e/go-magnitude/search"
	"github.com/sixy6e/go-magnitude/tltable"
)

// eventInput is the on-disk JSON shape a single event's amplitude
// measurements are read from, grounded on the Origin/Amplitude/Assoc
// relations magobj.Build consumes.
type eventInput struct {
	Origin    magobj.Origin      `json:"origin"`
	MagTypes  []string           `json:"mag_types"`
	DetAmps   []magobj.Amplitude `json:"det_amps"`
	EvAmps    []magobj.Amplitude `json:"ev_amps"`
	Assocs    []magobj.Assoc     `json:"assocs"`
	Parrivals []magobj.Parrival  `json:"parrivals"`
}

// result is the JSON shape calculate writes out alongside its input
// event file.
type result struct {
	Origin  magobj.Origin            `json:"origin"`
	Update  magnitude.OriginUpdate   `json:"origin_update"`
	Objects []magobj.MagnitudeObject `json:"magnitude_objects"`
}

// calculate runs the full setup-build-calculate pipeline for a single
// event JSON file against an MDF/TLSF pair, grounded on cmd/main.go's
// convert_gsf (single-file) command.
func calculate(eventURI, mdfURI, tlsfURI, outdirURI string) error {
	dir, file := filepath.Split(eventURI)
	if outdirURI == "" {
		outdirURI = dir
	}

	log.Println("Reading event:", eventURI)
	raw, err := os.ReadFile(eventURI)
	if err != nil {
		return err
	}
	var ev eventInput
	if err := json.Unmarshal(raw, &ev); err != nil {
		return err
	}

	log.Println("Loading MDF + TLSF")
	magCtx, err := magnitude.Setup(mdfURI, tlsfURI, ev.MagTypes, geo.MeeusDistance{}, tltable.DefaultInterpolator{}, magnitude.NewParams())
	if err != nil {
		return err
	}

	log.Println("Building magnitude objects")
	objs := magobj.Build(ev.MagTypes, magCtx.MDF, magCtx.TL, magCtx.Dist, ev.Origin, nil, nil, ev.DetAmps, ev.EvAmps, ev.Assocs, ev.Parrivals)

	log.Println("Computing magnitudes")
	objs, update := magCtx.Calculate(objs, ev.Origin)

	jsn, err := encode.JSONIndentDumps(result{ev.Origin, update, objs})
	if err != nil {
		return err
	}

	outURI := filepath.Join(outdirURI, file+"-magnitudes.json")
	log.Println("Writing result:", outURI)
	if _, err := encode.WriteJSON(outURI, "", jsn); err != nil {
		return err
	}

	log.Println("Finished event:", eventURI)
	return nil
}

// calculateBatch runs calculate over every *.json event file found
// (recursively, via TileDB VFS) under uri, spreading the work across a
// fixed worker pool, grounded on cmd/main.go's convert_gsf_list and its
// pond.New(2*NumCPU) sizing.
func calculateBatch(uri, mdfURI, tlsfURI, outdirURI, configURI string) error {
	log.Println("Searching uri:", uri)
	eventFiles := search.FindPattern(uri, configURI, "*.json")
	log.Println("Number of events to process:", len(eventFiles))

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := runtime.NumCPU() * 2
	pool := pond.New(n, 0, pond.MinWorkers(n), pond.Context(stopCtx))
	defer pool.StopAndWait()

	for _, name := range eventFiles {
		eventURI := name
		pool.Submit(func() {
			if err := calculate(eventURI, mdfURI, tlsfURI, outdirURI); err != nil {
				log.Println("error processing", eventURI, ":", err)
			}
		})
	}

	return nil
}

func main() {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name: "calculate",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "event-uri", Usage: "Local pathname to an event JSON file."},
					&cli.StringFlag{Name: "mdf-uri", Usage: "Local pathname to a magnitude-descriptor file."},
					&cli.StringFlag{Name: "tlsf-uri", Usage: "Local pathname to a TL specification file."},
					&cli.StringFlag{Name: "outdir-uri", Usage: "URI or pathname to an output directory."},
				},
				Action: func(cCtx *cli.Context) error {
					return calculate(cCtx.String("event-uri"), cCtx.String("mdf-uri"), cCtx.String("tlsf-uri"), cCtx.String("outdir-uri"))
				},
			},
			{
				Name: "calculate-batch",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Usage: "URI or pathname to a directory containing event JSON files."},
					&cli.StringFlag{Name: "mdf-uri", Usage: "Local pathname to a magnitude-descriptor file."},
					&cli.StringFlag{Name: "tlsf-uri", Usage: "Local pathname to a TL specification file."},
					&cli.StringFlag{Name: "outdir-uri", Usage: "URI or pathname to an output directory."},
					&cli.StringFlag{Name: "config-uri", Usage: "URI or pathname to a TileDB config file."},
				},
				Action: func(cCtx *cli.Context) error {
					return calculateBatch(cCtx.String("uri"), cCtx.String("mdf-uri"), cCtx.String("tlsf-uri"), cCtx.String("outdir-uri"), cCtx.String("config-uri"))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
