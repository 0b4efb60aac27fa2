package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/jessevdk/go-flags"

	"github.com/zipcarve/zipcarve/pipeline"
)

const defaultPageSize = 1024

var opts struct {
	OutputDir     string `short:"o" long:"output-dir" description:"directory recovered archives are written to" default:"."`
	Verbose       bool   `short:"v" long:"verbose" description:"emit per-archive diagnostic detail in addition to the summary"`
	NoGapFill     bool   `long:"no-gap-fill" description:"disable the best-effort single-page gap-filling pass"`
	MaxIterations int    `long:"max-iterations" description:"cap on k-means Lloyd iterations" default:"100"`
	Args          struct {
		ImagePath flags.Filename `positional-arg-name:"image-path" description:"the raw image to recover ZIP archives from" required:"yes"`
		PageSize  string         `positional-arg-name:"page-size" description:"fixed page size in bytes the image is divided into (default 1024)"`
	} `positional-args:"yes"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	if _, err := p.Parse(); err != nil {
		exit(err)
		return
	}

	pageSize := int64(defaultPageSize)
	if s := opts.Args.PageSize; s != "" {
		n, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil || n <= 0 {
			exit(fmt.Errorf("invalid page size %q: must be a positive integer", s))
			return
		}
		pageSize = n
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		log.Printf("create output directory: %v", err)
		exit(err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := pipeline.New(pipeline.Options{
		PageSize:      pageSize,
		OutputDir:     opts.OutputDir,
		Verbose:       opts.Verbose,
		NoGapFill:     opts.NoGapFill,
		MaxIterations: opts.MaxIterations,
	})

	if _, err := d.Run(ctx, string(opts.Args.ImagePath)); err != nil {
		log.Printf("recovery run error: %v", err)
		exit(err)
		return
	}

	exit(nil)
}
