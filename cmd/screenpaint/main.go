package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"screenpaint/pkg/images"
	"screenpaint/pkg/render"
	"screenpaint/pkg/scene"
	"screenpaint/pkg/text"
	"screenpaint/pkg/visualtest"
)

var errMismatch = errors.New("output differs from reference")

type config struct {
	scene     string
	output    string
	expect    string
	scale     float64
	tolerance int
	verbose   bool
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	fs := flag.NewFlagSet("screenpaint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c config
	fs.StringVar(&c.output, "o", "output.png", "output PNG file path")
	fs.StringVar(&c.expect, "expect", "", "reference PNG the output must match")
	fs.Float64Var(&c.scale, "scale", 0, "device pixels per CSS pixel, overriding the scene")
	fs.IntVar(&c.tolerance, "tolerance", visualtest.DefaultTolerance, "per channel tolerance for -expect")
	fs.BoolVar(&c.verbose, "v", false, "log render decisions to stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: screenpaint [flags] <scene.yaml>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return config{}, flag.ErrHelp
	}
	c.scene = fs.Arg(0)
	return c, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	c, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	render.SetLogger(logger.With("pkg", "render"))
	scene.SetLogger(logger.With("pkg", "scene"))
	images.SetLogger(logger.With("pkg", "images"))
	text.SetLogger(logger.With("pkg", "text"))

	doc, err := scene.Load(c.scene)
	if err != nil {
		return err
	}
	root, opts, err := doc.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", c.scene, err)
	}
	if c.scale > 0 {
		opts.Scale = c.scale
	}

	img, err := render.Render(ctx, root, opts)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", c.scene, err)
	}
	if err := visualtest.SavePNG(img, c.output); err != nil {
		return fmt.Errorf("saving %s: %w", c.output, err)
	}
	logger.Info("rendered", "scene", c.scene, "output", c.output,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if c.expect == "" {
		return nil
	}
	want, err := visualtest.LoadPNG(c.expect)
	if err != nil {
		return fmt.Errorf("loading reference: %w", err)
	}
	diff, err := visualtest.Compare(img, want, c.tolerance)
	if err != nil {
		return fmt.Errorf("%w: %w", errMismatch, err)
	}
	if !diff.Match() {
		return fmt.Errorf("%w: %s", errMismatch, diff)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		fmt.Fprintf(os.Stderr, "screenpaint: %v\n", err)
		if errors.Is(err, errMismatch) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}
