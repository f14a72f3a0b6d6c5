package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	sceneName        string
	outputPath       string
	dumpJSON         string
	scenesDir        string
	maxDepth         int
	numWorkers       int
	tileSize         int
	noReflections    bool
	unboundedShadows bool
	quiet            bool
	stamp            bool
	list             bool
}

func parseFlags(args []string, out io.Writer) (options, error) {
	defaults := renderer.DefaultRenderConfig()
	var opts options

	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&opts.sceneName, "scene", "", "Scene file (.txt or .json) or built-in scene name ('default', 'spheregrid')")
	fs.StringVar(&opts.outputPath, "output", "", "Output image (.ppm, .png, .jpg); defaults to the scene's OUTPUT")
	fs.StringVar(&opts.dumpJSON, "dump-json", "", "Write the loaded scene as JSON to this file and exit")
	fs.StringVar(&opts.scenesDir, "scenes-dir", "scenes", "Directory searched by -list")
	fs.IntVar(&opts.maxDepth, "max-depth", defaults.MaxDepth, "Maximum reflection depth")
	fs.IntVar(&opts.numWorkers, "workers", defaults.NumWorkers, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&opts.tileSize, "tile-size", defaults.TileSize, "Tile size in pixels")
	fs.BoolVar(&opts.noReflections, "no-reflections", false, "Compute but do not composite reflections")
	fs.BoolVar(&opts.unboundedShadows, "unbounded-shadows", false, "Let occluders beyond a light cast shadows")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress output")
	fs.BoolVar(&opts.stamp, "stamp", false, "Stamp render statistics onto the output image")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.Usage = func() {
		fmt.Fprintln(out, "Phong Raytracer")
		fmt.Fprintln(out, "Usage: raytracer [options] [scene-file]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.sceneName == "" && fs.NArg() > 0 {
		opts.sceneName = fs.Arg(0)
	}
	return opts, nil
}

// renderConfig builds the raytracer configuration from the command line
func (o options) renderConfig() renderer.RenderConfig {
	config := renderer.DefaultRenderConfig()
	config.MaxDepth = o.maxDepth
	config.NumWorkers = o.numWorkers
	config.TileSize = o.tileSize
	config.Reflections = !o.noReflections
	config.BoundedShadows = !o.unboundedShadows
	return config
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	if opts.list {
		return listScenes(out, opts.scenesDir)
	}

	selectedScene, err := createScene(opts.sceneName)
	if err != nil {
		return err
	}

	if opts.dumpJSON != "" {
		return dumpSceneJSON(opts.dumpJSON, selectedScene)
	}

	outputPath := resolveOutputPath(opts.outputPath, selectedScene, opts.sceneName)
	if _, err := loaders.WriterForPath(outputPath); err != nil {
		return err
	}

	var logger core.Logger = renderer.NewDefaultLogger()
	if opts.quiet {
		logger = renderer.NopLogger{}
	}

	raytracer := renderer.NewRaytracer(selectedScene, opts.renderConfig(), logger)
	fb, stats, err := raytracer.Render(ctx)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if opts.stamp {
		fb = loaders.Annotate(fb, statsCaption(selectedScene, stats))
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if err := loaders.WriteImage(outputPath, fb); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", outputPath)
	return nil
}

// createScene returns a built-in scene by name or loads a scene file
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given: pass -scene <file> or a built-in name")
	}

	if s, err := scene.NewBuiltinScene(name); err == nil {
		return s, nil
	}

	if _, err := os.Stat(name); err != nil {
		return nil, fmt.Errorf("unknown scene %q: not a built-in scene or readable file", name)
	}
	return loaders.LoadScene(name)
}

// resolveOutputPath picks the explicit output, then the scene's declared output,
// then a timestamped file under output/<scene>/
func resolveOutputPath(explicit string, s *scene.Scene, sceneName string) string {
	if explicit != "" {
		return explicit
	}
	if s.OutputFile != "" {
		return s.OutputFile
	}

	base := strings.TrimSuffix(filepath.Base(sceneName), filepath.Ext(sceneName))
	if base == "" || base == "." {
		base = "scene"
	}
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join("output", base, fmt.Sprintf("render_%s.png", timestamp))
}

// statsCaption summarizes a finished render for -stamp
func statsCaption(s *scene.Scene, stats renderer.RenderStats) []string {
	return []string{
		fmt.Sprintf("%dx%d  %d spheres  %d lights", s.Width, s.Height, len(s.Spheres), len(s.Lights)),
		fmt.Sprintf("%v  %d shadow / %d reflection rays", stats.Duration.Round(time.Millisecond), stats.ShadowRays, stats.ReflectionRays),
	}
}

func listScenes(out io.Writer, dir string) error {
	scenes, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Available scenes:")
	for _, info := range scenes {
		id := info.ID
		if info.Type == "file" {
			id = info.FilePath
		}
		if info.Description != "" {
			fmt.Fprintf(out, "  %-24s %s - %s\n", id, info.Name, info.Description)
		} else {
			fmt.Fprintf(out, "  %-24s %s\n", id, info.Name)
		}
	}
	return nil
}

func dumpSceneJSON(path string, s *scene.Scene) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := loaders.WriteSceneJSON(file, s); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
