// Command arclight renders a JSON scene file (spec §6's external
// interface) and writes the resulting image alongside it, generalizing
// the teacher's main.go flag-driven entry point to the cobra/pflag CLI
// idiom the rest of the examples pack uses for multi-command tools.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arclight-render/arclight/pkg/film"
	"github.com/arclight-render/arclight/pkg/sceneio"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "arclight",
		Short: "A physically-based Monte Carlo path tracer",
	}
	root.AddCommand(newRenderCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render <name>.json and write <image.name or name>.ppm or .raw",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd.Context(), args[0], seed)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed sampler RNG seed")
	return cmd
}

func render(ctx context.Context, name string, seed uint64) error {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}

	doc, err := sceneio.Load(dir, base)
	if err != nil {
		return err
	}

	resolution := doc.Image.Resolution
	if resolution == [2]int{} {
		resolution = [2]int{512, 512}
	}

	sc, err := sceneio.BuildScene(dir, doc.Scene)
	if err != nil {
		return fmt.Errorf("building scene: %w", err)
	}

	cam := sceneio.BuildCamera(doc.Camera)

	samp, err := sceneio.BuildSampler(doc.Sampler, seed)
	if err != nil {
		return fmt.Errorf("building sampler: %w", err)
	}

	integ, err := sceneio.BuildIntegrator(doc.Integrator, cam)
	if err != nil {
		return fmt.Errorf("building integrator: %w", err)
	}

	f := film.New(resolution[0], resolution[1])
	scissorMin, scissorMax := sceneio.Scissor(doc.Integrator, resolution)

	start := time.Now()
	integ.Render(ctx, f, sc, samp, scissorMin, scissorMax)
	slog.Info("render complete", "elapsed", time.Since(start))

	outName := doc.Image.Name
	if outName == "" {
		outName = base
	}
	return writeImage(dir, outName, doc.Image.Format, f)
}

func writeImage(dir, name, format string, f *film.Film) error {
	ext := ".ppm"
	if format == "raw32" {
		ext = ".raw"
	}

	outPath := filepath.Join(dir, name+ext)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", outPath, err)
	}
	defer out.Close()

	if format == "raw32" {
		return f.WriteRaw32(out)
	}
	return f.WritePPM(out)
}
