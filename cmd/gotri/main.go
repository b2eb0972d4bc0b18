// Command gotri triangulates a planar domain, refines it to a minimum angle
// and renders the result.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/smasonuk/gotri"
	"github.com/smasonuk/gotri/pslgio"
	"github.com/smasonuk/gotri/render"
	"github.com/smasonuk/gotri/view"
)

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatal(err)
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	o := defaultOptions()
	fs := flag.NewFlagSet("gotri", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "XML run file with defaults for these flags")
	fs.StringVar(&o.Input, "input", o.Input, "points file (@ & * #) or GeoJSON (.json, .geojson)")
	fs.StringVar(&o.Output, "output", o.Output, "output path prefix")
	fs.IntVar(&o.RefineMaxSteps, "refine-max-steps", o.RefineMaxSteps, "refinement step budget, 0 disables refinement")
	fs.Float64Var(&o.MinAngle, "min-angle", o.MinAngle, "smallest acceptable angle in degrees")
	fs.Float64Var(&o.MaxArea, "max-area", o.MaxArea, "largest acceptable triangle area, 0 for no bound")
	fs.BoolVar(&o.Verbose, "verbose", o.Verbose, "log progress")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "log every refinement decision")
	fs.BoolVar(&o.RenderSVG, "render-svg", o.RenderSVG, "write <output>.svg")
	fs.BoolVar(&o.RenderMesh, "render-mesh", o.RenderMesh, "write the color interpolation to <output>.ppm and <output>.png")
	fs.IntVar(&o.MeshWidth, "mesh-width", o.MeshWidth, "width of the color mesh image")
	fs.IntVar(&o.MeshHeight, "mesh-height", o.MeshHeight, "height of the color mesh image")
	fs.BoolVar(&o.Wireframe, "wireframe", o.Wireframe, "draw the edges over the color mesh image")
	fs.BoolVar(&o.GeoJSON, "geojson", o.GeoJSON, "write <output>.geojson")
	fs.BoolVar(&o.View, "view", o.View, "open a window and refine interactively")

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return o, err
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		cfg.apply(&o, set)
	}

	if o.Input == "" {
		return o, errors.New("no input file given, use -input")
	}
	if o.MeshWidth < 2 || o.MeshHeight < 2 {
		return o, errors.Errorf("mesh size %dx%d is too small", o.MeshWidth, o.MeshHeight)
	}
	return o, nil
}

func readInput(path string) (*gotri.PSLG, render.PointToColorFunc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "open input")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".geojson":
		pslg, err := pslgio.ReadGeoJSON(f)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "read %s", path)
		}
		return pslg, render.IDColor, nil
	}

	in, err := pslgio.ReadPoints(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read %s", path)
	}
	pt2col := func(p *gotri.Point) color.RGBA {
		if c, ok := in.ColorOf(p.C); ok {
			return c
		}
		return render.IDColor(p)
	}
	return in.PSLG, pt2col, nil
}

func run(o options) error {
	pslg, pt2col, err := readInput(o.Input)
	if err != nil {
		return err
	}
	if o.Verbose {
		log.Printf("Read %d outline points, %d holes and %d steiner points", len(pslg.Outline), len(pslg.Holes), len(pslg.Steiner))
	}

	cdt, err := gotri.NewCDT(pslg)
	if err != nil {
		return errors.Wrap(err, "triangulate")
	}
	defer cdt.Free()
	if o.Verbose {
		log.Printf("Seeded %d triangles", cdt.Mesh.TriangleCount())
	}

	cfg := gotri.DefaultRefinerConfig()
	cfg.Theta = o.MinAngle * math.Pi / 180
	cfg.MaxSteps = o.RefineMaxSteps
	if o.MaxArea > 0 {
		cfg.TooBig = gotri.MaxAreaTooBig(o.MaxArea)
	}
	if o.Debug {
		cfg.Verbose = true
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	if o.View {
		var refiner *gotri.Refiner
		if o.RefineMaxSteps > 0 {
			refiner = gotri.NewRefiner(cdt, cfg)
		}
		title := fmt.Sprintf("gotri - %s", filepath.Base(o.Input))
		if err := view.Run(view.NewViewer(cdt, refiner, cfg.Theta, cfg.MaxSteps), title); err != nil {
			return errors.Wrap(err, "viewer")
		}
	} else if o.RefineMaxSteps > 0 {
		log.Println("Refining the mesh!")
		if err := refine(cdt, cfg, o.Verbose); err != nil {
			return err
		}
	}

	return writeOutputs(cdt, pslg, pt2col, o)
}

func refine(cdt *gotri.CDT, cfg gotri.RefinerConfig, verbose bool) error {
	var progress gotri.ProgressFunc
	if verbose {
		tenth := cfg.MaxSteps/10 + 1
		progress = func(step, maxSteps int) {
			if step%tenth == 0 {
				log.Printf("Step %d of %d, %d triangles", step, maxSteps, cdt.Mesh.TriangleCount())
			}
		}
	}

	res, err := gotri.NewRefiner(cdt, cfg).Refine(-1, progress)
	if err != nil {
		return errors.Wrap(err, "refine")
	}
	switch {
	case res.Converged:
		log.Printf("Refinement converged after %d steps", res.Steps)
	case res.BudgetExhausted:
		log.Printf("Refinement stopped at the %d step budget", res.Steps)
	case res.Stalled:
		log.Printf("Refinement stalled after %d steps with %d bad triangles", res.Steps, res.Bad)
	}
	if res.Skipped > 0 {
		log.Printf("%d triangles could not be improved", res.Skipped)
	}
	return nil
}

func writeOutputs(cdt *gotri.CDT, pslg *gotri.PSLG, pt2col render.PointToColorFunc, o options) error {
	m := cdt.Mesh

	if o.RenderSVG {
		log.Println("Rendering SVG outline!")
		if err := writeFile(o.Output+".svg", func(w io.Writer) error {
			return render.SVG(w, m, render.DefaultSVGOptions())
		}); err != nil {
			return err
		}
	}

	if o.RenderMesh {
		log.Println("Rendering color interpolation!")
		min, max := pslg.Bounds()
		imc := render.NewImageConfig(min, max, o.MeshWidth, o.MeshHeight)
		img := render.RenderMesh(m, imc, pt2col)
		if err := writeFile(o.Output+".ppm", func(w io.Writer) error {
			return render.WritePPM(w, img)
		}); err != nil {
			return err
		}
		if o.Wireframe {
			render.DrawWireframe(img, m, imc, color.Black, 1)
		}
		if err := writeFile(o.Output+".png", func(w io.Writer) error {
			return render.WritePNG(w, img)
		}); err != nil {
			return err
		}
	}

	if o.GeoJSON {
		if err := writeFile(o.Output+".geojson", func(w io.Writer) error {
			return pslgio.WriteGeoJSON(w, m)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "can't open the output file")
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
