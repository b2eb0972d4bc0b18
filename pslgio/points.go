// Package pslgio reads and writes triangulation inputs and results.
package pslgio

import (
	"bufio"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/smasonuk/gotri"
)

// Input is a parsed points file.
type Input struct {
	PSLG *gotri.PSLG
	// Colors maps input coordinates to the color declared before them.
	Colors map[mgl64.Vec2]color.RGBA
}

// ColorOf returns the declared color of the input point at c.
func (in *Input) ColorOf(c mgl64.Vec2) (color.RGBA, bool) {
	clr, ok := in.Colors[c]
	return clr, ok
}

// ReadPoints parses the points file format, one declaration per line:
//
//	@ x y      outline point
//	& x y      hole point; consecutive & lines form one hole
//	* x y      Steiner point
//	# r g b    color for the points that follow, channels in [0, 1]
//	# gray     gray color for the points that follow
//
// Blank lines and lines starting with // carry nothing but still end a
// hole.
func ReadPoints(r io.Reader) (*Input, error) {
	in := &Input{
		PSLG:   &gotri.PSLG{},
		Colors: make(map[mgl64.Vec2]color.RGBA),
	}
	var (
		clr    color.RGBA
		hasClr bool
		hole   []mgl64.Vec2
	)
	endHole := func() {
		if len(hole) > 0 {
			in.PSLG.AddHole(hole)
			hole = nil
		}
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			endHole()
			continue
		}

		fields := strings.Fields(line)
		kind, args := fields[0], fields[1:]
		// "@1 2" is accepted as well as "@ 1 2"
		if len(kind) > 1 {
			args = append([]string{kind[1:]}, args...)
			kind = kind[:1]
		}
		nums, err := parseFloats(args)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}

		if kind == "#" {
			switch len(nums) {
			case 1:
				clr = toRGBA(nums[0], nums[0], nums[0])
			case 3:
				clr = toRGBA(nums[0], nums[1], nums[2])
			default:
				return nil, errors.Errorf("line %d: color needs 1 or 3 values, got %d", lineNo, len(nums))
			}
			hasClr = true
			continue
		}

		if len(nums) != 2 {
			return nil, errors.Errorf("line %d: point %q needs 2 values, got %d", lineNo, kind, len(nums))
		}
		p := mgl64.Vec2{nums[0], nums[1]}

		switch kind {
		case "@":
			endHole()
			in.PSLG.Outline = append(in.PSLG.Outline, p)
		case "&":
			hole = append(hole, p)
		case "*":
			endHole()
			in.PSLG.AddSteiner(p)
		default:
			return nil, errors.Errorf("line %d: unknown declaration %q", lineNo, kind)
		}
		if hasClr {
			in.Colors[p] = clr
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read points")
	}
	endHole()

	if len(in.PSLG.Outline) == 0 {
		return nil, errors.New("no outline points")
	}
	return in, nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func toRGBA(r, g, b float64) color.RGBA {
	ch := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{R: ch(r), G: ch(g), B: ch(b), A: 255}
}

// WritePoints writes pslg in the format ReadPoints reads.
func WritePoints(w io.Writer, pslg *gotri.PSLG) error {
	bw := bufio.NewWriter(w)
	write := func(kind string, pts []mgl64.Vec2) {
		for _, p := range pts {
			bw.WriteString(kind + " " + formatFloat(p[0]) + " " + formatFloat(p[1]) + "\n")
		}
	}
	write("@", pslg.Outline)
	for i, h := range pslg.Holes {
		bw.WriteString("// hole " + strconv.Itoa(i) + "\n")
		write("&", h)
	}
	write("*", pslg.Steiner)
	return errors.Wrap(bw.Flush(), "write points")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
