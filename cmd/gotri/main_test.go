package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

const lShape = `# 1 0 0
@ 0 0
@ 6 0
# 0 1 0
@ 6 2
@ 2 2
# 0 0 1
@ 2 6
@ 0 6
* 1 1
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestParseArgs(t *testing.T) {
	cfgPath := writeTemp(t, "run.xml", `<config>
	<input>shape.txt</input>
	<refineMaxSteps>50</refineMaxSteps>
	<minAngle>25</minAngle>
	<renderSVG>true</renderSVG>
</config>`)

	testCases := []struct {
		name      string
		args      []string
		wantErr   bool
		wantInput string
		wantSteps int
		wantAngle float64
		wantSVG   bool
	}{
		{name: "defaults", args: []string{"-input", "a.txt"}, wantInput: "a.txt", wantSteps: 1000, wantAngle: 30},
		{name: "config file", args: []string{"-config", cfgPath}, wantInput: "shape.txt", wantSteps: 50, wantAngle: 25, wantSVG: true},
		{name: "flag beats config", args: []string{"-config", cfgPath, "-min-angle", "20"}, wantInput: "shape.txt", wantSteps: 50, wantAngle: 20, wantSVG: true},
		{name: "no input", args: []string{}, wantErr: true},
		{name: "tiny mesh", args: []string{"-input", "a.txt", "-mesh-width", "1"}, wantErr: true},
		{name: "missing config", args: []string{"-config", filepath.Join(t.TempDir(), "none.xml")}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := parseArgs(tc.args, io.Discard)
			if tc.wantErr {
				if err == nil {
					t.Errorf("parseArgs() error = nil, want an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseArgs() error = %v", err)
			}
			if o.Input != tc.wantInput || o.RefineMaxSteps != tc.wantSteps || o.MinAngle != tc.wantAngle || o.RenderSVG != tc.wantSVG {
				t.Errorf("parseArgs() = %+v", o)
			}
		})
	}
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name  string
		file  string
		input string
	}{
		{name: "points file", file: "shape.txt", input: lShape},
		{name: "geojson", file: "shape.geojson", input: `{"type":"Polygon","coordinates":[[[0,0],[6,0],[6,2],[2,2],[2,6],[0,6],[0,0]]]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := writeTemp(t, tc.file, tc.input)
			out := filepath.Join(t.TempDir(), "result")

			o := defaultOptions()
			o.Input = in
			o.Output = out
			o.MinAngle = 20
			o.RenderSVG = true
			o.RenderMesh = true
			o.Wireframe = true
			o.GeoJSON = true
			o.MeshWidth, o.MeshHeight = 30, 30
			if err := run(o); err != nil {
				t.Fatalf("run() error = %v", err)
			}

			for _, ext := range []string{".svg", ".ppm", ".png", ".geojson"} {
				fi, err := os.Stat(out + ext)
				if err != nil {
					t.Errorf("output %s missing: %v", ext, err)
					continue
				}
				if fi.Size() == 0 {
					t.Errorf("output %s is empty", ext)
				}
			}
		})
	}
}

func TestRunBadInput(t *testing.T) {
	o := defaultOptions()
	o.Input = writeTemp(t, "flat.txt", "@ 0 0\n@ 1 1\n@ 2 2\n")
	if err := run(o); err == nil {
		t.Errorf("run() error = nil for a flat outline")
	}
}
