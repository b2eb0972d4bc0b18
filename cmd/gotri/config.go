package main

import (
	"encoding/xml"
	"os"

	"github.com/pkg/errors"
)

// options drives one run of the tool.
type options struct {
	Input          string
	Output         string
	RefineMaxSteps int
	MinAngle       float64 // degrees
	MaxArea        float64
	Verbose        bool
	Debug          bool
	RenderSVG      bool
	RenderMesh     bool
	MeshWidth      int
	MeshHeight     int
	Wireframe      bool
	GeoJSON        bool
	View           bool
}

func defaultOptions() options {
	return options{
		Output:         "out",
		RefineMaxSteps: 1000,
		MinAngle:       30,
		MeshWidth:      100,
		MeshHeight:     100,
	}
}

// Config is the XML run file. Every element is optional; command line
// flags win over it.
type Config struct {
	XMLName        xml.Name `xml:"config"`
	Input          *string  `xml:"input"`
	Output         *string  `xml:"output"`
	RefineMaxSteps *int     `xml:"refineMaxSteps"`
	MinAngle       *float64 `xml:"minAngle"`
	MaxArea        *float64 `xml:"maxArea"`
	Verbose        *bool    `xml:"verbose"`
	Debug          *bool    `xml:"debug"`
	RenderSVG      *bool    `xml:"renderSVG"`
	RenderMesh     *bool    `xml:"renderMesh"`
	MeshWidth      *int     `xml:"meshWidth"`
	MeshHeight     *int     `xml:"meshHeight"`
	Wireframe      *bool    `xml:"wireframe"`
	GeoJSON        *bool    `xml:"geojson"`
	View           *bool    `xml:"view"`
}

func loadConfig(path string) (*Config, error) {
	xmlFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer xmlFile.Close()

	var cfg Config
	xmlDecoder := xml.NewDecoder(xmlFile)
	if err := xmlDecoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	return &cfg, nil
}

// apply copies the values present in cfg into o, except for the names in
// skip.
func (cfg *Config) apply(o *options, skip map[string]bool) {
	setString := func(name string, dst *string, v *string) {
		if v != nil && !skip[name] {
			*dst = *v
		}
	}
	setInt := func(name string, dst *int, v *int) {
		if v != nil && !skip[name] {
			*dst = *v
		}
	}
	setFloat := func(name string, dst *float64, v *float64) {
		if v != nil && !skip[name] {
			*dst = *v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil && !skip[name] {
			*dst = *v
		}
	}

	setString("input", &o.Input, cfg.Input)
	setString("output", &o.Output, cfg.Output)
	setInt("refine-max-steps", &o.RefineMaxSteps, cfg.RefineMaxSteps)
	setFloat("min-angle", &o.MinAngle, cfg.MinAngle)
	setFloat("max-area", &o.MaxArea, cfg.MaxArea)
	setBool("verbose", &o.Verbose, cfg.Verbose)
	setBool("debug", &o.Debug, cfg.Debug)
	setBool("render-svg", &o.RenderSVG, cfg.RenderSVG)
	setBool("render-mesh", &o.RenderMesh, cfg.RenderMesh)
	setInt("mesh-width", &o.MeshWidth, cfg.MeshWidth)
	setInt("mesh-height", &o.MeshHeight, cfg.MeshHeight)
	setBool("wireframe", &o.Wireframe, cfg.Wireframe)
	setBool("geojson", &o.GeoJSON, cfg.GeoJSON)
	setBool("view", &o.View, cfg.View)
}
