package gotri

import "github.com/pkg/errors"

var (
	// ErrOutsideDomain is returned when a point lies outside every triangle.
	ErrOutsideDomain = errors.New("point outside the triangulation domain")

	// ErrDegenerateInput is returned for outlines that cannot be triangulated.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrInvalidMesh is returned by the validators.
	ErrInvalidMesh = errors.New("invalid mesh")
)
