package motion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultHeadRadius is the radius, in mm, of the sphere used to convert
// rotations (radians) into displacements.
const DefaultHeadRadius = 50.0

// Realignment parameter files hold three translations (mm) followed by three
// rotations (radians).
const nParameters = 6

// FramewiseDisplacement computes the framewise displacement of Power et al.
// (2012) for each time point: the sum of the absolute backward differences of
// the translations plus the rotations projected onto a sphere of the given
// radius. The first time point has no predecessor and is 0.
func FramewiseDisplacement(m *mat.Dense, radius float64) ([]float64, error) {
	rows, cols := m.Dims()
	if cols != nParameters {
		return nil, fmt.Errorf("framewise displacement needs %d motion parameters per time point, got %d", nParameters, cols)
	}

	fd := make([]float64, rows)
	for t := 1; t < rows; t++ {
		for p := 0; p < nParameters; p++ {
			delta := math.Abs(m.At(t, p) - m.At(t-1, p))
			if p >= 3 {
				delta *= radius
			}
			fd[t] += delta
		}
	}

	return fd, nil
}

// Summary condenses one subject's motion series.
type Summary struct {
	TimePoints int
	Means      []float64
	StdDevs    []float64
	MeanFD     float64
	MaxFD      float64
}

// Summarize computes per-parameter means and standard deviations and, for
// six-parameter series, framewise displacement statistics. For other shapes
// the FD fields are NaN.
func Summarize(m *mat.Dense, radius float64) Summary {
	rows, cols := m.Dims()
	out := Summary{
		TimePoints: rows,
		Means:      make([]float64, cols),
		StdDevs:    make([]float64, cols),
		MeanFD:     math.NaN(),
		MaxFD:      math.NaN(),
	}

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		out.Means[j], out.StdDevs[j] = stat.MeanStdDev(col, nil)
	}

	fd, err := FramewiseDisplacement(m, radius)
	if err != nil || rows < 2 {
		return out
	}

	// The leading zero is not a real displacement.
	out.MeanFD = stat.Mean(fd[1:], nil)
	out.MaxFD = floats.Max(fd[1:])

	return out
}
