package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/msdsim/internal/dynamo"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of the one-sided spectrum of data
// after removing its mean. Bin i corresponds to i/(len(data)*dt) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-stat.Mean(data, nil), centered)

	fft := fourier.NewFFT(len(centered))
	coeffs := fft.Coefficients(nil, centered)

	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency is the angular frequency (rad/s) of the strongest
// non-zero spectral bin of the position signal. It returns 0 when the
// trajectory is too short to resolve anything.
func DominantFrequency(tr *dynamo.Trajectory) float64 {
	ps := PowerSpectrum(tr.Position)
	if len(ps) < 2 {
		return 0
	}

	idx := floats.MaxIdx(ps[1:]) + 1
	hz := float64(idx) / (float64(len(tr.Position)) * tr.Dt)
	return 2 * math.Pi * hz
}
