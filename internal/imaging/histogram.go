// Package imaging scores how closely two photos depict the same scene.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Scorer compares two encoded images and returns a similarity in [0, 1].
type Scorer interface {
	Compare(reference, candidate []byte) (float64, error)
}

const binsPerChannel = 8

// HistogramScorer correlates 8x8x8 RGB colour histograms. Image dimensions do
// not need to match since histograms are normalised by pixel count.
type HistogramScorer struct{}

func (HistogramScorer) Compare(reference, candidate []byte) (float64, error) {
	ref, err := histogram(reference)
	if err != nil {
		return 0, fmt.Errorf("reference: %w", err)
	}
	cand, err := histogram(candidate)
	if err != nil {
		return 0, fmt.Errorf("candidate: %w", err)
	}
	score := correlation(ref, cand)
	if score < 0 {
		return 0, nil
	}
	return score, nil
}

func histogram(data []byte) ([]float64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	hist := make([]float64, binsPerChannel*binsPerChannel*binsPerChannel)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA is 16-bit per channel; 8 bins means the top three bits.
			idx := (r>>13)*binsPerChannel*binsPerChannel + (g>>13)*binsPerChannel + (b >> 13)
			hist[idx]++
		}
	}
	total := float64(bounds.Dx() * bounds.Dy())
	for i := range hist {
		hist[i] /= total
	}
	return hist, nil
}

// correlation is Pearson's r between two histograms. A constant histogram
// pair counts as identical when equal.
func correlation(a, b []float64) float64 {
	n := float64(len(a))
	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var num, varA, varB float64
	for i := range a {
		da, db := a[i]-meanA, b[i]-meanB
		num += da * db
		varA += da * da
		varB += db * db
	}
	denom := math.Sqrt(varA * varB)
	if denom == 0 {
		if varA == varB {
			return 1
		}
		return 0
	}
	return num / denom
}
