/* Copyright (C) 2023 Brooks Laboratory, UC Santa Cruz
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package cawlr

/* -------------------------------------------------------------------------- */

import "encoding/json"
import "fmt"
import "io"
import "math"
import "os"

import "gonum.org/v1/gonum/stat"
import "gonum.org/v1/gonum/stat/distuv"

/* -------------------------------------------------------------------------- */

const DefaultDensityBins = 1000

/* -------------------------------------------------------------------------- */

// Binned kernel density estimate over the raw score distribution of a
// scored cohort. Raw per-kmer likelihood ratios are not directly
// comparable across kmers with different mixture separations; the ratio
// of two such densities, one from each control, turns a raw score into a
// calibrated probability.
type ScoreDensity struct {
  Min       float64   `json:"min"`
  Max       float64   `json:"max"`
  Bandwidth float64   `json:"bandwidth"`
  Bins      []float64 `json:"bins"`
}

/* -------------------------------------------------------------------------- */

// FitScoreDensity estimates the density of the given scores on a fixed
// number of bins, using a Gaussian kernel with Silverman's rule of thumb
// bandwidth.
func FitScoreDensity(scores []float64, bins int) (ScoreDensity, error) {
  if len(scores) < 2 {
    return ScoreDensity{}, ErrInsufficientData
  }
  if bins < 2 {
    return ScoreDensity{}, fmt.Errorf("FitScoreDensity(): invalid number of bins: %d", bins)
  }
  h := silvermanBandwidth(stat.StdDev(scores, nil), len(scores))

  lo := scores[0]
  hi := scores[0]
  for _, x := range scores {
    if x < lo {
      lo = x
    }
    if x > hi {
      hi = x
    }
  }
  // pad the range so that kernel mass near the boundaries is captured
  lo -= 3 * h
  hi += 3 * h

  // bin the observations, then smooth the counts with the kernel
  width  := (hi - lo) / float64(bins)
  counts := make([]float64, bins)
  for _, x := range scores {
    i := int((x - lo) / width)
    if i < 0 {
      i = 0
    }
    if i >= bins {
      i = bins - 1
    }
    counts[i]++
  }
  kernel  := distuv.Normal{Mu: 0, Sigma: h}
  density := make([]float64, bins)
  n       := float64(len(scores))
  for i := 0; i < bins; i++ {
    ci := lo + (float64(i)+0.5)*width
    d  := 0.0
    for j := 0; j < bins; j++ {
      if counts[j] == 0 {
        continue
      }
      cj := lo + (float64(j)+0.5)*width
      d  += counts[j] * kernel.Prob(ci-cj)
    }
    density[i] = d / n
  }
  return ScoreDensity{lo, hi, h, density}, nil
}

func silvermanBandwidth(sigma float64, n int) float64 {
  h := 1.06 * sigma * math.Pow(float64(n), -0.2)
  if h <= 0 {
    // degenerate sample, fall back to a narrow fixed kernel
    h = 1e-3
  }
  return h
}

/* -------------------------------------------------------------------------- */

// Density at x, linearly interpolated between bin centers. Zero outside
// the estimated range.
func (density ScoreDensity) At(x float64) float64 {
  bins := len(density.Bins)
  if bins == 0 || x < density.Min || x > density.Max {
    return 0
  }
  width := (density.Max - density.Min) / float64(bins)
  t     := (x-density.Min)/width - 0.5

  i := int(t)
  if t < 0 || i >= bins-1 {
    // before the first or past the last bin center
    if t < 0 {
      return density.Bins[0]
    }
    return density.Bins[bins-1]
  }
  f := t - float64(i)
  return (1-f)*density.Bins[i] + f*density.Bins[i+1]
}

/* -------------------------------------------------------------------------- */

// Posterior probability of the positive condition given a raw score,
// using the fitted densities of the positive and negative control
// cohorts. Returns 0.5 where neither density covers the score.
func CalibratedProbability(x float64, pos, neg ScoreDensity) float64 {
  pp := pos.At(x)
  np := neg.At(x)
  if pp+np == 0 {
    return 0.5
  }
  return pp / (pp + np)
}

// Calibrate replaces every raw score of a read by its calibrated
// probability.
func Calibrate(read ScoredRead, pos, neg ScoreDensity) ScoredRead {
  scores := make([]Score, len(read.Scores))
  for i, score := range read.Scores {
    score.Value = CalibratedProbability(score.Value, pos, neg)
    scores[i]   = score
  }
  read.Scores = scores
  return read
}

/* i/o
 * -------------------------------------------------------------------------- */

func (density ScoreDensity) Write(writer io.Writer) error {
  return json.NewEncoder(writer).Encode(density)
}

func (density ScoreDensity) Export(filename string) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  defer f.Close()
  return density.Write(f)
}

func ReadScoreDensity(reader io.Reader) (ScoreDensity, error) {
  density := ScoreDensity{}
  if err := json.NewDecoder(reader).Decode(&density); err != nil {
    return ScoreDensity{}, fmt.Errorf("ReadScoreDensity(): %w", err)
  }
  return density, nil
}

func ImportScoreDensity(filename string) (ScoreDensity, error) {
  f, err := os.Open(filename)
  if err != nil {
    return ScoreDensity{}, err
  }
  defer f.Close()
  return ReadScoreDensity(f)
}
