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

import "errors"
import "math"
import "sort"

import "golang.org/x/exp/rand"

import "gonum.org/v1/gonum/stat/distuv"

/* -------------------------------------------------------------------------- */

var ErrInsufficientData = errors.New("insufficient data")

/* -------------------------------------------------------------------------- */

type MixtureComponent struct {
  Weight   float64 `json:"weight"`
  Mean     float64 `json:"mean"`
  Variance float64 `json:"variance"`
}

// Weighted sum of Gaussian densities modeling a kmer's signal distribution
// under one labeled condition. A trained mixture has exactly one or two
// components.
type Mixture struct {
  Components []MixtureComponent `json:"components"`
}

/* -------------------------------------------------------------------------- */

func (component MixtureComponent) normal() distuv.Normal {
  return distuv.Normal{Mu: component.Mean, Sigma: math.Sqrt(component.Variance)}
}

func (mixture Mixture) Prob(x float64) float64 {
  p := 0.0
  for _, component := range mixture.Components {
    p += component.Weight * component.normal().Prob(x)
  }
  return p
}

func (mixture Mixture) LogProb(x float64) float64 {
  return math.Log(mixture.Prob(x))
}

// Draw one value from the mixture.
func (mixture Mixture) Sample(rng *rand.Rand) float64 {
  u := rng.Float64()
  for _, component := range mixture.Components {
    if u < component.Weight {
      normal     := component.normal()
      normal.Src  = rng
      return normal.Rand()
    }
    u -= component.Weight
  }
  // numerical leftovers land in the last component
  normal     := mixture.Components[len(mixture.Components)-1].normal()
  normal.Src  = rng
  return normal.Rand()
}

/* em fitting
 * -------------------------------------------------------------------------- */

const emRuns      = 10
const emTolerance = 1e-4
const emMaxIter   = 100
const emVarFloor  = 1e-6

// Fit a Gaussian mixture with the given number of components by iterative
// likelihood maximization, keeping the best of emRuns random restarts.
// Requires at least two distinct values.
func FitMixture(samples []float64, nComponents int, rng *rand.Rand) (Mixture, error) {
  if countDistinct(samples) < 2 {
    return Mixture{}, ErrInsufficientData
  }
  best     := Mixture{}
  bestLogL := math.Inf(-1)
  for run := 0; run < emRuns; run++ {
    mixture, logL := emFit(samples, nComponents, rng)
    if logL > bestLogL {
      best     = mixture
      bestLogL = logL
    }
  }
  if math.IsInf(bestLogL, -1) {
    return Mixture{}, ErrInsufficientData
  }
  return best, nil
}

func emFit(samples []float64, nComponents int, rng *rand.Rand) (Mixture, float64) {
  n := len(samples)

  // initialize components at randomly chosen observations with the overall
  // sample variance
  variance := sampleVariance(samples)
  if variance < emVarFloor {
    variance = emVarFloor
  }
  components := make([]MixtureComponent, nComponents)
  for k := 0; k < nComponents; k++ {
    components[k] = MixtureComponent{
      Weight  : 1.0 / float64(nComponents),
      Mean    : samples[rng.Intn(n)],
      Variance: variance }
  }
  resp := make([][]float64, nComponents)
  for k := 0; k < nComponents; k++ {
    resp[k] = make([]float64, n)
  }
  logL := math.Inf(-1)

  for iter := 0; iter < emMaxIter; iter++ {
    // E step
    logLNew := 0.0
    for i := 0; i < n; i++ {
      total := 0.0
      for k := 0; k < nComponents; k++ {
        p := components[k].Weight * components[k].normal().Prob(samples[i])
        resp[k][i] = p
        total     += p
      }
      if total <= 0 {
        total = math.SmallestNonzeroFloat64
      }
      for k := 0; k < nComponents; k++ {
        resp[k][i] /= total
      }
      logLNew += math.Log(total)
    }
    // M step
    for k := 0; k < nComponents; k++ {
      nk := 0.0
      mu := 0.0
      for i := 0; i < n; i++ {
        nk += resp[k][i]
        mu += resp[k][i] * samples[i]
      }
      if nk <= 0 {
        // empty component, reseed at a random observation
        components[k].Weight   = 1.0 / float64(n)
        components[k].Mean     = samples[rng.Intn(n)]
        components[k].Variance = variance
        continue
      }
      mu /= nk
      v  := 0.0
      for i := 0; i < n; i++ {
        d  := samples[i] - mu
        v  += resp[k][i] * d * d
      }
      v /= nk
      if v < emVarFloor {
        v = emVarFloor
      }
      components[k].Weight   = nk / float64(n)
      components[k].Mean     = mu
      components[k].Variance = v
    }
    if math.Abs(logLNew-logL) < emTolerance {
      logL = logLNew
      break
    }
    logL = logLNew
  }
  return Mixture{components}, logL
}

/* density filtering
 * -------------------------------------------------------------------------- */

const densityFilterEps       = 1e-3
const densityFilterMinPoints = 3

// Density-based outlier removal of 1-d observations: sorted values are
// split into segments wherever the gap between neighbors exceeds eps, and
// segments holding fewer than minPoints observations are dropped.
func densityFilter(samples []float64, eps float64, minPoints int) []float64 {
  sorted := make([]float64, len(samples))
  copy(sorted, samples)
  sort.Float64s(sorted)

  filtered := []float64{}
  for i := 0; i < len(sorted); {
    j := i + 1
    for j < len(sorted) && sorted[j]-sorted[j-1] <= eps {
      j++
    }
    if j-i >= minPoints {
      filtered = append(filtered, sorted[i:j]...)
    }
    i = j
  }
  return filtered
}

/* -------------------------------------------------------------------------- */

func countDistinct(samples []float64) int {
  seen := make(map[float64]struct{})
  for _, x := range samples {
    seen[x] = struct{}{}
  }
  return len(seen)
}

func sampleVariance(samples []float64) float64 {
  n    := float64(len(samples))
  mean := 0.0
  for _, x := range samples {
    mean += x
  }
  mean /= n
  v := 0.0
  for _, x := range samples {
    v += (x - mean) * (x - mean)
  }
  return v / n
}
