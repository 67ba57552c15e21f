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

//import "fmt"
import "errors"
import "math"
import "testing"

import "golang.org/x/exp/rand"

/* -------------------------------------------------------------------------- */

// two well separated clusters of observations
func bimodalSamples() []float64 {
  samples := []float64{}
  for i := 0; i < 50; i++ {
    samples = append(samples, 70.0+0.1*float64(i%5))
    samples = append(samples, 120.0+0.1*float64(i%5))
  }
  return samples
}

/* -------------------------------------------------------------------------- */

func TestMixtureProb(test *testing.T) {
  mixture := Mixture{[]MixtureComponent{{1.0, 0.0, 1.0}}}

  p := 1.0 / math.Sqrt(2.0*math.Pi)
  if math.Abs(mixture.Prob(0.0)-p) > 1e-12 {
    test.Error("test failed")
  }
  if math.Abs(mixture.LogProb(0.0)-math.Log(p)) > 1e-12 {
    test.Error("test failed")
  }
}

func TestFitMixture1(test *testing.T) {
  rng := rand.New(rand.NewSource(42))

  mixture, err := FitMixture(bimodalSamples(), 2, rng)
  if err != nil {
    test.Fatal(err)
  }
  if len(mixture.Components) != 2 {
    test.Fatal("test failed")
  }
  c1 := mixture.Components[0]
  c2 := mixture.Components[1]
  if c1.Mean > c2.Mean {
    c1, c2 = c2, c1
  }
  if math.Abs(c1.Mean-70.2) > 1.0 {
    test.Errorf("unexpected component mean: %f", c1.Mean)
  }
  if math.Abs(c2.Mean-120.2) > 1.0 {
    test.Errorf("unexpected component mean: %f", c2.Mean)
  }
  if math.Abs(c1.Weight-0.5) > 0.1 {
    test.Errorf("unexpected component weight: %f", c1.Weight)
  }
  if math.Abs(c1.Weight+c2.Weight-1.0) > 1e-8 {
    test.Error("test failed")
  }
}

func TestFitMixture2(test *testing.T) {
  rng := rand.New(rand.NewSource(42))

  mixture, err := FitMixture(bimodalSamples(), 1, rng)
  if err != nil {
    test.Fatal(err)
  }
  if len(mixture.Components) != 1 {
    test.Fatal("test failed")
  }
  if math.Abs(mixture.Components[0].Weight-1.0) > 1e-8 {
    test.Error("test failed")
  }
  if math.Abs(mixture.Components[0].Mean-95.2) > 1.0 {
    test.Error("test failed")
  }
}

func TestFitMixture3(test *testing.T) {
  rng := rand.New(rand.NewSource(42))

  if _, err := FitMixture([]float64{80, 80, 80}, 2, rng); !errors.Is(err, ErrInsufficientData) {
    test.Error("test failed")
  }
  if _, err := FitMixture([]float64{}, 2, rng); !errors.Is(err, ErrInsufficientData) {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestMixtureSample(test *testing.T) {
  rng     := rand.New(rand.NewSource(13))
  mixture := Mixture{[]MixtureComponent{{1.0, 100.0, 4.0}}}

  sum := 0.0
  for i := 0; i < 1000; i++ {
    sum += mixture.Sample(rng)
  }
  if math.Abs(sum/1000.0-100.0) > 1.0 {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestDensityFilter(test *testing.T) {
  samples  := []float64{5.0, 1.0, 1.0005, 1.001}
  filtered := densityFilter(samples, 1e-3, 3)

  if len(filtered) != 3 {
    test.Fatal("test failed")
  }
  for _, x := range filtered {
    if x > 2.0 {
      test.Error("test failed")
    }
  }
  // nothing filtered if all observations are dense
  if len(densityFilter([]float64{1.0, 1.0005, 1.001, 1.0015}, 1e-3, 3)) != 4 {
    test.Error("test failed")
  }
}
