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
import "errors"
import "fmt"
import "io"
import "os"
import "path/filepath"

import "golang.org/x/exp/rand"

import "github.com/sirupsen/logrus"

/* -------------------------------------------------------------------------- */

var ErrAllModelsFailed = errors.New("no kmer models trained")

/* -------------------------------------------------------------------------- */

// Trained reference artifact of one labeled condition: a Gaussian mixture
// per kmer and the rate at which the signal-alignment skipped each kmer's
// reference occurrences. Immutable once trained; shared read-only between
// scoring passes.
type Model struct {
  Mixtures  map[string]Mixture `json:"mixtures"`
  SkipRates map[string]float64 `json:"skip_rates"`
}

/* constructor
 * -------------------------------------------------------------------------- */

func EmptyModel() Model {
  return Model{make(map[string]Mixture), make(map[string]float64)}
}

/* -------------------------------------------------------------------------- */

func (model Model) Mixture(kmer string) (Mixture, bool) {
  mixture, ok := model.Mixtures[kmer]
  return mixture, ok
}

func (model Model) SkipRate(kmer string) (float64, bool) {
  rate, ok := model.SkipRates[kmer]
  return rate, ok
}

/* i/o
 * -------------------------------------------------------------------------- */

func (model Model) Write(writer io.Writer) error {
  return json.NewEncoder(writer).Encode(model)
}

func (model Model) Export(filename string) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  defer f.Close()
  return model.Write(f)
}

func ReadModel(reader io.Reader) (Model, error) {
  model := EmptyModel()
  if err := json.NewDecoder(reader).Decode(&model); err != nil {
    return Model{}, fmt.Errorf("ReadModel(): %w", err)
  }
  return model, nil
}

func ImportModel(filename string) (Model, error) {
  f, err := os.Open(filename)
  if err != nil {
    return Model{}, err
  }
  defer f.Close()
  return ReadModel(f)
}

/* -------------------------------------------------------------------------- */

// All 4096 possible 6-mers over ACGT.
func AllKmers() []string {
  kmers := []string{""}
  for i := 0; i < KmerLength; i++ {
    next := make([]string, 0, 4*len(kmers))
    for _, kmer := range kmers {
      for _, base := range []string{"A", "C", "G", "T"} {
        next = append(next, kmer+base)
      }
    }
    kmers = next
  }
  return kmers
}

/* -------------------------------------------------------------------------- */

type TrainOptions struct {
  NSamples      int
  Single        bool
  DensityFilter bool
  Motifs        []Motif
  StorePath     string
  BatchSize     int
  Seed          uint64
}

func DefaultTrainOptions() TrainOptions {
  return TrainOptions{
    NSamples     : 50000,
    Single       : false,
    DensityFilter: false,
    Motifs       : AllBases(),
    StorePath    : filepath.Join(os.TempDir(), "cawlr-train.db"),
    BatchSize    : 500,
    Seed         : 2456 }
}

/* -------------------------------------------------------------------------- */

// Train fits per-kmer signal models from the eventalign records in the
// given file. Observations are spilled batch-wise to the sample store,
// skip occurrences are tallied against the reference, and a mixture is
// fitted for every kmer with sufficient data. Training is best effort per
// kmer; it fails only if no kmer trains at all.
func (options TrainOptions) Train(filename string, index SequenceIndex) (Model, error) {
  store, err := OpenSampleStore(options.StorePath)
  if err != nil {
    return Model{}, err
  }
  defer os.Remove(options.StorePath)
  defer store.Close()

  skips := newSkipCounter()

  err = EventalignBatches(filename, options.BatchSize, func(reads []Eventalign) error {
    if err := store.AddReads(reads, options.Motifs); err != nil {
      return err
    }
    for _, read := range reads {
      if err := skips.addRead(read, index); err != nil {
        return err
      }
    }
    return nil
  })
  if err != nil {
    return Model{}, err
  }
  return options.trainMixtures(store, skips)
}

func (options TrainOptions) trainMixtures(store *SampleStore, skips *skipCounter) (Model, error) {
  model := EmptyModel()
  rng   := rand.New(rand.NewSource(options.Seed))

  for _, kmer := range AllKmers() {
    logrus.Debugf("training on kmer %s", kmer)
    mixture, err := options.TrainKmer(store, kmer, rng)
    if err != nil {
      if !errors.Is(err, ErrInsufficientData) {
        return Model{}, err
      }
      logrus.Warnf("kmer %s failed to train: %v", kmer, err)
      continue
    }
    model.Mixtures[kmer] = mixture
  }
  if len(model.Mixtures) == 0 {
    return Model{}, ErrAllModelsFailed
  }
  model.SkipRates = skips.rates()
  return model, nil
}

// TrainKmer draws up to NSamples observations for the kmer from the store
// and fits a mixture with one component in single mode, two otherwise.
// Returns ErrInsufficientData if fewer than two distinct observations are
// available, or fewer than two survive density filtering.
func (options TrainOptions) TrainKmer(store *SampleStore, kmer string, rng *rand.Rand) (Mixture, error) {
  samples, err := store.Sample(kmer, options.NSamples)
  if err != nil {
    return Mixture{}, err
  }
  if countDistinct(samples) < 2 {
    return Mixture{}, ErrInsufficientData
  }
  if options.DensityFilter {
    samples = densityFilter(samples, densityFilterEps, densityFilterMinPoints)
    if len(samples) < 2 {
      return Mixture{}, fmt.Errorf("%d observations left after density filtering: %w", len(samples), ErrInsufficientData)
    }
  }
  nComponents := 2
  if options.Single {
    nComponents = 1
  }
  return FitMixture(samples, nComponents, rng)
}

/* skip rates
 * -------------------------------------------------------------------------- */

// Tally of reference occurrences per kmer and how many of them had no
// signal measurement.
type skipCounter struct {
  occurrences map[string]int
  skipped     map[string]int
}

func newSkipCounter() *skipCounter {
  return &skipCounter{make(map[string]int), make(map[string]int)}
}

func (counter *skipCounter) addRead(read Eventalign, index SequenceIndex) error {
  context, err := NewContext(read, index)
  if err != nil {
    return err
  }
  measured := read.SignalPositions()
  for pos := read.Start; pos <= read.Stop(); pos++ {
    kmer, ok := context.KmerAt(pos)
    if !ok {
      continue
    }
    counter.occurrences[kmer]++
    if _, ok := measured[pos]; !ok {
      counter.skipped[kmer]++
    }
  }
  return nil
}

func (counter *skipCounter) rates() map[string]float64 {
  rates := make(map[string]float64)
  for kmer, n := range counter.occurrences {
    rates[kmer] = float64(counter.skipped[kmer]) / float64(n)
  }
  return rates
}
