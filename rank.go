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

import "golang.org/x/exp/rand"

/* -------------------------------------------------------------------------- */

// Map from kmer to a non-negative divergence score. Higher divergence
// means the kmer discriminates better between the positive and negative
// control. Created once by Rank, read-only afterwards.
type RankTable map[string]float64

/* i/o
 * -------------------------------------------------------------------------- */

func (table RankTable) Write(writer io.Writer) error {
  return json.NewEncoder(writer).Encode(table)
}

func (table RankTable) Export(filename string) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  defer f.Close()
  return table.Write(f)
}

func ReadRankTable(reader io.Reader) (RankTable, error) {
  table := make(RankTable)
  if err := json.NewDecoder(reader).Decode(&table); err != nil {
    return nil, fmt.Errorf("ReadRankTable(): %w", err)
  }
  return table, nil
}

func ImportRankTable(filename string) (RankTable, error) {
  f, err := os.Open(filename)
  if err != nil {
    return nil, err
  }
  defer f.Close()
  return ReadRankTable(f)
}

/* -------------------------------------------------------------------------- */

type RankOptions struct {
  Seed     uint64
  NSamples int
}

func DefaultRankOptions() RankOptions {
  return RankOptions{Seed: 2456, NSamples: 10000}
}

/* -------------------------------------------------------------------------- */

// Rank estimates, for every kmer trained in both models, the
// Kullback-Leibler divergence between the two mixtures by Monte Carlo
// sampling. Kmers present in only one model are omitted. The estimate is
// deterministic for a fixed seed.
func (options RankOptions) Rank(posModel, negModel Model) RankTable {
  rng   := rand.New(rand.NewSource(options.Seed))
  table := make(RankTable)

  // kmers are visited in a fixed order so that the sampling sequence, and
  // with it the estimates, are reproducible across runs
  for _, kmer := range AllKmers() {
    posMixture, ok := posModel.Mixture(kmer)
    if !ok {
      continue
    }
    negMixture, ok := negModel.Mixture(kmer)
    if !ok {
      continue
    }
    table[kmer] = options.klDivergence(posMixture, negMixture, rng)
  }
  return table
}

// Symmetrized Monte Carlo estimate of the divergence between two
// mixtures: the mean log density ratio under samples from either side,
// averaged over both directions and clamped at zero. There is no closed
// form for mixtures with more than one component.
func (options RankOptions) klDivergence(p, q Mixture, rng *rand.Rand) float64 {
  sum := 0.0
  for i := 0; i < options.NSamples; i++ {
    x   := p.Sample(rng)
    sum += boundedLogProb(p, x) - boundedLogProb(q, x)
  }
  for i := 0; i < options.NSamples; i++ {
    x   := q.Sample(rng)
    sum += boundedLogProb(q, x) - boundedLogProb(p, x)
  }
  kl := sum / float64(2*options.NSamples)
  if kl < 0 || math.IsNaN(kl) {
    kl = 0
  }
  return kl
}

// Log density bounded below, so that samples falling into a far tail of
// the other mixture do not drive the estimate to infinity.
func boundedLogProb(mixture Mixture, x float64) float64 {
  logp := mixture.LogProb(x)
  if logp < -745 || math.IsInf(logp, -1) {
    return -745
  }
  return logp
}
