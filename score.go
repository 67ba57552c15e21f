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

import "sort"

import "github.com/pbenner/threadpool"

/* -------------------------------------------------------------------------- */

// One scored genomic position of one read. SignalScore and SkipScore are
// nil where the respective test could not be computed; Value carries the
// fused score. Skipped marks positions without a signal based score.
type Score struct {
  Pos         int      `json:"pos"`
  Kmer        string   `json:"kmer"`
  Skipped     bool     `json:"skipped"`
  SignalScore *float64 `json:"signal_score"`
  SkipScore   *float64 `json:"skip_score"`
  Value       float64  `json:"value"`
}

// A read's metadata plus one Score per scored position within its span.
type ScoredRead struct {
  Name   string  `json:"name"`
  Chrom  string  `json:"chrom"`
  Start  int     `json:"start"`
  Length int     `json:"length"`
  Strand Strand  `json:"strand"`
  Scores []Score `json:"scores"`
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewScoredRead(read Eventalign, scores []Score) ScoredRead {
  return ScoredRead{read.Name, read.Chrom, read.Start, read.Length, read.Strand, scores}
}

/* -------------------------------------------------------------------------- */

type ScoreOptions struct {
  PosModel Model
  NegModel Model
  Ranks    RankTable
  Motifs   []Motif
  // log-density floor: a measurement implausible under both mixtures has
  // its signal score withheld rather than extrapolated
  Cutoff   float64
}

func DefaultScoreOptions(posModel, negModel Model, ranks RankTable) ScoreOptions {
  return ScoreOptions{
    PosModel: posModel,
    NegModel: negModel,
    Ranks   : ranks,
    Motifs  : nil,
    Cutoff  : -10.0 }
}

/* -------------------------------------------------------------------------- */

// ScoreRead computes one Score per aligned position of the read. Positions
// whose 6-mer cannot be resolved, does not match the configured motifs, or
// for which neither a signal nor a skip score is computable are omitted.
func (options ScoreOptions) ScoreRead(read Eventalign, index SequenceIndex) (ScoredRead, error) {
  context, err := NewContext(read, index)
  if err != nil {
    return ScoredRead{}, err
  }
  measured := read.SignalPositions()

  scores := []Score{}
  for pos := read.Start; pos <= read.Stop(); pos++ {
    kmer, ok := context.KmerAt(pos)
    if !ok {
      continue
    }
    if !anyMotifMatches(options.Motifs, kmer) {
      continue
    }
    signalScore, signalOk := options.signalScore(pos, measured)
    skipScore  , skipOk   := options.skipScore  (pos, measured, context)

    score := Score{Pos: pos, Kmer: kmer, Skipped: !signalOk}
    switch {
    case signalOk && skipOk:
      score.SignalScore = &signalScore
      score.SkipScore   = &skipScore
      // the more confident signal wins
      if signalScore > skipScore {
        score.Value = signalScore
      } else {
        score.Value = skipScore
      }
    case signalOk:
      score.SignalScore = &signalScore
      score.Value       = signalScore
    case skipOk:
      score.SkipScore = &skipScore
      score.Value     = skipScore
    default:
      // no model covers this position
      continue
    }
    scores = append(scores, score)
  }
  return NewScoredRead(read, scores), nil
}

// ScoreReads scores a batch of independent reads in parallel. The shared
// models and rank table are read-only; each job owns its read's context
// and output slot.
func (options ScoreOptions) ScoreReads(reads []Eventalign, index SequenceIndex, pool threadpool.ThreadPool) ([]ScoredRead, error) {
  scored := make([]ScoredRead, len(reads))

  err := pool.RangeJob(0, len(reads), func(i int, pool threadpool.ThreadPool, erf func() error) error {
    result, err := options.ScoreRead(reads[i], index)
    if err != nil {
      return err
    }
    scored[i] = result
    return nil
  })
  if err != nil {
    return nil, err
  }
  return scored, nil
}

/* signal score
 * -------------------------------------------------------------------------- */

func (options ScoreOptions) signalScore(pos int, measured map[int]*Signal) (float64, bool) {
  candidates := []*Signal{}
  for _, p := range surroundingPositions(pos) {
    if signal, ok := measured[p]; ok {
      candidates = append(candidates, signal)
    }
  }
  signal := BestRankedSignal(candidates, options.Ranks)
  if signal == nil {
    return 0, false
  }
  posMixture, ok := options.PosModel.Mixture(signal.Kmer)
  if !ok {
    return 0, false
  }
  negMixture, ok := options.NegModel.Mixture(signal.Kmer)
  if !ok {
    return 0, false
  }
  x := signal.Mean
  if posMixture.LogProb(x) < options.Cutoff && negMixture.LogProb(x) < options.Cutoff {
    // implausible under either model, do not extrapolate into the tails
    return 0, false
  }
  pp := posMixture.Prob(x)
  np := negMixture.Prob(x)
  if pp+np == 0 {
    return 0, false
  }
  return pp / (pp + np), true
}

// BestRankedSignal selects from a list of candidate measurements the one
// whose kmer carries the highest divergence in the rank table. A candidate
// without a rank entry loses against any ranked one; among equally ranked
// candidates the later one wins. Returns nil if there are no candidates.
func BestRankedSignal(candidates []*Signal, ranks RankTable) *Signal {
  var best       *Signal
  var bestRank    float64
  var bestRanked  bool

  for _, signal := range candidates {
    rank, ranked := ranks[signal.Kmer]
    switch {
    case best == nil:
      best, bestRank, bestRanked = signal, rank, ranked
    case !bestRanked:
      best, bestRank, bestRanked = signal, rank, ranked
    case !ranked:
      // keep current best
    case bestRank > rank:
      // keep current best
    default:
      best, bestRank, bestRanked = signal, rank, ranked
    }
  }
  return best
}

/* skip score
 * -------------------------------------------------------------------------- */

// The skip score of a position is the median of the presence/absence
// adjusted odds over all surrounding kmers that carry a skip rate in both
// models.
func (options ScoreOptions) skipScore(pos int, measured map[int]*Signal, context Context) (float64, bool) {
  scores := []float64{}
  for _, p := range surroundingPositions(pos) {
    kmer, ok := context.KmerAt(p)
    if !ok {
      continue
    }
    posRate, ok := options.PosModel.SkipRate(kmer)
    if !ok {
      continue
    }
    negRate, ok := options.NegModel.SkipRate(kmer)
    if !ok {
      continue
    }
    if _, hasData := measured[p]; hasData {
      if posRate+negRate > 0 {
        scores = append(scores, posRate/(posRate+negRate))
      }
    } else {
      posAbsent := 1.0 - posRate
      negAbsent := 1.0 - negRate
      if posAbsent+negAbsent > 0 {
        scores = append(scores, posAbsent/(posAbsent+negAbsent))
      }
    }
  }
  if len(scores) == 0 {
    return 0, false
  }
  sort.Float64s(scores)
  return median(scores), true
}

func median(sorted []float64) float64 {
  n := len(sorted)
  if n%2 == 1 {
    return sorted[n/2]
  }
  return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

/* -------------------------------------------------------------------------- */

// The genomic start positions of all 6-mers overlapping pos, clamped at
// the start of the chromosome.
func surroundingPositions(pos int) []int {
  start := iMax(0, pos-ContextSlop)

  positions := []int{}
  for p := start; p <= pos; p++ {
    positions = append(positions, p)
  }
  return positions
}
