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

/* -------------------------------------------------------------------------- */

type Strand byte

const (
  StrandPlus    Strand = '+'
  StrandMinus   Strand = '-'
  StrandUnknown Strand = '*'
)

/* -------------------------------------------------------------------------- */

func ParseStrand(c byte) Strand {
  switch c {
  case '+': return StrandPlus
  case '-': return StrandMinus
  default : return StrandUnknown
  }
}

func (strand Strand) IsMinus() bool {
  return strand == StrandMinus
}

func (strand Strand) String() string {
  return string(strand)
}

/* -------------------------------------------------------------------------- */

// One signal-alignment event: the ionic current measured while the pore
// read the 6-mer starting at Pos. Immutable once constructed.
type Signal struct {
  Pos     int       `json:"pos"`
  Kmer    string    `json:"kmer"`
  Mean    float64   `json:"mean"`
  Stddev  float64   `json:"stddev"`
  Samples []float64 `json:"samples"`
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewSignal(pos int, kmer string, mean, stddev float64, samples []float64) Signal {
  return Signal{pos, kmer, mean, stddev, samples}
}

/* -------------------------------------------------------------------------- */

// One sequenced, aligned read together with its signal-alignment events.
// Start is zero-based; every signal position lies within
// [Start, Start+Length).
type Eventalign struct {
  Name    string   `json:"name"`
  Chrom   string   `json:"chrom"`
  Start   int      `json:"start"`
  Length  int      `json:"length"`
  Strand  Strand   `json:"strand"`
  Signals []Signal `json:"signals"`
}

/* constructors
 * -------------------------------------------------------------------------- */

func NewEventalign(name, chrom string, start, length int, strand Strand, signals []Signal) Eventalign {
  return Eventalign{name, chrom, start, length, strand, signals}
}

func EmptyEventalign(name, chrom string, start, length int) Eventalign {
  return Eventalign{name, chrom, start, length, StrandPlus, nil}
}

/* -------------------------------------------------------------------------- */

// Zero-based position of the last aligned base.
func (read Eventalign) Stop() int {
  return read.Start + read.Length - 1
}

// Zero-based position of the last base covered by the 6-mer starting at
// the last aligned base.
func (read Eventalign) KmerStop() int {
  return read.Stop() + KmerLength - 1
}

// Map from genomic position to the signal measured at that position. Used
// during scoring to decide whether a position was skipped by the
// signal-alignment.
func (read Eventalign) SignalPositions() map[int]*Signal {
  m := make(map[int]*Signal)
  for i := 0; i < len(read.Signals); i++ {
    m[read.Signals[i].Pos] = &read.Signals[i]
  }
  return m
}
