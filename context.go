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

const KmerLength  = 6
const ContextSlop = KmerLength - 1

/* -------------------------------------------------------------------------- */

// Genomic sequence context of one read: the reference window covering the
// read's span plus up to ContextSlop bases of slop on each side, clamped
// at the chromosome boundaries. For minus strand reads the window is
// reverse complemented, so that kmer lookups are expressed in the read's
// sequencing orientation.
type Context struct {
  sequence  []byte
  readStart int
  startSlop int
  endSlop   int
}

/* constructor
 * -------------------------------------------------------------------------- */

func NewContext(read Eventalign, index SequenceIndex) (Context, error) {
  chromLen, err := index.ChromLength(read.Chrom)
  if err != nil {
    return Context{}, err
  }
  startSlop := iMin(read.Start, ContextSlop)
  start     := read.Start - startSlop

  kmerStop := read.KmerStop()
  endSlop  := 0
  stop     := chromLen
  if kmerStop+1 <= chromLen {
    endSlop = iMin(ContextSlop, chromLen-(kmerStop+1))
    stop    = kmerStop + 1
  }
  sequence, err := index.Fetch(read.Chrom, start, stop)
  if err != nil {
    return Context{}, err
  }
  if read.Strand.IsMinus() {
    sequence = revComplement(sequence)
  }
  return Context{sequence, read.Start, startSlop, endSlop}, nil
}

/* -------------------------------------------------------------------------- */

func (context Context) Length() int {
  return len(context.sequence)
}

func (context Context) StartSlop() int {
  return context.startSlop
}

func (context Context) EndSlop() int {
  return context.endSlop
}

/* -------------------------------------------------------------------------- */

// The 6-mer starting at the given genomic position. Returns false if the
// kmer would run past the fetched window, e.g. near a chromosome end.
func (context Context) KmerAt(pos int) (string, bool) {
  i := pos - context.readStart + context.startSlop
  if i < 0 || i+KmerLength > len(context.sequence) {
    return "", false
  }
  return string(context.sequence[i : i+KmerLength]), true
}

// All 6-mers overlapping the given genomic position, i.e. those whose
// start lies within the ContextSlop preceding bases up to and including
// the position itself. Kmers running past the fetched window are skipped.
func (context Context) Surrounding(pos int) []string {
  i     := pos - context.readStart + context.startSlop
  start := iMax(0, i-ContextSlop)

  kmers := []string{}
  for j := start; j <= i; j++ {
    if j >= 0 && j+KmerLength <= len(context.sequence) {
      kmers = append(kmers, string(context.sequence[j:j+KmerLength]))
    }
  }
  return kmers
}

/* -------------------------------------------------------------------------- */

// Reverse complement in place. Bases outside the alphabet (e.g. N) are
// kept as they are.
func revComplement(sequence []byte) []byte {
  alphabet := NucleotideAlphabet{}
  for i, j := 0, len(sequence)-1; i <= j; i, j = i+1, j-1 {
    a, erra := alphabet.Complement(sequence[i])
    b, errb := alphabet.Complement(sequence[j])
    if erra != nil {
      a = sequence[i]
    }
    if errb != nil {
      b = sequence[j]
    }
    sequence[i], sequence[j] = b, a
  }
  return sequence
}
