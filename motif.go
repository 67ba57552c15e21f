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

import "fmt"
import "strconv"
import "strings"

/* -------------------------------------------------------------------------- */

// A sequence motif restricting which kmers are trained and scored, e.g.
// "2:GC" for GpC methylation. Position is one-based and marks the modified
// base within the motif.
type Motif struct {
  Sequence string `json:"sequence"`
  Position int    `json:"position"`
}

/* constructors
 * -------------------------------------------------------------------------- */

func NewMotif(sequence string, position int) Motif {
  return Motif{sequence, position}
}

// Parse a motif given in the form [pos]:[motif], where pos is the one-based
// position of the modified base and motif consists of upper case ACGT only.
func ParseMotif(str string) (Motif, error) {
  fields := strings.Split(str, ":")
  if len(fields) != 2 {
    return Motif{}, fmt.Errorf("ParseMotif(): invalid format `%s', expected [pos]:[motif]", str)
  }
  pos, err := strconv.Atoi(fields[0])
  if err != nil {
    return Motif{}, fmt.Errorf("ParseMotif(): position must be a positive integer")
  }
  motif := fields[1]
  if !validMotifBases(motif) {
    return Motif{}, fmt.Errorf("ParseMotif(): invalid base, motifs consist of upper case ACGT only")
  }
  if pos < 1 {
    return Motif{}, fmt.Errorf("ParseMotif(): position is one-based")
  }
  if pos > len(motif) {
    return Motif{}, fmt.Errorf("ParseMotif(): position must be less than the length of the motif")
  }
  return NewMotif(motif, pos), nil
}

func validMotifBases(motif string) bool {
  if len(motif) == 0 {
    return false
  }
  for i := 0; i < len(motif); i++ {
    switch motif[i] {
    case 'A', 'C', 'G', 'T':
    default:
      return false
    }
  }
  return true
}

/* -------------------------------------------------------------------------- */

// The default motif set: one single-base motif per nucleotide, i.e. no
// restriction on which kmers are considered.
func AllBases() []Motif {
  return []Motif{
    NewMotif("A", 1),
    NewMotif("C", 1),
    NewMotif("G", 1),
    NewMotif("T", 1) }
}

/* -------------------------------------------------------------------------- */

func (motif Motif) MatchesKmer(kmer string) bool {
  return strings.HasPrefix(kmer, motif.Sequence)
}

func (motif Motif) String() string {
  return fmt.Sprintf("%d:%s", motif.Position, motif.Sequence)
}

/* -------------------------------------------------------------------------- */

// True if the kmer starts with any of the given motifs. An empty motif set
// accepts every kmer.
func anyMotifMatches(motifs []Motif, kmer string) bool {
  if len(motifs) == 0 {
    return true
  }
  for _, motif := range motifs {
    if motif.MatchesKmer(kmer) {
      return true
    }
  }
  return false
}
