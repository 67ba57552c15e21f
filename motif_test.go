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
import "testing"

/* -------------------------------------------------------------------------- */

func TestParseMotif1(test *testing.T) {
  motif, err := ParseMotif("2:GC")
  if err != nil {
    test.Fatal(err)
  }
  if motif.Sequence != "GC" || motif.Position != 2 {
    test.Error("test failed")
  }
  if motif.String() != "2:GC" {
    test.Error("test failed")
  }
}

func TestParseMotif2(test *testing.T) {
  invalid := []string{
    "GC",      // no position
    "1:GC:2",  // too many fields
    "x:GC",    // position not an integer
    "0:GC",    // position is one-based
    "-1:GC",   // position is one-based
    "3:GC",    // position past the motif
    "1:gc",    // lower case
    "1:GN",    // invalid base
    "1:",      // empty motif
    ":GC" }    // empty position

  for _, str := range invalid {
    if _, err := ParseMotif(str); err == nil {
      test.Errorf("motif `%s' parsed but should not", str)
    }
  }
}

/* -------------------------------------------------------------------------- */

func TestMotifMatches(test *testing.T) {
  motif := NewMotif("GC", 2)

  if !motif.MatchesKmer("GCGCAT") {
    test.Error("test failed")
  }
  if motif.MatchesKmer("AGCGCA") {
    test.Error("test failed")
  }
  // an empty motif set accepts every kmer
  if !anyMotifMatches(nil, "ATGCAT") {
    test.Error("test failed")
  }
  if !anyMotifMatches(AllBases(), "ATGCAT") {
    test.Error("test failed")
  }
  if anyMotifMatches([]Motif{motif}, "ATGCAT") {
    test.Error("test failed")
  }
}
