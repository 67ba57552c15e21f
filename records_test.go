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
import "path/filepath"
import "reflect"
import "testing"

/* -------------------------------------------------------------------------- */

func TestEventalignRecords(test *testing.T) {
  filename := filepath.Join(test.TempDir(), "input.reads")

  reads := []Eventalign{}
  for i := 0; i < 7; i++ {
    reads = append(reads, NewEventalign("r", "one", i, 2, StrandPlus, []Signal{
      NewSignal(i, "ATGCAT", 85.0+float64(i), 2.0, []float64{84.0, 85.0}) }))
  }
  if err := ExportEventaligns(filename, reads); err != nil {
    test.Fatal(err)
  }
  restored := []Eventalign{}
  batches  := 0

  // batch size smaller than the record count, the last batch is partial
  err := EventalignBatches(filename, 3, func(batch []Eventalign) error {
    restored = append(restored, batch...)
    batches++
    return nil
  })
  if err != nil {
    test.Fatal(err)
  }
  if batches != 3 {
    test.Error("test failed")
  }
  if !reflect.DeepEqual(reads, restored) {
    test.Error("test failed")
  }
}

func TestScoredReadRecords(test *testing.T) {
  filename := filepath.Join(test.TempDir(), "output.scores")

  value := 0.75
  reads := []ScoredRead{{
    Name  : "r1",
    Chrom : "one",
    Start : 0,
    Length: 2,
    Strand: StrandMinus,
    Scores: []Score{
      {Pos: 0, Kmer: "ATGCAT", Skipped: false, SignalScore: &value, Value: 0.75},
      {Pos: 1, Kmer: "TGCATG", Skipped: true, SkipScore: &value, Value: 0.75} }}}

  if err := ExportScoredReads(filename, reads); err != nil {
    test.Fatal(err)
  }
  restored := []ScoredRead{}
  err := ScoredReadBatches(filename, 0, func(batch []ScoredRead) error {
    restored = append(restored, batch...)
    return nil
  })
  if err != nil {
    test.Fatal(err)
  }
  if !reflect.DeepEqual(reads, restored) {
    test.Error("test failed")
  }
}
