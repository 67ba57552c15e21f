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
import "math"
import "path/filepath"
import "testing"

/* -------------------------------------------------------------------------- */

func openTestStore(test *testing.T) *SampleStore {
  store, err := OpenSampleStore(filepath.Join(test.TempDir(), "samples.db"))
  if err != nil {
    test.Fatal(err)
  }
  test.Cleanup(func() { store.Close() })
  return store
}

/* -------------------------------------------------------------------------- */

func TestSampleStore1(test *testing.T) {
  store := openTestStore(test)

  reads := []Eventalign{
    NewEventalign("r1", "one", 0, 2, StrandPlus, []Signal{
      NewSignal(0, "ATGCAT", 85.0, 2.0, []float64{84.0, 85.0, 300.0}),
      NewSignal(1, "TGCATG", 90.0, 2.0, nil) }) }

  if err := store.AddReads(reads, nil); err != nil {
    test.Fatal(err)
  }
  // the raw sample 300.0 is out of range
  if n, err := store.Count("ATGCAT"); err != nil || n != 2 {
    test.Error("test failed")
  }
  // a signal without raw samples contributes its mean
  if n, err := store.Count("TGCATG"); err != nil || n != 1 {
    test.Error("test failed")
  }
  if n, err := store.Count("GCATGC"); err != nil || n != 0 {
    test.Error("test failed")
  }
}

func TestSampleStore2(test *testing.T) {
  store := openTestStore(test)

  // signals with uncharacteristic means are dropped entirely
  reads := []Eventalign{
    NewEventalign("r1", "one", 0, 3, StrandPlus, []Signal{
      NewSignal(0, "ATGCAT", 300.0, 2.0, []float64{84.0, 85.0}),
      NewSignal(1, "TGCATG", math.NaN(), 2.0, []float64{84.0, 85.0}),
      NewSignal(2, "GCATGC", 10.0, 2.0, []float64{84.0, 85.0}) }) }

  if err := store.AddReads(reads, nil); err != nil {
    test.Fatal(err)
  }
  for _, kmer := range []string{"ATGCAT", "TGCATG", "GCATGC"} {
    if n, err := store.Count(kmer); err != nil || n != 0 {
      test.Error("test failed")
    }
  }
}

func TestSampleStore3(test *testing.T) {
  store := openTestStore(test)

  reads := []Eventalign{
    NewEventalign("r1", "one", 0, 2, StrandPlus, []Signal{
      NewSignal(0, "GCGCAT", 85.0, 2.0, []float64{84.0, 85.0}),
      NewSignal(1, "ATGCAT", 90.0, 2.0, []float64{89.0, 90.0}) }) }

  // only kmers starting with the motif are collected
  if err := store.AddReads(reads, []Motif{NewMotif("GC", 1)}); err != nil {
    test.Fatal(err)
  }
  if n, err := store.Count("GCGCAT"); err != nil || n != 2 {
    test.Error("test failed")
  }
  if n, err := store.Count("ATGCAT"); err != nil || n != 0 {
    test.Error("test failed")
  }
}

func TestSampleStore4(test *testing.T) {
  store := openTestStore(test)

  signals := []Signal{}
  for i := 0; i < 20; i++ {
    signals = append(signals, NewSignal(i, "ATGCAT", 85.0, 2.0, []float64{80.0 + float64(i)}))
  }
  reads := []Eventalign{
    NewEventalign("r1", "one", 0, 20, StrandPlus, signals) }

  if err := store.AddReads(reads, nil); err != nil {
    test.Fatal(err)
  }
  samples, err := store.Sample("ATGCAT", 5)
  if err != nil {
    test.Fatal(err)
  }
  if len(samples) != 5 {
    test.Error("test failed")
  }
  for _, x := range samples {
    if x < 80.0 || x > 99.0 {
      test.Error("test failed")
    }
  }
  // fewer observations than requested
  if samples, err := store.Sample("ATGCAT", 100); err != nil || len(samples) != 20 {
    test.Error("test failed")
  }
}
