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
import "bytes"
import "errors"
import "path/filepath"
import "reflect"
import "testing"

/* -------------------------------------------------------------------------- */

func TestAllKmers(test *testing.T) {
  kmers := AllKmers()

  if len(kmers) != 4096 {
    test.Fatal("test failed")
  }
  if kmers[0] != "AAAAAA" {
    test.Error("test failed")
  }
  if kmers[4095] != "TTTTTT" {
    test.Error("test failed")
  }
  seen := make(map[string]struct{})
  for _, kmer := range kmers {
    seen[kmer] = struct{}{}
  }
  if len(seen) != 4096 {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestModelIO(test *testing.T) {
  model := EmptyModel()
  model.Mixtures["ATGCAT"] = Mixture{[]MixtureComponent{
    {0.3, 85.123456789, 1.5},
    {0.7, 120.987654321, 2.5} }}
  model.SkipRates["ATGCAT"] = 0.125

  buffer := bytes.Buffer{}
  if err := model.Write(&buffer); err != nil {
    test.Fatal(err)
  }
  restored, err := ReadModel(&buffer)
  if err != nil {
    test.Fatal(err)
  }
  if !reflect.DeepEqual(model, restored) {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestSkipCounter(test *testing.T) {
  index := testIndex()

  // signal missing at position 1
  read := NewEventalign("r1", "one", 0, 3, StrandPlus, []Signal{
    NewSignal(0, "ATGCAT", 85.0, 2.0, nil),
    NewSignal(2, "GCATGC", 90.0, 2.0, nil) })

  counter := newSkipCounter()
  if err := counter.addRead(read, index); err != nil {
    test.Fatal(err)
  }
  rates := counter.rates()
  if rates["ATGCAT"] != 0.0 {
    test.Error("test failed")
  }
  if rates["TGCATG"] != 1.0 {
    test.Error("test failed")
  }
  if rates["GCATGC"] != 0.0 {
    test.Error("test failed")
  }
  if _, ok := rates["CATGCA"]; ok {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestTrain(test *testing.T) {
  index := testIndex()

  // enough spread per position that every covered kmer trains
  reads := []Eventalign{}
  for i := 0; i < 20; i++ {
    reads = append(reads, NewEventalign("r", "one", 0, 3, StrandPlus, []Signal{
      NewSignal(0, "ATGCAT", 85.0, 2.0, []float64{84.0 + 0.1*float64(i), 86.0 + 0.1*float64(i)}),
      NewSignal(1, "TGCATG", 95.0, 2.0, []float64{94.0 + 0.1*float64(i), 96.0 + 0.1*float64(i)}),
      NewSignal(2, "GCATGC", 105.0, 2.0, []float64{104.0 + 0.1*float64(i), 106.0 + 0.1*float64(i)}) }))
  }
  dir      := test.TempDir()
  filename := filepath.Join(dir, "input.reads")

  if err := ExportEventaligns(filename, reads); err != nil {
    test.Fatal(err)
  }
  options          := DefaultTrainOptions()
  options.StorePath = filepath.Join(dir, "samples.db")

  model, err := options.Train(filename, index)
  if err != nil {
    test.Fatal(err)
  }
  for _, kmer := range []string{"ATGCAT", "TGCATG", "GCATGC"} {
    if _, ok := model.Mixture(kmer); !ok {
      test.Errorf("kmer %s not trained", kmer)
    }
    if rate, ok := model.SkipRate(kmer); !ok || rate != 0.0 {
      test.Error("test failed")
    }
  }
  // no observations for this kmer
  if _, ok := model.Mixture("AAAAAA"); ok {
    test.Error("test failed")
  }
}

func TestTrainFailure(test *testing.T) {
  index := testIndex()

  // all observations out of range, no kmer can train
  reads := []Eventalign{
    NewEventalign("r", "one", 0, 1, StrandPlus, []Signal{
      NewSignal(0, "ATGCAT", 300.0, 2.0, []float64{299.0, 301.0}) }) }

  dir      := test.TempDir()
  filename := filepath.Join(dir, "input.reads")

  if err := ExportEventaligns(filename, reads); err != nil {
    test.Fatal(err)
  }
  options          := DefaultTrainOptions()
  options.StorePath = filepath.Join(dir, "samples.db")

  if _, err := options.Train(filename, index); !errors.Is(err, ErrAllModelsFailed) {
    test.Error("test failed")
  }
}
