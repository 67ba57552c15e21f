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
import "reflect"
import "testing"

/* -------------------------------------------------------------------------- */

func singleMixture(mean, variance float64) Mixture {
  return Mixture{[]MixtureComponent{{1.0, mean, variance}}}
}

func testRankModels() (Model, Model) {
  posModel := EmptyModel()
  negModel := EmptyModel()

  // well separated mixtures
  posModel.Mixtures["AAAAAA"] = singleMixture(85.0, 1.0)
  negModel.Mixtures["AAAAAA"] = singleMixture(120.0, 1.0)
  // identical mixtures
  posModel.Mixtures["ACGTAC"] = singleMixture(100.0, 4.0)
  negModel.Mixtures["ACGTAC"] = singleMixture(100.0, 4.0)
  // trained in one model only
  posModel.Mixtures["CCCCCC"] = singleMixture(90.0, 1.0)
  negModel.Mixtures["GGGGGG"] = singleMixture(90.0, 1.0)

  return posModel, negModel
}

/* -------------------------------------------------------------------------- */

func TestRank1(test *testing.T) {
  posModel, negModel := testRankModels()

  options := DefaultRankOptions()
  table   := options.Rank(posModel, negModel)

  if len(table) != 2 {
    test.Fatal("test failed")
  }
  // kmers trained in only one model are omitted
  if _, ok := table["CCCCCC"]; ok {
    test.Error("test failed")
  }
  if _, ok := table["GGGGGG"]; ok {
    test.Error("test failed")
  }
  // identical mixtures carry zero divergence
  if table["ACGTAC"] != 0.0 {
    test.Error("test failed")
  }
  if table["AAAAAA"] <= 100.0 {
    test.Errorf("unexpected divergence: %f", table["AAAAAA"])
  }
}

func TestRank2(test *testing.T) {
  posModel, negModel := testRankModels()

  // fixed seed, deterministic estimates
  options := DefaultRankOptions()
  table1  := options.Rank(posModel, negModel)
  table2  := options.Rank(posModel, negModel)

  if !reflect.DeepEqual(table1, table2) {
    test.Error("test failed")
  }
}

/* -------------------------------------------------------------------------- */

func TestRankTableIO(test *testing.T) {
  table := RankTable{
    "ATGCAT": 12.3456789,
    "TGCATG": 0.0 }

  buffer := bytes.Buffer{}
  if err := table.Write(&buffer); err != nil {
    test.Fatal(err)
  }
  restored, err := ReadRankTable(&buffer)
  if err != nil {
    test.Fatal(err)
  }
  if !reflect.DeepEqual(table, restored) {
    test.Error("test failed")
  }
}
