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

package main

/* -------------------------------------------------------------------------- */

import   "fmt"
import   "log"
import   "os"

import   "github.com/pborman/getopt"

import . "github.com/BrooksLabUCSC/cawlr"

/* -------------------------------------------------------------------------- */

type Config struct {
  Seed    int
  Samples int
  Verbose int
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func ImportControlModel(config Config, filename string) Model {
  PrintStderr(config, 1, "Reading model `%s'... ", filename)
  model, err := ImportModel(filename)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return model
}

/* -------------------------------------------------------------------------- */

func rankKmers(config Config, filenamePos, filenameNeg, filenameOut string) {
  posModel := ImportControlModel(config, filenamePos)
  negModel := ImportControlModel(config, filenameNeg)

  options := DefaultRankOptions()
  options.Seed     = uint64(config.Seed)
  options.NSamples = config.Samples

  PrintStderr(config, 1, "Ranking kmers... ")
  table := options.Rank(posModel, negModel)
  PrintStderr(config, 1, "done\n")
  PrintStderr(config, 1, "Ranked %d kmers\n", len(table))

  if filenameOut == "" {
    if err := table.Write(os.Stdout); err != nil {
      log.Fatal(err)
    }
  } else {
    if err := table.Export(filenameOut); err != nil {
      log.Fatal(err)
    }
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optPosCtrl := options. StringLong("pos-ctrl", 0 , "",    "model trained on the positive control")
  optNegCtrl := options. StringLong("neg-ctrl", 0 , "",    "model trained on the negative control")
  optSeed    := options.    IntLong("seed",     0 , 2456,  "seed for divergence sampling, fixed for reproducible ranks [default: 2456]")
  optSamples := options.    IntLong("samples",  0 , 10000, "number of Monte Carlo samples per kmer [default: 10000]")
  optVerbose := options.CounterLong("verbose", 'v',        "verbose level [-v or -vv]")
  optHelp    := options.   BoolLong("help",    'h',        "print help")

  options.SetParameters("[OUTPUT.ranks]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) > 1 || *optPosCtrl == "" || *optNegCtrl == "" {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Seed    = *optSeed
  config.Samples = *optSamples
  config.Verbose = *optVerbose

  filenameOut := ""
  if len(options.Args()) == 1 {
    filenameOut = options.Args()[0]
  }

  rankKmers(config, *optPosCtrl, *optNegCtrl, filenameOut)
}
