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
import   "github.com/BrooksLabUCSC/cawlr/lib/progress"

/* -------------------------------------------------------------------------- */

type Config struct {
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

func ImportDensity(config Config, filename string) ScoreDensity {
  PrintStderr(config, 1, "Reading score density `%s'... ", filename)
  density, err := ImportScoreDensity(filename)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return density
}

/* -------------------------------------------------------------------------- */

func smaCalls(config Config, filenamePos, filenameNeg, filenameIn, filenameOut string) {
  posDensity := ImportDensity(config, filenamePos)
  negDensity := ImportDensity(config, filenameNeg)

  f, err := os.Create(filenameOut)
  if err != nil {
    log.Fatal(err)
  }
  defer f.Close()

  writer  := NewScoredReadWriter(f)
  counter := progress.NewCounter("reads", 100)

  err = ScoredReadBatches(filenameIn, 0, func(reads []ScoredRead) error {
    for _, read := range reads {
      writer.Write(Calibrate(read, posDensity, negDensity))
    }
    if config.Verbose >= 1 {
      counter.Add(len(reads))
    }
    return nil
  })
  if err != nil {
    log.Fatal(err)
  }
  if config.Verbose >= 1 {
    counter.Done()
  }
  if err := writer.Close(); err != nil {
    log.Fatal(err)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optPosScores := options. StringLong("pos-ctrl-scores", 0 , "", "score density of the positive control cohort")
  optNegScores := options. StringLong("neg-ctrl-scores", 0 , "", "score density of the negative control cohort")
  optVerbose   := options.CounterLong("verbose",        'v',     "verbose level [-v or -vv]")
  optHelp      := options.   BoolLong("help",           'h',     "print help")

  options.SetParameters("<INPUT.scores> <OUTPUT.scores>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 || *optPosScores == "" || *optNegScores == "" {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Verbose = *optVerbose

  smaCalls(config, *optPosScores, *optNegScores, options.Args()[0], options.Args()[1])
}
