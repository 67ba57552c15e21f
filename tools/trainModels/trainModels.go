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
import   "strings"

import   "github.com/pborman/getopt"
import   "github.com/sirupsen/logrus"

import . "github.com/BrooksLabUCSC/cawlr"

/* -------------------------------------------------------------------------- */

type Config struct {
  Genome   string
  Motifs   string
  Samples  int
  Single   bool
  Filter   bool
  Store    string
  Seed     int
  Verbose  int
}

/* i/o
 * -------------------------------------------------------------------------- */

func PrintStderr(config Config, level int, format string, args ...interface{}) {
  if config.Verbose >= level {
    fmt.Fprintf(os.Stderr, format, args...)
  }
}

/* -------------------------------------------------------------------------- */

func ImportGenome(config Config, filename string) SequenceIndex {
  index := EmptySequenceIndex()
  PrintStderr(config, 1, "Reading fasta file `%s'... ", filename)
  if err := index.ImportFasta(filename); err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return index
}

func ParseMotifs(config Config) []Motif {
  if config.Motifs == "" {
    return AllBases()
  }
  motifs := []Motif{}
  for _, field := range strings.Split(config.Motifs, ",") {
    motif, err := ParseMotif(field)
    if err != nil {
      log.Fatal(err)
    }
    motifs = append(motifs, motif)
  }
  return motifs
}

/* -------------------------------------------------------------------------- */

func trainModels(config Config, filenameIn, filenameOut string) {
  index   := ImportGenome(config, config.Genome)
  options := DefaultTrainOptions()
  options.NSamples      = config.Samples
  options.Single        = config.Single
  options.DensityFilter = config.Filter
  options.Motifs        = ParseMotifs(config)
  options.Seed          = uint64(config.Seed)
  if config.Store != "" {
    options.StorePath = config.Store
  }

  PrintStderr(config, 1, "Training models from `%s'... ", filenameIn)
  model, err := options.Train(filenameIn, index)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  PrintStderr(config, 1, "Trained %d kmer models\n", len(model.Mixtures))

  if err := model.Export(filenameOut); err != nil {
    log.Fatal(err)
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optGenome  := options. StringLong("genome",         'g', "",    "genome fasta file (may be gzipped)")
  optMotifs  := options. StringLong("motifs",         'm', "",    "comma separated motifs in the form [pos]:[motif], e.g. `2:GC' [default: all bases]")
  optSamples := options.    IntLong("samples",         0 , 50000, "maximum number of observations per kmer [default: 50000]")
  optSingle  := options.   BoolLong("single",          0 ,        "fit a single component instead of a two component mixture")
  optFilter  := options.   BoolLong("density-filter",  0 ,        "drop low density observations before fitting")
  optStore   := options. StringLong("store",           0 , "",    "path of the scratch sample store [default: temp directory]")
  optSeed    := options.    IntLong("seed",            0 , 2456,  "seed for the mixture fitting restarts")
  optVerbose := options.CounterLong("verbose",        'v',        "verbose level [-v or -vv]")
  optHelp    := options.   BoolLong("help",           'h',        "print help")

  options.SetParameters("<INPUT.reads> <OUTPUT.model>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 || *optGenome == "" {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Genome  = *optGenome
  config.Motifs  = *optMotifs
  config.Samples = *optSamples
  config.Single  = *optSingle
  config.Filter  = *optFilter
  config.Store   = *optStore
  config.Seed    = *optSeed
  config.Verbose = *optVerbose

  if config.Verbose >= 2 {
    logrus.SetLevel(logrus.DebugLevel)
  }

  trainModels(config, options.Args()[0], options.Args()[1])
}
