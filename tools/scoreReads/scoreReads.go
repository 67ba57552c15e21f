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
import   "strconv"
import   "strings"

import   "github.com/pborman/getopt"
import   "github.com/pbenner/threadpool"

import . "github.com/BrooksLabUCSC/cawlr"
import   "github.com/BrooksLabUCSC/cawlr/lib/progress"

/* -------------------------------------------------------------------------- */

type Config struct {
  Genome    string
  Motifs    string
  Cutoff    float64
  Threads   int
  BatchSize int
  Verbose   int
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

func ImportRanks(config Config, filename string) RankTable {
  PrintStderr(config, 1, "Reading rank table `%s'... ", filename)
  table, err := ImportRankTable(filename)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return table
}

func ParseMotifs(config Config) []Motif {
  if config.Motifs == "" {
    return nil
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

func scoreReads(config Config, filenamePos, filenameNeg, filenameRanks, filenameIn, filenameOut string) {
  index    := ImportGenome(config, config.Genome)
  posModel := ImportControlModel(config, filenamePos)
  negModel := ImportControlModel(config, filenameNeg)
  ranks    := ImportRanks(config, filenameRanks)

  options := DefaultScoreOptions(posModel, negModel, ranks)
  options.Motifs = ParseMotifs(config)
  options.Cutoff = config.Cutoff

  f, err := os.Create(filenameOut)
  if err != nil {
    log.Fatal(err)
  }
  defer f.Close()

  writer  := NewScoredReadWriter(f)
  pool    := threadpool.New(config.Threads, 100*config.Threads)
  counter := progress.NewCounter("reads", 100)

  err = EventalignBatches(filenameIn, config.BatchSize, func(reads []Eventalign) error {
    scored, err := options.ScoreReads(reads, index, pool)
    if err != nil {
      return err
    }
    for _, read := range scored {
      writer.Write(read)
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

  optPosCtrl := options. StringLong("pos-ctrl",   0 , "",    "model trained on the positive control")
  optNegCtrl := options. StringLong("neg-ctrl",   0 , "",    "model trained on the negative control")
  optRanks   := options. StringLong("ranks",     'r', "",    "kmer rank table")
  optGenome  := options. StringLong("genome",    'g', "",    "genome fasta file (may be gzipped)")
  optMotifs  := options. StringLong("motifs",    'm', "",    "comma separated motifs in the form [pos]:[motif] [default: no restriction]")
  optCutoff  := options. StringLong("cutoff",     0 , "-10", "log density floor below which signal scores are withheld [default: -10]")
  optThreads := options.    IntLong("threads",    0 ,  1,    "number of threads [default: 1]")
  optBatch   := options.    IntLong("batch-size", 0 ,  500,  "number of reads per batch [default: 500]")
  optVerbose := options.CounterLong("verbose",   'v',        "verbose level [-v or -vv]")
  optHelp    := options.   BoolLong("help",      'h',        "print help")

  options.SetParameters("<INPUT.reads> <OUTPUT.scores>")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) != 2 || *optPosCtrl == "" || *optNegCtrl == "" || *optRanks == "" || *optGenome == "" {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  cutoff, err := strconv.ParseFloat(*optCutoff, 64)
  if err != nil {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Genome    = *optGenome
  config.Motifs    = *optMotifs
  config.Cutoff    = cutoff
  config.Threads   = *optThreads
  config.BatchSize = *optBatch
  config.Verbose   = *optVerbose

  scoreReads(config, *optPosCtrl, *optNegCtrl, *optRanks, options.Args()[0], options.Args()[1])
}
