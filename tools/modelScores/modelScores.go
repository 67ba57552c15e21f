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

import   "gonum.org/v1/plot"
import   "gonum.org/v1/plot/plotter"
import   "gonum.org/v1/plot/vg"

import . "github.com/BrooksLabUCSC/cawlr"

/* -------------------------------------------------------------------------- */

type Config struct {
  Bins    int
  Plot    string
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

func CollectScores(config Config, filename string) []float64 {
  scores := []float64{}
  PrintStderr(config, 1, "Reading scores from `%s'... ", filename)
  err := ScoredReadBatches(filename, 0, func(reads []ScoredRead) error {
    for _, read := range reads {
      for _, score := range read.Scores {
        scores = append(scores, score.Value)
      }
    }
    return nil
  })
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")
  return scores
}

/* -------------------------------------------------------------------------- */

func PlotDensity(config Config, density ScoreDensity, filename string) {
  p := plot.New()
  p.Title.Text   = "score density"
  p.X.Label.Text = "score"
  p.Y.Label.Text = "density"

  width := (density.Max - density.Min) / float64(len(density.Bins))
  xys   := make(plotter.XYs, len(density.Bins))
  for i := 0; i < len(density.Bins); i++ {
    xys[i].X = density.Min + (float64(i)+0.5)*width
    xys[i].Y = density.Bins[i]
  }
  line, err := plotter.NewLine(xys)
  if err != nil {
    log.Fatal(err)
  }
  p.Add(line)

  if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
    log.Fatal(err)
  }
}

/* -------------------------------------------------------------------------- */

func modelScores(config Config, filenameIn, filenameOut string) {
  scores := CollectScores(config, filenameIn)

  PrintStderr(config, 1, "Fitting density over %d scores... ", len(scores))
  density, err := FitScoreDensity(scores, config.Bins)
  if err != nil {
    PrintStderr(config, 1, "failed\n")
    log.Fatal(err)
  }
  PrintStderr(config, 1, "done\n")

  if config.Plot != "" {
    PlotDensity(config, density, config.Plot)
  }
  if filenameOut == "" {
    if err := density.Write(os.Stdout); err != nil {
      log.Fatal(err)
    }
  } else {
    if err := density.Export(filenameOut); err != nil {
      log.Fatal(err)
    }
  }
}

/* -------------------------------------------------------------------------- */

func main() {
  log.SetFlags(0)

  config  := Config{}
  options := getopt.New()

  optBins    := options.    IntLong("bins",     0 , 1000, "number of density bins [default: 1000]")
  optPlot    := options. StringLong("plot",     0 , "",   "plot the fitted density to this file (png or pdf)")
  optVerbose := options.CounterLong("verbose", 'v',       "verbose level [-v or -vv]")
  optHelp    := options.   BoolLong("help",    'h',       "print help")

  options.SetParameters("<INPUT.scores> [OUTPUT.density]")
  options.Parse(os.Args)

  if *optHelp {
    options.PrintUsage(os.Stdout)
    os.Exit(0)
  }
  if len(options.Args()) < 1 || len(options.Args()) > 2 {
    options.PrintUsage(os.Stderr)
    os.Exit(1)
  }
  config.Bins    = *optBins
  config.Plot    = *optPlot
  config.Verbose = *optVerbose

  filenameOut := ""
  if len(options.Args()) == 2 {
    filenameOut = options.Args()[1]
  }

  modelScores(config, options.Args()[0], filenameOut)
}
