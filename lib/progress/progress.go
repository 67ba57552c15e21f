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

package progress

/* -------------------------------------------------------------------------- */

import "fmt"
import "os"

/* -------------------------------------------------------------------------- */

// Progress reporter for long passes over a stream of reads where the
// total count is not known in advance. Reports every K processed items.
type Counter struct {
  Unit string
  K    int
  n    int
}

/* -------------------------------------------------------------------------- */

func NewCounter(unit string, k int) *Counter {
  if k <= 0 {
    k = 1000
  }
  return &Counter{Unit: unit, K: k}
}

/* -------------------------------------------------------------------------- */

const __line_del__ = "\033[2K\r"

// Add records n processed items and reports to stderr whenever the
// reporting step is crossed.
func (counter *Counter) Add(n int) {
  m := counter.n + n
  if m/counter.K != counter.n/counter.K {
    fmt.Fprintf(os.Stderr, "%sprocessed %d %s", __line_del__, m, counter.Unit)
  }
  counter.n = m
}

// Done reports the final count and terminates the progress line.
func (counter *Counter) Done() {
  fmt.Fprintf(os.Stderr, "%sprocessed %d %s\n", __line_del__, counter.n, counter.Unit)
}
