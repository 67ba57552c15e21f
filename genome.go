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

import "bufio"
import "compress/gzip"
import "errors"
import "fmt"
import "io"
import "os"
import "strings"
import "unicode"

/* -------------------------------------------------------------------------- */

var ErrUnknownChrom = errors.New("unknown chromosome")

/* -------------------------------------------------------------------------- */

// In-memory reference genome, i.e. a set of named chromosome sequences
// with random access to arbitrary half-open intervals.
type SequenceIndex struct {
  Seqnames  []string
  Sequences map[string][]byte
}

/* constructors
 * -------------------------------------------------------------------------- */

func NewSequenceIndex(seqnames []string, sequences [][]byte) SequenceIndex {
  if len(seqnames) != len(sequences) {
    panic("NewSequenceIndex(): invalid parameters")
  }
  index := EmptySequenceIndex()
  for i := 0; i < len(seqnames); i++ {
    if _, ok := index.Sequences[seqnames[i]]; ok {
      panic(fmt.Sprintf("duplicate sequence name `%s'", seqnames[i]))
    }
    index.Seqnames               = append(index.Seqnames, seqnames[i])
    index.Sequences[seqnames[i]] = sequences[i]
  }
  return index
}

func EmptySequenceIndex() SequenceIndex {
  return SequenceIndex{[]string{}, make(map[string][]byte)}
}

/* -------------------------------------------------------------------------- */

// Length of the given chromosome. Returns ErrUnknownChrom if the
// chromosome is not part of the index.
func (index SequenceIndex) ChromLength(chrom string) (int, error) {
  sequence, ok := index.Sequences[chrom]
  if !ok {
    return 0, fmt.Errorf("ChromLength(): `%s': %w", chrom, ErrUnknownChrom)
  }
  return len(sequence), nil
}

// Fetch the bases of the half-open interval [start, stop). The interval
// must lie within the chromosome. A fresh slice is returned, so that
// callers may modify it.
func (index SequenceIndex) Fetch(chrom string, start, stop int) ([]byte, error) {
  sequence, ok := index.Sequences[chrom]
  if !ok {
    return nil, fmt.Errorf("Fetch(): `%s': %w", chrom, ErrUnknownChrom)
  }
  if start < 0 || stop < start || stop > len(sequence) {
    return nil, fmt.Errorf("Fetch(): interval [%d, %d) out of range for `%s' (length %d)", start, stop, chrom, len(sequence))
  }
  result := make([]byte, stop-start)
  copy(result, sequence[start:stop])
  return result, nil
}

/* i/o
 * -------------------------------------------------------------------------- */

func (index *SequenceIndex) ReadFasta(reader io.Reader) error {
  scanner := bufio.NewScanner(reader)

  // current sequence
  name := ""
  seq  := []byte{}

  addSequence := func() error {
    if name == "" {
      return nil
    }
    if _, ok := index.Sequences[name]; ok {
      return fmt.Errorf("ReadFasta(): sequence name `%s' occurred multiple times", name)
    }
    index.Seqnames        = append(index.Seqnames, name)
    index.Sequences[name] = seq
    return nil
  }

  for scanner.Scan() {
    line := scanner.Text()
    if len(line) == 0 {
      continue
    }
    if line[0] == '>' {
      // save data from previous entry
      if err := addSequence(); err != nil {
        return err
      }
      // header
      fields := strings.FieldsFunc(line, func(c rune) bool {
        return unicode.IsSpace(c) || c == '>' || c == '|'
      })
      if len(fields) == 0 {
        return fmt.Errorf("ReadFasta(): invalid fasta file")
      }
      name = fields[0]
      seq  = []byte{}
    } else {
      // data
      if name == "" {
        return fmt.Errorf("ReadFasta(): invalid fasta file")
      }
      // append sequence
      seq = append(seq, line...)
    }
  }
  if err := scanner.Err(); err != nil {
    return err
  }
  return addSequence()
}

func (index *SequenceIndex) ImportFasta(filename string) error {

  var reader io.Reader
  // open file
  f, err := os.Open(filename)
  if err != nil {
    return err
  }
  defer f.Close()

  // check if file is gzipped
  if isGzip(filename) {
    g, err := gzip.NewReader(f)
    if err != nil {
      return err
    }
    defer g.Close()
    reader = g
  } else {
    reader = f
  }
  return index.ReadFasta(reader)
}
