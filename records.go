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

import "encoding/json"
import "fmt"
import "io"
import "os"

import "github.com/grailbio/base/recordio"
import "github.com/grailbio/base/recordio/recordiozstd"

/* -------------------------------------------------------------------------- */

const DefaultBatchSize = 500

/* -------------------------------------------------------------------------- */

func marshalRecord(scratch []byte, v interface{}) ([]byte, error) {
  return json.Marshal(v)
}

func writerOpts() recordio.WriterOpts {
  recordiozstd.Init()
  return recordio.WriterOpts{
    Marshal     : marshalRecord,
    Transformers: []string{"zstd 1"} }
}

/* -------------------------------------------------------------------------- */

// Streams Eventalign records to compressed on-disk batches.
type EventalignWriter struct {
  w recordio.Writer
}

func NewEventalignWriter(writer io.Writer) *EventalignWriter {
  return &EventalignWriter{recordio.NewWriter(writer, writerOpts())}
}

func (writer *EventalignWriter) Write(read Eventalign) {
  writer.w.Append(read)
}

func (writer *EventalignWriter) Close() error {
  return writer.w.Finish()
}

/* -------------------------------------------------------------------------- */

type ScoredReadWriter struct {
  w recordio.Writer
}

func NewScoredReadWriter(writer io.Writer) *ScoredReadWriter {
  return &ScoredReadWriter{recordio.NewWriter(writer, writerOpts())}
}

func (writer *ScoredReadWriter) Write(read ScoredRead) {
  writer.w.Append(read)
}

func (writer *ScoredReadWriter) Close() error {
  return writer.w.Finish()
}

/* -------------------------------------------------------------------------- */

// EventalignBatches applies fn to successive batches of at most batchSize
// records from the given file, preserving record order. A non-nil error
// from fn aborts the scan.
func EventalignBatches(filename string, batchSize int, fn func([]Eventalign) error) error {
  return scanBatches(filename, batchSize,
    func(in []byte) (interface{}, error) {
      read := Eventalign{}
      err  := json.Unmarshal(in, &read)
      return read, err
    },
    func(batch []interface{}) error {
      reads := make([]Eventalign, len(batch))
      for i, v := range batch {
        reads[i] = v.(Eventalign)
      }
      return fn(reads)
    })
}

func ScoredReadBatches(filename string, batchSize int, fn func([]ScoredRead) error) error {
  return scanBatches(filename, batchSize,
    func(in []byte) (interface{}, error) {
      read := ScoredRead{}
      err  := json.Unmarshal(in, &read)
      return read, err
    },
    func(batch []interface{}) error {
      reads := make([]ScoredRead, len(batch))
      for i, v := range batch {
        reads[i] = v.(ScoredRead)
      }
      return fn(reads)
    })
}

func scanBatches(filename string, batchSize int, unmarshal func(in []byte) (out interface{}, err error), fn func([]interface{}) error) error {
  if batchSize <= 0 {
    batchSize = DefaultBatchSize
  }
  f, err := os.Open(filename)
  if err != nil {
    return err
  }
  defer f.Close()

  recordiozstd.Init()
  scanner := recordio.NewScanner(f, recordio.ScannerOpts{Unmarshal: unmarshal})

  batch := make([]interface{}, 0, batchSize)
  for scanner.Scan() {
    batch = append(batch, scanner.Get())
    if len(batch) == batchSize {
      if err := fn(batch); err != nil {
        return err
      }
      batch = make([]interface{}, 0, batchSize)
    }
  }
  if err := scanner.Err(); err != nil {
    return fmt.Errorf("scanning `%s': %w", filename, err)
  }
  if len(batch) > 0 {
    return fn(batch)
  }
  return nil
}

/* -------------------------------------------------------------------------- */

// Convenience writers used by the tools and tests.

func ExportEventaligns(filename string, reads []Eventalign) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  defer f.Close()

  writer := NewEventalignWriter(f)
  for _, read := range reads {
    writer.Write(read)
  }
  return writer.Close()
}

func ExportScoredReads(filename string, reads []ScoredRead) error {
  f, err := os.Create(filename)
  if err != nil {
    return err
  }
  defer f.Close()

  writer := NewScoredReadWriter(f)
  for _, read := range reads {
    writer.Write(read)
  }
  return writer.Close()
}
