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

import "fmt"
import "math"
import "os"

import   "github.com/jmoiron/sqlx"
import _ "github.com/mattn/go-sqlite3"
import   "github.com/sirupsen/logrus"

/* -------------------------------------------------------------------------- */

// Physiologically plausible range of nanopore current measurements in
// picoamperes. Observations outside this range are discarded.
const SampleMin = 40.0
const SampleMax = 170.0

/* -------------------------------------------------------------------------- */

// On-disk repository of per-kmer signal observations. Raw per-read signal
// volume can exceed available memory, so observations are spilled to an
// embedded database indexed by kmer, with uniform random retrieval
// substituting for a full in-memory shuffle. The database file is scratch
// space scoped to one training run, not a durable artifact.
type SampleStore struct {
  db   *sqlx.DB
  path string
}

/* constructor
 * -------------------------------------------------------------------------- */

// Create a fresh, empty store at the given path. Any pre-existing file at
// that path is destroyed.
func OpenSampleStore(path string) (*SampleStore, error) {
  if _, err := os.Stat(path); err == nil {
    if err := os.Remove(path); err != nil {
      return nil, fmt.Errorf("OpenSampleStore(): removing stale store: %w", err)
    }
  }
  db, err := sqlx.Connect("sqlite3", path)
  if err != nil {
    return nil, fmt.Errorf("OpenSampleStore(): %w", err)
  }
  store := &SampleStore{db, path}
  if err := store.init(); err != nil {
    db.Close()
    return nil, err
  }
  return store, nil
}

func (store *SampleStore) init() error {
  if _, err := store.db.Exec(
    `CREATE TABLE data (
       id     INTEGER PRIMARY KEY,
       kmer   TEXT NOT NULL,
       sample REAL NOT NULL
     )`); err != nil {
    return fmt.Errorf("OpenSampleStore(): creating table: %w", err)
  }
  if _, err := store.db.Exec("CREATE INDEX kmer_idx ON data (kmer)"); err != nil {
    return fmt.Errorf("OpenSampleStore(): creating index: %w", err)
  }
  for _, pragma := range []string{
    "PRAGMA journal_mode = WAL",
    "PRAGMA synchronous  = NORMAL",
    "PRAGMA cache_size   = -64000" } {
    if _, err := store.db.Exec(pragma); err != nil {
      return fmt.Errorf("OpenSampleStore(): %w", err)
    }
  }
  return nil
}

/* -------------------------------------------------------------------------- */

func (store *SampleStore) Close() error {
  return store.db.Close()
}

func (store *SampleStore) Path() string {
  return store.path
}

/* -------------------------------------------------------------------------- */

// Insert the observations of one batch of reads. A signal contributes only
// if its kmer starts with one of the given motifs and its mean is a finite
// value within [SampleMin, SampleMax]; each raw sample value passing the
// same range check is inserted as one row. The batch is inserted in a
// single transaction, so a failure mid-batch leaves the store unchanged.
func (store *SampleStore) AddReads(reads []Eventalign, motifs []Motif) error {
  tx, err := store.db.Beginx()
  if err != nil {
    return fmt.Errorf("AddReads(): %w", err)
  }
  stmt, err := tx.Preparex("INSERT INTO data (kmer, sample) VALUES (?, ?)")
  if err != nil {
    tx.Rollback()
    return fmt.Errorf("AddReads(): %w", err)
  }
  for _, read := range reads {
    logrus.Debugf("collecting samples from read %s", read.Name)
    for _, signal := range read.Signals {
      if !anyMotifMatches(motifs, signal.Kmer) {
        continue
      }
      if !acceptableSample(signal.Mean) {
        logrus.Debugf("uncharacteristic signal mean %f for kmer %s", signal.Mean, signal.Kmer)
        continue
      }
      if len(signal.Samples) == 0 {
        // collapsed input carries only the per-position mean
        if _, err := stmt.Exec(signal.Kmer, signal.Mean); err != nil {
          tx.Rollback()
          return fmt.Errorf("AddReads(): %w", err)
        }
        continue
      }
      for _, sample := range signal.Samples {
        if !acceptableSample(sample) {
          continue
        }
        if _, err := stmt.Exec(signal.Kmer, sample); err != nil {
          tx.Rollback()
          return fmt.Errorf("AddReads(): %w", err)
        }
      }
    }
  }
  if err := tx.Commit(); err != nil {
    return fmt.Errorf("AddReads(): %w", err)
  }
  return nil
}

func acceptableSample(x float64) bool {
  return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= SampleMin && x <= SampleMax
}

/* -------------------------------------------------------------------------- */

// Up to n uniformly randomly selected observations for the given kmer,
// fewer if fewer exist. The order of the result is not significant.
func (store *SampleStore) Sample(kmer string, n int) ([]float64, error) {
  samples := []float64{}
  err := store.db.Select(&samples,
    "SELECT sample FROM data WHERE kmer = ? ORDER BY RANDOM() LIMIT ?", kmer, n)
  if err != nil {
    return nil, fmt.Errorf("Sample(): %w", err)
  }
  return samples, nil
}

// Number of observations stored for the given kmer.
func (store *SampleStore) Count(kmer string) (int, error) {
  count := 0
  err := store.db.Get(&count,
    "SELECT COUNT(*) FROM data WHERE kmer = ?", kmer)
  if err != nil {
    return 0, fmt.Errorf("Count(): %w", err)
  }
  return count, nil
}
