// Package flatfile persists tabular records as CSV files. Every mutating
// call rewrites the whole backing file through a temp-file rename; rows
// stay small so the rewrite cost is negligible. There is no cross-process
// locking: concurrent writers from separate processes are last-writer-wins.
package flatfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"example.com/futureme/internal/domain"
)

// Table provides load/upsert/append persistence for one CSV-backed table
// with a declared header. A process-local mutex serialises mutations so
// sequential calls never interleave.
type Table[T any] struct {
	path    string
	columns []string
	encode  func(T) []string
	decode  func([]string) (T, error)
	key     func(T) string

	mu sync.Mutex
}

// NewTable constructs a Table. The key function identifies rows for
// Upsert; tables written only through Append or Replace may pass nil.
func NewTable[T any](path string, columns []string, encode func(T) []string, decode func([]string) (T, error), key func(T) string) *Table[T] {
	return &Table[T]{
		path:    path,
		columns: columns,
		encode:  encode,
		decode:  decode,
		key:     key,
	}
}

// Load returns all rows in file order. A missing file yields an empty
// table; a file that cannot be parsed against the declared header yields
// an error wrapping domain.ErrTableCorrupt.
func (t *Table[T]) Load(ctx context.Context) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

func (t *Table[T]) load() ([]T, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", t.path, err, domain.ErrTableCorrupt)
	}
	if len(records) == 0 {
		return []T{}, nil
	}
	if !equalHeader(records[0], t.columns) {
		return nil, fmt.Errorf("%s: header %v does not match schema %v: %w", t.path, records[0], t.columns, domain.ErrTableCorrupt)
	}

	rows := make([]T, 0, len(records)-1)
	for i, record := range records[1:] {
		row, err := t.decode(record)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %v: %w", t.path, i+1, err, domain.ErrTableCorrupt)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Upsert replaces the row matching the new row's key, or appends when no
// match exists. Replaced rows move to the end of the table. A corrupt
// existing file fails the write rather than clobbering it.
func (t *Table[T]) Upsert(ctx context.Context, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}

	key := t.key(row)
	kept := rows[:0]
	for _, existing := range rows {
		if t.key(existing) != key {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, row)
	return t.write(kept)
}

// Append adds the row unconditionally, keeping any rows that share its
// logical key.
func (t *Table[T]) Append(ctx context.Context, row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows, err := t.load()
	if err != nil {
		return err
	}
	return t.write(append(rows, row))
}

// Replace overwrites the table wholesale.
func (t *Table[T]) Replace(ctx context.Context, rows []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.write(rows)
}

func (t *Table[T]) write(rows []T) error {
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(t.columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(t.encode(row)); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), t.path)
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
