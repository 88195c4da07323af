package index

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// File keeps the whole index in memory and rewrites one JSON object on
// every Put. Writes go to a temp file that is renamed over the target.
type File struct {
	path    string
	mu      sync.RWMutex
	entries map[string]string
}

// OpenFile loads path. A missing or unparsable file yields an empty store.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, entries: map[string]string{}}
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("read index file: %w", err)
	}
	if err := json.Unmarshal(raw, &f.entries); err != nil || f.entries == nil {
		f.entries = map[string]string{}
	}
	return f, nil
}

func (f *File) Get(_ context.Context, url string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	text, ok := f.entries[url]
	return text, ok, nil
}

func (f *File) Put(_ context.Context, url, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[url]
	f.entries[url] = text
	if err := f.flushLocked(); err != nil {
		if had {
			f.entries[url] = prev
		} else {
			delete(f.entries, url)
		}
		return err
	}
	return nil
}

func (f *File) List(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	urls := make([]string, 0, len(f.entries))
	for u := range f.entries {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

func (f *File) Close() error { return nil }

func (f *File) flushLocked() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(f.entries); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index file: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace index file: %w", err)
	}
	return nil
}
