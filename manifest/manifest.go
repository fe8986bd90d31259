package manifest

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// Entry is one ENV_VAR_NAME=tag line of the output manifest.
type Entry struct {
	Key   string
	Value string
}

// Collector gathers manifest entries during a run and appends them to the
// output file in one write. A single collector is shared by all builds of a
// run; Record is safe to call from concurrent builders.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Record(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Key: key, Value: value})
}

func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Flush appends the collected entries to path and drops them from the
// collector. The file is append-only; entries written by earlier runs or by
// an earlier flush of the same run are kept.
func (c *Collector) Flush(fsys afero.Fs, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return nil
	}

	f, err := fsys.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, e := range c.entries {
		if _, err := fmt.Fprintf(f, "%s=%s\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	c.entries = nil
	return nil
}
