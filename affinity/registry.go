package affinity

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/joecammo/Daemon/table"
)

// Registry maps daemon names to their color category. It is filled once
// from the Daemons feed and only read afterwards.
type Registry struct {
	def     Category
	entries map[string]Category
	loaded  bool
	log     *log.Logger
}

func NewRegistry(def Category, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{
		def:     def,
		entries: make(map[string]Category),
		log:     logger.WithPrefix("affinity"),
	}
}

// Load reads Name/Affinity rows (header first). Missing columns make the
// whole feed unusable; short rows are skipped with a warning.
func (r *Registry) Load(rows [][]string) error {
	t := table.FromRows(rows)
	cols, err := t.Columns("Name", "Affinity")
	if err != nil {
		return fmt.Errorf("daemons feed: %w", err)
	}
	for i, row := range t.Rows {
		if !cols.Fits(row) {
			r.log.Warn("skipping malformed row", "row", i+2, "fields", len(row))
			continue
		}
		name := cols.Get(row, "Name")
		if name == "" {
			r.log.Warn("skipping row without name", "row", i+2)
			continue
		}
		raw := cols.Get(row, "Affinity")
		cat, ok := Parse(raw)
		if !ok {
			r.log.Warn("unrecognized affinity, using default", "daemon", name, "affinity", raw, "default", r.def)
			cat = r.def
		}
		if prev, dup := r.entries[name]; dup && prev != cat {
			r.log.Warn("daemon redefined", "daemon", name, "was", prev, "now", cat)
		}
		r.entries[name] = cat
		r.log.Debug("loaded daemon", "daemon", name, "affinity", cat)
	}
	r.loaded = true
	r.log.Info("daemons loaded", "count", len(r.entries))
	return nil
}

// Loaded reports whether Load completed.
func (r *Registry) Loaded() bool { return r != nil && r.loaded }

func (r *Registry) Lookup(name string) (Category, bool) {
	c, ok := r.entries[name]
	return c, ok
}

// Get returns the daemon's category or the registry default.
func (r *Registry) Get(name string) Category {
	if c, ok := r.entries[name]; ok {
		return c
	}
	return r.def
}

func (r *Registry) Default() Category { return r.def }

func (r *Registry) Len() int { return len(r.entries) }
