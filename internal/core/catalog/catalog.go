// Package catalog assembles the set of plugin-backed pseudo-subcommands that
// gets merged into the command tree for help and dispatch.
package catalog

import (
	"strings"

	"tether.dev/cli/internal/plugins"
)

// ReservedTriggerPrefix marks plugins that provide trigger backends. They are
// loaded by the trigger machinery, not dispatched as user-facing subcommands,
// so the catalog never lists them.
const ReservedTriggerPrefix = "trigger-"

// Entry is one dispatchable plugin-backed subcommand.
type Entry struct {
	Name  string
	About string
}

// Source lists installed plugin manifests. Implemented by *plugins.Store.
type Source interface {
	InstalledManifests() ([]plugins.Manifest, error)
}

// Assemble builds the merged catalog for one invocation: locally installed
// plugins first (store order), then predefined entries not shadowed by an
// installed plugin. A nil source, or any listing failure, degrades to an
// empty installed set.
func Assemble(src Source) []Entry {
	return Merge(installedEntries(src), Predefined())
}

// Merge deduplicates the concatenation of installed and predefined entries.
// The first occurrence of a name wins and entries with the reserved trigger
// prefix are dropped regardless of source.
func Merge(installed, predefined []Entry) []Entry {
	merged := make([]Entry, 0, len(installed)+len(predefined))
	seen := make(map[string]struct{}, len(installed)+len(predefined))

	for _, e := range append(append([]Entry{}, installed...), predefined...) {
		if strings.HasPrefix(e.Name, ReservedTriggerPrefix) {
			continue
		}
		if _, ok := seen[e.Name]; ok {
			continue
		}
		seen[e.Name] = struct{}{}
		merged = append(merged, e)
	}
	return merged
}

// Contains reports whether the catalog has an entry with the given name.
func Contains(entries []Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

func installedEntries(src Source) []Entry {
	if src == nil {
		return nil
	}
	manifests, err := src.InstalledManifests()
	if err != nil {
		return nil
	}

	entries := make([]Entry, 0, len(manifests))
	for _, m := range manifests {
		entries = append(entries, Entry{Name: m.Name, About: m.Description})
	}
	return entries
}
