package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// segmentExt is the fixed extension for segment files. Segment filenames
// match ^[0-9]+\.log$ exactly (spec §6.1); nothing about segment naming is
// configurable, since the engine's generation-ordering rule ("max(existing)
// + 1") depends on the generation being recoverable from the filename with
// nothing but a base-10 parse.
const segmentExt = ".log"

// segmentPath returns the path of generation gen's segment file under dir.
func segmentPath(dir string, gen uint64) string {
	return filepath.Join(dir, strconv.FormatUint(gen, 10)+segmentExt)
}

// parseGeneration extracts the generation number from a segment filename,
// returning ok=false for anything that doesn't match ^[0-9]+\.log$ exactly
// (no leading sign, no extra characters). Non-matching entries are
// tolerated, not treated as an error (spec §4.1: "other files are ignored").
func parseGeneration(name string) (gen uint64, ok bool) {
	if !strings.HasSuffix(name, segmentExt) {
		return 0, false
	}
	digits := strings.TrimSuffix(name, segmentExt)
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// scanGenerations enumerates dir's immediate entries and returns the
// generations of every qualifying segment file, sorted ascending (spec
// §4.1). dir must already exist; New creates it before scanning.
func scanGenerations(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	gens := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		gen, ok := parseGeneration(entry.Name())
		if !ok {
			continue
		}
		gens = append(gens, gen)
	}

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}
