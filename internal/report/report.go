// Package report assembles the final SurfaceReport, computes the cache
// key that names its output directory, and persists the four artifacts
// spec §4.7/§6 require: the planner request, the validated plan, the
// JSON report, and its mechanical Markdown view.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/surfacectl/surfacectl/internal/hashing"
	"github.com/surfacectl/surfacectl/internal/schema"
)

const (
	requestFileName = "planner_request.json"
	planFileName    = "plan.json"
	reportJSONName  = "surface.json"
	reportMDName    = "surface.md"
)

// CacheKey hashes the tuple spec §4.7 names: binary-hash, OS, arch, the
// three contract env values, and the two version strings that can change
// what a rerun produces.
func CacheKey(identity schema.BinaryIdentity, plannerVersion, probeLibraryVersion string) string {
	return hashing.Tagged(
		identity.Hash.Value,
		identity.Platform.OS,
		identity.Platform.Arch,
		identity.Env.Locale,
		identity.Env.TZ,
		identity.Env.Term,
		plannerVersion,
		probeLibraryVersion,
	)
}

// Store persists cached extraction runs under Root and reports whether a
// run's artifacts are already present.
type Store struct {
	Fs   afero.Fs
	Root string
}

// NewStore returns a Store backed by the real filesystem.
func NewStore(root string) *Store {
	return &Store{Fs: afero.NewOsFs(), Root: root}
}

func (s *Store) dir(cacheKey string) string {
	return filepath.Join(s.Root, cacheKey)
}

// Exists reports the short-circuit condition: both surface.json and
// surface.md already present for this cache key.
func (s *Store) Exists(cacheKey string) bool {
	dir := s.dir(cacheKey)
	jsonOK, _ := afero.Exists(s.Fs, filepath.Join(dir, reportJSONName))
	mdOK, _ := afero.Exists(s.Fs, filepath.Join(dir, reportMDName))
	return jsonOK && mdOK
}

// Paths returns the four artifact paths for cacheKey, for callers that
// only need to print them on a cache hit.
func (s *Store) Paths(cacheKey string) (requestPath, planPath, reportJSONPath, reportMDPath string) {
	dir := s.dir(cacheKey)
	return filepath.Join(dir, requestFileName),
		filepath.Join(dir, planFileName),
		filepath.Join(dir, reportJSONName),
		filepath.Join(dir, reportMDName)
}

// Save writes all four artifacts for cacheKey, each via a write-to-temp,
// then rename, so a reader never observes a partially written file.
func (s *Store) Save(cacheKey string, requestJSON, planJSON []byte, report schema.SurfaceReport) error {
	dir := s.dir(cacheKey)
	if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	markdown := []byte(RenderMarkdown(report))

	writes := []struct {
		name string
		data []byte
	}{
		{requestFileName, requestJSON},
		{planFileName, planJSON},
		{reportJSONName, reportJSON},
		{reportMDName, markdown},
	}

	for _, w := range writes {
		if err := atomicWrite(s.Fs, filepath.Join(dir, w.name), w.data); err != nil {
			return fmt.Errorf("write %s: %w", w.name, err)
		}
	}

	return nil
}

func atomicWrite(fs afero.Fs, path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := afero.WriteFile(fs, tempPath, data, 0o644); err != nil {
		return err
	}
	if err := fs.Rename(tempPath, path); err != nil {
		_ = fs.Remove(tempPath)
		return err
	}
	return nil
}

// RenderMarkdown produces the mechanical human-readable view of a report
// (spec §4.7: "Markdown rendering is mechanical and out of scope; the
// JSON report is authoritative" — only the shape is fixed, not the prose).
func RenderMarkdown(report schema.SurfaceReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Surface report: %s\n\n", report.InvokedPath)
	fmt.Fprintf(&b, "- binary hash: %s:%s\n", report.BinaryIdentity.Hash.Algo, report.BinaryIdentity.Hash.Value)
	fmt.Fprintf(&b, "- platform: %s/%s\n", report.BinaryIdentity.Platform.OS, report.BinaryIdentity.Platform.Arch)
	fmt.Fprintf(&b, "- planner: %s (plan hash %s)\n", report.Planner.Version, report.Planner.PlanHash)
	fmt.Fprintf(&b, "- probe library: %s\n", report.ProbeLibraryVersion)
	fmt.Fprintf(&b, "- timings (ms): planner=%d probes=%d total=%d\n\n",
		report.TimingsMs.PlannerMs, report.TimingsMs.ProbesMs, report.TimingsMs.TotalMs)

	fmt.Fprintf(&b, "## Options (%d)\n\n", len(report.Options))
	fmt.Fprintf(&b, "| option | existence | binding | kind |\n|---|---|---|---|\n")
	for _, opt := range report.Options {
		kind := "-"
		if opt.Binding.Kind != nil {
			kind = string(*opt.Binding.Kind)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			opt.Option, opt.Existence.Status, opt.Binding.Status, kind)
	}

	b.WriteString("\n## Reasons\n\n")
	for _, opt := range report.Options {
		fmt.Fprintf(&b, "- `%s`: existence — %s\n", opt.Option, opt.Existence.Reason)
		fmt.Fprintf(&b, "  binding — %s\n", opt.Binding.Reason)
	}

	b.WriteString("\n## Higher tiers\n\n")
	fmt.Fprintf(&b, "T2=%s T3=%s T4=%s\n", report.HigherTiers.T2, report.HigherTiers.T3, report.HigherTiers.T4)

	return b.String()
}
