package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/surfacectl/surfacectl/internal/binident"
	"github.com/surfacectl/surfacectl/internal/config"
	"github.com/surfacectl/surfacectl/internal/display"
	"github.com/surfacectl/surfacectl/internal/errkind"
	"github.com/surfacectl/surfacectl/internal/isolate"
	"github.com/surfacectl/surfacectl/internal/planner"
	"github.com/surfacectl/surfacectl/internal/report"
	"github.com/surfacectl/surfacectl/internal/schema"
	"github.com/surfacectl/surfacectl/internal/selfreport"
	"github.com/surfacectl/surfacectl/internal/surface/help"
	"github.com/surfacectl/surfacectl/internal/surface/probe"
)

var (
	extractOutDir   string
	extractSandbox  bool
	extractPlanFile string
	extractPlanCmd  string
	extractNoColor  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <binary>",
	Short: "Extract a binary's option surface and write a surface report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg.Binary = args[0]
		if extractOutDir != "" {
			cfg.OutDir = extractOutDir
		}
		if extractSandbox {
			cfg.Sandbox = true
		}
		if extractPlanFile != "" {
			cfg.Planner.PlanFile = extractPlanFile
		}
		if extractPlanCmd != "" {
			cfg.Planner.Cmd = extractPlanCmd
		}

		disp := display.NewWithOptions(extractNoColor)
		err = runExtract(cfg, disp)
		if err != nil {
			disp.Error(err.Error())
		}
		return err
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractOutDir, "out-dir", "", "output root (default: out)")
	extractCmd.Flags().BoolVar(&extractSandbox, "sandbox", false, "probe inside a rootless container")
	extractCmd.Flags().StringVar(&extractPlanFile, "plan-file", "", "pre-materialized plan file, bypassing the planner command")
	extractCmd.Flags().StringVar(&extractPlanCmd, "planner-cmd", "", "planner command to spawn and pipe the request into")
	extractCmd.Flags().BoolVar(&extractNoColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cfg *config.Config, disp *display.Display) error {
	runStart := time.Now()

	resolvedPath, err := binident.Resolve(cfg.Binary)
	if err != nil {
		return errkind.Wrap(errkind.InputInvalid, err)
	}

	identity, err := binident.ComputeIdentity(resolvedPath)
	if err != nil {
		return errkind.Wrap(errkind.InputInvalid, err)
	}

	scratchRoot := filepath.Join(os.TempDir(), "surfacectl-"+uuid.NewString())
	fixtureRoot := filepath.Join(scratchRoot, "work")
	if err := os.MkdirAll(fixtureRoot, 0o755); err != nil {
		return fmt.Errorf("create scratch fixture dir: %w", err)
	}
	defer os.RemoveAll(scratchRoot)

	mode := isolate.ModeDirect
	if cfg.Sandbox {
		mode = isolate.ModeSandboxed
	}
	executor := &probe.Executor{
		ExecPath:     cfg.Binary,
		ResolvedPath: resolvedPath,
		FixtureRoot:  fixtureRoot,
		Mode:         mode,
		Limits:       defaultLimits(),
	}
	if cfg.ProbeIntervalMs > 0 {
		executor.Pace = rate.NewLimiter(rate.Every(time.Duration(cfg.ProbeIntervalMs)*time.Millisecond), 1)
	}

	disp.Phase("surfacectl", fmt.Sprintf("extracting %s", cfg.Binary))

	self, err := selfreport.Collect(executor)
	if err != nil {
		var setupErr *isolate.SetupError
		if errors.As(err, &setupErr) {
			return errkind.Wrap(errkind.SandboxSetup, err)
		}
		return errkind.Wrap(errkind.HelpUnavailable, err)
	}

	helpText := selfreport.CanonicalHelpText(self.Help)
	helpOptions := help.ExtractOptions(helpText)
	if len(helpOptions) == 0 {
		return errkind.Wrap(errkind.ParseEmpty, fmt.Errorf("help text yielded zero option records"))
	}

	hints := make(map[string]*schema.BindingHint, len(helpOptions))
	optionTokens := make([]string, 0, len(helpOptions))
	for _, opt := range helpOptions {
		hints[opt.Option] = opt.Binding
		optionTokens = append(optionTokens, opt.Option)
	}

	maxPerOption := cfg.MaxPerOption
	maxTotal := cfg.MaxTotal
	if maxTotal == 0 {
		maxTotal = len(optionTokens) * maxPerOption
	}

	request := planner.Request{
		SelfReport:   self,
		Options:      optionTokens,
		ProbeLibrary: planner.Library(),
		Budget:       schema.ProbeBudget{MaxTotal: maxTotal, MaxPerOption: maxPerOption},
		StopRules: schema.StopRules{
			StopOnUnrecognized:     cfg.StopRules.StopOnUnrecognized,
			StopOnBindingConfirmed: cfg.StopRules.StopOnBindingConfirmed,
		},
	}

	plannerStart := time.Now()
	output, err := planner.Run(request, planner.Source{PlanFile: cfg.Planner.PlanFile, Cmd: cfg.Planner.Cmd})
	plannerMs := time.Since(plannerStart).Milliseconds()
	if err != nil {
		kind := errkind.PlannerProtocol
		if strings.Contains(err.Error(), "planner unavailable") {
			kind = errkind.PlannerUnavailable
		}
		return errkind.Wrap(kind, err)
	}

	store := report.NewStore(cfg.OutDir)
	cacheKey := report.CacheKey(identity, output.Plan.PlannerVersion, planner.ProbeLibraryVersion)

	if store.Exists(cacheKey) {
		_, _, reportJSONPath, _ := store.Paths(cacheKey)
		disp.CacheHit(reportJSONPath)
		return nil
	}

	probesStart := time.Now()
	var surfaces []schema.OptionSurface
	for _, planned := range output.Plan.Options {
		surface, err := executor.RunOption(planned, hints[planned.Option], output.Plan.StopRules)
		if err != nil {
			return errkind.Wrap(errkind.SandboxSetup, err)
		}
		surfaces = append(surfaces, surface)

		kind := "-"
		if surface.Binding.Kind != nil {
			kind = string(*surface.Binding.Kind)
		}
		disp.Option(planned.Option, string(surface.Existence.Status), kind, len(planned.Probes))
	}
	probesMs := time.Since(probesStart).Milliseconds()

	totalMs := time.Since(runStart).Milliseconds()

	surfaceReport := schema.SurfaceReport{
		InvokedPath:         cfg.Binary,
		BinaryIdentity:      identity,
		Planner:             schema.PlannerInfo{Version: output.Plan.PlannerVersion, PlanHash: output.Hash},
		ProbeLibraryVersion: planner.ProbeLibraryVersion,
		TimingsMs:           schema.Timings{PlannerMs: plannerMs, ProbesMs: probesMs, TotalMs: totalMs},
		SelfReport:          self,
		Options:             surfaces,
		HigherTiers:         schema.DefaultHigherTierStatus(),
	}

	requestJSON, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal planner request: %w", err)
	}

	if err := store.Save(cacheKey, requestJSON, []byte(output.RawJSON), surfaceReport); err != nil {
		return fmt.Errorf("persist report: %w", err)
	}

	if cfg.CacheIndex.Enabled {
		if idx, err := report.OpenIndex(cfg.CacheIndex.Path); err == nil {
			_ = idx.Record(cacheKey, identity, cfg.Binary, time.Now())
			idx.Close()
		} else {
			disp.Warning(fmt.Sprintf("cache index unavailable: %v", err))
		}
	}

	_, _, reportJSONPath, _ := store.Paths(cacheKey)
	disp.Summary(len(surfaces), time.Since(runStart))
	disp.Info("report", reportJSONPath)
	return nil
}

func defaultLimits() isolate.Limits {
	return isolate.Limits{
		CPUTimeMs:  2000,
		MemoryKB:   512 * 1024,
		FileSizeKB: 64 * 1024,
		WallTimeMs: 2000,
	}
}
