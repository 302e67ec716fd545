// Package selfreport runs the three captures a surface extraction starts
// from: --help (falling back to -h), --version, and a synthetic unknown-flag
// invocation that exercises the binary's usage-error channel.
package selfreport

import (
	"fmt"

	"github.com/surfacectl/surfacectl/internal/isolate"
	"github.com/surfacectl/surfacectl/internal/schema"
)

// UnknownFlag is the synthetic long option sent during usage-error capture.
// Chosen to be vanishingly unlikely to collide with a real option on any
// target binary.
const UnknownFlag = "--surfacectl-probe-unknown-flag-7f3a9c"

// Runner is the subset of isolate's execution modes the collector needs,
// so tests can substitute a fake without spawning real processes.
type Runner interface {
	Run(args []string) (isolate.Result, error)
}

// Collect runs the three self-report captures in order and assembles a
// schema.SelfReport. It returns an error when no help text could be
// produced at all from either --help or -h (spec §4.2, HelpUnavailable),
// and also when the Runner itself fails for any of the captures; such a
// Runner error is wrapped with %w so callers can still inspect it.
func Collect(r Runner) (schema.SelfReport, error) {
	help, err := captureHelp(r)
	if err != nil {
		return schema.SelfReport{}, err
	}

	version, err := capture(r, []string{"--version"})
	if err != nil {
		return schema.SelfReport{}, fmt.Errorf("capture --version: %w", err)
	}

	usageError, err := capture(r, []string{UnknownFlag})
	if err != nil {
		return schema.SelfReport{}, fmt.Errorf("capture usage-error probe: %w", err)
	}

	return schema.SelfReport{Help: help, Version: version, UsageError: usageError}, nil
}

func captureHelp(r Runner) (schema.CaptureOutput, error) {
	long, err := capture(r, []string{"--help"})
	if err != nil {
		return schema.CaptureOutput{}, fmt.Errorf("capture --help: %w", err)
	}
	if canonicalText(long) != "" {
		return long, nil
	}

	short, err := capture(r, []string{"-h"})
	if err != nil {
		return schema.CaptureOutput{}, fmt.Errorf("capture -h: %w", err)
	}
	if canonicalText(short) != "" {
		return short, nil
	}

	return schema.CaptureOutput{}, fmt.Errorf("help unavailable: both --help and -h produced empty output")
}

// canonicalText selects the first non-empty of {stdout, stderr}.
func canonicalText(c schema.CaptureOutput) string {
	if c.Stdout != "" {
		return c.Stdout
	}
	return c.Stderr
}

// CanonicalHelpText is exported so the help parser can select the same
// channel the collector used without re-deriving the rule.
func CanonicalHelpText(c schema.CaptureOutput) string {
	return canonicalText(c)
}

func capture(r Runner, args []string) (schema.CaptureOutput, error) {
	res, err := r.Run(args)
	if err != nil {
		return schema.CaptureOutput{}, err
	}
	return schema.CaptureOutput{
		Args:     args,
		ExitCode: res.ExitCode,
		Stdout:   string(res.Stdout),
		Stderr:   string(res.Stderr),
	}, nil
}
