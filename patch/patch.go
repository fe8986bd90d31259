package patch

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Rule fixes a known-broken upstream commit by rewriting a single line of a
// checked-out file. Rules are matched by exact commit hash; at most one rule
// applies per checkout. Applying a rule twice is a no-op because the old line
// is gone after the first application.
type Rule struct {
	Commit string
	File   string
	Old    string
	New    string
}

var rules = []Rule{
	{
		// sriov-cni pinned a golang builder tag that was removed from the
		// registry after the branch was cut
		Commit: "4b2c1f07e2475ad334d2e5a1a27c8bca169bd9c6",
		File:   "Dockerfile",
		Old:    "FROM golang:1.21.3 AS builder",
		New:    "FROM golang:1.21 AS builder",
	},
	{
		// config-daemon base image still points at the retired stream8 repos
		Commit: "9d6a1f4c2b8e3705c1d92f47a06be8f213f0d4aa",
		File:   "Dockerfile.sriov-network-config-daemon",
		Old:    "FROM quay.io/centos/centos:stream8",
		New:    "FROM quay.io/centos/centos:stream9",
	},
}

// Rules returns the shipped rule list in match order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Apply patches the checkout at dir if commit matches a known broken commit.
// Unmatched commits leave the tree untouched. Must run after checkout and
// before any build step that reads the patched file.
func Apply(fsys afero.Fs, dir, commit string) error {
	for _, rule := range rules {
		if rule.Commit != commit {
			continue
		}
		return apply(fsys, dir, rule)
	}
	return nil
}

func apply(fsys afero.Fs, dir string, rule Rule) error {
	path := filepath.Join(dir, rule.File)
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return err
	}
	if !strings.Contains(string(content), rule.Old) {
		return nil
	}
	logrus.Infof("patching %s for broken commit %s", path, rule.Commit)
	patched := strings.Replace(string(content), rule.Old, rule.New, 1)
	return afero.WriteFile(fsys, path, []byte(patched), 0644)
}
