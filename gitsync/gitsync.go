package gitsync

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/cluster-deployment-automation/gocli/matrix"
	"github.com/cluster-deployment-automation/gocli/patch"
	"github.com/cluster-deployment-automation/gocli/pkg/runner"
)

// RepoSync keeps a local clone of a component's source at a fixed path under
// baseDir. Clones sharing a source repository (the operator family) land in
// the same working tree, so one in-flight build owns the directory at a time.
type RepoSync struct {
	runner  runner.Runner
	fs      afero.Fs
	baseDir string
}

func NewRepoSync(r runner.Runner, fsys afero.Fs, baseDir string) *RepoSync {
	return &RepoSync{
		runner:  r,
		fs:      fsys,
		baseDir: baseDir,
	}
}

// Dir returns the working directory the spec's repository is cloned to.
func (s *RepoSync) Dir(spec matrix.BuildSpec) string {
	return filepath.Join(s.baseDir, repoName(spec.SourceURL))
}

// Sync ensures a clone of the spec's repository exists and sits at the tip of
// the release branch. With preserveLocalEdits the tree is only cloned or
// fetched, never reset, so an operator can iterate on local changes. Any git
// failure aborts the pipeline for this spec; nothing is retried.
func (s *RepoSync) Sync(spec matrix.BuildSpec, preserveLocalEdits bool) (string, error) {
	dir := s.Dir(spec)

	exists, err := afero.DirExists(s.fs, filepath.Join(dir, ".git"))
	if err != nil {
		return "", err
	}

	if !exists {
		cmd := fmt.Sprintf("git clone %s %s", shellescape.Quote(spec.SourceURL), shellescape.Quote(dir))
		if err := s.runner.Command(cmd); err != nil {
			return "", errors.Wrapf(err, "cloning %s", spec.SourceURL)
		}
	} else {
		if err := s.runner.Command(fmt.Sprintf("git -C %s fetch origin", shellescape.Quote(dir))); err != nil {
			return "", errors.Wrapf(err, "fetching %s", spec.SourceURL)
		}
	}

	if preserveLocalEdits {
		return dir, nil
	}

	cmds := []string{
		fmt.Sprintf("git -C %s checkout -B %s origin/%s", shellescape.Quote(dir), shellescape.Quote(spec.Release), shellescape.Quote(spec.Branch)),
		fmt.Sprintf("git -C %s reset --hard", shellescape.Quote(dir)),
		fmt.Sprintf("git -C %s clean -xfd", shellescape.Quote(dir)),
	}
	for _, cmd := range cmds {
		if err := s.runner.Command(cmd); err != nil {
			return "", errors.Wrapf(err, "resetting %s to %s", dir, spec.Branch)
		}
	}

	commit, err := s.runner.CommandWithOutput(fmt.Sprintf("git -C %s rev-parse HEAD", shellescape.Quote(dir)))
	if err != nil {
		return "", errors.Wrap(err, "reading checked out commit")
	}

	if err := patch.Apply(s.fs, dir, strings.TrimSpace(commit)); err != nil {
		return "", errors.Wrap(err, "patching checkout")
	}

	return dir, nil
}

func repoName(url string) string {
	return strings.TrimSuffix(path.Base(url), ".git")
}
