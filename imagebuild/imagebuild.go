package imagebuild

import (
	"fmt"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cluster-deployment-automation/gocli/gitsync"
	"github.com/cluster-deployment-automation/gocli/manifest"
	"github.com/cluster-deployment-automation/gocli/matrix"
	"github.com/cluster-deployment-automation/gocli/pkg/runner"
)

// Options controls a single image build.
type Options struct {
	// Rebuild forces a build even when the tag already exists locally
	Rebuild bool
	// Push pushes the tag after a successful (or skipped) build
	Push bool
	// Downstream selects the downstream Dockerfile variant; the caller must
	// have logged in to the downstream registry beforehand
	Downstream bool
	// PreserveGitDir keeps local edits in the working tree instead of
	// resetting it to the branch tip
	PreserveGitDir bool
	// ExtraPushArgs is passed through to the push command verbatim
	ExtraPushArgs string
}

// DefaultOptions match the interactive defaults: always rebuild, always push.
func DefaultOptions() Options {
	return Options{Rebuild: true, Push: true}
}

// BuildResult describes one produced image.
type BuildResult struct {
	FullTag string
	Pushed  bool
	EnvVar  string
}

// ImageBuilder builds and pushes one component image per call and records the
// resulting tag in the shared manifest collector.
type ImageBuilder struct {
	runner runner.Runner
	sync   *gitsync.RepoSync
	out    *manifest.Collector
}

func NewImageBuilder(r runner.Runner, sync *gitsync.RepoSync, out *manifest.Collector) *ImageBuilder {
	return &ImageBuilder{
		runner: r,
		sync:   sync,
		out:    out,
	}
}

// Build produces registry/component:release from the spec's Dockerfile. A
// spec without a Dockerfile for the selected variant is not applicable and
// returns a zero result without touching git or the container tool. The
// manifest line is recorded even when the build itself is skipped, so
// downstream consumers can always locate the tag.
func (b *ImageBuilder) Build(spec matrix.BuildSpec, registry string, opts Options) (BuildResult, error) {
	dockerfile := spec.Dockerfile
	if opts.Downstream {
		dockerfile = spec.DownstreamDockerfile
	}
	if dockerfile == "" {
		logrus.Infof("[%s]: no Dockerfile for this variant in %s, not applicable", spec.Component, spec.Release)
		return BuildResult{}, nil
	}

	fullTag := fmt.Sprintf("%s/%s:%s", registry, spec.Component, spec.Release)

	skipBuild := false
	if !opts.Rebuild {
		out, err := b.runner.CommandWithOutput("podman images -q " + shellescape.Quote(fullTag))
		if err == nil && strings.TrimSpace(out) != "" {
			logrus.Infof("[%s]: %s already exists, skipping build", spec.Component, fullTag)
			skipBuild = true
		}
	}

	if !skipBuild {
		dir, err := b.sync.Sync(spec, opts.PreserveGitDir)
		if err != nil {
			return BuildResult{}, err
		}
		cmd := fmt.Sprintf("podman build -t %s -f %s %s",
			shellescape.Quote(fullTag), shellescape.Quote(dockerfile), shellescape.Quote(dir))
		if err := b.runner.Command(cmd); err != nil {
			return BuildResult{}, errors.Wrapf(err, "building %s", fullTag)
		}
	}

	pushed := false
	if opts.Push {
		cmd := "podman push"
		if opts.ExtraPushArgs != "" {
			cmd += " " + opts.ExtraPushArgs
		}
		cmd += " " + shellescape.Quote(fullTag)
		if err := b.runner.Command(cmd); err != nil {
			return BuildResult{}, errors.Wrapf(err, "pushing %s", fullTag)
		}
		pushed = true
	}

	b.out.Record(spec.EnvVar, fullTag)

	return BuildResult{
		FullTag: fullTag,
		Pushed:  pushed,
		EnvVar:  spec.EnvVar,
	}, nil
}
