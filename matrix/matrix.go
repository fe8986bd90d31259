package matrix

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"
)

// BuildSpec holds the resolved inputs for one (release, component) image
// build. Immutable once resolved.
type BuildSpec struct {
	Release              string
	Component            string
	SourceURL            string
	Branch               string
	Dockerfile           string
	DownstreamDockerfile string
	EnvVar               string
}

// NotRegisteredError is returned by Resolve for a (release, component) pair
// that has no entry in the build matrix.
type NotRegisteredError struct {
	Release   string
	Component string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no image build registered for component %q in release %q", e.Component, e.Release)
}

type dockerfiles struct {
	upstream   string
	downstream string
}

type componentEntry struct {
	sourceURL string
	envVar    string
	// keyed by release; a missing release means the combination is not buildable
	releases map[string]dockerfiles
}

var releases = []string{"4.14", "4.15", "4.16", "4.17", "4.18"}

// components in build order; the driver iterates this list component-major
var components = []string{
	"sriov-cni",
	"ib-sriov-cni",
	"sriov-device-plugin",
	"network-resources-injector",
	"sriov-network-operator",
	"sriov-network-config-daemon",
	"sriov-network-webhook",
	"sriov-network-operator-must-gather",
}

func allReleases(df dockerfiles) map[string]dockerfiles {
	m := map[string]dockerfiles{}
	for _, r := range releases {
		m[r] = df
	}
	return m
}

// The operator family switched its downstream Dockerfile suffix from .rhel7
// to .ocp in 4.18. The split is an upstream naming change tied to concrete
// releases, so it is spelled out per release rather than derived.
var registry = map[string]componentEntry{
	"sriov-cni": {
		sourceURL: "https://github.com/openshift/sriov-cni.git",
		envVar:    "SRIOV_CNI_IMAGE",
		releases:  allReleases(dockerfiles{"Dockerfile", "Dockerfile.rhel7"}),
	},
	"ib-sriov-cni": {
		sourceURL: "https://github.com/openshift/ib-sriov-cni.git",
		envVar:    "SRIOV_INFINIBAND_CNI_IMAGE",
		releases:  allReleases(dockerfiles{"Dockerfile", "Dockerfile.rhel7"}),
	},
	"sriov-device-plugin": {
		sourceURL: "https://github.com/openshift/sriov-network-device-plugin.git",
		envVar:    "SRIOV_DEVICE_PLUGIN_IMAGE",
		releases:  allReleases(dockerfiles{"images/Dockerfile", "images/Dockerfile.rhel7"}),
	},
	"network-resources-injector": {
		sourceURL: "https://github.com/openshift/network-resources-injector.git",
		envVar:    "NETWORK_RESOURCES_INJECTOR_IMAGE",
		// dropped upstream in 4.18
		releases: map[string]dockerfiles{
			"4.14": {"Dockerfile", "Dockerfile.rhel7"},
			"4.15": {"Dockerfile", "Dockerfile.rhel7"},
			"4.16": {"Dockerfile", "Dockerfile.rhel7"},
			"4.17": {"Dockerfile", "Dockerfile.rhel7"},
		},
	},
	"sriov-network-operator": {
		sourceURL: "https://github.com/openshift/sriov-network-operator.git",
		envVar:    "SRIOV_NETWORK_OPERATOR_IMAGE",
		releases: map[string]dockerfiles{
			"4.14": {"Dockerfile", "Dockerfile.rhel7"},
			"4.15": {"Dockerfile", "Dockerfile.rhel7"},
			"4.16": {"Dockerfile", "Dockerfile.rhel7"},
			"4.17": {"Dockerfile", "Dockerfile.rhel7"},
			"4.18": {"Dockerfile", "Dockerfile.ocp"},
		},
	},
	"sriov-network-config-daemon": {
		sourceURL: "https://github.com/openshift/sriov-network-operator.git",
		envVar:    "SRIOV_NETWORK_CONFIG_DAEMON_IMAGE",
		releases: map[string]dockerfiles{
			"4.14": {"Dockerfile.sriov-network-config-daemon", "Dockerfile.sriov-network-config-daemon.rhel7"},
			"4.15": {"Dockerfile.sriov-network-config-daemon", "Dockerfile.sriov-network-config-daemon.rhel7"},
			"4.16": {"Dockerfile.sriov-network-config-daemon", "Dockerfile.sriov-network-config-daemon.rhel7"},
			"4.17": {"Dockerfile.sriov-network-config-daemon", "Dockerfile.sriov-network-config-daemon.rhel7"},
			"4.18": {"Dockerfile.sriov-network-config-daemon", "Dockerfile.sriov-network-config-daemon.ocp"},
		},
	},
	"sriov-network-webhook": {
		sourceURL: "https://github.com/openshift/sriov-network-operator.git",
		envVar:    "SRIOV_NETWORK_WEBHOOK_IMAGE",
		releases: map[string]dockerfiles{
			"4.14": {"Dockerfile.webhook", "Dockerfile.webhook.rhel7"},
			"4.15": {"Dockerfile.webhook", "Dockerfile.webhook.rhel7"},
			"4.16": {"Dockerfile.webhook", "Dockerfile.webhook.rhel7"},
			"4.17": {"Dockerfile.webhook", "Dockerfile.webhook.rhel7"},
			"4.18": {"Dockerfile.webhook", "Dockerfile.webhook.ocp"},
		},
	},
	"sriov-network-operator-must-gather": {
		sourceURL: "https://github.com/openshift/sriov-network-operator.git",
		envVar:    "SRIOV_NETWORK_OPERATOR_MUST_GATHER_IMAGE",
		// no downstream variant exists for must-gather
		releases: allReleases(dockerfiles{"Dockerfile.must-gather", ""}),
	},
}

// Resolve returns the build inputs for the given pair. The lookup is pure;
// the same pair always yields the same spec.
func Resolve(release, component string) (BuildSpec, error) {
	entry, ok := registry[component]
	if !ok {
		return BuildSpec{}, &NotRegisteredError{Release: release, Component: component}
	}
	df, ok := entry.releases[release]
	if !ok {
		return BuildSpec{}, &NotRegisteredError{Release: release, Component: component}
	}
	return BuildSpec{
		Release:              release,
		Component:            component,
		SourceURL:            entry.sourceURL,
		Branch:               "release-" + release,
		Dockerfile:           df.upstream,
		DownstreamDockerfile: df.downstream,
		EnvVar:               entry.envVar,
	}, nil
}

// Components returns the component list in build order.
func Components() []string {
	out := make([]string, len(components))
	copy(out, components)
	return out
}

// Releases returns the known release identifiers.
func Releases() []string {
	out := make([]string, len(releases))
	copy(out, releases)
	return out
}

// SortedReleases returns the known releases in ascending version order.
func SortedReleases() ([]string, error) {
	versions := make([]*semver.Version, 0, len(releases))
	for _, r := range releases {
		v, err := semver.NewVersion(r)
		if err != nil {
			return nil, fmt.Errorf("release %q is not a parseable version: %w", r, err)
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.Original())
	}
	return out, nil
}
