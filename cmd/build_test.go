package cmd

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cluster-deployment-automation/gocli/matrix"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

func executeBuild(args ...string) error {
	build := NewBuildCommand()
	build.SetOut(&bytes.Buffer{})
	build.SetErr(&bytes.Buffer{})
	build.SetArgs(args)
	return build.Execute()
}

var _ = Describe("build command", func() {
	It("rejects a run without a registry", func() {
		Expect(executeBuild()).NotTo(Succeed())
	})

	It("rejects too many positional arguments", func() {
		Expect(executeBuild("4.18", "sriov-cni", "quay.io/org", "extra")).NotTo(Succeed())
	})

	It("aborts on an explicitly requested unregistered pair", func() {
		err := executeBuild("4.18", "network-resources-injector", "quay.io/org")
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(&matrix.NotRegisteredError{}))
	})

	It("aborts on an unknown component when a release is pinned", func() {
		err := executeBuild("4.18", "no-such-component", "quay.io/org")
		Expect(err).To(HaveOccurred())
	})

	It("requires a release for --keep-git-dir", func() {
		err := executeBuild("--keep-git-dir", "quay.io/org")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("keep-git-dir"))
	})
})
