package imagebuild

import (
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"go.uber.org/mock/gomock"

	"github.com/cluster-deployment-automation/gocli/gitsync"
	"github.com/cluster-deployment-automation/gocli/manifest"
	"github.com/cluster-deployment-automation/gocli/matrix"
	mocks "github.com/cluster-deployment-automation/gocli/utils/mock"
)

func TestImageBuild(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ImageBuild Suite")
}

const headCommit = "f00dfeedf00dfeedf00dfeedf00dfeedf00dfeed"

var _ = Describe("ImageBuilder", func() {
	var (
		mockCtrl *gomock.Controller
		r        *mocks.MockRunner
		out      *manifest.Collector
		builder  *ImageBuilder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		r = mocks.NewMockRunner(mockCtrl)
		out = manifest.NewCollector()
		sync := gitsync.NewRepoSync(r, afero.NewMemMapFs(), "/root")
		builder = NewImageBuilder(r, sync, out)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("clones, builds and pushes a fresh component", func() {
		spec, err := matrix.Resolve("4.17", "sriov-cni")
		Expect(err).NotTo(HaveOccurred())
		fullTag := AddExpectCallsFullBuild(r, spec, "quay.io/org", "/root/sriov-cni", headCommit)

		result, err := builder.Build(spec, "quay.io/org", DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.FullTag).To(Equal(fullTag))
		Expect(result.Pushed).To(BeTrue())
		Expect(result.EnvVar).To(Equal("SRIOV_CNI_IMAGE"))
		Expect(out.Entries()).To(ConsistOf(manifest.Entry{Key: "SRIOV_CNI_IMAGE", Value: "quay.io/org/sriov-cni:4.17"}))
	})

	It("skips the build but records the manifest line when the tag exists and rebuild is off", func() {
		spec, err := matrix.Resolve("4.17", "sriov-cni")
		Expect(err).NotTo(HaveOccurred())
		AddExpectCallsExistingImage(r, "quay.io/org/sriov-cni:4.17")

		result, err := builder.Build(spec, "quay.io/org", Options{Rebuild: false, Push: false})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Pushed).To(BeFalse())
		Expect(out.Entries()).To(HaveLen(1))
		Expect(out.Entries()[0].Value).To(Equal("quay.io/org/sriov-cni:4.17"))
	})

	It("still pushes an existing tag when push is enabled", func() {
		spec, err := matrix.Resolve("4.17", "sriov-cni")
		Expect(err).NotTo(HaveOccurred())
		AddExpectCallsExistingImage(r, "quay.io/org/sriov-cni:4.17")
		r.EXPECT().Command("podman push quay.io/org/sriov-cni:4.17")

		result, err := builder.Build(spec, "quay.io/org", Options{Rebuild: false, Push: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Pushed).To(BeTrue())
	})

	It("passes extra push arguments through verbatim", func() {
		spec, err := matrix.Resolve("4.17", "sriov-cni")
		Expect(err).NotTo(HaveOccurred())
		AddExpectCallsExistingImage(r, "quay.io/org/sriov-cni:4.17")
		r.EXPECT().Command("podman push --tls-verify=false quay.io/org/sriov-cni:4.17")

		_, err = builder.Build(spec, "quay.io/org", Options{Rebuild: false, Push: true, ExtraPushArgs: "--tls-verify=false"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns without any command for a missing downstream Dockerfile", func() {
		spec, err := matrix.Resolve("4.17", "sriov-network-operator-must-gather")
		Expect(err).NotTo(HaveOccurred())

		result, err := builder.Build(spec, "quay.io/org", Options{Rebuild: true, Push: true, Downstream: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(BuildResult{}))
		Expect(out.Entries()).To(BeEmpty())
	})

	It("selects the downstream Dockerfile for downstream builds", func() {
		spec, err := matrix.Resolve("4.18", "sriov-network-operator")
		Expect(err).NotTo(HaveOccurred())
		gitsync.AddExpectCallsFreshClone(r, spec.SourceURL, "/root/sriov-network-operator", "4.18", "release-4.18", headCommit)
		r.EXPECT().Command("podman build -t quay.io/org/sriov-network-operator:4.18 -f Dockerfile.ocp /root/sriov-network-operator")

		_, err = builder.Build(spec, "quay.io/org", Options{Rebuild: true, Push: false, Downstream: true})
		Expect(err).NotTo(HaveOccurred())
	})

	It("fails fast when the push fails", func() {
		spec, err := matrix.Resolve("4.17", "sriov-cni")
		Expect(err).NotTo(HaveOccurred())
		AddExpectCallsExistingImage(r, "quay.io/org/sriov-cni:4.17")
		r.EXPECT().Command("podman push quay.io/org/sriov-cni:4.17").Return(errors.New("denied"))

		_, err = builder.Build(spec, "quay.io/org", Options{Rebuild: false, Push: true})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("pushing"))
		Expect(out.Entries()).To(BeEmpty())
	})
})
