package imagebuild

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"go.uber.org/mock/gomock"

	"github.com/cluster-deployment-automation/gocli/gitsync"
	"github.com/cluster-deployment-automation/gocli/manifest"
	"github.com/cluster-deployment-automation/gocli/matrix"
	mocks "github.com/cluster-deployment-automation/gocli/utils/mock"
)

var _ = Describe("MatrixDriver", func() {
	var (
		mockCtrl *gomock.Controller
		r        *mocks.MockRunner
		out      *manifest.Collector
		builder  *ImageBuilder
	)

	// rebuild off and every tag reported present keeps the runs cheap: one
	// image query per registered cell, no git or build traffic
	skipAll := Options{Rebuild: false, Push: false}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		r = mocks.NewMockRunner(mockCtrl)
		out = manifest.NewCollector()
		sync := gitsync.NewRepoSync(r, afero.NewMemMapFs(), "/root")
		builder = NewImageBuilder(r, sync, out)

		r.EXPECT().CommandWithOutput(gomock.Any()).Return("cafecafecafe\n", nil).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("builds one image per release when filtered to a single component", func() {
		driver := NewMatrixDriver(builder, "quay.io/org", skipAll)
		Expect(driver.Run("", "sriov-cni")).To(Succeed())

		entries := out.Entries()
		Expect(entries).To(HaveLen(5))
		for i, release := range matrix.Releases() {
			Expect(entries[i].Value).To(Equal(fmt.Sprintf("quay.io/org/sriov-cni:%s", release)))
		}
	})

	It("silently skips matrix cells that are not registered", func() {
		driver := NewMatrixDriver(builder, "quay.io/org", skipAll)
		Expect(driver.Run("", "network-resources-injector")).To(Succeed())

		// registered for 4.14-4.17 only; the 4.18 cell is absent, not an error
		Expect(out.Entries()).To(HaveLen(4))
	})

	It("covers every registered cell on an unfiltered run", func() {
		driver := NewMatrixDriver(builder, "quay.io/org", skipAll)
		Expect(driver.Run("", "")).To(Succeed())

		// 8 components x 5 releases minus the one sparse injector cell
		Expect(out.Entries()).To(HaveLen(39))
	})

	It("restricts the run to one release when filtered", func() {
		driver := NewMatrixDriver(builder, "quay.io/org", skipAll)
		Expect(driver.Run("4.18", "")).To(Succeed())

		// injector is not registered for 4.18
		Expect(out.Entries()).To(HaveLen(7))
	})

	It("stops the whole run on the first build failure", func() {
		sync := gitsync.NewRepoSync(r, afero.NewMemMapFs(), "/root")
		failing := NewImageBuilder(r, sync, out)
		r.EXPECT().Command(gomock.Any()).Return(errors.New("git down")).AnyTimes()

		driver := NewMatrixDriver(failing, "quay.io/org", Options{Rebuild: true, Push: false})
		Expect(driver.Run("", "sriov-cni")).NotTo(Succeed())
		Expect(out.Entries()).To(BeEmpty())
	})
})
