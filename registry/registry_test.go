package registry

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/afero"
	"go.uber.org/mock/gomock"

	mocks "github.com/cluster-deployment-automation/gocli/utils/mock"
)

func TestRegistry(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Registry Suite")
}

var _ = Describe("Registry", func() {
	var (
		mockCtrl *gomock.Controller
		r        *mocks.MockRunner
		fsys     afero.Fs
		reg      *Registry
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		r = mocks.NewMockRunner(mockCtrl)
		fsys = afero.NewMemMapFs()
		reg = New(r, fsys, "/root/.local-container-registry", 5000)
		reg.probe = func(addr string) error { return nil }
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("returns the address without restarting an already running registry", func() {
		Expect(fsys.MkdirAll("/root/.local-container-registry", 0755)).To(Succeed())
		r.EXPECT().CommandWithOutput("hostname -f").Return("builder.lab.example.com\n", nil)
		r.EXPECT().CommandWithOutput("podman inspect local-container-registry --format {{.Id}}").Return("abc123\n", nil)

		address, err := reg.EnsureRunning(context.Background(), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(address).To(Equal("builder.lab.example.com:5000"))
	})

	It("creates certificates and starts the container on first run", func() {
		r.EXPECT().CommandWithOutput("hostname -f").Return("builder.lab.example.com\n", nil)
		r.EXPECT().CommandWithOutput("podman inspect local-container-registry --format {{.Id}}").
			Return("", notFoundError())
		r.EXPECT().Command(gomock.Regex("^openssl req -newkey rsa:4096")).Return(nil)
		r.EXPECT().Command(gomock.Regex("^ln -snf domain.crt")).Return(nil)
		r.EXPECT().Command(gomock.Regex("^podman run --name local-container-registry -p 5000:5000 ")).Return(nil)

		address, err := reg.EnsureRunning(context.Background(), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(address).To(Equal("builder.lab.example.com:5000"))

		exists, err := afero.DirExists(fsys, "/root/.local-container-registry/certs")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeTrue())
	})

	It("tears everything down on delete", func() {
		Expect(fsys.MkdirAll("/root/.local-container-registry/data", 0755)).To(Succeed())
		r.EXPECT().Command("podman rm -f local-container-registry")

		Expect(reg.Delete()).To(Succeed())
		exists, err := afero.DirExists(fsys, "/root/.local-container-registry")
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})

	It("installs every certificate into the local trust store", func() {
		Expect(afero.WriteFile(fsys, "/root/.local-container-registry/certs/domain.crt", []byte("cert"), 0644)).To(Succeed())
		Expect(afero.WriteFile(fsys, "/root/.local-container-registry/certs/domain.key", []byte("key"), 0644)).To(Succeed())
		r.EXPECT().Command("cp /root/.local-container-registry/certs/domain.crt /etc/pki/ca-trust/source/anchors/domain.crt")
		r.EXPECT().Command("cp /root/.local-container-registry/certs/domain.key /etc/pki/ca-trust/source/anchors/domain.key")
		r.EXPECT().Command("update-ca-trust")

		Expect(reg.TrustLocal()).To(Succeed())
	})

	It("distributes the certificates to a remote host", func() {
		Expect(afero.WriteFile(fsys, "/root/.local-container-registry/certs/domain.crt", []byte("cert"), 0644)).To(Succeed())
		sshClient := mocks.NewMockSSHClient(mockCtrl)
		sshClient.EXPECT().SCP("/etc/pki/ca-trust/source/anchors/domain.crt", gomock.Any())
		sshClient.EXPECT().Command("update-ca-trust")

		Expect(reg.TrustRemote(sshClient)).To(Succeed())
	})
})

type inspectMiss struct{}

func (inspectMiss) Error() string { return "no such container" }

func notFoundError() error { return inspectMiss{} }
