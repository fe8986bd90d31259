package registry

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"github.com/cenkalti/backoff/v4"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/cluster-deployment-automation/gocli/pkg/libssh"
	"github.com/cluster-deployment-automation/gocli/pkg/runner"
)

const (
	// ContainerName is the fixed name of the local registry container.
	ContainerName = "local-container-registry"

	registryImage = "docker.io/library/registry:latest"
	containerPort = 5000
	trustAnchors  = "/etc/pki/ca-trust/source/anchors"
)

// Registry manages the local TLS container registry that downstream builds
// push to. State lives under baseDir (certs, data, auth); the container is
// addressed by its fixed name.
type Registry struct {
	runner  runner.Runner
	fs      afero.Fs
	baseDir string
	port    int

	// readiness probe, replaced in tests
	probe func(addr string) error
}

func New(r runner.Runner, fsys afero.Fs, baseDir string, port int) *Registry {
	return &Registry{
		runner:  r,
		fs:      fsys,
		baseDir: baseDir,
		port:    port,
		probe: func(addr string) error {
			conn, err := net.DialTimeout("tcp", addr, 3*time.Second)
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}
}

// CertDir returns the directory holding the registry TLS material.
func (r *Registry) CertDir() string {
	return filepath.Join(r.baseDir, "certs")
}

// Hostname returns the FQDN the registry certificate is issued for.
func (r *Registry) Hostname() (string, error) {
	out, err := r.runner.CommandWithOutput("hostname -f")
	if err != nil {
		return "", errors.Wrap(err, "reading hostname")
	}
	hostname := strings.TrimSpace(out)
	if hostname == "" {
		return "", errors.New("empty hostname")
	}
	return hostname, nil
}

// EnsureRunning starts the local registry unless it is already up, and
// returns its host:port. With deleteAll an existing registry is torn down
// first, including its stored images and certificates.
func (r *Registry) EnsureRunning(ctx context.Context, deleteAll bool) (string, error) {
	hostname, err := r.Hostname()
	if err != nil {
		return "", err
	}
	address := fmt.Sprintf("%s:%d", hostname, r.port)

	_, inspectErr := r.runner.CommandWithOutput(fmt.Sprintf("podman inspect %s --format {{.Id}}", ContainerName))
	dirExists, err := afero.DirExists(r.fs, r.baseDir)
	if err != nil {
		return "", err
	}
	if inspectErr == nil && dirExists {
		if !deleteAll {
			return address, nil
		}
		if err := r.Delete(); err != nil {
			return "", err
		}
	}

	logrus.Infof("creating local registry at %s", address)

	certDir := r.CertDir()
	for _, dir := range []string{certDir, filepath.Join(r.baseDir, "data"), filepath.Join(r.baseDir, "auth")} {
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	cmd := fmt.Sprintf("openssl req -newkey rsa:4096 -nodes -sha256 -keyout %s -x509 -days 365 -out %s -subj %s -addext %s",
		shellescape.Quote(filepath.Join(certDir, "domain.key")),
		shellescape.Quote(filepath.Join(certDir, "domain.crt")),
		shellescape.Quote("/CN="+hostname),
		shellescape.Quote("subjectAltName = DNS:"+hostname))
	if err := r.runner.Command(cmd); err != nil {
		return "", errors.Wrap(err, "generating registry certificate")
	}

	// podman push --cert-dir expects domain.cert next to domain.crt
	if err := r.runner.Command(fmt.Sprintf("ln -snf domain.crt %s", shellescape.Quote(filepath.Join(certDir, "domain.cert")))); err != nil {
		return "", err
	}

	portSpec := fmt.Sprintf("%d:%d", r.port, containerPort)
	if _, err := nat.ParsePortSpec(portSpec); err != nil {
		return "", errors.Wrapf(err, "invalid registry port mapping %s", portSpec)
	}

	cmd = fmt.Sprintf("podman run --name %s -p %s "+
		"-v %s:/var/lib/registry:z -v %s:/auth:z -v %s:/certs:z "+
		"-e REGISTRY_HTTP_TLS_CERTIFICATE=/certs/domain.crt "+
		"-e REGISTRY_HTTP_TLS_KEY=/certs/domain.key "+
		"-e REGISTRY_COMPATIBILITY_SCHEMA1_ENABLED=true "+
		"-d %s",
		ContainerName, portSpec,
		shellescape.Quote(filepath.Join(r.baseDir, "data")),
		shellescape.Quote(filepath.Join(r.baseDir, "auth")),
		shellescape.Quote(certDir),
		registryImage)
	if err := r.runner.Command(cmd); err != nil {
		return "", errors.Wrap(err, "starting registry container")
	}

	operation := func() error { return r.probe(address) }
	wait := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10), ctx)
	if err := backoff.Retry(operation, wait); err != nil {
		return "", errors.Wrapf(err, "registry at %s never became ready", address)
	}

	return address, nil
}

// Delete removes the registry container and all its stored state.
func (r *Registry) Delete() error {
	if err := r.runner.Command(fmt.Sprintf("podman rm -f %s", ContainerName)); err != nil {
		return err
	}
	return r.fs.RemoveAll(r.baseDir)
}

// TrustLocal installs the registry CA into the local trust store.
func (r *Registry) TrustLocal() error {
	files, err := afero.ReadDir(r.fs, r.CertDir())
	if err != nil {
		return errors.Wrap(err, "listing registry certificates")
	}
	for _, f := range files {
		src := filepath.Join(r.CertDir(), f.Name())
		if err := r.runner.Command(fmt.Sprintf("cp %s %s", shellescape.Quote(src), shellescape.Quote(filepath.Join(trustAnchors, f.Name())))); err != nil {
			return err
		}
	}
	return r.runner.Command("update-ca-trust")
}

// TrustRemote copies the registry CA to a remote host over SSH and refreshes
// its trust store, so that host can pull from the local registry.
func (r *Registry) TrustRemote(client libssh.Client) error {
	files, err := afero.ReadDir(r.fs, r.CertDir())
	if err != nil {
		return errors.Wrap(err, "listing registry certificates")
	}
	for _, fi := range files {
		f, err := r.fs.Open(filepath.Join(r.CertDir(), fi.Name()))
		if err != nil {
			return err
		}
		err = client.SCP(filepath.Join(trustAnchors, fi.Name()), f)
		f.Close()
		if err != nil {
			return errors.Wrapf(err, "copying %s", fi.Name())
		}
	}
	return client.Command("update-ca-trust")
}
