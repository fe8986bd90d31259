package libssh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/bramvdbogaerde/go-scp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// Client runs a command on a remote host or copies a file to it. Used by the
// registry trust step to distribute the local registry CA to other machines;
// the bare command is passed as-is, any shell wrapping is up to the caller.
type Client interface {
	Command(cmd string) error
	SCP(destPath string, contents io.Reader) error
}

// Implementation of the Client interface based on native golang libraries
type SSHClientImpl struct {
	host      string
	port      uint16
	initMutex sync.Mutex
	config    *ssh.ClientConfig
	client    *ssh.Client
}

func NewSSHClient(host string, port uint16, user, keyPath string) (*SSHClientImpl, error) {
	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key %s: %w", keyPath, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, err
	}

	c := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	return &SSHClientImpl{
		config:    c,
		host:      host,
		port:      port,
		initMutex: sync.Mutex{},
	}, nil
}

func (s *SSHClientImpl) Command(cmd string) error {
	if s.client == nil {
		if err := s.initClient(); err != nil {
			return err
		}
	}
	session, err := s.client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	logrus.Infof("[%s]: %s", s.host, cmd)

	var stderr bytes.Buffer
	session.Stdout = os.Stdout
	session.Stderr = io.MultiWriter(os.Stderr, &stderr)
	if err := session.Run(cmd); err != nil {
		return fmt.Errorf("failed to execute command: %s: %s", cmd, stderr.String())
	}
	return nil
}

func (s *SSHClientImpl) SCP(destPath string, contents io.Reader) error {
	if s.client == nil {
		if err := s.initClient(); err != nil {
			return err
		}
	}

	scpClient, err := scp.NewClientBySSH(s.client)
	if err != nil {
		return err
	}

	if err := scpClient.Connect(); err != nil {
		return err
	}

	return scpClient.CopyFile(context.Background(), contents, destPath, "0644")
}

func (s *SSHClientImpl) initClient() error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()
	client, err := ssh.Dial("tcp", net.JoinHostPort(s.host, fmt.Sprint(s.port)), s.config)
	if err != nil {
		return fmt.Errorf("Failed to connect to SSH server: %v", err)
	}
	s.client = client
	return nil
}
