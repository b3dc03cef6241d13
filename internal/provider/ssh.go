package provider

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// SSH runs storcli on a remote host over an SSH session per query
type SSH struct {
	host       string
	command    string
	controller string
	timeout    time.Duration
	config     *ssh.ClientConfig

	mu     sync.Mutex
	client *ssh.Client
}

// SSHOptions configures an SSH provider
type SSHOptions struct {
	Host     string
	User     string
	Password string
	// Command is the storcli binary on the remote host
	Command    string
	Controller string
	Timeout    time.Duration
}

// NewSSH creates a provider for a remote host. The connection is opened on the first query.
func NewSSH(opts SSHOptions) (*SSH, error) {
	if opts.Host == "" || opts.User == "" {
		return nil, errors.New("ssh transport requires host and user")
	}
	if opts.Command == "" {
		opts.Command = StorcliCandidates[0]
	}
	host := opts.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "22")
	}

	password := opts.Password
	interactive := func(user, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = password
		}
		return answers, nil
	}

	return &SSH{
		host:       host,
		command:    opts.Command,
		controller: opts.Controller,
		timeout:    opts.Timeout,
		config: &ssh.ClientConfig{
			User: opts.User,
			Auth: []ssh.AuthMethod{
				ssh.Password(password),
				ssh.KeyboardInteractive(interactive),
			},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         opts.Timeout,
		},
	}, nil
}

// connect returns the cached client, dialing a new one when there is none
func (s *SSH) connect(ctx context.Context) (*ssh.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	client, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	s.client = client
	return client, nil
}

// dial opens a connection bounded by ctx, including the SSH handshake
func (s *SSH) dial(ctx context.Context) (*ssh.Client, error) {
	d := net.Dialer{Timeout: s.config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", s.host)
	if err != nil {
		if timedOut(ctx, err) {
			return nil, errors.Wrapf(ErrTimeout, "dial %s", s.host)
		}
		return nil, errors.Wrapf(ErrConnection, "dial %s: %v", s.host, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, s.host, s.config)
	if err != nil {
		conn.Close()
		if timedOut(ctx, err) {
			return nil, errors.Wrapf(ErrTimeout, "handshake with %s", s.host)
		}
		return nil, errors.Wrapf(ErrConnection, "handshake with %s: %v", s.host, err)
	}
	conn.SetDeadline(time.Time{})
	return ssh.NewClient(c, chans, reqs), nil
}

// timedOut reports whether err came from ctx or a connection deadline expiring
func timedOut(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// drop discards client if it is still the cached connection
func (s *SSH) drop(client *ssh.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == client {
		s.client.Close()
		s.client = nil
	}
}

// session opens a session, redialing once when the cached connection is dead
func (s *SSH) session(ctx context.Context) (*ssh.Session, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	session, err := openSession(ctx, client)
	if err == nil {
		return session, nil
	}
	s.drop(client)
	if ctx.Err() != nil {
		return nil, errors.Wrapf(ErrTimeout, "session on %s", s.host)
	}

	log.WithError(err).WithField("host", s.host).Debug("SSH connection lost, reconnecting")
	if client, err = s.connect(ctx); err != nil {
		return nil, err
	}
	if session, err = openSession(ctx, client); err != nil {
		s.drop(client)
		if ctx.Err() != nil {
			return nil, errors.Wrapf(ErrTimeout, "session on %s", s.host)
		}
		return nil, errors.Wrapf(ErrConnection, "session on %s: %v", s.host, err)
	}
	return session, nil
}

// openSession opens a session on client, giving up when ctx is done
func openSession(ctx context.Context, client *ssh.Client) (*ssh.Session, error) {
	type opened struct {
		session *ssh.Session
		err     error
	}
	ch := make(chan opened, 1)
	go func() {
		session, err := client.NewSession()
		ch <- opened{session, err}
	}()

	select {
	case o := <-ch:
		return o.session, o.err
	case <-ctx.Done():
		client.Close()
		return nil, ctx.Err()
	}
}

// Run executes the query in a new session
func (s *SSH) Run(ctx context.Context, q Query) (Result, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	session, err := s.session(ctx)
	if err != nil {
		return Result{}, err
	}
	defer session.Close()

	cmd := s.command + " " + strings.Join(q.Args(s.controller), " ")
	log.WithFields(log.Fields{"host": s.host, "command": cmd}).Debug("Running remote command")

	var b bytes.Buffer
	session.Stdout = &b
	session.Stderr = &b

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case <-ctx.Done():
		session.Close()
		return Result{ExitCode: exitCodeTimeout}, errors.Wrapf(ErrTimeout, "%s on %s", cmd, s.host)
	case err := <-done:
		result := Result{Output: b.String()}
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				result.ExitCode = exitErr.ExitStatus()
			} else {
				result.ExitCode = exitCodeErrDefault
			}
		}
		return result, nil
	}
}

// Close releases the SSH connection
func (s *SSH) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// Target returns the remote host
func (s *SSH) Target() string {
	host, _, err := net.SplitHostPort(s.host)
	if err != nil {
		return s.host
	}
	return host
}
