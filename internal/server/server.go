package server

import (
	"bufio"
	"crypto/tls"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go.eeprom/internal/auth"
	"go.eeprom/internal/config"
	"go.eeprom/internal/engine"
)

// Server exposes the register store over a line oriented TCP protocol.
type Server struct {
	cfg  *config.Config
	auth *auth.Authenticator
	db   *engine.Database
	log  logrus.FieldLogger

	mu           sync.Mutex
	ln           net.Listener
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func New(cfg *config.Config, db *engine.Database, a *auth.Authenticator, log logrus.FieldLogger) *Server {
	return &Server{
		cfg:      cfg,
		auth:     a,
		db:       db,
		log:      log,
		shutdown: make(chan struct{}),
	}
}

// Listen opens the configured address and serves it until Shutdown or SIGINT/SIGTERM.
func (s *Server) Listen() error {
	var l net.Listener
	var err error

	if s.cfg.EnableTLS {
		cert, err := tls.LoadX509KeyPair(s.cfg.TLSCert, s.cfg.TLSKey)
		if err != nil {
			return errors.Wrap(err, "failed to load TLS certificate")
		}

		tlsCfg := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}

		l, err = tls.Listen("tcp", s.cfg.Addr, tlsCfg)
		if err != nil {
			return errors.Wrap(err, "failed to start TLS listener")
		}
	} else {
		l, err = net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			return errors.Wrap(err, "failed to start TCP listener")
		}
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			s.Shutdown()
		case <-s.shutdown:
		}
	}()

	return s.Serve(l)
}

// Serve accepts sessions on l. It returns nil after Shutdown and an error when l
// is closed by anything else.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.ln = l
	s.mu.Unlock()

	select {
	case <-s.shutdown:
		l.Close()
		return nil
	default:
	}

	s.log.WithFields(logrus.Fields{"addr": l.Addr().String(), "tls": s.cfg.EnableTLS}).Info("server started")

	var delay time.Duration
	for {
		conn, err := l.Accept()

		select {
		case <-s.shutdown:
			if conn != nil {
				conn.Close()
			}
			return nil
		default:
		}

		if errors.Is(err, net.ErrClosed) {
			return errors.Wrap(err, "listener closed")
		}
		if err != nil {
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			s.log.WithError(err).WithField("retry", delay).Warn("accept failed")
			time.Sleep(delay)
			continue
		}
		delay = 0

		go s.handleConn(conn)
	}
}

// Shutdown stops accepting connections and ends open sessions at their next command.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.log.Info("server shutting down")
		close(s.shutdown)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ln != nil {
			s.ln.Close()
		}
	})
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	sess := newSession()
	log := s.log.WithFields(logrus.Fields{
		"remote":  conn.RemoteAddr().String(),
		"session": sess.ID,
	})
	log.Debug("session opened")

	reader := bufio.NewScanner(conn)

	conn.Write([]byte(Prompt))

	for reader.Scan() {
		select {
		case <-s.shutdown:
			conn.Write([]byte("\nServer shutting down...\n"))
			return
		default:
		}

		resp := s.exec(sess, reader.Text())

		conn.Write([]byte(resp.Msg + "\n"))

		if resp.Close {
			log.Debug("session closed")
			return
		}

		conn.Write([]byte(Prompt))
	}
}

func (s *Server) exec(sess *Session, line string) Response {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Respond("")
	}

	switch strings.ToUpper(parts[0]) {
	case "AUTH":
		return s.authCommand(sess, parts)
	case "GET":
		return s.getCommand(sess, parts)
	case "PUT", "SET":
		return s.putCommand(sess, parts)
	case "DUMP":
		return s.dumpCommand(sess, parts)
	case "STAT":
		return s.statCommand(sess, parts)
	case "RESET":
		return s.resetCommand(sess, parts)
	case "EXIT", "QUIT":
		return Response{Msg: Bye, Close: true}
	default:
		return Err(Msg("Unknown command " + parts[0]))
	}
}
