package dynamodblocal

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Manager owns one instance configuration and at most one emulator
// subprocess. Lifecycle methods are safe for concurrent use; the handle
// field is mutex-guarded because exit notification always races with
// explicit Stop calls.
type Manager struct {
	// mu protects cfg and handle
	mu     sync.Mutex
	cfg    Config
	handle ProcessHandle

	prov     Provisioner
	runner   ProcessRunner
	source   Source
	javaPath string
	id       string
	log      zerolog.Logger
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithProvisioner sets the provisioner used by Start
func WithProvisioner(p Provisioner) ManagerOption {
	return func(m *Manager) {
		m.prov = p
	}
}

// WithRunner sets the process runner used to spawn the emulator
func WithRunner(r ProcessRunner) ManagerOption {
	return func(m *Manager) {
		m.runner = r
	}
}

// WithSource sets the archive source passed to the provisioner on Start
func WithSource(src Source) ManagerOption {
	return func(m *Manager) {
		m.source = src
	}
}

// WithJavaPath sets the java executable used to spawn the emulator
func WithJavaPath(path string) ManagerOption {
	return func(m *Manager) {
		m.javaPath = path
	}
}

// WithLogger sets the logger for lifecycle events
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a Manager for the given configuration and applies any
// provided options. The configuration is validated up front; the emulator
// is not provisioned or spawned until Start.
func NewManager(cfg Config, opts ...ManagerOption) (*Manager, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, &OpError{Op: OpConfigure, Err: err}
	}

	m := &Manager{
		cfg:      cfg,
		prov:     NewDownloader(),
		runner:   execRunner{},
		source:   Source{Type: SourceWWW},
		javaPath: DefaultJavaPath,
		id:       uuid.NewString(),
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Start provisions the emulator and spawns it with the current
// configuration. It fails with ErrAlreadyRunning when a process handle
// already exists; there is no silent no-op on double start. Start returns
// once the spawn has been issued; it does not wait for the emulator to
// begin accepting connections. The provisioning fetch has no timeout of
// its own beyond ctx.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		return &OpError{Op: OpStart, Err: ErrAlreadyRunning}
	}

	dir, err := m.prov.Provision(ctx, m.source)
	if err != nil {
		return err
	}

	args := buildArgs(dir, m.cfg)
	h, err := m.runner.Start(m.javaPath, args)
	if err != nil {
		return &OpError{Op: OpStart, Path: m.javaPath, Err: err}
	}

	m.handle = h
	m.log.Info().
		Str("instance", m.id).
		Int("pid", h.PID()).
		Int("port", m.cfg.Port).
		Str("mode", string(m.cfg.Mode)).
		Msg("instance started")

	go m.observe(h)

	return nil
}

// Stop sends the emulator a graceful termination signal and clears the
// handle immediately, without waiting for the process to exit. Stopping an
// instance that is not running is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	h := m.handle
	m.handle = nil
	m.mu.Unlock()

	if h == nil {
		return
	}

	if err := h.Signal(gracefulSignal); err != nil {
		m.log.Debug().Str("instance", m.id).Err(err).Msg("signal failed")
		return
	}
	m.log.Info().Str("instance", m.id).Int("pid", h.PID()).Msg("instance stopped")
}

// Restart stops the instance if it is running, then starts it with the
// configuration active at call time. Because Stop clears the handle before
// Start checks its precondition, Restart never fails with
// ErrAlreadyRunning; it fails with whatever Start fails with.
func (m *Manager) Restart(ctx context.Context) error {
	m.Stop()
	return m.Start(ctx)
}

// Configure merges the supplied fields into the live configuration.
// It fails with ErrInvalidPort or ErrInvalidMode without changing anything
// when a supplied value is out of range. Changes take effect on the next
// Start; a running instance keeps the arguments it was spawned with.
func (m *Manager) Configure(u ConfigUpdate) error {
	if err := checkUpdate(u); err != nil {
		return &OpError{Op: OpConfigure, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if u.Port != nil {
		m.cfg.Port = *u.Port
	}
	if u.Mode != nil {
		m.cfg.Mode = *u.Mode
	}
	return nil
}

// Liveness reports whether a process handle currently exists
func (m *Manager) Liveness() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// Readiness reports whether the instance is ready to serve requests. It is
// currently identical to Liveness: handle presence stands in for a
// protocol-level ready check, which is out of scope for this library.
func (m *Manager) Readiness() bool {
	return m.Liveness()
}

// Status returns a point-in-time view of the instance
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := StateDown
	if m.handle != nil {
		state = StateUp
	}
	return Status{State: state, Port: m.cfg.Port, Mode: m.cfg.Mode}
}

// Port returns the configured port
func (m *Manager) Port() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Port
}

// Mode returns the configured storage mode
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Mode
}

// PID returns the process ID of the running emulator, or 0 when down
func (m *Manager) PID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return 0
	}
	return m.handle.PID()
}

// ID returns the manager's instance identifier
func (m *Manager) ID() string {
	return m.id
}

// observe waits for the process to exit, logs the outcome, and clears the
// handle. It races with explicit Stop calls; clear is idempotent so
// whichever side loses the race is a no-op.
func (m *Manager) observe(h ProcessHandle) {
	err := h.Wait()
	m.clear(h)

	switch e := err.(type) {
	case nil:
		m.log.Info().Str("instance", m.id).Int("code", 0).Msg("instance exited")
	case *exec.ExitError:
		m.log.Info().Str("instance", m.id).Int("code", e.ExitCode()).Msg("instance exited")
	default:
		m.log.Error().Str("instance", m.id).Err(err).Msg("instance failed")
	}
}

// clear removes the handle if it is still the one observed. Clearing an
// already-cleared or replaced handle is a no-op.
func (m *Manager) clear(h ProcessHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == h {
		m.handle = nil
	}
}

// buildArgs constructs the emulator's command line from the provisioned
// install directory and the configuration snapshot. Unrecognized modes
// contribute no flag.
func buildArgs(dir string, cfg Config) []string {
	args := []string{
		FlagLibraryPath + filepath.Join(dir, LibDir),
		FlagJar,
		filepath.Join(dir, JarFile),
		FlagPort,
		strconv.Itoa(cfg.Port),
	}

	switch cfg.Mode {
	case ModeInMemory:
		args = append(args, FlagInMemory)
	case ModeSharedDB:
		args = append(args, FlagSharedDB)
	}

	return args
}
