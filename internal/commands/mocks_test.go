package commands

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/okra-platform/schemagen/internal/config"
	"github.com/okra-platform/schemagen/internal/dev"
	"github.com/okra-platform/schemagen/internal/pipeline"
)

// Mock implementations shared by the command tests
type mockConfigLoader struct {
	mock.Mock
}

func (m *mockConfigLoader) LoadConfig(path string) (*config.Config, string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*config.Config), args.String(1), args.Error(2)
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context) (*pipeline.Result, error) {
	args := m.Called(ctx)
	result, _ := args.Get(0).(*pipeline.Result)
	return result, args.Error(1)
}

type mockRunnerFactory struct {
	mock.Mock
}

func (m *mockRunnerFactory) NewRunner(cfg *config.Config) dev.Runner {
	args := m.Called(cfg)
	return args.Get(0).(dev.Runner)
}

type mockSession struct {
	mock.Mock
}

func (m *mockSession) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockSessionFactory struct {
	mock.Mock
}

func (m *mockSessionFactory) NewSession(cfg *config.Config) WatchSession {
	args := m.Called(cfg)
	return args.Get(0).(WatchSession)
}

type mockModelLoader struct {
	mock.Mock
}

func (m *mockModelLoader) Load(cfg *config.Config) (*pipeline.Result, error) {
	args := m.Called(cfg)
	result, _ := args.Get(0).(*pipeline.Result)
	return result, args.Error(1)
}

type mockSignalNotifier struct {
	mock.Mock
}

func (m *mockSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	m.Called(c, sig)
}

func (m *mockSignalNotifier) Stop(c chan<- os.Signal) {
	m.Called(c)
}

type mockOutput struct {
	mu       sync.Mutex
	messages []string
}

func (o *mockOutput) Printf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintf(format, args...))
}

func (o *mockOutput) Println(args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, fmt.Sprintln(args...))
}
