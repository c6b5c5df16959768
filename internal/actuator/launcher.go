package actuator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayusman/gesturectl/internal/plugin"
)

// ErrActionFailed is returned when a plugin reports an unsuccessful run.
var ErrActionFailed = errors.New("action failed")

// PluginLauncher runs launch actions through the plugin whose manifest
// lists the action name.
type PluginLauncher struct {
	manager  *plugin.Manager
	executor *plugin.Executor
	log      *zap.Logger
}

// NewPluginLauncher creates a PluginLauncher.
func NewPluginLauncher(manager *plugin.Manager, executor *plugin.Executor, log *zap.Logger) *PluginLauncher {
	if log == nil {
		log = zap.NewNop()
	}
	return &PluginLauncher{
		manager:  manager,
		executor: executor,
		log:      log,
	}
}

// LaunchAction resolves name to a plugin and executes it. Names no plugin
// handles return an error wrapping plugin.ErrPluginNotFound.
func (l *PluginLauncher) LaunchAction(ctx context.Context, name string) error {
	p, err := l.manager.Resolve(name)
	if err != nil {
		return fmt.Errorf("launch %s: %w", name, err)
	}

	resp, err := l.executor.Execute(ctx, p, &plugin.Request{Action: name})
	if err != nil {
		return fmt.Errorf("launch %s: %w", name, err)
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s via %s: %s", ErrActionFailed, name, p.Manifest.Name, resp.Error)
	}

	l.log.Debug("plugin executed", zap.String("action", name), zap.String("plugin", p.Manifest.Name))
	return nil
}
