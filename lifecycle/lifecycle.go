// Package lifecycle implements VM operations as explicit sequences over
// VBoxManage calls. Lower layers report failures; only this package decides
// whether to recover, fall back, roll back or propagate.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/projecteru2/vboxctl/config"
	"github.com/projecteru2/vboxctl/types"
	"github.com/projecteru2/vboxctl/utils"
	"github.com/projecteru2/vboxctl/vbox"
)

var (
	ErrMissingFile   = errors.New("file not found")
	ErrAlreadyExists = errors.New("VM already exists")
	ErrRunning       = errors.New("VM is running")
	ErrInvalid       = errors.New("invalid arguments")
)

// Manager runs lifecycle operations for one invocation.
type Manager struct {
	conf   *config.Config
	client *vbox.Client
	exec   *vbox.Executor
}

// New returns a Manager. client is used for state queries, exec for every
// state-changing command.
func New(conf *config.Config, client *vbox.Client, exec *vbox.Executor) *Manager {
	return &Manager{conf: conf, client: client, exec: exec}
}

func requireFile(kind, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s path is empty", ErrMissingFile, kind)
	}
	if !utils.FileExists(path) {
		return fmt.Errorf("%w: %s %s", ErrMissingFile, kind, path)
	}
	return nil
}

func requireFreeName(dir *vbox.Directory, name string) error {
	if id, ok := dir.IDByName(name); ok {
		return fmt.Errorf("%w: %s {%s} (to remove it: vboxctl delete --uuid %s)", ErrAlreadyExists, name, id, id)
	}
	return nil
}

// failure wraps a non-OK Result as the error reported to the operator.
func failure(op string, vm types.VM, res vbox.Result) error {
	return fmt.Errorf("%s %s: %w", op, vm.Name, res.Err)
}
