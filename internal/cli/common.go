package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/danieljhkim/scopekv/internal/config"
	"github.com/danieljhkim/scopekv/internal/fsops"
	"github.com/danieljhkim/scopekv/internal/kvstore"
	"github.com/danieljhkim/scopekv/internal/logger"
	"github.com/danieljhkim/scopekv/internal/storage"
	"github.com/danieljhkim/scopekv/internal/workspace"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errKeyNotFound is returned by get when the key is absent and no default was given.
var errKeyNotFound = errors.New("key not found")

// session bundles a Storage with the resources it holds open.
type session struct {
	storage *storage.Storage
	sink    *commandErrorSink
	closers []func() error
}

// Close releases the backing stores and reports the first error any
// storage operation sent to the error sink.
func (s *session) Close() error {
	var closeErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	if err := s.sink.first(); err != nil {
		return err
	}
	return closeErr
}

// commandErrorSink logs unexpected errors and keeps them so the command can
// exit non-zero.
type commandErrorSink struct {
	log  *logger.ErrorSink
	errs []error
}

func (c *commandErrorSink) Unexpected(err error) {
	c.log.Unexpected(err)
	c.errs = append(c.errs, err)
}

func (c *commandErrorSink) first() error {
	if len(c.errs) == 0 {
		return nil
	}
	return c.errs[0]
}

// openSession wires paths, settings, logging and backing stores into a Storage.
func openSession(cmd *cobra.Command) (*session, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths.Config)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  settings.Log.Level,
		Pretty: settings.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})

	desc, err := resolveWorkspace()
	if err != nil {
		return nil, err
	}

	fs := fsops.NewRealFS()
	sess := &session{
		sink: &commandErrorSink{log: logger.NewErrorSink(log)},
	}

	global, closeGlobal, err := kvstore.Open(settings.Backend, paths.StoreFile(paths.GlobalStore, settings.Backend), fs)
	if err != nil {
		return nil, fmt.Errorf("failed to open global store: %w", err)
	}
	sess.closers = append(sess.closers, closeGlobal)

	var wsStore kvstore.Store
	if settings.SeparateWorkspaceStore {
		store, closeWorkspace, err := kvstore.Open(settings.Backend, paths.StoreFile(paths.WorkspaceStore, settings.Backend), fs)
		if err != nil {
			_ = closeGlobal()
			return nil, fmt.Errorf("failed to open workspace store: %w", err)
		}
		wsStore = store
		sess.closers = append(sess.closers, closeWorkspace)
	}

	log.Debug().
		Str("backend", settings.Backend).
		Bool("separateWorkspaceStore", settings.SeparateWorkspaceStore).
		Str("namespace", workspace.NamespaceKey(desc)).
		Msg("Opening storage")

	sess.storage = storage.New(global, storage.Options{
		WorkspaceStore:       wsStore,
		Workspace:            desc,
		AppSettingsHome:      paths.AppSettingsHome,
		WorkspaceStorageHome: paths.WorkspaceStorage,
		FS:                   fs,
		Errors:               sess.sink,
		Logger:               loggerPtr(log),
	})

	return sess, nil
}

func loggerPtr(l zerolog.Logger) *zerolog.Logger {
	return &l
}

// resolveWorkspace turns --workspace, --discover and --uid into a descriptor.
// A value containing "://" or starting with "untitled:" is a location URI;
// anything else is a local directory.
func resolveWorkspace() (*workspace.Descriptor, error) {
	if discoverFlag && workspaceFlag != "" {
		return nil, fmt.Errorf("--discover and --workspace are mutually exclusive")
	}
	if workspaceFlag == "" && !discoverFlag {
		if uidFlag != "" {
			return nil, fmt.Errorf("--uid requires --workspace or --discover")
		}
		return nil, nil
	}

	var desc *workspace.Descriptor
	if discoverFlag {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		d, err := workspace.Discover(cwd)
		if err != nil {
			return nil, err
		}
		desc = d
	} else if strings.Contains(workspaceFlag, "://") || strings.HasPrefix(workspaceFlag, "untitled:") {
		desc = workspace.FromLocation(workspaceFlag, nil)
	} else {
		d, err := workspace.FromDirectory(workspaceFlag)
		if err != nil {
			return nil, err
		}
		desc = d
	}

	if uidFlag != "" {
		uid, err := strconv.ParseInt(uidFlag, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --uid %q: must be an integer", uidFlag)
		}
		desc.UID = &uid
	}

	return desc, nil
}

// selectedScope parses --scope.
func selectedScope() (storage.Scope, error) {
	return storage.ParseScope(scopeFlag)
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
