package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/routine/internal/backup"
	"github.com/julianstephens/routine/internal/cli"
	"github.com/julianstephens/routine/internal/config"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing storage file before initialization."`
	Source string `help:"Storage path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	_, isPostgres := ctx.Store.(*postgres.Store)

	if c.Force && !isPostgres {
		path := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absPath, _ := filepath.Abs(path)
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == absPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if mgr, err := backup.NewManager(path); err == nil {
				if saved, err := mgr.Create(); err != nil {
					logger.Warn("Failed to back up storage before --force", "error", err)
				} else {
					fmt.Printf("Backed up existing storage to: %s\n", saved)
				}
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing storage at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized routine storage at: %s\n", ctx.Store.GetConfigPath())

	keys, err := ctx.Store.Keys()
	if err != nil {
		return fmt.Errorf("failed to inspect storage: %w", err)
	}
	if len(keys) == 0 {
		if err := storage.SaveSettings(ctx.Store, storage.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to write default settings: %w", err)
		}
	}

	cfgPath := config.Path(cli.ConfigDir(ctx.Store))
	if written, err := config.WriteDefault(cfgPath); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfgPath, err)
	} else if written {
		fmt.Printf("Wrote default configuration to: %s\n", cfgPath)
	}

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		n, err := copyData(ctx.Store, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Printf("Copied %d keys\n", n)
	}

	return nil
}

// copyData copies every key of the source storage into dst.
func copyData(dst storage.Provider, source string) (int, error) {
	src, err := cli.OpenProvider(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys()
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	for _, key := range keys {
		value, err := src.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if err := dst.Set(key, value); err != nil {
			return 0, fmt.Errorf("failed to copy %s: %w", key, err)
		}
	}
	return len(keys), nil
}
