package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"

	"github.com/riskibarqy/draft-board/db"
	"github.com/riskibarqy/draft-board/internal/app"
	"github.com/riskibarqy/draft-board/internal/config"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
)

var logger = logging.NewJSON(logging.LevelInfo)

type command struct {
	usage string
	run   func(m *migrate.Migrate, args []string) error
}

var commands = map[string]command{
	"up":      {usage: "up", run: runUp},
	"down":    {usage: "down [steps]", run: runDown},
	"version": {usage: "version", run: runVersion},
	"force":   {usage: "force <version>", run: runForce},
	"goto":    {usage: "goto <version>", run: runGoto},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(os.Args[1]))]
	if !ok {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config", err)
	}
	logger = logging.NewJSON(cfg.LogLevel).Named("migration")
	defer func() { _ = logger.Sync() }()

	m, err := db.NewMigrator(app.WithApplicationName(cfg.DBURL, cfg.ServiceName+"-migration"))
	if err != nil {
		fatal("create migrator", err)
	}
	m.Log = migrateLogger{}

	runErr := cmd.run(m, os.Args[2:])
	closeMigrator(m)
	if runErr != nil {
		fatal(cmd.usage, runErr)
	}
}

func runUp(m *migrate.Migrate, _ []string) error {
	return settle(m.Up(), "migrations applied")
}

func runDown(m *migrate.Migrate, args []string) error {
	steps := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(args[0]))
		if err != nil || n <= 0 {
			return fmt.Errorf("down steps must be a positive integer, got %q", args[0])
		}
		steps = n
	}
	return settle(m.Steps(-steps), "migrations rolled back", "steps", steps)
}

func runVersion(m *migrate.Migrate, _ []string) error {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return nil
	case err != nil:
		return err
	}
	fmt.Printf("version: %d\n", version)
	fmt.Printf("dirty: %t\n", dirty)
	return nil
}

func runForce(m *migrate.Migrate, args []string) error {
	version, err := versionArg(args)
	if err != nil {
		return err
	}
	if err := m.Force(int(version)); err != nil {
		return err
	}
	logger.Info("migration version forced", "version", version)
	return nil
}

func runGoto(m *migrate.Migrate, args []string) error {
	version, err := versionArg(args)
	if err != nil {
		return err
	}
	return settle(m.Migrate(version), "migrated to version", "version", version)
}

func versionArg(args []string) (uint, error) {
	if len(args) == 0 {
		return 0, errors.New("a version argument is required")
	}
	v, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", args[0], err)
	}
	return uint(v), nil
}

// settle treats ErrNoChange as success and logs msg on completion.
func settle(err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}

func fatal(msg string, err error) {
	logger.Error(msg, "error", err)
	_ = logger.Sync()
	os.Exit(1)
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		logger.Warn("close migrator", "error", err)
	}
}

// migrateLogger adapts logging.Logger to migrate.Logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (migrateLogger) Verbose() bool {
	return false
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\n", name)
	for _, key := range []string{"up", "down", "version", "force", "goto"} {
		fmt.Fprintf(os.Stderr, "  %s %s\n", name, commands[key].usage)
	}
}
