package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/specvault/specvault/internal/cli/output"
	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/infra/confloader"
	"github.com/specvault/specvault/internal/infra/shutdown"
)

// ChangeCommand returns the change subcommand group.
func ChangeCommand() *cli.Command {
	return &cli.Command{
		Name:    "change",
		Aliases: []string{"ch"},
		Usage:   "Manage transactional changes to the spec store",
		Subcommands: []*cli.Command{
			{
				Name:  "begin",
				Usage: "Begin a change: snapshot the spec store and mark a transaction active",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "message",
						Aliases:  []string{"m"},
						Usage:    "Description of the intended edit",
						Required: true,
					},
				},
				Action: changeBegin,
			},
			{
				Name:   "commit",
				Usage:  "Commit the active change, keeping the current files",
				Action: changeCommit,
			},
			{
				Name:      "rollback",
				Usage:     "Restore the spec store from a change's begin snapshot",
				ArgsUsage: "[CHANGE_ID]",
				Action:    changeRollback,
			},
			{
				Name:  "status",
				Usage: "Show the transaction state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "follow",
						Aliases: []string{"f"},
						Usage:   "Keep watching the transaction marker for changes",
					},
				},
				Action: changeStatus,
			},
			{
				Name:  "log",
				Usage: "List recorded changes, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of changes to show (0 = all)",
					},
				},
				Action: changeLog,
			},
		},
	}
}

// changeView is the display shape of a change record.
type changeView struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	SnapshotID string `json:"snapshot_id"`
	CreatedAt  string `json:"created_at"`
	Message    string `json:"message"`
}

func newChangeView(ch *domain.Change) changeView {
	return changeView{
		ID:         ch.ID,
		Status:     string(ch.Status),
		SnapshotID: ch.SnapshotID,
		CreatedAt:  time.UnixMilli(ch.CreatedAt).UTC().Format("2006-01-02 15:04:05"),
		Message:    ch.Message,
	}
}

// statusView is the display shape of the transaction state.
type statusView struct {
	Active     bool   `json:"active"`
	ChangeID   string `json:"change_id,omitempty"`
	SnapshotID string `json:"snapshot_id,omitempty"`
	Message    string `json:"message,omitempty"`

	// LockStale is unset when the store has no lock (or no manifest).
	LockStale *bool `json:"lock_stale,omitempty"`
}

func newStatusView(st *domain.TransactionStatus, lockStale *bool) statusView {
	v := statusView{
		Active:     st.Active,
		ChangeID:   st.ChangeID,
		SnapshotID: st.SnapshotID,
		LockStale:  lockStale,
	}
	if st.Change != nil {
		v.Message = st.Change.Message
	}
	return v
}

// restoreView is the display shape of a restore outcome.
type restoreView struct {
	ChangeID string   `json:"change_id,omitempty"`
	Success  bool     `json:"success"`
	Restored int      `json:"restored"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty" table:"-"`
}

func newRestoreView(changeID string, res *domain.RestoreResult) restoreView {
	return restoreView{
		ChangeID: changeID,
		Success:  res.Success,
		Restored: len(res.RestoredFiles),
		Failed:   len(res.FailedFiles),
		Errors:   res.Errors,
	}
}

func changeBegin(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	ch, err := svc.Begin(ctx, c.String("message"))
	if err != nil {
		return err
	}
	return newFormatter(c).Format(os.Stdout, newChangeView(ch))
}

func changeCommit(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	ch, err := svc.Commit(ctx)
	if err != nil {
		return err
	}
	return newFormatter(c).Format(os.Stdout, newChangeView(ch))
}

func changeRollback(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	res, err := svc.Rollback(ctx, c.Args().First())
	if err != nil {
		return err
	}

	view := newRestoreView(res.ChangeID, res.RestoreResult)
	if err := newFormatter(c).Format(os.Stdout, view); err != nil {
		return err
	}
	if !res.Success {
		for _, msg := range res.RestoreResult.Errors {
			PrintError("%s", msg)
		}
		return fmt.Errorf("rollback restored %d file(s) but failed on %d",
			view.Restored, view.Failed)
	}
	return nil
}

func changeStatus(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	printStatus := func() error {
		ctx, cancel := commandContext()
		defer cancel()

		st, err := svc.Status(ctx)
		if err != nil {
			return err
		}
		lockStale, err := svc.LockStale(ctx)
		if err != nil {
			return err
		}
		return newFormatter(c).Format(os.Stdout, newStatusView(st, lockStale))
	}

	if err := printStatus(); err != nil {
		return err
	}
	if !c.Bool("follow") {
		return nil
	}

	// The marker is replaced via temp + rename, so the watcher tracks
	// its parent directory and filters by file name.
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(getLogger(c).Slog()))
	if err != nil {
		return err
	}
	markerPath := svc.MarkerPath()
	if err := watcher.Watch(markerPath); err != nil {
		// The history directory may not exist before the first begin.
		if mkErr := os.MkdirAll(filepath.Dir(markerPath), 0o750); mkErr != nil {
			return err
		}
		if err := watcher.Watch(markerPath); err != nil {
			return err
		}
	}
	watcher.OnChange(func(path string) {
		if filepath.Base(path) != filepath.Base(markerPath) {
			return
		}
		if err := printStatus(); err != nil {
			PrintError("%v", err)
		}
	})
	watcher.StartAsync()

	handler := shutdown.NewHandler(5 * time.Second)
	handler.OnShutdown(func(context.Context) error {
		return watcher.Stop()
	})
	return handler.Wait()
}

func changeLog(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	changes, err := svc.Changes().List()
	if err != nil {
		return err
	}
	if limit := c.Int("limit"); limit > 0 && len(changes) > limit {
		changes = changes[:limit]
	}

	tabular := output.Format(getConfig(c).Output) == output.FormatTable
	views := make([]changeView, 0, len(changes))
	for _, ch := range changes {
		v := newChangeView(ch)
		if tabular {
			v.Message = truncateMessage(v.Message, 60)
		}
		views = append(views, v)
	}
	return newFormatter(c).Format(os.Stdout, views)
}

// commandContext returns the context used for one command invocation.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// truncateMessage shortens a message for single-line table rows.
func truncateMessage(msg string, max int) string {
	msg = strings.ReplaceAll(msg, "\n", " ")
	if len(msg) <= max {
		return msg
	}
	return msg[:max-3] + "..."
}
