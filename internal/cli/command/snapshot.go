package command

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/specvault/specvault/internal/core/domain"
	"github.com/specvault/specvault/internal/storage/snapshot"
)

// SnapshotCommand returns the snapshot subcommand group.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Aliases: []string{"snap"},
		Usage:   "Inspect and manage spec store snapshots",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List snapshots, newest first",
				Action: snapshotList,
			},
			{
				Name:      "show",
				Usage:     "Show a snapshot",
				ArgsUsage: "SNAPSHOT_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Include file contents instead of a summary",
					},
				},
				Action: snapshotShow,
			},
			{
				Name:   "create",
				Usage:  "Capture a snapshot of the current spec store",
				Action: snapshotCreate,
			},
			{
				Name:      "restore",
				Usage:     "Restore the spec store from a snapshot",
				ArgsUsage: "SNAPSHOT_ID",
				Action:    snapshotRestore,
			},
			{
				Name:      "delete",
				Usage:     "Delete a snapshot",
				ArgsUsage: "SNAPSHOT_ID",
				Action:    snapshotDelete,
			},
			{
				Name:  "prune",
				Usage: "Delete all but the most recent snapshots",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "keep",
						Aliases:  []string{"k"},
						Usage:    "Number of most recent snapshots to keep",
						Required: true,
					},
				},
				Action: snapshotPrune,
			},
		},
	}
}

// snapshotView is the display shape of a snapshot summary.
type snapshotView struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Slots     int    `json:"slots"`
	Lock      bool   `json:"lock"`
}

func newSnapshotView(snap *domain.Snapshot) snapshotView {
	return snapshotView{
		ID:        snap.ID,
		CreatedAt: time.UnixMilli(snap.CreatedAt).UTC().Format("2006-01-02 15:04:05"),
		Slots:     len(snap.Slots),
		Lock:      snap.HasLock(),
	}
}

func snapshotList(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}

	ids, err := svc.Snapshots().ListIDs()
	if err != nil {
		return err
	}

	views := make([]snapshotView, 0, len(ids))
	for _, id := range ids {
		snap, err := svc.Snapshots().ReadByID(id)
		if err != nil {
			return err
		}
		if snap == nil {
			continue
		}
		views = append(views, newSnapshotView(snap))
	}
	return newFormatter(c).Format(os.Stdout, views)
}

func snapshotShow(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("snapshot ID required")
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}

	snap, err := svc.Snapshots().ReadByID(id)
	if err != nil {
		return err
	}
	if snap == nil {
		return domain.ErrSnapshotNotFound.WithDetailsf("snapshot %s not found", id)
	}

	if c.Bool("full") {
		return newFormatter(c).Format(os.Stdout, snap)
	}
	return newFormatter(c).Format(os.Stdout, newSnapshotView(snap))
}

func snapshotCreate(c *cli.Context) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}
	lay, err := getConfig(c).Layout()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	snap, err := snapshot.NewCodec(getLogger(c).Slog()).Capture(ctx, lay)
	if err != nil {
		return err
	}
	if err := svc.Snapshots().Write(snap); err != nil {
		return err
	}
	return newFormatter(c).Format(os.Stdout, newSnapshotView(snap))
}

func snapshotRestore(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("snapshot ID required")
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}
	lay, err := getConfig(c).Layout()
	if err != nil {
		return err
	}

	snap, err := svc.Snapshots().ReadByID(id)
	if err != nil {
		return err
	}
	if snap == nil {
		return domain.ErrSnapshotNotFound.WithDetailsf("snapshot %s not found", id)
	}

	res := snapshot.NewRestorer(getLogger(c).Slog()).Restore(lay, snap)
	view := newRestoreView("", res)
	if err := newFormatter(c).Format(os.Stdout, view); err != nil {
		return err
	}
	if !res.Success {
		for _, msg := range res.Errors {
			PrintError("%s", msg)
		}
		return fmt.Errorf("restore wrote %d file(s) but failed on %d",
			view.Restored, view.Failed)
	}
	return nil
}

func snapshotDelete(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("snapshot ID required")
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	st, err := svc.Status(ctx)
	if err != nil {
		return err
	}
	if st.Active && st.SnapshotID == id {
		return domain.ErrConflict.WithDetailsf(
			"snapshot %s backs the active transaction", id)
	}

	deleted, err := svc.Snapshots().Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSnapshotNotFound.WithDetailsf("snapshot %s not found", id)
	}
	fmt.Fprintf(os.Stdout, "deleted %s\n", id)
	return nil
}

func snapshotPrune(c *cli.Context) error {
	keep := c.Int("keep")
	if keep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	svc, err := newService(c)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	st, err := svc.Status(ctx)
	if err != nil {
		return err
	}

	ids, err := svc.Snapshots().ListIDs()
	if err != nil {
		return err
	}

	deleted := 0
	for i, id := range ids {
		if i < keep {
			continue
		}
		// Never prune the snapshot backing an in-flight transaction.
		if st.Active && st.SnapshotID == id {
			continue
		}
		if _, err := svc.Snapshots().Delete(id); err != nil {
			return err
		}
		deleted++
	}
	fmt.Fprintf(os.Stdout, "pruned %d snapshot(s), kept %d\n", deleted, len(ids)-deleted)
	return nil
}
