package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/cloudsphere/internal/client/upload"
)

func (a *App) AllFiles(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	files, err := a.admin.AllFiles(ctx)
	if err != nil {
		return err
	}
	a.printFiles(files, true)
	return nil
}

func (a *App) AdminDelete(ctx context.Context, id string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.admin.DeleteFile(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "File deleted")
	return nil
}

func (a *App) Users(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	users, err := a.admin.AllUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRINCIPAL\tEMAIL\tROLE\tFILES\tUSED\tLIMIT\tBLOCKED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%t\n",
			u.Principal, u.Email, u.Role, u.FileCount,
			upload.FormatBytes(u.UsedStorageBytes), upload.FormatBytes(a.limits.StorageLimit(&u.UserProfile)), u.IsBlocked)
	}
	return tw.Flush()
}

func (a *App) Block(ctx context.Context, principal string, blocked bool) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.admin.BlockUser(ctx, principal, blocked); err != nil {
		return err
	}
	if blocked {
		fmt.Fprintf(a.out, "User %s blocked\n", principal)
	} else {
		fmt.Fprintf(a.out, "User %s unblocked\n", principal)
	}
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	s, err := a.admin.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Users:   %d\n", s.TotalUsers)
	fmt.Fprintf(a.out, "Files:   %d\n", s.TotalFiles)
	fmt.Fprintf(a.out, "Storage: %s\n", upload.FormatBytes(s.TotalStorageUsed))
	return nil
}
