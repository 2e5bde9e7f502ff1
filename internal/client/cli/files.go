package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/cloudsphere/internal/client/backend"
	"github.com/dmitrijs2005/cloudsphere/internal/client/upload"
	"github.com/dmitrijs2005/cloudsphere/internal/filex"
)

const (
	dateLayout         = "2006-01-02 15:04"
	defaultDownloadDir = "download"
)

func (a *App) Upload(ctx context.Context, path string) error {
	task, err := upload.LoadTask(path)
	if err != nil {
		return err
	}

	last := -1
	id, err := a.files.Upload(ctx, task, func(p int) {
		if p != last {
			last = p
			fmt.Fprintf(a.out, "\r%s: %3d%%", task.Name, p)
		}
	})
	if last >= 0 {
		fmt.Fprintln(a.out)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%q uploaded successfully (id %s, %s)\n", task.Name, id, upload.FormatBytes(task.Size))
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	files, err := a.files.ListFiles(ctx)
	if err != nil {
		return err
	}
	a.printFiles(files, false)
	return nil
}

func (a *App) Info(ctx context.Context, id string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	f, err := a.files.GetFile(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "ID:       %s\n", f.ID)
	fmt.Fprintf(a.out, "Name:     %s\n", f.Name)
	fmt.Fprintf(a.out, "Type:     %s\n", f.MimeType)
	fmt.Fprintf(a.out, "Size:     %s\n", upload.FormatBytes(f.Size))
	fmt.Fprintf(a.out, "Uploaded: %s\n", f.UploadDate.Local().Format(dateLayout))
	if f.DownloadURL != "" {
		fmt.Fprintf(a.out, "Download: %s\n", f.DownloadURL)
	}
	return nil
}

// Download saves file id as <dir>/<name>. An empty dir means ./download.
func (a *App) Download(ctx context.Context, id, dir string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	f, err := a.files.GetFile(ctx, id)
	if err != nil {
		return err
	}
	if f.DownloadURL == "" {
		return fmt.Errorf("no download link for %s", f.Name)
	}

	if dir == "" {
		dir = defaultDownloadDir
	}
	dir, err = filex.EnsureSubDir(dir)
	if err != nil {
		return err
	}
	target := filepath.Join(dir, filepath.Base(f.Name))

	err = filex.WriteFileAtomic(target, func(w io.Writer) error {
		n, err := a.download.Get(ctx, f.DownloadURL, w)
		if err != nil {
			return err
		}
		if uint64(n) != f.Size {
			return fmt.Errorf("download incomplete: got %d of %d bytes", n, f.Size)
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%q saved to %s (%s)\n", f.Name, target, upload.FormatBytes(f.Size))
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.files.DeleteFile(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "File deleted")
	return nil
}

func (a *App) printFiles(files []*backend.FileRecord, withOwner bool) {
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if withOwner {
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tUPLOADED\tOWNER")
	} else {
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
	}
	for _, f := range files {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s", f.ID, f.Name, f.MimeType, upload.FormatBytes(f.Size), f.UploadDate.Local().Format(dateLayout))
		if withOwner {
			row += "\t" + f.Owner
		}
		fmt.Fprintln(tw, row)
	}
	_ = tw.Flush()
}
