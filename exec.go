package impasto

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/esimov/impasto/utils"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running thumbnail writers.
const maxWorkers = 20

// Ops describes a headless session: the script to replay and where the results go.
type Ops struct {
	Script, Dst, PipeName string
	// ThumbDir receives one PNG thumbnail per gallery item when set.
	ThumbDir string
	Workers  int
}

// result holds the outcome of writing one file.
type result struct {
	path string
	err  error
}

// Execute replays the session script against the editor, then exports the
// composite and the gallery thumbnails. Progress is reported on stderr.
func (e *Editor) Execute(op *Ops) error {
	format := PNG
	if op.Dst != op.PipeName {
		f, err := FormatFromPath(op.Dst)
		if err != nil {
			return err
		}
		format = f
	}

	now := time.Now()

	if op.Script != "" {
		sc, err := LoadScript(op.Script)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, utils.Banner(fmt.Sprintf("replaying %d steps...", len(sc.Steps))))
		if err := Replay(e, sc); err != nil {
			e.printOpStatus(op, op.Script, err)
			return err
		}
	}
	if e.placement != nil {
		e.logger.Warn("unconfirmed image placement is discarded")
		fmt.Fprintln(os.Stderr, utils.DecorateText("The pending image placement was discarded.", utils.WarningMessage))
		if err := e.CancelPlacement(); err != nil {
			return err
		}
	}

	dst, err := op.destination()
	if err != nil {
		return err
	}
	_, err = e.Save(dst, format)
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(f.Name())
		}
	}
	e.printOpStatus(op, op.Dst, err)
	if err != nil {
		return err
	}

	if op.ThumbDir != "" {
		if err := e.writeThumbnails(op); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

// destination opens the export target, which is either a file or the standard output.
func (op *Ops) destination() (io.Writer, error) {
	if op.Dst == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}
	f, err := os.OpenFile(op.Dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	return f, nil
}

// writeThumbnails encodes the gallery thumbnails concurrently into op.ThumbDir.
func (e *Editor) writeThumbnails(op *Ops) error {
	if err := os.MkdirAll(op.ThumbDir, 0755); err != nil {
		return fmt.Errorf("unable to create the thumbnail directory: %w", err)
	}

	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	jobs := make(chan int)
	ch := make(chan result)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				path := filepath.Join(op.ThumbDir, fmt.Sprintf("thumb_%03d.png", idx))
				ch <- result{path: path, err: e.writeThumbnail(idx, path)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < e.gallery.Len(); i++ {
			jobs <- i
		}
	}()

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var err error
	for res := range ch {
		if res.err != nil && err == nil {
			err = res.err
		}
		e.printOpStatus(op, res.path, res.err)
	}
	return err
}

func (e *Editor) writeThumbnail(idx int, path string) error {
	item, err := e.gallery.Item(idx)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeImage(f, item.Thumbnail, PNG); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// printOpStatus displays the outcome of writing fname.
func (e *Editor) printOpStatus(op *Ops, fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			utils.DecorateText("\nError processing "+filepath.Base(fname)+":", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v", err), utils.DefaultMessage),
		)
		e.logger.Error("export failed", zap.String("path", fname), zap.Error(err))
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "The image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}
