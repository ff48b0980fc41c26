package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nimasrn/inbox-ledger/internal/ledger"
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/nimasrn/inbox-ledger/pkg/worker"
	"github.com/pkg/errors"
)

const DefaultWorkers = 4

var importMetadata = []byte(`{"source":"import"}`)

// Receiver is the part of the ledger the importer drives.
type Receiver interface {
	RegisterContact(ctx context.Context, phone, name string) (int64, error)
	ReceiveFile(ctx context.Context, req model.FileMessageRequest) (*ledger.Receipt, error)
}

type Failure struct {
	Path string
	Err  error
}

type Report struct {
	Files    int
	Recorded int
	Expenses int
	Failed   []Failure
}

// Importer records every file of an exported chat folder as inbound
// attachments from one contact.
type Importer struct {
	receiver Receiver
	workers  int
}

func NewImporter(receiver Receiver, workers int) *Importer {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Importer{receiver: receiver, workers: workers}
}

// Import walks dir, skipping hidden entries, and hands each regular file to
// the ledger through a worker pool. Per-file failures are collected in the
// report; only an unusable dir or contact aborts the run.
func (i *Importer) Import(ctx context.Context, phone, name, dir string) (*Report, error) {
	paths, err := listFiles(dir)
	if err != nil {
		return nil, err
	}
	if _, err := i.receiver.RegisterContact(ctx, phone, name); err != nil {
		return nil, errors.Wrap(err, "register contact")
	}

	report := &Report{Files: len(paths)}
	var mu sync.Mutex

	pool := worker.NewWorkerManager(i.workers*2, i.workers)
	pool.SetWorker(func(_ int, job any) {
		p := job.(string)
		receipt, err := i.receiver.ReceiveFile(ctx, model.FileMessageRequest{
			Phone:      phone,
			SourcePath: p,
			Metadata:   importMetadata,
		})

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			logger.Warn("[ingest] file failed", "path", p, "error", err)
			report.Failed = append(report.Failed, Failure{Path: p, Err: err})
			return
		}
		report.Recorded++
		if receipt.Expense != nil {
			report.Expenses++
		}
	})
	if err := pool.Start(); err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := pool.Enqueue(ctx, p); err != nil {
			pool.Close()
			return report, err
		}
	}
	pool.Close()

	sort.Slice(report.Failed, func(a, b int) bool { return report.Failed[a].Path < report.Failed[b].Path })
	logger.Info("[ingest] import finished",
		"phone", phone, "dir", dir, "files", report.Files,
		"recorded", report.Recorded, "expenses", report.Expenses, "failed", len(report.Failed))
	return report, nil
}

func listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(model.ErrSourceNotFound, "import dir %s: %v", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(model.ErrInvalidInput, "%s is not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk import dir")
	}
	sort.Strings(paths)
	return paths, nil
}
