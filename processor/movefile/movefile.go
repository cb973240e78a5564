// Package movefile provides a queue processor that relocates finalized
// files into a destination directory.
//
// The processor renames each delivered file out of the queue's working
// directory and returns SuccessAndMoved, so the engine skips its own
// delete. Destination and working directory must be on the same filesystem
// for the rename to succeed.
package movefile

import (
	"log/slog"

	"github.com/c360/fsq/queue"
	"github.com/c360/fsq/storage"
)

// Processor moves finalized files into a destination directory.
type Processor struct {
	destDir string
	fs      storage.FileSystem
	logger  *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithFileSystem replaces the filesystem backend.
func WithFileSystem(fs storage.FileSystem) Option {
	return func(p *Processor) {
		if fs != nil {
			p.fs = fs
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a processor moving delivered files into destDir. The
// directory must exist and be on the same filesystem as the queue's working
// directory.
func New(destDir string, opts ...Option) *Processor {
	p := &Processor{
		destDir: destDir,
		fs:      storage.NewOSFileSystem(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnFileReady implements queue.Processor.
func (p *Processor) OnFileReady(file queue.FileInfo, _ int64) queue.ProcessingResult {
	dst := p.fs.Join(p.destDir, file.Name)
	if err := p.fs.Rename(file.Path, dst); err != nil {
		p.logger.Error("moving finalized file failed",
			"name", file.Name, "dest", dst, "error", err)
		return queue.FailureNeedRetry
	}
	p.logger.Debug("moved finalized file", "name", file.Name, "dest", dst)
	return queue.SuccessAndMoved
}
