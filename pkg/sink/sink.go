package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/shipengqi/reginv/pkg/inventory"
)

const (
	FormatLine = "line"
	FormatCSV  = "csv"

	TabularHeader = "Repository,Image name,Size,Upload date"
)

type Sink interface {
	Write(r inventory.Record) error
	Close() error
}

// New returns the sink for format. Line records go to stdout, csv records
// go to the file at path.
func New(format, path string, stdout io.Writer) (Sink, error) {
	switch format {
	case FormatLine:
		return NewLineSink(stdout), nil
	case FormatCSV:
		return NewTabularSink(path)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}

// LineSink writes "repository,tag,size" lines without a header.
type LineSink struct {
	w *bufio.Writer
}

func NewLineSink(w io.Writer) *LineSink {
	return &LineSink{w: bufio.NewWriter(w)}
}

func (s *LineSink) Write(r inventory.Record) error {
	_, err := fmt.Fprintf(s.w, "%s,%s,%d\n", r.Repository, r.Tag, r.SizeBytes)
	return err
}

func (s *LineSink) Close() error {
	return s.w.Flush()
}

// TabularSink writes a header row and one unquoted row per record to a file.
type TabularSink struct {
	f *os.File
	w *bufio.Writer
}

// NewTabularSink truncates the file at path and writes the header row.
func NewTabularSink(path string) (*TabularSink, error) {
	if path == "" {
		return nil, errors.New("tabular output needs a file path")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	s := &TabularSink{f: f, w: bufio.NewWriter(f)}
	if _, err = fmt.Fprintln(s.w, TabularHeader); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "write header to %s", path)
	}
	return s, nil
}

func (s *TabularSink) Write(r inventory.Record) error {
	_, err := fmt.Fprintf(s.w, "%s,%s,%d,%s\n", r.Repository, r.Tags, r.SizeBytes, r.PushedAt)
	return err
}

func (s *TabularSink) Close() error {
	if s.f == nil {
		return nil
	}
	ferr := s.w.Flush()
	cerr := s.f.Close()
	s.f = nil
	if ferr != nil {
		return errors.Wrap(ferr, "flush tabular output")
	}
	return cerr
}
