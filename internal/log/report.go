package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ReportHeader is the first line of every match report.
type ReportHeader struct {
	GameID string `json:"game_id"`
	Seed   int64  `json:"seed"`
	Config any    `json:"config,omitempty"`
}

// ReportWriter writes a match report as zstd-compressed JSON lines: one
// header line followed by one line per event. It implements EventLogger so
// it can sit behind a FanoutLogger.
type ReportWriter struct {
	MemoryLogger

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// CreateReport creates (or truncates) a report file and writes its header.
func CreateReport(path string, header ReportHeader) (*ReportWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	rw, err := NewReportWriter(f, header)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	rw.f = f
	return rw, nil
}

// NewReportWriter writes a report to w. Close flushes the compressed
// stream but does not close w.
func NewReportWriter(w io.Writer, header ReportHeader) (*ReportWriter, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	rw := &ReportWriter{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}
	if err := rw.writeLine(header); err != nil {
		_ = enc.Close()
		return nil, err
	}
	return rw, nil
}

// Log records the event and appends it to the report. The first write
// error is kept and returned by Close.
func (rw *ReportWriter) Log(event GameEvent) {
	rw.MemoryLogger.Log(event)
	event.Seq = rw.seq

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.err != nil {
		return
	}
	rw.err = rw.writeLine(event)
}

func (rw *ReportWriter) writeLine(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := rw.w.Write(b); err != nil {
		return err
	}
	return rw.w.WriteByte('\n')
}

// Close flushes the report and closes the underlying file if it owns one.
func (rw *ReportWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	errs := []error{rw.err}
	if rw.w != nil {
		errs = append(errs, rw.w.Flush())
		rw.w = nil
	}
	if rw.enc != nil {
		errs = append(errs, rw.enc.Close())
		rw.enc = nil
	}
	if rw.f != nil {
		errs = append(errs, rw.f.Close())
		rw.f = nil
	}
	return errors.Join(errs...)
}

// ReadReport decodes a report written by ReportWriter.
func ReadReport(r io.Reader) (ReportHeader, []GameEvent, error) {
	var header ReportHeader
	dec, err := zstd.NewReader(r)
	if err != nil {
		return header, nil, err
	}
	defer dec.Close()

	jd := json.NewDecoder(dec)
	if err := jd.Decode(&header); err != nil {
		return header, nil, fmt.Errorf("decode report header: %w", err)
	}
	var events []GameEvent
	for {
		var ev GameEvent
		if err := jd.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return header, events, fmt.Errorf("decode report event %d: %w", len(events)+1, err)
		}
		events = append(events, ev)
	}
	return header, events, nil
}

// ReadReportFile opens and decodes a report file.
func ReadReportFile(path string) (ReportHeader, []GameEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReportHeader{}, nil, err
	}
	defer f.Close()
	return ReadReport(f)
}
