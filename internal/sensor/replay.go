package sensor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Header is the column layout of recorded sample files.
var Header = []string{"time_ms", "ax", "ay", "az"}

// Replay reads recorded samples from CSV. The az column is optional.
type Replay struct {
	r    *csv.Reader
	c    io.Closer
	line int
}

func NewReplay(r io.Reader) (*Replay, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header", ErrMalformedRow)
		}
		return nil, err
	}
	if len(head) < 3 || head[0] != Header[0] {
		return nil, fmt.Errorf("%w: unexpected header %v", ErrMalformedRow, head)
	}
	return &Replay{r: cr, line: 1}, nil
}

// OpenReplay opens a recorded sample file.
func OpenReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rp, err := NewReplay(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rp.c = f
	return rp, nil
}

func (rp *Replay) Next(ctx context.Context) (RawSample, error) {
	if err := ctx.Err(); err != nil {
		return RawSample{}, err
	}

	rec, err := rp.r.Read()
	if err != nil {
		return RawSample{}, err
	}
	rp.line++

	if len(rec) < 3 {
		return RawSample{}, fmt.Errorf("%w: line %d has %d fields", ErrMalformedRow, rp.line, len(rec))
	}

	t, err := strconv.ParseInt(rec[0], 10, 64)
	if err != nil {
		return RawSample{}, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, rp.line, err)
	}
	vals := make([]float64, 3)
	for i := 1; i < len(rec) && i <= 3; i++ {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return RawSample{}, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, rp.line, err)
		}
		vals[i-1] = v
	}

	return RawSample{TimeMs: t, Ax: vals[0], Ay: vals[1], Az: vals[2]}, nil
}

func (rp *Replay) Close() error {
	if rp.c == nil {
		return nil
	}
	return rp.c.Close()
}

// Recorder writes samples in the format Replay reads.
type Recorder struct {
	w     *csv.Writer
	count int
}

func NewRecorder(w io.Writer) (*Recorder, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, err
	}
	return &Recorder{w: cw}, nil
}

func (r *Recorder) Write(s RawSample) error {
	row := []string{
		strconv.FormatInt(s.TimeMs, 10),
		strconv.FormatFloat(s.Ax, 'f', 6, 64),
		strconv.FormatFloat(s.Ay, 'f', 6, 64),
		strconv.FormatFloat(s.Az, 'f', 6, 64),
	}
	if err := r.w.Write(row); err != nil {
		return err
	}
	r.count++
	return nil
}

func (r *Recorder) Count() int { return r.count }

func (r *Recorder) Flush() error {
	r.w.Flush()
	return r.w.Error()
}

// Record copies up to n samples from src into rec. n <= 0 copies until
// src is exhausted.
func Record(ctx context.Context, src Source, rec *Recorder, n int) error {
	for i := 0; n <= 0 || i < n; i++ {
		s, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := rec.Write(s); err != nil {
			return err
		}
	}
	return rec.Flush()
}
