package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultChunkSize bounds how many rows a single batch holds, keeping peak
// memory independent of file size.
const DefaultChunkSize = 500000

// Source identifies one input file by catalog name and location. Location is
// either a local path or an http(s) URL; remote fetch covers the datasets
// published via file-sharing links instead of checked-in files.
type Source struct {
	Name     string
	Location string
}

// Open yields a fresh reader over the source. Each call restarts from the
// beginning, so a source can be consumed more than once.
func (s Source) Open() (io.ReadCloser, error) {
	var rc io.ReadCloser
	if strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://") {
		resp, err := http.Get(s.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", s.Name, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch %s: status %d", s.Name, resp.StatusCode)
		}
		rc = resp.Body
	} else {
		f, err := os.Open(s.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", s.Name, err)
		}
		rc = f
	}

	if strings.HasSuffix(s.Location, ".gz") {
		zr, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, fmt.Errorf("failed to open %s: %w", s.Name, err)
		}
		return &gzipReadCloser{zr: zr, inner: rc}, nil
	}
	return rc, nil
}

type gzipReadCloser struct {
	zr    *gzip.Reader
	inner io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.zr.Read(p) }

func (g *gzipReadCloser) Close() error {
	if err := g.zr.Close(); err != nil {
		g.inner.Close()
		return err
	}
	return g.inner.Close()
}

// ChunkReader streams a CSV file in fixed-size batches. Malformed lines are
// skipped and counted rather than failing the whole load.
type ChunkReader struct {
	cr      *csv.Reader
	src     io.ReadCloser
	header  []string
	size    int
	skipped int
}

// NewChunkReader wraps rc in a batched CSV reader and consumes the header
// line. size <= 0 falls back to DefaultChunkSize.
func NewChunkReader(rc io.ReadCloser, size int) (*ChunkReader, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	cr := csv.NewReader(rc)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: valid, just yields no batches.
			return &ChunkReader{cr: cr, src: rc, size: size}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return &ChunkReader{cr: cr, src: rc, header: header, size: size}, nil
}

// Header returns the trimmed header row, nil for an empty file.
func (c *ChunkReader) Header() []string { return c.header }

// Skipped returns how many malformed lines were dropped so far.
func (c *ChunkReader) Skipped() int { return c.skipped }

// Next returns the next batch of up to the configured number of rows.
// It returns io.EOF once the file is exhausted.
func (c *ChunkReader) Next() ([][]string, error) {
	if c.header == nil {
		return nil, io.EOF
	}
	rows := make([][]string, 0, min(c.size, 1024))
	for len(rows) < c.size {
		row, err := c.cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				c.skipped++
				continue
			}
			return nil, fmt.Errorf("read failed: %w", err)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, io.EOF
	}
	return rows, nil
}

// Close releases the underlying source.
func (c *ChunkReader) Close() error { return c.src.Close() }
