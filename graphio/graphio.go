// Package graphio reads and writes per-rank edge lists in the text and
// binary formats of the generator's ecosystem.
//
// Text form: an optional header line "p N M", then one "e u v" line per
// edge. Binary form: an optional [u64 N, u64 M] header, then packed
// [u64 u, u64 v] pairs, little-endian. Vertex ids are 1-based on disk in
// both forms.
package graphio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mschimek/KaGen/core"
)

// Format selects the on-disk edge list encoding.
type Format int

const (
	// FormatEdgeList is the textual "p/e" line format.
	FormatEdgeList Format = iota
	// FormatBinaryEdgeList is the packed u64-pair format.
	FormatBinaryEdgeList
)

// Sentinel errors for malformed inputs.
var (
	// ErrBadHeader indicates a header line or block that does not parse.
	ErrBadHeader = errors.New("graphio: malformed header")

	// ErrBadRecord indicates an edge record that does not parse.
	ErrBadRecord = errors.New("graphio: malformed edge record")
)

// Filename derives the output name for one rank: the base name when a
// single shared file is written, otherwise base_rank.
func Filename(base string, rank int, singleFile bool) string {
	if singleFile {
		return base
	}
	return fmt.Sprintf("%s_%d", base, rank)
}

// WriteText writes edges as "e u v" lines with 1-based ids, preceded by a
// "p N M" header when requested.
func WriteText(w io.Writer, edges []core.Edge, globalN, globalM uint64, header bool) error {
	bw := bufio.NewWriter(w)
	if header {
		if _, err := fmt.Fprintf(bw, "p %d %d\n", globalN, globalM); err != nil {
			return fmt.Errorf("WriteText: header: %w", err)
		}
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "e %d %d\n", e.From+1, e.To+1); err != nil {
			return fmt.Errorf("WriteText: edge: %w", err)
		}
	}
	return bw.Flush()
}

// ReadText parses a text edge list. The returned ids are 0-based; n and m
// are zero unless a header was present.
func ReadText(r io.Reader) (edges []core.Edge, n, m uint64, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch line[0] {
		case 'p':
			if _, serr := fmt.Sscanf(line, "p %d %d", &n, &m); serr != nil {
				return nil, 0, 0, fmt.Errorf("ReadText: %q: %w", line, ErrBadHeader)
			}
		case 'e':
			var u, v uint64
			if _, serr := fmt.Sscanf(line, "e %d %d", &u, &v); serr != nil || u == 0 || v == 0 {
				return nil, 0, 0, fmt.Errorf("ReadText: %q: %w", line, ErrBadRecord)
			}
			edges = append(edges, core.Edge{From: u - 1, To: v - 1})
		default:
			return nil, 0, 0, fmt.Errorf("ReadText: %q: %w", line, ErrBadRecord)
		}
	}
	if serr := sc.Err(); serr != nil {
		return nil, 0, 0, fmt.Errorf("ReadText: %w", serr)
	}
	return edges, n, m, nil
}

// WriteBinary writes packed little-endian [u64 u, u64 v] pairs with
// 1-based ids, preceded by a [u64 N, u64 M] header when requested.
func WriteBinary(w io.Writer, edges []core.Edge, globalN, globalM uint64, header bool) error {
	bw := bufio.NewWriter(w)
	var buf [16]byte
	if header {
		binary.LittleEndian.PutUint64(buf[0:], globalN)
		binary.LittleEndian.PutUint64(buf[8:], globalM)
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("WriteBinary: header: %w", err)
		}
	}
	for _, e := range edges {
		binary.LittleEndian.PutUint64(buf[0:], e.From+1)
		binary.LittleEndian.PutUint64(buf[8:], e.To+1)
		if _, err := bw.Write(buf[:]); err != nil {
			return fmt.Errorf("WriteBinary: edge: %w", err)
		}
	}
	return bw.Flush()
}

// ReadBinary parses a binary edge list written with the same header flag.
// The returned ids are 0-based.
func ReadBinary(r io.Reader, header bool) (edges []core.Edge, n, m uint64, err error) {
	br := bufio.NewReader(r)
	var buf [16]byte
	if header {
		if _, rerr := io.ReadFull(br, buf[:]); rerr != nil {
			return nil, 0, 0, fmt.Errorf("ReadBinary: %w", ErrBadHeader)
		}
		n = binary.LittleEndian.Uint64(buf[0:])
		m = binary.LittleEndian.Uint64(buf[8:])
	}
	for {
		_, rerr := io.ReadFull(br, buf[:])
		if rerr == io.EOF {
			return edges, n, m, nil
		}
		if rerr != nil {
			return nil, 0, 0, fmt.Errorf("ReadBinary: %w", ErrBadRecord)
		}
		u := binary.LittleEndian.Uint64(buf[0:])
		v := binary.LittleEndian.Uint64(buf[8:])
		if u == 0 || v == 0 {
			return nil, 0, 0, fmt.Errorf("ReadBinary: zero id: %w", ErrBadRecord)
		}
		edges = append(edges, core.Edge{From: u - 1, To: v - 1})
	}
}
