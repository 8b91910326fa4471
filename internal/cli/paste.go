package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when reading is interrupted by the context.
var ErrInputCancelled = errors.New("input canceled")

// PasteReader collects pasted chat text line by line until EOF or until the
// context is canceled.
type PasteReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewPasteReader wraps r.
func NewPasteReader(r io.Reader) *PasteReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &PasteReader{reader: bufio.NewReader(r)}
}

// ReadAll returns everything pasted so far. On cancellation it returns the
// lines already read together with ErrInputCancelled; the line being read
// when the context ends is abandoned.
func (p *PasteReader) ReadAll(ctx context.Context) (string, error) {
	type result struct {
		err  error
		line string
	}

	var text strings.Builder
	for {
		if ctx.Err() != nil {
			return text.String(), ErrInputCancelled
		}

		resultCh := make(chan result, 1)
		go func() {
			p.mu.Lock()
			defer p.mu.Unlock()

			line, err := p.reader.ReadString('\n')
			resultCh <- result{line: line, err: err}
		}()

		select {
		case <-ctx.Done():
			return text.String(), ErrInputCancelled
		case res := <-resultCh:
			text.WriteString(res.line)
			if errors.Is(res.err, io.EOF) {
				return text.String(), nil
			}
			if res.err != nil {
				return text.String(), res.err
			}
		}
	}
}
