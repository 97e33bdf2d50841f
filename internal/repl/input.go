package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Input supplies the answers to interactive prompts.
type Input interface {
	// Prompt shows message and returns the next line without its line
	// break, io.EOF means no more input will come.
	Prompt(ctx context.Context, message string) (string, error)
}

type line struct {
	text string
	err  error
}

// LineInput reads answers line by line. Lines are read on a separate
// goroutine so a cancelled context unblocks Prompt.
type LineInput struct {
	in    io.Reader
	out   io.Writer
	start sync.Once
	lines chan line
}

func NewLineInput(in io.Reader, out io.Writer) *LineInput {
	return &LineInput{in: in, out: out, lines: make(chan line)}
}

// read feeds lines to Prompt until the reader ends, a read error is sent
// before the channel is closed.
func (l *LineInput) read() {
	defer close(l.lines)
	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		l.lines <- line{text: scanner.Text()}
	}
	if err := scanner.Err(); err != nil {
		l.lines <- line{err: err}
	}
}

func (l *LineInput) Prompt(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.start.Do(func() { go l.read() })

	fmt.Fprint(l.out, message)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case next, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		if next.err != nil {
			return "", next.err
		}
		return strings.TrimSpace(next.text), nil
	}
}

// ScriptedInput answers prompts from a fixed list of lines and remembers the
// prompts it was shown.
type ScriptedInput struct {
	Lines   []string
	Prompts []string
}

func (s *ScriptedInput) Prompt(ctx context.Context, message string) (string, error) {
	s.Prompts = append(s.Prompts, message)
	if len(s.Lines) == 0 {
		return "", io.EOF
	}
	line := s.Lines[0]
	s.Lines = s.Lines[1:]
	return line, nil
}
