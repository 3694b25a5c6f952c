package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Prompter reads operator answers line by line. Invalid answers are
// re-asked in place; end of input is reported as io.EOF, and a cancelled
// context ends any pending prompt with the context's error.
type Prompter struct {
	lines  *lineReader
	ctx    context.Context
	out    io.Writer
	styles Styles
}

// NewPrompter reads from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer, styles Styles) *Prompter {
	if in == nil {
		in = strings.NewReader("")
	}
	return &Prompter{
		lines:  &lineReader{in: bufio.NewReader(in)},
		ctx:    context.Background(),
		out:    out,
		styles: styles,
	}
}

// WithContext returns a prompter on the same input whose prompts give up
// when ctx is done.
func (p *Prompter) WithContext(ctx context.Context) *Prompter {
	cp := *p
	cp.ctx = ctx
	return &cp
}

// lineReader reads lines on its own goroutine so a blocked read does not
// hold up cancellation.
type lineReader struct {
	in    *bufio.Reader
	once  sync.Once
	lines chan string
	err   error // set before lines is closed
}

type lineResult struct {
	line string
	err  error
}

func (r *lineReader) pump() {
	defer close(r.lines)
	for {
		line, err := r.in.ReadString('\n')
		if err != nil {
			if line != "" {
				r.lines <- line
			}
			r.err = err
			return
		}
		r.lines <- line
	}
}

func (r *lineReader) next(ctx context.Context) lineResult {
	r.once.Do(func() {
		r.lines = make(chan string, 1)
		go r.pump()
	})
	select {
	case <-ctx.Done():
		return lineResult{err: ctx.Err()}
	case line, ok := <-r.lines:
		if !ok {
			return lineResult{err: r.err}
		}
		return lineResult{line: line}
	}
}

func (p *Prompter) ask(prompt string) (string, error) {
	if err := p.ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, p.styles.Prompt.Render(prompt))
	res := p.lines.next(p.ctx)
	if res.err != nil {
		return "", res.err
	}
	return strings.TrimSpace(res.line), nil
}

func (p *Prompter) complain(msg string) {
	fmt.Fprintln(p.out, p.styles.Error.Render(msg))
}

// Choose prints a numbered menu and returns the 0-based index picked.
func (p *Prompter) Choose(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("no options for %q", title)
	}
	fmt.Fprintf(p.out, "\n%s:\n", p.styles.Title.Render(title))
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}
	for {
		answer, err := p.ask("Enter number: ")
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		p.complain(fmt.Sprintf("Invalid choice, enter 1-%d.", len(options)))
	}
}

// Text asks until a non-empty answer is given.
func (p *Prompter) Text(prompt string) (string, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.complain("A value is required.")
	}
}

// Optional returns the answer as typed, possibly empty.
func (p *Prompter) Optional(prompt string) (string, error) {
	return p.ask(prompt)
}

// Quantity asks until a positive integer is given.
func (p *Prompter) Quantity(prompt string) (int, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n > 0 {
			return n, nil
		}
		p.complain("Enter a whole number greater than zero.")
	}
}

// Confirm returns true only for an explicit yes (y, yes, д, да).
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.ask(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "д", "да":
		return true, nil
	default:
		return false, nil
	}
}
