package script

import (
	"fmt"
	"io"
	"os"

	"github.com/mrobin/strbuf/strbuf"
)

// statement is one parsed op with its arguments.
type statement struct {
	name string
	line int
	args []token
}

// argSpec describes the argument shape of an op: one letter per argument,
// 's' for string, 'i' for integer. A trailing '*' accepts any further
// string or integer arguments (printf).
var argSpec = map[string]string{
	"new":     "i",
	"copy":    "s",
	"append":  "s",
	"prepend": "s",
	"cut":     "ii",
	"printf":  "s*",
	"reserve": "i",
	"fit":     "",
	"clear":   "",
	"print":   "",
	"state":   "",
}

// parse splits source into validated statements. Unknown ops and wrong
// argument shapes are reported with their line number before anything
// executes.
func parse(src string) ([]statement, error) {
	sc := newScanner(src)
	var stmts []statement
	var cur *statement
	for {
		tok, err := sc.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokEOF, tokTerm:
			if cur != nil {
				if err := checkArgs(*cur); err != nil {
					return nil, err
				}
				stmts = append(stmts, *cur)
				cur = nil
			}
			if tok.kind == tokEOF {
				return stmts, nil
			}
		case tokWord:
			if cur != nil {
				return nil, fmt.Errorf("line %d: %s: unexpected word %q in arguments", tok.line, cur.name, tok.text)
			}
			if _, ok := argSpec[tok.text]; !ok {
				return nil, fmt.Errorf("line %d: unknown op %q", tok.line, tok.text)
			}
			cur = &statement{name: tok.text, line: tok.line}
		case tokString, tokInt:
			if cur == nil {
				return nil, fmt.Errorf("line %d: argument without an op", tok.line)
			}
			cur.args = append(cur.args, tok)
		}
	}
}

func checkArgs(st statement) error {
	spec := argSpec[st.name]
	variadic := false
	if n := len(spec); n > 0 && spec[n-1] == '*' {
		variadic = true
		spec = spec[:n-1]
	}
	if len(st.args) < len(spec) || (!variadic && len(st.args) > len(spec)) {
		return fmt.Errorf("line %d: %s: want %d argument(s), got %d", st.line, st.name, len(spec), len(st.args))
	}
	for i := 0; i < len(spec); i++ {
		switch spec[i] {
		case 's':
			if st.args[i].kind != tokString {
				return fmt.Errorf("line %d: %s: argument %d must be a quoted string", st.line, st.name, i+1)
			}
		case 'i':
			if st.args[i].kind != tokInt {
				return fmt.Errorf("line %d: %s: argument %d must be an integer", st.line, st.name, i+1)
			}
		}
	}
	return nil
}

// Runner executes op scripts against a single strbuf.String. The zero
// value writes op output to stdout with tracing disabled.
type Runner struct {
	Output io.Writer // print/state output; defaults to os.Stdout
	Trace  io.Writer // per-op len/cap trace; nil disables
	Color  bool      // ANSI color on trace output
}

// RunFile reads and runs a script file.
func (r *Runner) RunFile(path string) (*strbuf.String, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.Run(string(src))
}

// Run parses and executes the script, returning the final string. The
// whole script is validated before the first op runs; execution errors
// wrap the strbuf sentinel errors and carry the op name and line.
func (r *Runner) Run(src string) (*strbuf.String, error) {
	stmts, err := parse(src)
	if err != nil {
		return nil, err
	}

	out := r.Output
	if out == nil {
		out = os.Stdout
	}

	s := strbuf.Empty()
	for _, st := range stmts {
		if err := r.exec(&s, st, out); err != nil {
			return nil, err
		}
		if r.Trace != nil && mutates(st.name) {
			r.tracef(st.name, s)
		}
	}
	return s, nil
}

func mutates(name string) bool {
	switch name {
	case "print", "state":
		return false
	}
	return true
}

func (r *Runner) exec(s **strbuf.String, st statement, out io.Writer) error {
	var err error
	switch st.name {
	case "new":
		var ns *strbuf.String
		ns, err = strbuf.New(st.args[0].num)
		if err == nil {
			(*s).Destroy()
			*s = ns
		}
	case "copy":
		err = (*s).CopyString(st.args[0].text)
	case "append":
		err = (*s).AppendString(st.args[0].text)
	case "prepend":
		err = (*s).PrependString(st.args[0].text)
	case "cut":
		err = (*s).Cut(st.args[0].num, st.args[1].num)
	case "printf":
		args := make([]any, 0, len(st.args)-1)
		for _, a := range st.args[1:] {
			if a.kind == tokInt {
				args = append(args, a.num)
			} else {
				args = append(args, a.text)
			}
		}
		_, err = (*s).Printf(st.args[0].text, args...)
	case "reserve":
		err = (*s).Reserve(st.args[0].num)
	case "fit":
		err = (*s).Fit()
	case "clear":
		err = (*s).Clear()
	case "print":
		_, err = fmt.Fprintf(out, "%s\n", (*s).String())
	case "state":
		_, err = fmt.Fprintf(out, "len=%d cap=%d\n", (*s).Len(), (*s).Cap())
	}
	if err != nil {
		return fmt.Errorf("line %d: %s: %w", st.line, st.name, err)
	}
	return nil
}

func (r *Runner) tracef(name string, s *strbuf.String) {
	dim, reset := "\033[2m", "\033[0m"
	if !r.Color {
		dim, reset = "", ""
	}
	fmt.Fprintf(r.Trace, "%s%-8s len=%d cap=%d%s\n", dim, name, s.Len(), s.Cap(), reset)
}
