package script

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrobin/strbuf/strbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (*strbuf.String, string) {
	t.Helper()
	var out bytes.Buffer
	r := &Runner{Output: &out}
	s, err := r.Run(src)
	require.NoError(t, err)
	return s, out.String()
}

func TestRunWalkthrough(t *testing.T) {
	s, out := run(t, `
copy "world"
state
append "!"
state
prepend "Hello "
print
state
`)
	assert.Equal(t, "Hello world!", s.String())
	assert.Equal(t, []string{
		"len=5 cap=11",
		"len=6 cap=11",
		"Hello world!",
		"len=12 cap=25",
	}, strings.Split(strings.TrimSpace(out), "\n"))
}

func TestRunSemicolons(t *testing.T) {
	s, _ := run(t, `copy "abcdef"; cut 2 3`)
	assert.Equal(t, "cde", s.String())
}

func TestRunPrintf(t *testing.T) {
	s, _ := run(t, `reserve 32; printf "%s: %d items" "cart" 37`)
	assert.Equal(t, "cart: 37 items", s.String())
}

func TestRunNewZeroFilled(t *testing.T) {
	s, _ := run(t, `new 3`)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 4, s.Cap())
	assert.Equal(t, []byte{0, 0, 0}, s.Bytes())
}

func TestRunReserveFitClear(t *testing.T) {
	s, out := run(t, `copy "hi"; reserve 64; state; fit; state; clear; state`)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, []string{
		"len=2 cap=64",
		"len=2 cap=3",
		"len=0 cap=3",
	}, strings.Split(strings.TrimSpace(out), "\n"))
}

func TestRunEmptyScript(t *testing.T) {
	s, out := run(t, "# nothing but comments\n")
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, s.Cap())
	assert.Empty(t, out)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.sb")
	require.NoError(t, os.WriteFile(path, []byte("copy \"file\"\nappend \"!\"\n"), 0o644))

	r := &Runner{Output: &bytes.Buffer{}}
	s, err := r.RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file!", s.String())
}

func TestRunFileMissing(t *testing.T) {
	r := &Runner{}
	_, err := r.RunFile("no/such/file.sb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no/such/file.sb")
}

func TestParseUnknownOp(t *testing.T) {
	r := &Runner{}
	_, err := r.Run("copy \"x\"\nfrobnicate\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `line 2: unknown op "frobnicate"`)
}

func TestParseWrongArity(t *testing.T) {
	r := &Runner{}
	_, err := r.Run("cut 1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cut: want 2 argument(s), got 1")
}

func TestParseWrongArgumentKind(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(`append 42`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1 must be a quoted string")
}

func TestParseValidatesBeforeExecuting(t *testing.T) {
	var out bytes.Buffer
	r := &Runner{Output: &out}
	_, err := r.Run("print\nbogus\n")
	require.Error(t, err)
	// The bad line is reported and nothing ran.
	assert.Empty(t, out.String())
}

func TestExecErrorCarriesLineAndSentinel(t *testing.T) {
	r := &Runner{Output: &bytes.Buffer{}}
	_, err := r.Run("copy \"hello\"\ncut 3 4\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, strbuf.ErrOutOfRange)
	assert.Contains(t, err.Error(), "line 2: cut:")
}

func TestTraceOutput(t *testing.T) {
	var trace bytes.Buffer
	r := &Runner{Output: &bytes.Buffer{}, Trace: &trace}
	_, err := r.Run("copy \"world\"\nstate\nfit\n")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
	require.Len(t, lines, 2) // state is not a mutating op, no trace line
	assert.Contains(t, lines[0], "copy")
	assert.Contains(t, lines[0], "len=5 cap=11")
	assert.Contains(t, lines[1], "fit")
	assert.Contains(t, lines[1], "len=5 cap=6")
	assert.NotContains(t, trace.String(), "\033[") // color off by default
}

func TestTraceColor(t *testing.T) {
	var trace bytes.Buffer
	r := &Runner{Output: &bytes.Buffer{}, Trace: &trace, Color: true}
	_, err := r.Run("fit\n")
	require.NoError(t, err)
	assert.Contains(t, trace.String(), "\033[2m")
	assert.Contains(t, trace.String(), "\033[0m")
}
