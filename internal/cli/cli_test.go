package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/corepassmd/internal/coreid"
)

const (
	validID   = "cb7147879011ea207df5b35a24ca6f0859dcfb145999"
	invalidID = "cb7247879011ea207df5b35a24ca6f0859dcfb145999"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(&stdout, &stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRender_Stdin(t *testing.T) {
	out, _, err := run(t, "Pay ["+validID+"@coreid].", "render")
	require.NoError(t, err)
	want := "Pay [CB71…5999@coreid](corepass:" + validID + ` "CB7147879011EA207DF5B35A24CA6F0859DCFB145999").` + "\n"
	assert.Equal(t, want, out)
}

func TestRender_Flags(t *testing.T) {
	out, _, err := run(t, "["+invalidID+"@coreid]", "render", "--negation", "glyph")
	require.NoError(t, err)
	assert.Equal(t, "¬CB72…5999@coreid\n", out)

	out, _, err = run(t, "["+invalidID+"@coreid]", "render", "--no-ican-check", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, `<a href="corepass:`+invalidID+`"`)

	out, _, err = run(t, "[!"+invalidID+"@coreid]", "render", "--no-skip-override")
	require.NoError(t, err)
	assert.Equal(t, "~~CB72…5999@coreid~~\n", out)
}

func TestRender_BadNegation(t *testing.T) {
	_, _, err := run(t, "x", "render", "--negation", "blink")
	assert.ErrorIs(t, err, coreid.ErrUnknownNegation)
}

func TestRender_FilesAndOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(in, []byte("ask [a.b@coreid]"), 0o644))
	outPath := filepath.Join(dir, "out.md")

	stdout, _, err := run(t, "", "render", in, "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `ask [a.b@coreid](corepass:a.b "a.b")`+"\n", string(data))
}

func TestRender_FailedInputLeavesNoOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(in, []byte("ask [a.b@coreid]"), 0o644))
	outPath := filepath.Join(dir, "out.md")

	_, _, err := run(t, "", "render", in, filepath.Join(dir, "nope.md"), "-o", outPath)
	require.Error(t, err)
	_, statErr := os.Stat(outPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "output file should not exist")
}

func TestRender_OutputWriteError(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "missing-dir", "out.md")
	_, _, err := run(t, "hello", "render", "-o", outPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write output")
}

func TestRender_InputOverride(t *testing.T) {
	out, _, err := run(t, "<p>see [a.b@coreid]</p>", "render", "--input", "html", "--format", "html")
	require.NoError(t, err)
	assert.Equal(t, `<p>see <a href="corepass:a.b" title="a.b">a.b@coreid</a></p>`+"\n", out)
}

func TestRender_ConfigFile(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "opts.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("negation: glyph\n"), 0o644))

	out, _, err := run(t, "["+invalidID+"@coreid]", "render", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "¬CB72…5999@coreid\n", out)

	// Flags win over the file.
	out, _, err = run(t, "["+invalidID+"@coreid]", "render", "--config", cfg, "--negation", "strikethrough")
	require.NoError(t, err)
	assert.Equal(t, "~~CB72…5999@coreid~~\n", out)
}

func TestRender_MissingFile(t *testing.T) {
	_, _, err := run(t, "", "render", filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate_Text(t *testing.T) {
	out, _, err := run(t, "", "validate", validID, "x.y@coreid")
	require.NoError(t, err)
	assert.Contains(t, out, "CB71…5999@coreid")
	assert.Contains(t, out, "mainnet")
	assert.Contains(t, out, "corepass:x.y")
}

func TestValidate_InvalidReportsDigits(t *testing.T) {
	out, _, err := run(t, "", "validate", invalidID)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, out, "invalid")
	assert.Contains(t, out, strings.ToUpper(validID))
}

func TestValidate_JSON(t *testing.T) {
	out, _, err := run(t, "", "validate", "--json", "nope", validID)
	assert.ErrorIs(t, err, ErrInvalid)

	var results []coreid.Inspection
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.False(t, results[0].Recognized)
	assert.True(t, results[1].Valid)
}

func TestValidate_RequiresArgs(t *testing.T) {
	_, _, err := run(t, "", "validate")
	assert.Error(t, err)
}

func TestExecute_PrintsErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Execute([]string{"render", "--format", "pdf"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "unsupported output format")

	stderr.Reset()
	err = Execute([]string{"validate", invalidID}, &stdout, &stderr)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, stderr.String())
}
