package document

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/serialize"
	"github.com/matzehuels/visualizeme/pkg/source"
	"github.com/matzehuels/visualizeme/pkg/value"
)

const module = "// site config\nexport const site = { title: \"Home\", tags: [\"a\", \"b\"] };\n"

func TestImportSourceLiteral(t *testing.T) {
	d := New(nil)
	require.True(t, d.Empty())
	require.NoError(t, d.Import("site.ts", module, source.ModeSourceLiteral))

	assert.False(t, d.Empty())
	assert.True(t, d.HasMetadata())
	assert.Equal(t, source.ModeSourceLiteral, d.Mode)
	assert.Equal(t, []string{"site"}, d.Value.Keys())
	assert.Equal(t, "Home", d.Value.Get("site").Get("title").Str)
}

func TestImportFailureKeepsContent(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.Import("a.json", `{"a":1}`, source.ModeJSON))

	err := d.Import("b.json", `{"a":`, source.ModeJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
	assert.Equal(t, "a.json", d.Name)
	assert.Equal(t, `{"a":1}`, string(value.Marshal(d.Value)))

	err = d.Import("c.txt", "{}", source.Mode("xml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidMode))
}

func TestImportUnavailableEngine(t *testing.T) {
	d := New(source.NewParser(source.Unavailable("disabled")))
	assert.False(t, d.SourceLiteralAvailable())

	err := d.Import("site.ts", module, source.ModeSourceLiteral)
	assert.True(t, errors.Is(err, errors.ErrCodeEngineUnavailable))
	require.NoError(t, d.Import("a.json", "[1]", source.ModeJSON))
}

func TestSetModeDiscardsMetadata(t *testing.T) {
	d := New(nil)
	require.NoError(t, d.Import("site.ts", module, source.ModeSourceLiteral))

	require.NoError(t, d.SetMode(source.ModeSourceLiteral))
	assert.True(t, d.HasMetadata(), "same mode keeps metadata")

	require.NoError(t, d.SetMode(source.ModeJSON))
	assert.False(t, d.HasMetadata())

	_, err := d.ExportSource()
	assert.True(t, errors.Is(err, errors.ErrCodeNoMetadata))
}

func TestExportFormats(t *testing.T) {
	d := New(nil)
	_, err := d.ExportJSON()
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyDocument))

	require.NoError(t, d.Import("site.ts", module, source.ModeSourceLiteral))

	out, err := d.ExportSource()
	require.NoError(t, err)
	res, err := source.Parse(string(out), source.ModeSourceLiteral)
	require.NoError(t, err)
	assert.True(t, value.Equal(d.Value, res.Value))

	js, err := d.ExportJSON()
	require.NoError(t, err)
	back, err := value.ParseJSON(js)
	require.NoError(t, err)
	assert.True(t, value.Equal(d.Value, back))

	wrapped, err := d.ExportWrapped()
	require.NoError(t, err)
	res, err = source.Parse(string(wrapped), source.ModeJSON)
	require.NoError(t, err)
	require.NotNil(t, res.Metadata)
	assert.True(t, value.Equal(d.Value, res.Value))

	y, err := d.ExportYAML()
	require.NoError(t, err)
	assert.Contains(t, string(y), "title:")
	assert.Contains(t, string(y), "Home")

	_, err = d.Export(serialize.Format("xml"), time.Now())
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	assert.Equal(t, "site.json", d.Filename(serialize.FormatJSON))
	assert.Equal(t, "site.ts", d.Filename(serialize.FormatSource))
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.ts")
	require.NoError(t, os.WriteFile(path, []byte(module), 0644))

	d := New(nil)
	require.NoError(t, d.ImportFile(path, ""))
	assert.Equal(t, source.ModeSourceLiteral, d.Mode)

	err := d.ImportFile(filepath.Join(dir, "nope.json"), "")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestSnapshotRestore(t *testing.T) {
	d := New(nil)
	_, err := d.Snapshot()
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyDocument))

	require.NoError(t, d.Import("site.ts", module, source.ModeSourceLiteral))
	snap, err := d.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, d.ID, snap.ID)

	r, err := Restore(snap, nil)
	require.NoError(t, err)
	assert.Equal(t, d.ID, r.ID)
	assert.Equal(t, "site.ts", r.Name)
	assert.Equal(t, source.ModeSourceLiteral, r.Mode)
	assert.True(t, value.Equal(d.Value, r.Value))
	require.NotNil(t, r.Metadata)
	assert.Equal(t, d.Metadata.Template, r.Metadata.Template)

	plain := New(nil)
	require.NoError(t, plain.Import("a.json", `{"x":[1,2]}`, source.ModeJSON))
	snap, err = plain.Snapshot()
	require.NoError(t, err)
	r, err = Restore(snap, nil)
	require.NoError(t, err)
	assert.Nil(t, r.Metadata)
	assert.True(t, value.Equal(plain.Value, r.Value))
}
