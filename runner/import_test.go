package runner

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/ceka/arff"
	"github.com/teranos/ceka/cli"
	"github.com/teranos/ceka/errors"
	cekatest "github.com/teranos/ceka/internal/testing"
)

func importOptions(t *testing.T, p ...string) cli.Options {
	t.Helper()
	return validated(t, cli.Raw{
		Mode:             "sql",
		ConnectionString: "sqlite://uhs.db",
		OutputFile:       "patients",
		Parameters:       p,
		Columns:          []string{"ward", "outcome"},
	})
}

func importedDataset() *arff.Dataset {
	ds := arff.New("patients",
		arff.NominalAttribute("ward", "north"),
		arff.NominalAttribute("outcome", "recovered"),
	)
	ds.AddRow("north", "recovered")
	return ds
}

func TestImport_Parameters(t *testing.T) {
	t.Run("all five applied", func(t *testing.T) {
		env, logs, _ := testEnv(true)
		store := &memStore{saved: map[string]*arff.Dataset{}}
		env.Store = store
		im := &fakeImporter{ds: importedDataset()}
		env.Importer = im

		opts := importOptions(t, "table:patients", "min-range:1", "max-range:3",
			"first-column-null:true", "second-column-null:false")
		require.NoError(t, Import{Options: opts}.Run(context.Background(), env))

		assert.Equal(t, "sqlite://uhs.db", im.req.Connection)
		assert.Equal(t, []string{"ward", "outcome"}, im.req.Columns)
		assert.Equal(t, "patients", im.req.Table)
		assert.Equal(t, 1, im.req.MinRange)
		assert.Equal(t, 3, im.req.MaxRange)
		assert.True(t, im.req.FirstColumnNull)
		assert.False(t, im.req.SecondColumnNull)
		assert.Zero(t, logs.FilterMessageSnippet("Parameter set was not full").Len())
		assert.Contains(t, store.saved, "patients")
	})

	t.Run("defaults", func(t *testing.T) {
		env, logs, _ := testEnv(true)
		env.Store = &memStore{saved: map[string]*arff.Dataset{}}
		im := &fakeImporter{ds: importedDataset()}
		env.Importer = im

		require.NoError(t, Import{Options: importOptions(t, "table:patients")}.Run(context.Background(), env))

		assert.Equal(t, -1, im.req.MinRange)
		assert.Equal(t, -1, im.req.MaxRange)
		assert.False(t, im.req.FirstColumnNull)
		assert.True(t, im.req.SecondColumnNull)
		assert.Equal(t, 1, logs.FilterMessage("Parameter set was not full! Probably using default parameters for SQL building!").Len())
	})

	t.Run("parse failure discards everything", func(t *testing.T) {
		env, _, _ := testEnv(false)
		env.Store = &memStore{saved: map[string]*arff.Dataset{}}
		im := &fakeImporter{ds: importedDataset()}
		env.Importer = im

		opts := importOptions(t, "table:patients", "min-range:2", "max-range:ten")
		require.NoError(t, Import{Options: opts}.Run(context.Background(), env))

		assert.Equal(t, "", im.req.Table)
		assert.Equal(t, -1, im.req.MinRange)
		assert.Equal(t, -1, im.req.MaxRange)
	})

	t.Run("unknown keys are logged at debug", func(t *testing.T) {
		env, logs, _ := testEnv(true)
		env.Store = &memStore{saved: map[string]*arff.Dataset{}}
		env.Importer = &fakeImporter{ds: importedDataset()}

		require.NoError(t, Import{Options: importOptions(t, "table:patients", "limit:5")}.Run(context.Background(), env))
		assert.Equal(t, 1, logs.FilterMessage("Parameter limit is not supported for SQL building!").Len())
	})
}

func TestImport_Errors(t *testing.T) {
	t.Run("importer failure", func(t *testing.T) {
		env, _, _ := testEnv(false)
		store := &memStore{saved: map[string]*arff.Dataset{}}
		env.Store = store
		env.Importer = &fakeImporter{err: errors.New("access denied")}

		err := Import{Options: importOptions(t, "table:patients")}.Run(context.Background(), env)
		assert.ErrorContains(t, err, "access denied")
		assert.Empty(t, store.saved)
	})

	t.Run("integrity failure is not saved", func(t *testing.T) {
		env, _, _ := testEnv(false)
		store := &memStore{saved: map[string]*arff.Dataset{}}
		env.Store = store

		broken := importedDataset()
		broken.AddRow("south", "recovered")
		env.Importer = &fakeImporter{ds: broken}

		err := Import{Options: importOptions(t, "table:patients")}.Run(context.Background(), env)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrIntegrity))
		assert.Empty(t, store.saved)
	})
}

func TestImport_EndToEnd(t *testing.T) {
	dbPath := cekatest.CreatePatientsDB(t)
	out := t.TempDir() + "/patients"

	var stdout bytes.Buffer
	env := NewEnv(zaptest.NewLogger(t).Sugar(), true, &stdout, "")

	opts := validated(t, cli.Raw{
		Mode:             "sql",
		ConnectionString: dbPath,
		OutputFile:       out,
		Parameters:       []string{"table:patients", "second-column-null:false"},
		Columns:          []string{"id", "ward", "outcome"},
	})
	require.NoError(t, Import{Options: opts}.Run(context.Background(), env))

	ds, err := arff.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "patients", ds.Relation)
	assert.Equal(t, 4, ds.Len())
	assert.Empty(t, stdout.String(), "import reports nothing on stdout")
}
