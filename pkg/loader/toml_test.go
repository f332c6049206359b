package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/vcsettings/pkg/object"
	"github.com/odvcencio/vcsettings/pkg/repo"
)

const sampleTOML = `
name = "service"
debug = false
ratio = 0.25
ports = [8080, 8081]
started = 1979-05-27T07:32:00Z

[database]
host = "db.internal"
port = 5432

[[plugins]]
name = "auth"

[[plugins]]
name = "cache"
size = 128
`

func TestDecodeTOML(t *testing.T) {
	got, err := DecodeTOML([]byte(sampleTOML))
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"name":    "service",
		"debug":   false,
		"ratio":   0.25,
		"ports":   []any{8080, 8081},
		"started": "1979-05-27T07:32:00Z",
		"database": map[string]any{
			"host": "db.internal",
			"port": 5432,
		},
		"plugins": []any{
			map[string]any{"name": "auth"},
			map[string]any{"name": "cache", "size": 128},
		},
	}, got)
}

func TestDecodeTOML_CommitRoundTrip(t *testing.T) {
	data, err := LoadTOML(strings.NewReader(sampleTOML))
	require.NoError(t, err)

	r := repo.New()
	h, err := r.Commit(data)
	require.NoError(t, err)
	require.NoError(t, r.Checkout(string(h)))
	require.Equal(t, data, r.WorkTree())

	again, err := DecodeTOML([]byte(sampleTOML))
	require.NoError(t, err)
	h2, err := r.BuildTree(again)
	require.NoError(t, err)
	c, err := r.Store.ReadCommit(h)
	require.NoError(t, err)
	require.Equal(t, c.TreeHash, h2)
}

func TestDecodeTOML_Errors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":    "",
		"comments": "# nothing here\n",
		"syntax":   "key = ",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeTOML([]byte(doc))
			require.ErrorIs(t, err, object.ErrInvalidInput)
		})
	}
}
