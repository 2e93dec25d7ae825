package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMappings = `Encompass Field,MISMO Path,Notes
1109,LOAN/BaseLoanAmount,"amount, no MI"
763,LOAN/LoanMaturityDate,
`

func TestReadMappings(t *testing.T) {
	t.Run("header_and_rows", func(t *testing.T) {
		m, err := ReadMappings(strings.NewReader(sampleMappings))
		require.NoError(t, err)

		assert.Equal(t, []string{"Encompass Field", "MISMO Path", "Notes"}, m.Header)
		require.Len(t, m.Rows, 2)
		assert.Equal(t, []string{"1109", "LOAN/BaseLoanAmount", "amount, no MI"}, m.Rows[0])
		assert.Equal(t, []string{"763", "LOAN/LoanMaturityDate", ""}, m.Rows[1])
		assert.True(t, m.HasRows())
	})

	t.Run("header_only", func(t *testing.T) {
		m, err := ReadMappings(strings.NewReader("Encompass Field,MISMO Path\n"))
		require.NoError(t, err)
		assert.Len(t, m.Header, 2)
		assert.False(t, m.HasRows())
	})

	t.Run("empty", func(t *testing.T) {
		m, err := ReadMappings(strings.NewReader(""))
		require.NoError(t, err)
		assert.Nil(t, m.Header)
		assert.False(t, m.HasRows())
	})

	t.Run("ragged_rows", func(t *testing.T) {
		m, err := ReadMappings(strings.NewReader("a,b\n1\n1,2,3\n"))
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1"}, {"1", "2", "3"}}, m.Rows)
	})

	t.Run("malformed_quotes", func(t *testing.T) {
		_, err := ReadMappings(strings.NewReader("a,b\n\"unterminated,1\n"))
		assert.Error(t, err)
	})

	t.Run("nil_has_no_rows", func(t *testing.T) {
		var m *Mappings
		assert.False(t, m.HasRows())
	})
}

func TestEncodeMappingsPassThrough(t *testing.T) {
	m, err := ReadMappings(strings.NewReader(sampleMappings))
	require.NoError(t, err)

	out, err := EncodeMappings(m)
	require.NoError(t, err)
	assert.Equal(t, sampleMappings, string(out))

	again, err := ReadMappings(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestReadMappingsFile(t *testing.T) {
	t.Run("reads_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mappings.csv")
		require.NoError(t, os.WriteFile(path, []byte(sampleMappings), 0644))

		m, err := ReadMappingsFile(path)
		require.NoError(t, err)
		assert.Len(t, m.Rows, 2)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := ReadMappingsFile("/nonexistent/mappings.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open mappings")
	})
}
