package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_SortedAndEmbedded(t *testing.T) {
	versions, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	assert.Equal(t, "0001_payment_constraints.sql", versions[0])
	assert.IsNonDecreasing(t, versions)

	body, err := files.ReadFile(versions[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "CHECK (payment_amount > 0)"))
}
