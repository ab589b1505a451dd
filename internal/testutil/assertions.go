package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertNotWritten fails the test if anything exists at the slash path name
// inside the site. Builds that fail must leave no output behind.
func AssertNotWritten(t *testing.T, site *Site, name string) {
	t.Helper()
	_, err := os.Stat(site.Path(name))
	require.True(t, os.IsNotExist(err), "expected %s not to exist, stat error: %v", name, err)
}
