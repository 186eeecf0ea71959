// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package doc

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestVersion(t *testing.T) {
	// semver, eg. 1.2.3
	validVersion := regexp.MustCompile(`^\d+(\.\d+){2}$`)

	assert.True(t, validVersion.Match([]byte(Version())))
}

func TestPaths(t *testing.T) {
	content, err := FS.ReadFile("stakepool.yaml")
	require.NoError(t, err)

	var oai struct {
		Paths map[string]any
	}
	require.NoError(t, yaml.Unmarshal(content, &oai))

	for _, path := range []string{
		"/staker",
		"/staker/stake",
		"/staker/execute",
		"/staker/withdraw",
		"/staker/time-left",
		"/beneficiary",
		"/logs/event",
		"/logs/transfer",
	} {
		assert.Contains(t, oai.Paths, path)
	}
}
