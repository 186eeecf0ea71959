// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, FormatTerminal, LevelInfo, false)
	require.NoError(t, err)

	l := NewLogger(h)
	l.Debug("hidden")
	l.Info("staked", "amount", big.NewInt(500), "total", uint256.NewInt(7))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "INFO ["), out)
	assert.Contains(t, out, "amount=500")
	assert.Contains(t, out, "total=7")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&buf, FormatJSON, LevelTrace, false)
	require.NoError(t, err)

	NewLogger(h).Warn("deadline reached", "wei", big.NewInt(42))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["lvl"])
	assert.Equal(t, "deadline reached", rec["msg"])
	assert.Equal(t, "42", rec["wei"])
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewHandler(&bytes.Buffer{}, "xml", LevelInfo, false)
	assert.Error(t, err)
}

func TestWithContextFollowsRoot(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	var buf bytes.Buffer
	h, err := NewHandler(&buf, FormatLogfmt, LevelDebug, false)
	require.NoError(t, err)

	old := Root()
	SetDefault(NewLogger(h))
	defer SetDefault(old)

	pkgLogger.Debug("hello")
	assert.Contains(t, buf.String(), "pkg=test")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
}
