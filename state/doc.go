// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the world state of accounts and contract storage.
// Changes are journaled in memory and can be reverted to a checkpoint. A
// State is staged and committed to the underlying kv store as one batch.
package state
