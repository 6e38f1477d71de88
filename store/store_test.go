package store

import (
	"testing"

	"github.com/atdiar/uistate"
	"github.com/atdiar/uistate/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(t *testing.T, tree *ui.StateTree) *codec.Batch {
	var changes []ui.NodeChange
	tree.Snapshot(func(c ui.NodeChange) { changes = append(changes, c) })
	b, err := codec.NewEncoder(tree.ID().String()).Encode(changes)
	require.NoError(t, err)
	return b
}

func TestSaveLoad(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	tree := ui.NewStateTree()
	n := ui.NewStateNode()
	ui.Children(tree.Root()).Append(n)
	ui.Config(n).Put("k", ui.String("v"))
	b := snapshotOf(t, tree)
	id := tree.ID().String()

	require.NoError(t, s.Save(id, b))
	got, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, b.Checksum, got.Checksum)
	assert.Equal(t, b.Tree, got.Tree)
	assert.Len(t, got.Changes, len(b.Changes))

	info, err := s.Info(id)
	require.NoError(t, err)
	assert.Equal(t, id, info.Tree)
	assert.Equal(t, len(b.Changes), info.Changes)
	assert.Positive(t, info.Size)

	ui.Config(n).Put("k", ui.String("w"))
	require.NoError(t, s.Save(id, snapshotOf(t, tree)))
	infos, err := s.List()
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestListAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	trees := []*ui.StateTree{ui.NewStateTree(), ui.NewStateTree()}
	for _, tree := range trees {
		require.NoError(t, s.Save(tree.ID().String(), snapshotOf(t, tree)))
	}
	infos, err := s.List()
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	require.NoError(t, s.Delete(trees[0].ID().String()))
	_, err = s.Load(trees[0].ID().String())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Info(trees[0].ID().String())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	infos, err = s.List()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, trees[1].ID().String(), infos[0].Tree)
}
