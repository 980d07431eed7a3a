package entities

import (
	"testing"

	"github.com/gonewx/expandedstorage/pkg/animation"
	"github.com/gonewx/expandedstorage/pkg/components"
	"github.com/gonewx/expandedstorage/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewStorageEntity(em, "216", 3, 4, 0)

	pos, ok := ecs.GetComponent[*components.TilePositionComponent](em, id)
	require.True(t, ok)
	assert.Equal(t, 3, pos.X)
	assert.Equal(t, 4, pos.Y)

	lid, ok := ecs.GetComponent[*components.LidAnimationComponent](em, id)
	require.True(t, ok)
	assert.Equal(t, "216", lid.ItemID)
	require.NotNil(t, lid.Machine)
	assert.Equal(t, animation.StateIdle, lid.Machine.State())
	assert.Equal(t, 0, lid.Frame)
}
