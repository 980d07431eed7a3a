package entities

import (
	"github.com/gonewx/expandedstorage/pkg/animation"
	"github.com/gonewx/expandedstorage/pkg/components"
	"github.com/gonewx/expandedstorage/pkg/ecs"
)

// NewStorageEntity 创建一个存储物品的显示实例
//
// 参数:
//   - em: 实体管理器
//   - itemID: 物品 id
//   - x, y: 格子坐标
//   - ticksPerFrame: 每个动画帧持续的 tick 数
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
func NewStorageEntity(em *ecs.EntityManager, itemID string, x, y, ticksPerFrame int) ecs.EntityID {
	entityID := em.CreateEntity()

	ecs.AddComponent(em, entityID, &components.TilePositionComponent{X: x, Y: y})
	ecs.AddComponent(em, entityID, &components.LidAnimationComponent{
		ItemID:  itemID,
		Machine: animation.NewMachine(ticksPerFrame),
	})

	return entityID
}
