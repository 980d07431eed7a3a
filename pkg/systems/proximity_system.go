package systems

import (
	"github.com/gonewx/expandedstorage/pkg/components"
	"github.com/gonewx/expandedstorage/pkg/ecs"
)

// DefaultProximityRadius 玩家距离实例不超过该格数时视为在附近
const DefaultProximityRadius = 1

// ProximitySystem 根据玩家位置更新实例的触发条件
type ProximitySystem struct {
	entityManager *ecs.EntityManager
	radius        int
}

// NewProximitySystem 创建距离检测系统，radius 小于 0 时使用 DefaultProximityRadius
func NewProximitySystem(em *ecs.EntityManager, radius int) *ProximitySystem {
	if radius < 0 {
		radius = DefaultProximityRadius
	}
	return &ProximitySystem{entityManager: em, radius: radius}
}

// Update 按玩家所在格子刷新所有实例的 Proximity
// 水平和垂直方向的格子距离都不超过 radius 时成立
func (s *ProximitySystem) Update(playerX, playerY int) {
	for _, id := range ecs.GetEntitiesWith2[*components.TilePositionComponent, *components.LidAnimationComponent](s.entityManager) {
		pos, _ := ecs.GetComponent[*components.TilePositionComponent](s.entityManager, id)
		lid, _ := ecs.GetComponent[*components.LidAnimationComponent](s.entityManager, id)

		dx := abs(playerX - pos.X)
		dy := abs(playerY - pos.Y)
		lid.Proximity = max(dx, dy) <= s.radius
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
