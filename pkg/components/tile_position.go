package components

// TilePositionComponent 实例所在的格子坐标
type TilePositionComponent struct {
	X, Y int
}
