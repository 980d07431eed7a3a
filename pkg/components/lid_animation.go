package components

import "github.com/gonewx/expandedstorage/pkg/animation"

// LidAnimationComponent 存储物品显示实例的盖子动画状态
// 每个实例独占一个 Machine，实例销毁时随组件一起释放
type LidAnimationComponent struct {
	ItemID    string             // 物品 id，用于查询有效配置
	Machine   *animation.Machine // 动画状态机
	Proximity bool               // 玩家是否在附近，由 ProximitySystem 写入
	Opened    bool               // 宿主是否打开了该实例（玩家交互），由宿主写入
	Frame     int                // 当前显示帧（相对 0）
}
