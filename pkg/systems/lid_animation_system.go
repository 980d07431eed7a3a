package systems

import (
	"github.com/gonewx/expandedstorage/pkg/animation"
	"github.com/gonewx/expandedstorage/pkg/components"
	"github.com/gonewx/expandedstorage/pkg/ecs"
	"github.com/gonewx/expandedstorage/pkg/hooks"
	"github.com/gonewx/expandedstorage/pkg/profile"
	"go.uber.org/zap"
)

// ProfileLookup 按物品 id 查询有效配置（由 cache.Cache 实现）
type ProfileLookup interface {
	TryResolve(id string) (*profile.Profile, bool)
}

// CueFunc 动画产生开合提示时的回调，sound 为经过钩子替换后的音效键
type CueFunc func(id ecs.EntityID, sound string)

// LidAnimationSystem 每个 tick 推进所有显示实例的盖子动画
type LidAnimationSystem struct {
	entityManager *ecs.EntityManager
	lookup        ProfileLookup
	dispatcher    *hooks.Dispatcher
	onCue         CueFunc
	ticksPerFrame int
	logger        *zap.Logger
}

// NewLidAnimationSystem 创建盖子动画系统
//
// 参数:
//   - em: 实体管理器
//   - lookup: 有效配置查询
//   - dispatcher: 钩子分发器，可为 nil（不替换音效）
//   - onCue: 开合提示回调，可为 nil
//   - ticksPerFrame: 组件缺少状态机时新建状态机使用的每帧 tick 数
//   - logger: 日志，可为 nil
func NewLidAnimationSystem(em *ecs.EntityManager, lookup ProfileLookup, dispatcher *hooks.Dispatcher, onCue CueFunc, ticksPerFrame int, logger *zap.Logger) *LidAnimationSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ticksPerFrame < 1 {
		ticksPerFrame = animation.DefaultTicksPerFrame
	}
	return &LidAnimationSystem{
		entityManager: em,
		lookup:        lookup,
		dispatcher:    dispatcher,
		onCue:         onCue,
		ticksPerFrame: ticksPerFrame,
		logger:        logger.Named("LidAnimationSystem"),
	}
}

// Update 推进一个 tick
//
// 触发条件为：宿主打开了实例，或物品配置了 OpenNearby 且玩家在附近。
// 普通物品只在被打开时开盖。没有有效配置的实例保持在第 0 帧。
func (s *LidAnimationSystem) Update(tick uint64) {
	for _, id := range ecs.GetEntitiesWith1[*components.LidAnimationComponent](s.entityManager) {
		lid, _ := ecs.GetComponent[*components.LidAnimationComponent](s.entityManager, id)
		if lid.Machine == nil {
			lid.Machine = animation.NewMachine(s.ticksPerFrame)
		}

		p, ok := s.lookup.TryResolve(lid.ItemID)
		if !ok {
			lid.Machine.Reset()
			lid.Frame = 0
			continue
		}

		params := animation.ParamsFrom(p)
		trigger := lid.Opened || (params.OpenNearby && lid.Proximity)
		lid.Frame = lid.Machine.Step(params, tick, trigger)
		s.playCue(id, lid)
	}
}

func (s *LidAnimationSystem) playCue(id ecs.EntityID, lid *components.LidAnimationComponent) {
	var canonical string
	switch lid.Machine.Cue() {
	case animation.CueOpen:
		canonical = hooks.SoundLidOpen
	case animation.CueClose:
		canonical = hooks.SoundLidClose
	default:
		return
	}

	sound := canonical
	if s.dispatcher != nil {
		sound = s.dispatcher.ResolveSound(canonical, lid.ItemID)
	}
	s.logger.Debug("盖子动画提示", zap.Uint64("entity", uint64(id)), zap.String("sound", sound))
	if s.onCue != nil {
		s.onCue(id, sound)
	}
}
