// Package animation 实现存储物品盖子动画的帧状态机
//
// 每个显示中的实例持有一个 Machine，每个 tick 调用一次 Step。
// 内部计数以 tick 为单位，显示帧 = 计数 / 每帧 tick 数。
package animation

import "github.com/gonewx/expandedstorage/pkg/profile"

// DefaultTicksPerFrame 每个动画帧持续的 tick 数
const DefaultTicksPerFrame = 5

// State 动画状态
type State int

const (
	// StateIdle 停在第 0 帧
	StateIdle State = iota
	// StateAdvancing 向最后一帧推进
	StateAdvancing
	// StateRetreating 向第 0 帧回退
	StateRetreating
	// StateLooping 循环播放
	StateLooping
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateAdvancing:
		return "Advancing"
	case StateRetreating:
		return "Retreating"
	case StateLooping:
		return "Looping"
	default:
		return "Idle"
	}
}

// Cue 触发条件变化时的音效提示
type Cue int

const (
	CueNone  Cue = iota
	CueOpen      // 触发条件开始成立
	CueClose     // 触发条件不再成立
)

// Params 状态机从配置中读取的参数
type Params struct {
	Frames     int
	Mode       profile.AnimationMode
	OpenNearby bool
}

// ParamsFrom 从有效配置中提取动画参数
func ParamsFrom(p *profile.Profile) Params {
	return Params{
		Frames:     p.Frames(),
		Mode:       p.Animation(),
		OpenNearby: p.OpenNearby(),
	}
}

// Machine 单个显示实例的动画状态
type Machine struct {
	ticksPerFrame int
	counter       int
	state         State
	cue           Cue
	proximity     bool // 上一次 Step 的触发条件
}

// NewMachine 创建状态机
// ticksPerFrame 小于 1 时使用 DefaultTicksPerFrame
func NewMachine(ticksPerFrame int) *Machine {
	if ticksPerFrame < 1 {
		ticksPerFrame = DefaultTicksPerFrame
	}
	return &Machine{ticksPerFrame: ticksPerFrame}
}

// Step 推进一个 tick 并返回显示帧
//
// 参数：
//   - p: 动画参数
//   - tick: 全局 tick 计数（循环模式直接由它决定帧）
//   - proximity: 触发条件（如玩家在附近）当前是否成立
//
// 返回：
//   - int: 显示帧，范围 [0, Frames-1]
func (m *Machine) Step(p Params, tick uint64, proximity bool) int {
	wasNear := m.proximity
	m.proximity = proximity
	m.cue = CueNone

	if p.Frames <= 1 {
		m.counter = 0
		m.state = StateIdle
		return 0
	}

	switch {
	case p.Mode == profile.AnimationLoop && (!p.OpenNearby || proximity):
		period := uint64(p.Frames * m.ticksPerFrame)
		m.counter = int(tick % period)
		m.state = StateLooping
	case proximity:
		m.counter = min(m.counter+1, (p.Frames-1)*m.ticksPerFrame)
		m.state = StateAdvancing
	default:
		m.counter = max(m.counter-1, 0)
		if m.counter > 0 {
			m.state = StateRetreating
		} else {
			m.state = StateIdle
		}
	}

	// 提示只跟随触发条件的边沿，与动画状态无关，开合总是成对出现
	switch {
	case proximity && !wasNear:
		m.cue = CueOpen
	case !proximity && wasNear:
		m.cue = CueClose
	}

	return m.Frame(p.Frames)
}

// Frame 返回当前显示帧，限制在 [0, frames-1]
func (m *Machine) Frame(frames int) int {
	if frames <= 1 {
		return 0
	}
	return min(max(m.counter/m.ticksPerFrame, 0), frames-1)
}

// Counter 返回内部 tick 计数
func (m *Machine) Counter() int {
	return m.counter
}

// State 返回当前状态
func (m *Machine) State() State {
	return m.state
}

// Cue 返回最近一次 Step 产生的音效提示
// 帧数 ≤ 1 时没有盖子动画，不产生提示
func (m *Machine) Cue() Cue {
	return m.cue
}

// Reset 回到第 0 帧
func (m *Machine) Reset() {
	m.counter = 0
	m.state = StateIdle
	m.cue = CueNone
	m.proximity = false
}
