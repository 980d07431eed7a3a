package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gonewx/expandedstorage/pkg/animation"
	"github.com/gonewx/expandedstorage/pkg/app"
	"github.com/gonewx/expandedstorage/pkg/components"
	"github.com/gonewx/expandedstorage/pkg/config"
	"github.com/gonewx/expandedstorage/pkg/ecs"
	"github.com/gonewx/expandedstorage/pkg/embedded"
	"github.com/gonewx/expandedstorage/pkg/entities"
	"github.com/gonewx/expandedstorage/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session 一次命令执行所需的全部组件
type session struct {
	cfg     *config.ModConfig
	logger  *zap.Logger
	catalog *config.Catalog
	mod     *app.Mod
}

func openSession() (*session, error) {
	cfg, err := config.LoadModConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if catalogPath != "" {
		cfg.CatalogPath = catalogPath
	}
	if verbose {
		cfg.LogAmount = config.LogAmountMore
	}

	logger, err := app.NewLogger(cfg.LogAmount)
	if err != nil {
		return nil, err
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	var manager *gdata.Manager
	if !memoryOnly {
		manager, err = gdata.Open(gdata.Config{AppName: cfg.AppName})
		if err != nil {
			// 降级为内存模式，覆盖配置不会被保存
			logger.Warn("无法打开持久化存储，使用内存模式", zap.Error(err))
			manager = nil
		}
	}

	overrides, err := config.NewOverrideStore(manager, logger)
	if err != nil {
		return nil, err
	}

	reload := func(asset string) {
		logger.Info("请求重新构建元数据资源", zap.String("asset", asset))
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		mod:     app.New(cfg, catalog, overrides, logger, reload),
	}, nil
}

func loadCatalog(cfg *config.ModConfig) (*config.Catalog, error) {
	if cfg.CatalogPath != "" {
		return config.LoadCatalog(cfg.MetadataAsset, cfg.CatalogPath)
	}
	data, err := embedded.ReadFile(embedded.SampleCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("读取内置目录失败: %w", err)
	}
	return config.ParseCatalog(cfg.MetadataAsset, data)
}

func (s *session) close() {
	_ = s.mod.Close()
}

// ids 命令参数为空时返回目录中的全部物品
func (s *session) ids(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return s.catalog.IDs()
}

func (s *session) displayName(id string) string {
	item, ok := s.catalog.Item(id)
	if !ok {
		return "?"
	}
	if item.DisplayName != "" {
		return item.DisplayName
	}
	return item.Name
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [item-id...]",
		Short: "显示物品的有效配置",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			for _, id := range s.ids(args) {
				p, ok := s.mod.TryResolve(id)
				if !ok {
					fmt.Fprintf(out, "[%s] %s: not managed\n", id, s.displayName(id))
					continue
				}
				fmt.Fprintf(out, "[%s] %s\n", id, s.displayName(id))
				fmt.Fprint(out, indent(p.Summary()))
			}
			return nil
		},
	}
}

func newSimulateCmd() *cobra.Command {
	var (
		nearTicks int
		awayTicks int
		opened    bool
	)

	cmd := &cobra.Command{
		Use:   "simulate <item-id>",
		Short: "模拟玩家靠近再离开时的盖子动画",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			id := args[0]
			if _, ok := s.mod.TryResolve(id); !ok {
				return fmt.Errorf("item %s is not managed", id)
			}
			runSimulation(cmd.OutOrStdout(), s, id, nearTicks, awayTicks, opened)
			return nil
		},
	}

	cmd.Flags().IntVar(&nearTicks, "near", 30, "玩家停留在旁边的 tick 数")
	cmd.Flags().IntVar(&awayTicks, "away", 30, "玩家离开后的 tick 数")
	cmd.Flags().BoolVar(&opened, "open", false, "玩家停留期间打开箱子（没有 OpenNearby 的物品只在打开时开盖）")
	return cmd
}

func runSimulation(out io.Writer, s *session, id string, nearTicks, awayTicks int, opened bool) {
	em := ecs.NewEntityManager()
	proximity := systems.NewProximitySystem(em, systems.DefaultProximityRadius)
	lids := systems.NewLidAnimationSystem(em, s.mod.Cache(), s.mod.Hooks(), func(_ ecs.EntityID, sound string) {
		fmt.Fprintf(out, "  ♪ %s\n", sound)
	}, s.cfg.TicksPerFrame, s.logger)

	entity := entities.NewStorageEntity(em, id, 0, 0, s.cfg.TicksPerFrame)

	lid, _ := ecs.GetComponent[*components.LidAnimationComponent](em, entity)
	total := nearTicks + awayTicks
	for tick := 0; tick < total; tick++ {
		// 前半段玩家站在箱子旁，后半段走开
		if tick < nearTicks {
			proximity.Update(0, 1)
			lid.Opened = opened
		} else {
			proximity.Update(10, 10)
			lid.Opened = false
		}
		lids.Update(uint64(tick))

		seconds := float64(tick) / ebiten.DefaultTPS
		fmt.Fprintf(out, "tick %3d (%5.2fs)  near=%-5t frame=%d  %s\n", tick, seconds, lid.Proximity, lid.Frame, stateName(lid.Machine))
	}
}

func stateName(m *animation.Machine) string {
	if m == nil {
		return animation.StateIdle.String()
	}
	return m.State().String()
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "为所有参与的物品创建用户覆盖条目并保存",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			managed := 0
			for _, id := range s.catalog.IDs() {
				if _, ok := s.mod.TryResolve(id); ok {
					managed++
				}
			}
			if err := s.mod.OnConfigChanged(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "managed items: %d, new override entries: %d\n", managed, s.mod.Resolver().Seeded())
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "清空所有用户覆盖设置",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			s.mod.ResetConfig()
			if err := s.mod.OnConfigChanged(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %d override entries\n", s.mod.Overrides().Len())
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [item-id...]",
		Short: "检查元数据和用户覆盖中无法解析的字段",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			r := s.mod.Resolver()
			problems := 0
			for _, id := range s.ids(args) {
				if !r.Eligible(id) {
					continue
				}
				for _, key := range r.MetadataProfile(id).Invalid() {
					fmt.Fprintf(out, "[%s] metadata %s%s is malformed\n", id, s.cfg.AttributePrefix, key)
					problems++
				}
				for _, key := range r.OverrideProfile(id).Invalid() {
					fmt.Fprintf(out, "[%s] override %s is malformed\n", id, key)
					problems++
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d malformed fields", problems)
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func indent(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	return "  " + strings.Join(lines, "\n  ") + "\n"
}
