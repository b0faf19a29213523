package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"bombquest/internal/level"
	"bombquest/pkg/ai"
	"bombquest/pkg/core"
)

var (
	flagLevel    string
	flagSeconds  int
	flagSeed     int64
	flagSurvival bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "无界面跑一局并打印事件流",
	Long: `加载关卡后以固定步长推进模拟，把引擎事件打印到标准输出。
没有任何玩家输入，主要用于观察敌人 AI 与关卡节奏。

Examples:
  bombquest simulate --level world1-1 --seconds 30
  bombquest simulate --level survival-arena --survival --seed 42`,
	Run: runSimulate,
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "列出内置关卡",
	Run: func(_ *cobra.Command, _ []string) {
		ids, err := level.List()
		if err != nil {
			log.Fatalf("读取关卡失败: %v", err)
		}
		for _, id := range ids {
			fmt.Println(id)
		}
	},
}

func init() {
	simulateCmd.Flags().StringVar(&flagLevel, "level", "world1-1", "关卡 ID")
	simulateCmd.Flags().IntVar(&flagSeconds, "seconds", 30, "模拟时长（秒）")
	simulateCmd.Flags().Int64Var(&flagSeed, "seed", 1, "随机种子")
	simulateCmd.Flags().BoolVar(&flagSurvival, "survival", false, "生存模式（清场后刷下一波）")
}

func runSimulate(_ *cobra.Command, _ []string) {
	ld, err := level.Load(flagLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载关卡失败: %v\n", err)
		os.Exit(1)
	}

	mode := core.ModeCampaign
	if flagSurvival {
		mode = core.ModeSurvival
	}
	game := core.NewGame(flagSeed, mode)
	game.Director = ai.NewDirector()
	game.AddPlayer("观察者")

	if err := game.LoadLevel(ld); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log.Printf("模拟开始: 关卡 %s, 模式 %s, %d 秒", ld.ID, mode, flagSeconds)

	frames := flagSeconds * core.TPS
	for i := 0; i < frames; i++ {
		game.Step()
		for _, ev := range game.DrainEvents() {
			fmt.Printf("[%6d] %s\n", ev.Frame, describeEvent(ev))
		}
		if game.Phase == core.PhaseGameOver || game.Phase == core.PhaseVictory {
			break
		}
	}

	snap := game.Snapshot()
	log.Printf("模拟结束: 帧 %d, 敌人剩余 %d, 炸弹在场 %d", snap.Frame, len(snap.Enemies), len(snap.Bombs))
}

// describeEvent 把事件转成一行可读文本
func describeEvent(ev core.Event) string {
	switch ev.Kind {
	case core.EventBombPlaced:
		e := ev.BombPlaced
		return fmt.Sprintf("bomb_placed id=%d owner=%d (%d,%d)", e.BombID, e.PlayerID, e.GridX, e.GridY)
	case core.EventBombExploded:
		e := ev.BombExploded
		return fmt.Sprintf("bomb_exploded id=%d tiles=%d chained=%d", e.BombID, e.Tiles, e.Chained)
	case core.EventBlockDestroyed:
		e := ev.BlockDestroyed
		return fmt.Sprintf("block_destroyed (%d,%d)", e.GridX, e.GridY)
	case core.EventPowerUpSpawned:
		e := ev.PowerUpSpawned
		return fmt.Sprintf("powerup_spawned id=%d type=%s (%d,%d)", e.PowerUpID, e.Type, e.GridX, e.GridY)
	case core.EventPowerUpCollected:
		e := ev.PowerUpCollected
		return fmt.Sprintf("powerup_collected id=%d type=%s player=%d", e.PowerUpID, e.Type, e.PlayerID)
	case core.EventEnemyKilled:
		e := ev.EnemyKilled
		return fmt.Sprintf("enemy_killed id=%d kind=%s by=%d +%d", e.EnemyID, e.Kind, e.ByPlayer, e.Points)
	case core.EventPlayerDamaged:
		e := ev.PlayerDamaged
		return fmt.Sprintf("player_damaged id=%d lives=%d", e.PlayerID, e.LivesLeft)
	case core.EventPlayerDied:
		return fmt.Sprintf("player_died id=%d", ev.PlayerDied.PlayerID)
	case core.EventBossAttack:
		e := ev.BossAttack
		return fmt.Sprintf("boss_attack pattern=%s", e.Pattern)
	case core.EventBossDamaged:
		e := ev.BossDamaged
		return fmt.Sprintf("boss_damaged hp=%d phase=%d", e.Health, e.Phase)
	case core.EventBossDefeated:
		return fmt.Sprintf("boss_defeated %s +%d", ev.BossDefeated.Name, ev.BossDefeated.Points)
	case core.EventWaveStarted:
		e := ev.WaveStarted
		return fmt.Sprintf("wave_started wave=%d enemies=%d", e.Wave, e.Enemies)
	case core.EventLevelComplete:
		e := ev.LevelComplete
		return fmt.Sprintf("level_complete %s score=%d frames=%d", e.LevelID, e.Score, e.ElapsedFrames)
	case core.EventGameOver:
		return fmt.Sprintf("game_over %s score=%d", ev.GameOver.Reason, ev.GameOver.Score)
	}
	return ev.Kind.String()
}
