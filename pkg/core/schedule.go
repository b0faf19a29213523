package core

// scheduledKind 延迟事件种类
type scheduledKind int

const (
	scheduleDetonate scheduledKind = iota // 连锁引爆
	scheduleSplit                         // 分裂怪死亡后生成子体
)

// scheduledEvent 挂在帧边界处理的延迟事件
// 取代独立定时器回调：全部变更都发生在模拟线程上，顺序确定、可测试
// 目标实体可能在事件到期前已被移除，处理时必须安全地空操作
type scheduledEvent struct {
	Frame int32
	Kind  scheduledKind

	BombID int // scheduleDetonate

	SplitKind  EnemyKind // scheduleSplit
	SplitCells []GridPos
	SplitSpeed float64
	SplitPts   int
}

// scheduleAt 在指定帧挂一个延迟事件
func (g *Game) scheduleAt(ev scheduledEvent) {
	g.schedule = append(g.schedule, ev)
}

// runSchedule 处理所有到期的延迟事件
func (g *Game) runSchedule() {
	if len(g.schedule) == 0 {
		return
	}

	pending := g.schedule[:0]
	due := make([]scheduledEvent, 0, len(g.schedule))
	for _, ev := range g.schedule {
		if ev.Frame <= g.CurrentFrame {
			due = append(due, ev)
		} else {
			pending = append(pending, ev)
		}
	}
	g.schedule = pending

	for _, ev := range due {
		switch ev.Kind {
		case scheduleDetonate:
			// 炸弹可能已被别的链条先引爆或随房间清理掉，此时静默忽略
			if b := g.bombByID(ev.BombID); b != nil {
				g.DetonateBomb(b)
			}

		case scheduleSplit:
			for _, cell := range ev.SplitCells {
				if !g.Grid.IsWalkable(cell.GridX, cell.GridY, false) {
					continue
				}
				child := g.spawnEnemy(ev.SplitKind, cell.GridX, cell.GridY)
				child.Speed = ev.SplitSpeed
				child.Points = ev.SplitPts
			}
		}
	}
}
