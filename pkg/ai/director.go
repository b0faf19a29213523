package ai

import (
	"container/list"

	"bombquest/pkg/core"
)

// Director 敌人决策层，实现 core.EnemyController
// 一局一个实例：危险场每帧只重算一次，所有敌人共享
type Director struct {
	danger      DangerField
	dangerFrame int32
}

// NewDirector 创建敌人决策层
func NewDirector() *Director {
	return &Director{dangerFrame: -1}
}

// Decide 给出敌人本帧的行动意图
// 逃命优先：身处危险格时任何种类的敌人都先撤到安全格
func (d *Director) Decide(game *core.Game, e *core.Enemy) core.EnemyIntent {
	if game.CurrentFrame != d.dangerFrame {
		d.danger.Update(game)
		d.dangerFrame = game.CurrentFrame
	}

	pos := e.GridPos()
	if d.danger.InDanger(pos.GridX, pos.GridY) {
		if intent, ok := d.decideEvade(game, e, pos); ok {
			return intent
		}
		// 无路可逃，按本性行动
	} else {
		e.EvadeTarget = nil
	}

	return d.decideByKind(game, e)
}

// decideEvade 撤离危险区：BFS 找最近的安全格并走向它
func (d *Director) decideEvade(game *core.Game, e *core.Enemy, pos core.GridPos) (core.EnemyIntent, bool) {
	// 已有逃生目标且仍然安全就沿用，避免在两个目标之间抖动
	if e.EvadeTarget != nil {
		t := *e.EvadeTarget
		if !d.danger.InDanger(t.GridX, t.GridY) && walkableForPath(game, t.GridX, t.GridY, e.CanPassBlocks) {
			if pos == t {
				e.EvadeTarget = nil
				return core.EnemyIntent{}, true
			}
			if next, ok := NextStepToward(game, pos, t, e.CanPassBlocks); ok {
				return stepIntent(e, pos, next), true
			}
		}
		e.EvadeTarget = nil
	}

	target, ok := d.nearestSafeCell(game, pos, e.CanPassBlocks)
	if !ok {
		return core.EnemyIntent{}, false
	}
	e.EvadeTarget = &target
	if next, ok := NextStepToward(game, pos, target, e.CanPassBlocks); ok {
		return stepIntent(e, pos, next), true
	}
	e.EvadeTarget = nil
	return core.EnemyIntent{}, false
}

// nearestSafeCell 从当前位置 BFS 找最近的安全可走格
func (d *Director) nearestSafeCell(game *core.Game, start core.GridPos, passBlocks bool) (core.GridPos, bool) {
	queue := list.New()
	queue.PushBack(start)
	visited := map[core.GridPos]bool{start: true}

	for queue.Len() > 0 {
		pos := queue.Remove(queue.Front()).(core.GridPos)
		if !d.danger.InDanger(pos.GridX, pos.GridY) {
			return pos, true
		}
		for _, dir := range core.CardinalDirections {
			dx, dy := dir.Delta()
			next := core.GridPos{GridX: pos.GridX + dx, GridY: pos.GridY + dy}
			if visited[next] {
				continue
			}
			if !walkableForPath(game, next.GridX, next.GridY, passBlocks) {
				continue
			}
			visited[next] = true
			queue.PushBack(next)
		}
	}
	return core.GridPos{}, false
}
