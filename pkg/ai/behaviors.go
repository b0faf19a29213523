package ai

import (
	"math"

	"bombquest/pkg/core"
)

// 行为参数（帧）
const (
	wanderHoldFrames     = 45  // 游荡方向保持时间
	chaserRepathInterval = 15  // 追击者重新寻路的间隔
	chaseRadius          = 8   // 追击半径，超出后改为游荡
	teleportInterval     = 300 // 传送怪的传送周期
	teleportMinDistance  = 3   // 传送落点与玩家的最小曼哈顿距离
	teleportTriggerRange = 2   // 玩家贴身到这个距离才触发传送
	chargerSightRange    = 7   // 冲锋怪的直线视野
	chargeSpeedFactor    = 2.5 // 冲锋速度倍率
	bomberSafeDistance   = 3   // 爆破手与玩家保持的距离
	shieldTriggerRange   = 2   // 护盾怪感知炸弹的半径
)

// decideByKind 按敌人种类分派行为
func (d *Director) decideByKind(game *core.Game, e *core.Enemy) core.EnemyIntent {
	switch e.Kind {
	case core.EnemyChaser:
		return d.decideChaser(game, e)
	case core.EnemyGhost:
		return d.decideGhost(game, e)
	case core.EnemyBomber:
		return d.decideBomber(game, e)
	case core.EnemyCharger:
		return d.decideCharger(game, e)
	case core.EnemyTeleporter:
		return d.decideTeleporter(game, e)
	case core.EnemyShielder:
		return d.decideShielder(game, e)
	default:
		// 游荡怪和分裂怪都走随机游荡
		return d.decideWander(game, e)
	}
}

// decideWander 随机游荡：保持方向一段时间，撞墙或超时换向
func (d *Director) decideWander(game *core.Game, e *core.Enemy) core.EnemyIntent {
	frame := game.CurrentFrame
	pos := e.GridPos()

	if e.WanderDir != core.DirNone && frame < e.WanderUntil {
		if d.canStep(game, pos, e.WanderDir, e.CanPassBlocks) {
			return moveIntent(e, e.WanderDir, e.Speed)
		}
	}

	dirs := d.walkableDirections(game, pos, e.CanPassBlocks)
	if len(dirs) == 0 {
		e.WanderDir = core.DirNone
		return core.EnemyIntent{}
	}
	// 尽量不走回头路
	if len(dirs) > 1 && e.WanderDir != core.DirNone {
		back := e.WanderDir.Opposite()
		filtered := dirs[:0]
		for _, dir := range dirs {
			if dir != back {
				filtered = append(filtered, dir)
			}
		}
		if len(filtered) > 0 {
			dirs = filtered
		}
	}
	e.WanderDir = dirs[game.RNG().Intn(len(dirs))]
	e.WanderUntil = frame + wanderHoldFrames
	return moveIntent(e, e.WanderDir, e.Speed)
}

// decideChaser 追击者：A* 追最近的玩家，玩家离得太远就游荡
func (d *Director) decideChaser(game *core.Game, e *core.Enemy) core.EnemyIntent {
	target := nearestAlivePlayer(game, e)
	if target == nil {
		return d.decideWander(game, e)
	}
	pos := e.GridPos()
	goal := core.EntityXYToGrid(target.X, target.Y)
	if core.ManhattanDistance(pos, goal) > chaseRadius {
		return d.decideWander(game, e)
	}

	next, ok := NextStepToward(game, pos, goal, false)
	if !ok {
		return d.decideWander(game, e)
	}
	return stepIntent(e, pos, next)
}

// decideGhost 幽灵：无视砖块直线漂向玩家
func (d *Director) decideGhost(game *core.Game, e *core.Enemy) core.EnemyIntent {
	target := nearestAlivePlayer(game, e)
	if target == nil {
		return d.decideWander(game, e)
	}
	dx := target.X - e.X
	dy := target.Y - e.Y
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return core.EnemyIntent{}
	}
	return core.EnemyIntent{
		MoveX:  dx / dist * e.Speed,
		MoveY:  dy / dist * e.Speed,
		Facing: dominantDirection(dx, dy),
	}
}

// decideBomber 爆破手：与玩家拉开距离，同行同列时放炸弹
func (d *Director) decideBomber(game *core.Game, e *core.Enemy) core.EnemyIntent {
	target := nearestAlivePlayer(game, e)
	if target == nil {
		return d.decideWander(game, e)
	}
	frame := game.CurrentFrame
	pos := e.GridPos()
	goal := core.EntityXYToGrid(target.X, target.Y)
	aligned := pos.GridX == goal.GridX || pos.GridY == goal.GridY
	dist := core.ManhattanDistance(pos, goal)

	intent := d.decideWander(game, e)
	if aligned && dist <= chargerSightRange && frame >= e.CooldownUntil {
		intent.PlaceBomb = true
	}
	// 离玩家太近就退开
	if dist < bomberSafeDistance {
		away := core.GridPos{GridX: pos.GridX*2 - goal.GridX, GridY: pos.GridY*2 - goal.GridY}
		if next, ok := NextStepToward(game, pos, clampPos(away), false); ok {
			step := stepIntent(e, pos, next)
			step.PlaceBomb = intent.PlaceBomb
			return step
		}
	}
	return intent
}

// decideCharger 冲锋怪：玩家进入同轴视野就直线冲锋，撞墙硬直（由引擎处理）
func (d *Director) decideCharger(game *core.Game, e *core.Enemy) core.EnemyIntent {
	// 冲锋进行中：沿锁定方向全速前进
	if e.State == core.EnemyAttacking && e.ChargeDir != core.DirNone {
		return moveIntent(e, e.ChargeDir, e.Speed*chargeSpeedFactor)
	}

	target := nearestAlivePlayer(game, e)
	if target != nil {
		pos := e.GridPos()
		goal := core.EntityXYToGrid(target.X, target.Y)
		if dir, ok := d.lineOfSight(game, pos, goal); ok {
			e.State = core.EnemyAttacking
			e.ChargeDir = dir
			return moveIntent(e, dir, e.Speed*chargeSpeedFactor)
		}
	}
	e.State = core.EnemyMoving
	e.ChargeDir = core.DirNone
	return d.decideWander(game, e)
}

// decideTeleporter 传送怪：玩家贴身且冷却结束时闪现到远处的随机可走格
func (d *Director) decideTeleporter(game *core.Game, e *core.Enemy) core.EnemyIntent {
	frame := game.CurrentFrame
	target := nearestAlivePlayer(game, e)
	if target != nil && frame >= e.CooldownUntil {
		pos := e.GridPos()
		goal := core.EntityXYToGrid(target.X, target.Y)
		if core.ManhattanDistance(pos, goal) <= teleportTriggerRange {
			avoid := make([]core.GridPos, 0, len(game.Players))
			for _, p := range game.Players {
				avoid = append(avoid, core.EntityXYToGrid(p.X, p.Y))
			}
			if cell, ok := game.Grid.RandomWalkableCell(game.RNG(), avoid, teleportMinDistance); ok {
				dst := cell
				return core.EnemyIntent{Teleport: &dst}
			}
			// 找不到落点，本轮放弃，过段时间再试
			e.CooldownUntil = frame + teleportInterval/2
		}
	}
	return d.decideWander(game, e)
}

// decideShielder 护盾怪：缓慢追击，附近出现炸弹且冷却结束就举盾
func (d *Director) decideShielder(game *core.Game, e *core.Enemy) core.EnemyIntent {
	frame := game.CurrentFrame
	intent := d.decideChaser(game, e)

	if !e.Shielded && frame >= e.CooldownUntil {
		pos := e.GridPos()
		for _, b := range game.Bombs {
			if b.Detonated {
				continue
			}
			if core.ManhattanDistance(pos, core.GridPos{GridX: b.GridX, GridY: b.GridY}) <= shieldTriggerRange {
				intent.RaiseShield = true
				break
			}
		}
	}
	return intent
}

// lineOfSight 两点是否在同一行/列且中间无遮挡，返回朝向
func (d *Director) lineOfSight(game *core.Game, from, to core.GridPos) (core.Direction, bool) {
	if from.GridX != to.GridX && from.GridY != to.GridY {
		return core.DirNone, false
	}
	if from == to {
		return core.DirNone, false
	}
	dist := core.ManhattanDistance(from, to)
	if dist > chargerSightRange {
		return core.DirNone, false
	}

	var dir core.Direction
	switch {
	case to.GridX > from.GridX:
		dir = core.DirRight
	case to.GridX < from.GridX:
		dir = core.DirLeft
	case to.GridY > from.GridY:
		dir = core.DirDown
	default:
		dir = core.DirUp
	}
	dx, dy := dir.Delta()
	for i := 1; i < dist; i++ {
		if game.Grid.TileAt(from.GridX+dx*i, from.GridY+dy*i) != core.TileEmpty {
			return core.DirNone, false
		}
	}
	return dir, true
}

// canStep 指定方向的相邻格是否可走
func (d *Director) canStep(game *core.Game, pos core.GridPos, dir core.Direction, passBlocks bool) bool {
	dx, dy := dir.Delta()
	return walkableForPath(game, pos.GridX+dx, pos.GridY+dy, passBlocks)
}

// walkableDirections 所有可走的方向
func (d *Director) walkableDirections(game *core.Game, pos core.GridPos, passBlocks bool) []core.Direction {
	result := make([]core.Direction, 0, 4)
	for _, dir := range core.CardinalDirections {
		if d.canStep(game, pos, dir, passBlocks) {
			result = append(result, dir)
		}
	}
	return result
}

// moveIntent 沿方向匀速移动的意图
func moveIntent(e *core.Enemy, dir core.Direction, speed float64) core.EnemyIntent {
	dx, dy := dir.Delta()
	return core.EnemyIntent{
		MoveX:  float64(dx) * speed,
		MoveY:  float64(dy) * speed,
		Facing: dir,
	}
}

// stepIntent 朝相邻目标格中心移动的意图
func stepIntent(e *core.Enemy, from, to core.GridPos) core.EnemyIntent {
	tx, ty := core.GridToEntityXY(to.GridX, to.GridY)
	dx := tx - e.X
	dy := ty - e.Y
	// 先对齐偏差大的轴，避免卡在格子边缘
	if math.Abs(dx) >= math.Abs(dy) {
		return core.EnemyIntent{MoveX: clampStep(dx, e.Speed), Facing: dominantDirection(dx, 0)}
	}
	return core.EnemyIntent{MoveY: clampStep(dy, e.Speed), Facing: dominantDirection(0, dy)}
}

func clampStep(delta, speed float64) float64 {
	if delta > speed {
		return speed
	}
	if delta < -speed {
		return -speed
	}
	return delta
}

// dominantDirection 位移的主方向
func dominantDirection(dx, dy float64) core.Direction {
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return core.DirRight
		}
		return core.DirLeft
	}
	if dy >= 0 {
		return core.DirDown
	}
	return core.DirUp
}

// nearestAlivePlayer 最近的存活玩家
func nearestAlivePlayer(game *core.Game, e *core.Enemy) *core.Player {
	var best *core.Player
	bestDist := math.MaxFloat64
	for _, p := range game.Players {
		if !p.Alive {
			continue
		}
		dist := math.Hypot(p.X-e.X, p.Y-e.Y)
		if dist < bestDist {
			bestDist = dist
			best = p
		}
	}
	return best
}

// clampPos 把坐标夹回地图范围
func clampPos(pos core.GridPos) core.GridPos {
	if pos.GridX < 1 {
		pos.GridX = 1
	}
	if pos.GridX > core.MapWidth-2 {
		pos.GridX = core.MapWidth - 2
	}
	if pos.GridY < 1 {
		pos.GridY = 1
	}
	if pos.GridY > core.MapHeight-2 {
		pos.GridY = core.MapHeight - 2
	}
	return pos
}
