package core

import "math"

// Player 玩家（纯逻辑，不包含渲染）
// 时间单位为帧（整数）
type Player struct {
	ID     int
	Name   string
	X, Y   float64 // 左上角像素位置
	Width  int
	Height int
	GridX  int // 派生的格子坐标，位置变更后同步
	GridY  int

	Direction Direction
	IsMoving  bool
	Alive     bool

	Lives       int
	Speed       float64 // 像素/帧
	MaxBombs    int
	FireRange   int
	ActiveBombs int
	BombType    BombType
	PowerUps    []PowerUpType

	Invincible      bool
	InvincibleUntil int32 // 无敌结束帧号

	Score int
	Kills int
}

// PlayerStats 可跨关卡保留的玩家属性
// 强化道具只在死亡时丢失，过关不丢失
type PlayerStats struct {
	Lives     int
	Speed     float64
	MaxBombs  int
	FireRange int
	BombType  BombType
	PowerUps  []PowerUpType
	Score     int
	Kills     int
}

// NewPlayer 在指定格子创建新玩家
func NewPlayer(id int, gridX, gridY int) *Player {
	x, y := GridToEntityXY(gridX, gridY)
	p := &Player{
		ID:        id,
		X:         x,
		Y:         y,
		Width:     EntityWidth,
		Height:    EntityHeight,
		Direction: DirDown,
		Alive:     true,
		Lives:     PlayerDefaultLives,
		Speed:     PlayerDefaultSpeed,
		MaxBombs:  PlayerDefaultMaxBombs,
		FireRange: PlayerDefaultFireRange,
		BombType:  BombNormal,
	}
	p.syncGridPos()
	return p
}

// SetPosition 设置像素位置并同步格子坐标
func (p *Player) SetPosition(x, y float64) {
	p.X = x
	p.Y = y
	p.syncGridPos()
}

func (p *Player) syncGridPos() {
	pos := EntityXYToGrid(p.X, p.Y)
	p.GridX = pos.GridX
	p.GridY = pos.GridY
}

// GridPos 玩家所在格子
func (p *Player) GridPos() GridPos {
	return GridPos{GridX: p.GridX, GridY: p.GridY}
}

// Move 分轴移动玩家，非法移动静默回退
func (p *Player) Move(dx, dy float64, g *Game) {
	if !p.Alive {
		return
	}

	res := ResolveMove(g.Grid, g.Bombs, p.X, p.Y, p.Width, p.Height, dx, dy, Capabilities{})
	if !res.MovedX && !res.MovedY && (dx == 0) != (dy == 0) {
		// 单轴移动被挡时尝试拐角修正：贴近缝隙则先在另一轴上蹭过去
		if cx, cy, ok := p.tryCornerCorrection(dx, dy, g); ok {
			res.X, res.Y = cx, cy
			res.MovedX, res.MovedY = true, true
		}
	}

	p.SetPosition(res.X, res.Y)
	p.IsMoving = res.MovedX || res.MovedY

	if dx > 0 {
		p.Direction = DirRight
	} else if dx < 0 {
		p.Direction = DirLeft
	} else if dy > 0 {
		p.Direction = DirDown
	} else if dy < 0 {
		p.Direction = DirUp
	}

	if p.IsMoving {
		p.applySoftAlign(dx, dy, g)
	}
}

// tryCornerCorrection 拐角修正：偏离格子中线不超过容错时，先对齐再通过
func (p *Player) tryCornerCorrection(dx, dy float64, g *Game) (float64, float64, bool) {
	if dx != 0 {
		targetY := p.nearestAlignedY()
		offset := targetY - p.Y
		if math.Abs(offset) > CornerCorrectionTolerance || offset == 0 {
			return 0, 0, false
		}
		step := math.Min(math.Abs(offset), math.Abs(dx))
		if offset < 0 {
			step = -step
		}
		blocked := bombBlockedCells(g.Bombs, p.X, p.Y, p.Width, p.Height)
		if canOccupyWithBombs(g.Grid, p.X, p.Y+step, p.Width, p.Height, Capabilities{}, blocked) {
			return p.X, p.Y + step, true
		}
		return 0, 0, false
	}

	targetX := p.nearestAlignedX()
	offset := targetX - p.X
	if math.Abs(offset) > CornerCorrectionTolerance || offset == 0 {
		return 0, 0, false
	}
	step := math.Min(math.Abs(offset), math.Abs(dy))
	if offset < 0 {
		step = -step
	}
	blocked := bombBlockedCells(g.Bombs, p.X, p.Y, p.Width, p.Height)
	if canOccupyWithBombs(g.Grid, p.X+step, p.Y, p.Width, p.Height, Capabilities{}, blocked) {
		return p.X + step, p.Y, true
	}
	return 0, 0, false
}

// applySoftAlign 移动时向格子中线缓慢靠拢，减少卡角
func (p *Player) applySoftAlign(dx, dy float64, g *Game) {
	if (dx == 0) == (dy == 0) {
		return
	}
	blocked := bombBlockedCells(g.Bombs, p.X, p.Y, p.Width, p.Height)

	if dx != 0 {
		offset := p.nearestAlignedY() - p.Y
		if math.Abs(offset) > CornerCorrectionTolerance {
			return
		}
		step := math.Min(math.Abs(offset), math.Abs(dx)*SoftAlignFactor)
		if step == 0 {
			return
		}
		if offset < 0 {
			step = -step
		}
		if canOccupyWithBombs(g.Grid, p.X, p.Y+step, p.Width, p.Height, Capabilities{}, blocked) {
			p.SetPosition(p.X, p.Y+step)
		}
		return
	}

	offset := p.nearestAlignedX() - p.X
	if math.Abs(offset) > CornerCorrectionTolerance {
		return
	}
	step := math.Min(math.Abs(offset), math.Abs(dy)*SoftAlignFactor)
	if step == 0 {
		return
	}
	if offset < 0 {
		step = -step
	}
	if canOccupyWithBombs(g.Grid, p.X+step, p.Y, p.Width, p.Height, Capabilities{}, blocked) {
		p.SetPosition(p.X+step, p.Y)
	}
}

func (p *Player) nearestAlignedX() float64 {
	centerX := p.X + float64(p.Width)/2
	gridX := int(math.Floor(centerX/TileSize + 0.5))
	if gridX < 0 {
		gridX = 0
	} else if gridX >= MapWidth {
		gridX = MapWidth - 1
	}
	offset := float64(TileSize-p.Width) / 2
	return float64(gridX*TileSize) + offset
}

func (p *Player) nearestAlignedY() float64 {
	centerY := p.Y + float64(p.Height)/2
	gridY := int(math.Floor(centerY/TileSize + 0.5))
	if gridY < 0 {
		gridY = 0
	} else if gridY >= MapHeight {
		gridY = MapHeight - 1
	}
	offset := float64(TileSize-p.Height) / 2
	return float64(gridY*TileSize) + offset
}

// TakeDamage 玩家受到一次伤害
// 无敌状态下不掉命；掉命后进入无敌窗口；生命归零判定死亡
// 返回是否真的受到了伤害
func (p *Player) TakeDamage(currentFrame int32) bool {
	if !p.Alive {
		return false
	}
	if p.Invincible && currentFrame < p.InvincibleUntil {
		return false
	}

	p.Lives--
	if p.Lives <= 0 {
		p.Lives = 0
		p.Alive = false
		p.resetPowerUps()
		return true
	}

	p.Invincible = true
	p.InvincibleUntil = currentFrame + InvincibleFrames
	p.resetPowerUps()
	return true
}

// resetPowerUps 死亡（掉命）时丢失全部强化，回到默认属性
// 注意：过关不会调用这里——强化只在死亡时丢失
func (p *Player) resetPowerUps() {
	p.Speed = PlayerDefaultSpeed
	p.MaxBombs = PlayerDefaultMaxBombs
	p.FireRange = PlayerDefaultFireRange
	p.BombType = BombNormal
	p.PowerUps = nil
}

// SaveStats 保存可跨关卡保留的属性
func (p *Player) SaveStats() PlayerStats {
	powerUps := make([]PowerUpType, len(p.PowerUps))
	copy(powerUps, p.PowerUps)
	return PlayerStats{
		Lives:     p.Lives,
		Speed:     p.Speed,
		MaxBombs:  p.MaxBombs,
		FireRange: p.FireRange,
		BombType:  p.BombType,
		PowerUps:  powerUps,
		Score:     p.Score,
		Kills:     p.Kills,
	}
}

// RestoreStats 恢复保存的属性（关卡切换时调用）
func (p *Player) RestoreStats(s PlayerStats) {
	p.Lives = s.Lives
	p.Speed = s.Speed
	p.MaxBombs = s.MaxBombs
	p.FireRange = s.FireRange
	p.BombType = s.BombType
	p.PowerUps = append([]PowerUpType(nil), s.PowerUps...)
	p.Score = s.Score
	p.Kills = s.Kills
}
