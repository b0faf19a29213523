package core

// Explosion 单个格子上的爆炸火焰（短暂的伤害区域）
type Explosion struct {
	ID             int
	GridX          int
	GridY          int
	Dir            Direction // 火焰朝向，DirNone 表示中心
	IsEnd          bool      // 是否是该方向的末端（渲染用）
	CreatedAtFrame int32
	ExpiresAtFrame int32
	OwnerID        int // 来源炸弹的所有者
}

// Expired 火焰是否已熄灭
func (e *Explosion) Expired(currentFrame int32) bool {
	return currentFrame >= e.ExpiresAtFrame
}

// BlastResult 一次引爆的完整结果
type BlastResult struct {
	Tiles     []*Explosion // 产生的火焰格
	Destroyed []GridPos    // 被炸毁的砖块
	Chained   []*Bomb      // 被火焰波及的其他炸弹（连锁引爆）
}

// ComputeBlast 计算炸弹的爆炸传播，不修改任何状态
// 传播规则：
//   - 中心一格，四个方向各最多 Range 格
//   - 直线炸弹只沿放置时的朝向轴传播
//   - 墙壁阻断传播且自身不产生火焰
//   - 砖块产生火焰并被摧毁；非穿透炸弹在第一块砖停止，穿透炸弹继续
//   - 火焰覆盖的其他未引爆炸弹进入连锁列表
func ComputeBlast(g *Grid, bomb *Bomb, bombs []*Bomb, currentFrame int32, nextID func() int) BlastResult {
	res := BlastResult{
		Tiles: []*Explosion{{
			ID:             nextID(),
			GridX:          bomb.GridX,
			GridY:          bomb.GridY,
			Dir:            DirNone,
			CreatedAtFrame: currentFrame,
			ExpiresAtFrame: currentFrame + ExplosionFrames,
			OwnerID:        bomb.OwnerID,
		}},
	}

	for _, dir := range blastDirections(bomb) {
		dx, dy := dir.Delta()
		var last *Explosion
		for i := 1; i <= bomb.Range; i++ {
			nx := bomb.GridX + dx*i
			ny := bomb.GridY + dy*i

			tile := g.TileAt(nx, ny)
			if tile == TileWall {
				// 墙壁阻断，墙壁格本身不产生火焰
				break
			}

			exp := &Explosion{
				ID:             nextID(),
				GridX:          nx,
				GridY:          ny,
				Dir:            dir,
				CreatedAtFrame: currentFrame,
				ExpiresAtFrame: currentFrame + ExplosionFrames,
				OwnerID:        bomb.OwnerID,
			}
			res.Tiles = append(res.Tiles, exp)
			last = exp

			if other := BombAt(bombs, nx, ny); other != nil && other != bomb {
				res.Chained = append(res.Chained, other)
			}

			if tile == TileBlock {
				res.Destroyed = append(res.Destroyed, GridPos{GridX: nx, GridY: ny})
				if bomb.Type != BombPiercing {
					// 非穿透炸弹在第一块砖停止
					break
				}
			}
		}
		if last != nil {
			last.IsEnd = true
		}
	}

	return res
}

// BlastCells 只枚举炸弹火焰会覆盖的格子，不创建实体
// 供 AI 危险场预判使用，传播规则与 ComputeBlast 一致
func BlastCells(g *Grid, bomb *Bomb) []GridPos {
	cells := []GridPos{{GridX: bomb.GridX, GridY: bomb.GridY}}
	for _, dir := range blastDirections(bomb) {
		dx, dy := dir.Delta()
		for i := 1; i <= bomb.Range; i++ {
			nx := bomb.GridX + dx*i
			ny := bomb.GridY + dy*i
			tile := g.TileAt(nx, ny)
			if tile == TileWall {
				break
			}
			cells = append(cells, GridPos{GridX: nx, GridY: ny})
			if tile == TileBlock && bomb.Type != BombPiercing {
				break
			}
		}
	}
	return cells
}

// blastDirections 炸弹的传播方向集合
func blastDirections(bomb *Bomb) []Direction {
	if bomb.Type != BombLine {
		return CardinalDirections[:]
	}
	switch bomb.LineDir {
	case DirLeft, DirRight:
		return []Direction{DirLeft, DirRight}
	default:
		return []Direction{DirUp, DirDown}
	}
}

// ExplosionAt 检查指定格子当前是否有火焰
func ExplosionAt(explosions []*Explosion, gridX, gridY int) *Explosion {
	for _, e := range explosions {
		if e.GridX == gridX && e.GridY == gridY {
			return e
		}
	}
	return nil
}
