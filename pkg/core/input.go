package core

import "math"

// Input 单帧玩家输入快照
// 本地模式由渲染层采集，联机模式由房间把远端输入喂进来
type Input struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool

	PlaceBomb bool // 放炸弹（边沿触发）
	Detonate  bool // 引爆遥控炸弹（边沿触发）
}

// ApplyInput 把一帧输入落实到指定玩家
// 对角移动按 1/√2 归一，保证斜向速度与直行一致
func (g *Game) ApplyInput(playerID int, in Input) {
	if g.Phase != PhasePlaying {
		return
	}
	p := g.PlayerByID(playerID)
	if p == nil || !p.Alive {
		return
	}

	dx, dy := 0.0, 0.0
	if in.Left {
		dx -= 1
	}
	if in.Right {
		dx += 1
	}
	if in.Up {
		dy -= 1
	}
	if in.Down {
		dy += 1
	}
	if dx != 0 && dy != 0 {
		inv := 1 / math.Sqrt2
		dx *= inv
		dy *= inv
	}
	if dx != 0 || dy != 0 {
		p.Move(dx*p.Speed, dy*p.Speed, g)
	} else {
		p.IsMoving = false
	}

	if in.PlaceBomb {
		g.PlayerPlaceBomb(p)
	}
	if in.Detonate {
		g.DetonateRemote(p.ID)
	}
}
