package core

import "math"

// Capabilities 移动实体的通行能力
type Capabilities struct {
	PassBlocks bool // 穿墙类敌人可以穿过砖块（但永远不能穿过墙壁）
}

// insetBox 返回内缩后的碰撞盒，允许在单格缝隙中斜向挤过
func insetBox(x, y float64, width, height int) (float64, float64, float64, float64) {
	bx := x + HitboxMargin
	by := y + HitboxMargin
	bw := float64(width - HitboxMargin*2)
	bh := float64(height - HitboxMargin*2)
	return bx, by, bw, bh
}

// CanOccupy 检查包围盒能否占据指定像素位置
// 采样碰撞盒四角，任意一角落在越界、墙壁或（非穿墙实体的）砖块上则拒绝
func (g *Grid) CanOccupy(x, y float64, width, height int, caps Capabilities) bool {
	bx, by, bw, bh := insetBox(x, y, width, height)

	if bx < 0 || by < 0 || bx+bw > float64(g.Width*TileSize) || by+bh > float64(g.Height*TileSize) {
		return false
	}

	corners := [4][2]float64{
		{bx, by},
		{bx + bw, by},
		{bx, by + bh},
		{bx + bw, by + bh},
	}
	for _, c := range corners {
		gx := int(c[0]) / TileSize
		gy := int(c[1]) / TileSize
		if !g.IsWalkable(gx, gy, caps.PassBlocks) {
			return false
		}
	}
	return true
}

// coveredCells 碰撞盒覆盖的所有格子
func coveredCells(x, y float64, width, height int) []GridPos {
	bx, by, bw, bh := insetBox(x, y, width, height)
	startX := int(bx) / TileSize
	endX := int(bx+bw-1) / TileSize
	startY := int(by) / TileSize
	endY := int(by+bh-1) / TileSize

	cells := make([]GridPos, 0, 4)
	for gy := startY; gy <= endY; gy++ {
		for gx := startX; gx <= endX; gx++ {
			cells = append(cells, GridPos{GridX: gx, GridY: gy})
		}
	}
	return cells
}

// bombBlockedCells 炸弹占据的格子集合，排除实体当前已经压住的炸弹格
// 规则：实体可以留在自己所站的炸弹格上，但不能进入新的炸弹格
func bombBlockedCells(bombs []*Bomb, curX, curY float64, width, height int) map[GridPos]bool {
	standing := make(map[GridPos]bool, 2)
	for _, c := range coveredCells(curX, curY, width, height) {
		standing[c] = true
	}

	blocked := make(map[GridPos]bool, len(bombs))
	for _, b := range bombs {
		if b.Detonated {
			continue
		}
		cell := GridPos{GridX: b.GridX, GridY: b.GridY}
		if standing[cell] {
			continue
		}
		blocked[cell] = true
	}
	return blocked
}

// canOccupyWithBombs 在地图碰撞之外再检查炸弹占位
func canOccupyWithBombs(g *Grid, x, y float64, width, height int, caps Capabilities, blocked map[GridPos]bool) bool {
	if !g.CanOccupy(x, y, width, height, caps) {
		return false
	}
	for _, c := range coveredCells(x, y, width, height) {
		if blocked[c] {
			return false
		}
	}
	return true
}

// MoveResult 分轴移动的结果
type MoveResult struct {
	X, Y     float64
	MovedX   bool
	MovedY   bool
}

// ResolveMove 分轴移动：先 X 后 Y，各自独立判定
// 被阻挡的轴静默回退（不移动），另一轴可以继续滑行
func ResolveMove(g *Grid, bombs []*Bomb, x, y float64, width, height int, dx, dy float64, caps Capabilities) MoveResult {
	blocked := bombBlockedCells(bombs, x, y, width, height)
	res := MoveResult{X: x, Y: y}

	if dx != 0 {
		nx := res.X + dx
		if canOccupyWithBombs(g, nx, res.Y, width, height, caps, blocked) {
			res.X = nx
			res.MovedX = true
		} else if nx := snapX(res.X, dx, width); nx != res.X &&
			canOccupyWithBombs(g, nx, res.Y, width, height, caps, blocked) {
			// 贴墙时向格子边界吸附，避免来回抖动
			res.X = nx
			res.MovedX = true
		}
	}
	if dy != 0 {
		ny := res.Y + dy
		if canOccupyWithBombs(g, res.X, ny, width, height, caps, blocked) {
			res.Y = ny
			res.MovedY = true
		} else if ny := snapY(res.Y, dy, height); ny != res.Y &&
			canOccupyWithBombs(g, res.X, ny, width, height, caps, blocked) {
			res.Y = ny
			res.MovedY = true
		}
	}
	return res
}

// snapX 被阻挡时 X 轴向行进方向上最近的对齐位置吸附（不超过本帧位移）
func snapX(x, dx float64, width int) float64 {
	offset := float64(TileSize-width) / 2
	if dx > 0 {
		target := math.Floor((x-offset)/TileSize+1)*TileSize + offset
		return math.Min(target, x+dx)
	}
	target := math.Ceil((x-offset)/TileSize-1)*TileSize + offset
	return math.Max(target, x+dx)
}

// snapY 被阻挡时 Y 轴向行进方向上最近的对齐位置吸附（不超过本帧位移）
func snapY(y, dy float64, height int) float64 {
	offset := float64(TileSize-height) / 2
	if dy > 0 {
		target := math.Floor((y-offset)/TileSize+1)*TileSize + offset
		return math.Min(target, y+dy)
	}
	target := math.Ceil((y-offset)/TileSize-1)*TileSize + offset
	return math.Max(target, y+dy)
}

// Overlaps 两个碰撞盒是否重叠（均按内缩后的盒判定）
func Overlaps(x1, y1 float64, w1, h1 int, x2, y2 float64, w2, h2 int) bool {
	ax, ay, aw, ah := insetBox(x1, y1, w1, h1)
	bx, by, bw, bh := insetBox(x2, y2, w2, h2)
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

// OverlapsCell 碰撞盒是否压住指定格子
func OverlapsCell(x, y float64, width, height int, gridX, gridY int) bool {
	bx, by, bw, bh := insetBox(x, y, width, height)
	tx := float64(gridX * TileSize)
	ty := float64(gridY * TileSize)
	return bx < tx+TileSize && bx+bw > tx && by < ty+TileSize && by+bh > ty
}
