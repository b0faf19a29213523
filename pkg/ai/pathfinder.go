package ai

import (
	"container/heap"

	"bombquest/pkg/core"
)

// A* 网格寻路，曼哈顿距离启发
// 迭代超过 core.PathfindMaxIterations 视为不可达，返回空路径

type pathNode struct {
	pos    core.GridPos
	g      int
	f      int
	parent *pathNode
	index  int
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x interface{}) { n := x.(*pathNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// walkableForPath 寻路用的可通行判定：considerBombs 时炸弹格视为障碍
func walkableForPath(game *core.Game, x, y int, passBlocks bool) bool {
	if !game.Grid.IsWalkable(x, y, passBlocks) {
		return false
	}
	for _, b := range game.Bombs {
		if b.GridX == x && b.GridY == y && !b.Detonated {
			return false
		}
	}
	return true
}

// FindPath 从 start 到 target 的路径（不含 start，含 target）
// 找不到或超出迭代上限时返回 nil
func FindPath(game *core.Game, start, target core.GridPos, passBlocks bool) []core.GridPos {
	if start == target {
		return nil
	}
	if !game.Grid.IsWalkable(target.GridX, target.GridY, passBlocks) {
		return nil
	}

	open := &nodeHeap{}
	heap.Init(open)
	startNode := &pathNode{pos: start, f: core.ManhattanDistance(start, target)}
	heap.Push(open, startNode)

	best := map[core.GridPos]int{start: 0}
	closed := map[core.GridPos]bool{}

	iterations := 0
	for open.Len() > 0 {
		iterations++
		if iterations > core.PathfindMaxIterations {
			return nil
		}

		n := heap.Pop(open).(*pathNode)
		if n.pos == target {
			return reconstruct(n)
		}
		if closed[n.pos] {
			continue
		}
		closed[n.pos] = true

		for _, dir := range core.CardinalDirections {
			dx, dy := dir.Delta()
			next := core.GridPos{GridX: n.pos.GridX + dx, GridY: n.pos.GridY + dy}
			if closed[next] {
				continue
			}
			if !walkableForPath(game, next.GridX, next.GridY, passBlocks) && next != target {
				continue
			}
			g := n.g + 1
			if prev, ok := best[next]; ok && g >= prev {
				continue
			}
			best[next] = g
			heap.Push(open, &pathNode{
				pos:    next,
				g:      g,
				f:      g + core.ManhattanDistance(next, target),
				parent: n,
			})
		}
	}
	return nil
}

// reconstruct 从终点回溯出路径（不含起点）
func reconstruct(n *pathNode) []core.GridPos {
	var path []core.GridPos
	for cur := n; cur.parent != nil; cur = cur.parent {
		path = append(path, cur.pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// NextStepToward 朝目标走一步，返回下一个格子
func NextStepToward(game *core.Game, start, target core.GridPos, passBlocks bool) (core.GridPos, bool) {
	path := FindPath(game, start, target, passBlocks)
	if len(path) == 0 {
		return core.GridPos{}, false
	}
	return path[0], true
}
