package core

// BombType 炸弹类型
type BombType int

const (
	BombNormal   BombType = iota // 普通炸弹
	BombPiercing                 // 穿透炸弹：火焰穿过砖块不停
	BombRemote                   // 遥控炸弹：无引信，只能手动引爆
	BombLine                     // 直线炸弹：只沿放置时的朝向轴爆炸
)

// String 返回炸弹类型的字符串表示
func (t BombType) String() string {
	switch t {
	case BombNormal:
		return "普通"
	case BombPiercing:
		return "穿透"
	case BombRemote:
		return "遥控"
	case BombLine:
		return "直线"
	}
	return "未知"
}

// Bomb 炸弹（纯逻辑结构，不包含渲染）
type Bomb struct {
	ID             int
	GridX          int
	GridY          int
	Type           BombType
	Range          int       // 爆炸范围（格子数）
	OwnerID        int       // 所有者：玩家为正，敌人为负
	PlacedAtFrame  int32     // 放置帧号
	ExplodeAtFrame int32     // 引爆帧号，0 表示无引信（遥控炸弹）
	LineDir        Direction // 直线炸弹的爆炸轴（放置时玩家朝向）
	Detonated      bool      // 是否已引爆（引爆是幂等的）
}

// NewBomb 创建新炸弹
func NewBomb(id, gridX, gridY, ownerID int, bombType BombType, rangeVal int, currentFrame int32) *Bomb {
	b := &Bomb{
		ID:            id,
		GridX:         gridX,
		GridY:         gridY,
		Type:          bombType,
		Range:         rangeVal,
		OwnerID:       ownerID,
		PlacedAtFrame: currentFrame,
	}
	if bombType != BombRemote {
		b.ExplodeAtFrame = currentFrame + BombFuseFrames
	}
	return b
}

// Fused 炸弹是否有引信
func (b *Bomb) Fused() bool {
	return b.ExplodeAtFrame > 0
}

// FuseExpired 引信是否已燃尽
func (b *Bomb) FuseExpired(currentFrame int32) bool {
	return b.Fused() && currentFrame >= b.ExplodeAtFrame
}

// BombAt 查找指定格子上的未引爆炸弹
func BombAt(bombs []*Bomb, gridX, gridY int) *Bomb {
	for _, b := range bombs {
		if !b.Detonated && b.GridX == gridX && b.GridY == gridY {
			return b
		}
	}
	return nil
}
