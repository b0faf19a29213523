package core

import "math/rand"

// PowerUpType 道具类型
type PowerUpType int

const (
	PowerUpNone       PowerUpType = iota
	PowerUpSpeed                  // 加速
	PowerUpBombCount              // 炸弹数量 +1
	PowerUpFireRange              // 爆炸范围 +1
	PowerUpPowerBomb              // 穿透炸弹
	PowerUpRemoteBomb             // 遥控炸弹
	PowerUpLineBomb               // 直线炸弹
)

// String 返回道具类型的字符串表示
func (t PowerUpType) String() string {
	switch t {
	case PowerUpSpeed:
		return "加速"
	case PowerUpBombCount:
		return "炸弹+1"
	case PowerUpFireRange:
		return "火力+1"
	case PowerUpPowerBomb:
		return "穿透炸弹"
	case PowerUpRemoteBomb:
		return "遥控炸弹"
	case PowerUpLineBomb:
		return "直线炸弹"
	}
	return "无"
}

// PowerUp 场上的道具实体
type PowerUp struct {
	ID     int
	GridX  int
	GridY  int
	Type   PowerUpType
	Active bool
}

// powerUpWeights 道具类型的抽取权重
// 三种基础强化权重高，三种特殊炸弹权重低
var powerUpWeights = []struct {
	Type   PowerUpType
	Weight int
}{
	{PowerUpSpeed, 24},
	{PowerUpBombCount, 24},
	{PowerUpFireRange, 24},
	{PowerUpPowerBomb, 10},
	{PowerUpRemoteBomb, 9},
	{PowerUpLineBomb, 9},
}

// rollPowerUpType 按权重抽取道具类型
func rollPowerUpType(rng *rand.Rand) PowerUpType {
	total := 0
	for _, w := range powerUpWeights {
		total += w.Weight
	}
	n := rng.Intn(total)
	for _, w := range powerUpWeights {
		n -= w.Weight
		if n < 0 {
			return w.Type
		}
	}
	return PowerUpSpeed
}

// Apply 把道具效果施加到玩家身上
// 按枚举类型显式分派，修改对应的具名字段
func (t PowerUpType) Apply(p *Player) {
	switch t {
	case PowerUpSpeed:
		p.Speed += SpeedUpBonus
		if p.Speed > MaxPlayerSpeed {
			p.Speed = MaxPlayerSpeed
		}
	case PowerUpBombCount:
		if p.MaxBombs < MaxPlayerBombs {
			p.MaxBombs++
		}
	case PowerUpFireRange:
		if p.FireRange < MaxPlayerRange {
			p.FireRange++
		}
	case PowerUpPowerBomb:
		p.BombType = BombPiercing
	case PowerUpRemoteBomb:
		p.BombType = BombRemote
	case PowerUpLineBomb:
		p.BombType = BombLine
	}
	if t != PowerUpNone {
		p.PowerUps = append(p.PowerUps, t)
	}
}
