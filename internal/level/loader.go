package level

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"bombquest/pkg/core"
)

//go:embed levels/*.yaml
var levelFS embed.FS

// levelFile 关卡文件的 YAML 结构
type levelFile struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	World   int      `yaml:"world"`
	Rows    []string `yaml:"rows"`
	Enemies []struct {
		Kind  string `yaml:"kind"`
		X     int    `yaml:"x"`
		Y     int    `yaml:"y"`
		Count int    `yaml:"count"`
	} `yaml:"enemies"`
	Boss *struct {
		Name     string   `yaml:"name"`
		X        int      `yaml:"x"`
		Y        int      `yaml:"y"`
		Health   int      `yaml:"health"`
		Phases   int      `yaml:"phases"`
		Dialogue []string `yaml:"dialogue"`
	} `yaml:"boss"`
}

// 地图行里的字符含义
// W=墙壁 B=砖块 .=空地 S=出生点 E=出口
var runeTiles = map[rune]core.TileType{
	'W': core.TileWall,
	'B': core.TileBlock,
	'.': core.TileEmpty,
	'S': core.TileSpawn,
	'E': core.TileExit,
}

var kindNames = map[string]core.EnemyKind{
	"wanderer":   core.EnemyWanderer,
	"chaser":     core.EnemyChaser,
	"ghost":      core.EnemyGhost,
	"bomber":     core.EnemyBomber,
	"charger":    core.EnemyCharger,
	"teleporter": core.EnemyTeleporter,
	"shielder":   core.EnemyShielder,
	"splitter":   core.EnemySplitter,
}

// Load 按 ID 加载内置关卡
func Load(id string) (*core.LevelData, error) {
	ids, err := List()
	if err != nil {
		return nil, err
	}
	for _, candidate := range ids {
		ld, err := loadFile("levels/" + candidate + ".yaml")
		if err != nil {
			return nil, err
		}
		if ld.ID == id {
			return ld, nil
		}
	}
	return nil, fmt.Errorf("未知关卡 %q", id)
}

// List 返回全部内置关卡的文件名（按字典序，也是关卡顺序）
func List() ([]string, error) {
	entries, err := levelFS.ReadDir("levels")
	if err != nil {
		return nil, fmt.Errorf("读取内置关卡失败: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		names = append(names, name[:len(name)-len(".yaml")])
	}
	sort.Strings(names)
	return names, nil
}

// Campaign 返回闯关模式的关卡顺序（world > 0 的关卡，按 ID 排序）
func Campaign() ([]string, error) {
	ids, err := List()
	if err != nil {
		return nil, err
	}
	var ordered []string
	for _, id := range ids {
		ld, err := loadFile("levels/" + id + ".yaml")
		if err != nil {
			return nil, err
		}
		if ld.World > 0 {
			ordered = append(ordered, ld.ID)
		}
	}
	return ordered, nil
}

// Next 返回闯关顺序中 id 的下一关，最后一关返回空串
func Next(id string) (string, error) {
	ordered, err := Campaign()
	if err != nil {
		return "", err
	}
	for i, cur := range ordered {
		if cur == id && i+1 < len(ordered) {
			return ordered[i+1], nil
		}
	}
	return "", nil
}

// loadFile 解析单个关卡文件并做完整校验
func loadFile(path string) (*core.LevelData, error) {
	data, err := levelFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取关卡文件 %s 失败: %w", path, err)
	}
	return Parse(data)
}

// Parse 从 YAML 字节解析关卡数据
func Parse(data []byte) (*core.LevelData, error) {
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("解析关卡数据失败: %w", err)
	}

	tiles := make([][]core.TileType, len(lf.Rows))
	for y, row := range lf.Rows {
		runes := []rune(row)
		tiles[y] = make([]core.TileType, len(runes))
		for x, r := range runes {
			tile, ok := runeTiles[r]
			if !ok {
				return nil, fmt.Errorf("关卡 %s: 第 %d 行有非法字符 %q", lf.ID, y, r)
			}
			tiles[y][x] = tile
		}
	}

	ld := &core.LevelData{
		ID:    lf.ID,
		World: lf.World,
		Tiles: tiles,
	}
	for _, e := range lf.Enemies {
		kind, ok := kindNames[e.Kind]
		if !ok {
			return nil, fmt.Errorf("关卡 %s: 未知敌人种类 %q", lf.ID, e.Kind)
		}
		ld.Enemies = append(ld.Enemies, core.EnemySpawn{
			Kind: kind, GridX: e.X, GridY: e.Y, Count: e.Count,
		})
	}
	if lf.Boss != nil {
		ld.Boss = &core.BossDescriptor{
			Name:     lf.Boss.Name,
			GridX:    lf.Boss.X,
			GridY:    lf.Boss.Y,
			Health:   lf.Boss.Health,
			Phases:   lf.Boss.Phases,
			Dialogue: lf.Boss.Dialogue,
		}
	}

	if err := ld.Validate(); err != nil {
		return nil, err
	}
	return ld, nil
}
