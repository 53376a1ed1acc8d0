package level

// DefaultThresholds 到达各等级所需的累计经验（下标 0 = Lv1，…，28 = Lv29）
var DefaultThresholds = []int{
	0, 50, 120, 210, 320, 450, 600, 760, 930, 1110,
	1300, 1500, 1710, 1930, 2160, 2400, 2650, 2910, 3180, 3460,
	3750, 4050, 4360, 4680, 5010, 5350, 5700, 6060, 6430,
}

// Table 等级阈值表，构造后不可变，随依赖注入传入各服务
type Table struct {
	thresholds []int
}

func NewTable(thresholds []int) *Table {
	t := make([]int, len(thresholds))
	copy(t, thresholds)
	return &Table{thresholds: t}
}

func NewDefaultTable() *Table {
	return NewTable(DefaultThresholds)
}

// LevelFor 根据经验值计算等级，保证单调不减
func (s *Table) LevelFor(exp int) int {
	for i := len(s.thresholds) - 1; i >= 0; i-- {
		if exp >= s.thresholds[i] {
			return i + 1
		}
	}
	return 1
}

// ExpForNext 升到下一级所需的累计经验，满级时返回最高阈值
func (s *Table) ExpForNext(exp int) int {
	lv := s.LevelFor(exp)
	if lv >= len(s.thresholds) {
		return s.thresholds[len(s.thresholds)-1]
	}
	return s.thresholds[lv]
}

// MaxLevel 阈值表覆盖的最高等级
func (s *Table) MaxLevel() int {
	return len(s.thresholds)
}
