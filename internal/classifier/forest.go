package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
)

// ForestConfig 随机森林参数
type ForestConfig struct {
	Trees           int   // 树的数量，默认 100
	MaxFeatures     int   // 每次分裂随机抽取的特征数，默认 sqrt(d)
	MinSamplesSplit int   // 节点最少样本数，默认 2
	Seed            int64 // 随机种子（bootstrap + 特征抽样）
}

// DummyConfig 占位模型参数：100 行 13 维均匀随机样本 + 随机二分类标签
type DummyConfig struct {
	Samples int
	Seed    int64
	Forest  ForestConfig
}

// DefaultDummyConfig seed=42, 100 samples, 100 trees.
func DefaultDummyConfig() DummyConfig {
	return DummyConfig{
		Samples: 100,
		Seed:    42,
		Forest:  ForestConfig{Trees: 100, MinSamplesSplit: 2, Seed: 42},
	}
}

// RandomForest bagged CART trees. Probability is the mean of the per-tree leaf
// positive-class fractions.
type RandomForest struct {
	trees []*tree
	dims  int
}

type node struct {
	leaf      bool
	prob      float64
	feature   int
	threshold float64
	left      int
	right     int
}

type tree struct {
	nodes []node
}

// FitDummy 在随机合成数据上训练占位模型。
// 输出不具备任何诊断意义，仅在相同 seed 下可复现。
func FitDummy(cfg DummyConfig) (*RandomForest, error) {
	if cfg.Samples <= 0 {
		return nil, errors.New("samples must be positive")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	X := make([][]float64, cfg.Samples)
	for i := range X {
		row := make([]float64, domain.FeatureCount)
		for j := range row {
			row[j] = rng.Float64()
		}
		X[i] = row
	}
	y := make([]int, cfg.Samples)
	for i := range y {
		y[i] = rng.Intn(2)
	}
	return FitForest(X, y, cfg.Forest)
}

// FitForest 训练随机森林
func FitForest(X [][]float64, y []int, cfg ForestConfig) (*RandomForest, error) {
	if len(X) == 0 {
		return nil, errors.New("empty training set")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("rows=%d labels=%d mismatch", len(X), len(y))
	}
	dims := len(X[0])
	if dims == 0 {
		return nil, errors.New("zero-width feature rows")
	}
	for i, row := range X {
		if len(row) != dims {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), dims)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return nil, fmt.Errorf("label %d at row %d is not binary", label, i)
		}
	}

	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MaxFeatures <= 0 || cfg.MaxFeatures > dims {
		cfg.MaxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(dims)))))
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := &RandomForest{dims: dims, trees: make([]*tree, 0, cfg.Trees)}
	for t := 0; t < cfg.Trees; t++ {
		treeRng := rand.New(rand.NewSource(rng.Int63()))
		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = treeRng.Intn(len(X))
		}
		b := &builder{X: X, y: y, cfg: cfg, rng: treeRng}
		tr := &tree{}
		b.grow(tr, sample)
		forest.trees = append(forest.trees, tr)
	}
	return forest, nil
}

// Predict 返回阳性概率
func (f *RandomForest) Predict(ctx context.Context, features domain.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrClassifierInference, err)
	}
	if f.dims != domain.FeatureCount {
		return 0, fmt.Errorf("%w: model expects %d features, got %d", domain.ErrClassifierInference, f.dims, domain.FeatureCount)
	}
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: feature %s is not finite", domain.ErrClassifierInference, domain.FeatureNames[i])
		}
	}
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(features[:])
	}
	return sum / float64(len(f.trees)), nil
}

// Size 树的数量
func (f *RandomForest) Size() int { return len(f.trees) }

func (t *tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.leaf {
			return n.prob
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

type builder struct {
	X   [][]float64
	y   []int
	cfg ForestConfig
	rng *rand.Rand
}

// grow 递归构建节点，返回节点下标
func (b *builder) grow(t *tree, idx []int) int {
	pos := 0
	for _, i := range idx {
		pos += b.y[i]
	}
	prob := float64(pos) / float64(len(idx))
	self := len(t.nodes)
	t.nodes = append(t.nodes, node{leaf: true, prob: prob})

	if pos == 0 || pos == len(idx) || len(idx) < b.cfg.MinSamplesSplit {
		return self
	}

	feature, threshold, ok := b.bestSplit(idx, b.rng.Perm(len(b.X[0]))[:b.cfg.MaxFeatures])
	if !ok {
		// 抽样特征全部为常量时，扩大到全部特征
		all := make([]int, len(b.X[0]))
		for i := range all {
			all[i] = i
		}
		feature, threshold, ok = b.bestSplit(idx, all)
		if !ok {
			return self
		}
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := b.grow(t, left)
	r := b.grow(t, right)
	t.nodes[self] = node{feature: feature, threshold: threshold, left: l, right: r, prob: prob}
	return self
}

func (b *builder) bestSplit(idx []int, features []int) (int, float64, bool) {
	total := len(idx)
	totalPos := 0
	for _, i := range idx {
		totalPos += b.y[i]
	}
	parent := gini(totalPos, total)

	bestFeature, bestThreshold := -1, 0.0
	bestScore := parent
	sorted := make([]int, total)
	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool { return b.X[sorted[a]][f] < b.X[sorted[c]][f] })

		leftPos := 0
		for k := 0; k < total-1; k++ {
			leftPos += b.y[sorted[k]]
			lo, hi := b.X[sorted[k]][f], b.X[sorted[k+1]][f]
			if lo == hi {
				continue
			}
			nl := k + 1
			nr := total - nl
			score := (float64(nl)*gini(leftPos, nl) + float64(nr)*gini(totalPos-leftPos, nr)) / float64(total)
			if score < bestScore {
				bestScore = score
				bestFeature = f
				bestThreshold = lo + (hi-lo)/2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 1 - p*p - (1-p)*(1-p)
}
