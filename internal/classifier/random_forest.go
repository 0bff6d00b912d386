package classifier

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
)

const (
	defaultTrees    = 50
	defaultMaxDepth = 5
	minSplitSize    = 2
)

// RandomForest is a bagged ensemble of depth-limited CART trees split on Gini impurity.
// Each split considers a random subset of sqrt(d) features.
type RandomForest struct {
	trees    int
	maxDepth int
	seed     int64

	width  int
	forest []*treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	// upProbability is set on leaves
	upProbability float64
	leaf          bool
}

// NewRandomForest creates an untrained forest. Zero values fall back to 50 trees and depth 5.
func NewRandomForest(trees, maxDepth int, seed int64) *RandomForest {
	if trees <= 0 {
		trees = defaultTrees
	}

	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	return &RandomForest{
		trees:    trees,
		maxDepth: maxDepth,
		seed:     seed,
	}
}

// Fit grows every tree on a bootstrap sample. The same seed and data always give the same forest.
func (f *RandomForest) Fit(features [][]float64, labels []Direction) error {
	width, err := checkTrainingSet(features, labels)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(f.seed))
	n := len(features)
	mtry := int(math.Max(1, math.Floor(math.Sqrt(float64(width)))))

	forest := make([]*treeNode, f.trees)
	for t := range forest {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}

		builder := treeBuilder{
			features: features,
			labels:   labels,
			width:    width,
			mtry:     mtry,
			maxDepth: f.maxDepth,
			rng:      rng,
		}
		forest[t] = builder.build(sample, 0)
	}

	f.width = width
	f.forest = forest

	return nil
}

// PredictProba averages the leaf probabilities of all trees.
func (f *RandomForest) PredictProba(features []float64) (Prediction, error) {
	if len(f.forest) == 0 {
		return Prediction{}, errors.New(errors.ErrCodeClassifierNotTrained, "random forest is not trained")
	}

	if len(features) != f.width {
		return Prediction{}, errors.Newf(errors.ErrCodeFeatureMismatch,
			"got %d features, expected %d", len(features), f.width)
	}

	total := 0.0
	for _, tree := range f.forest {
		total += tree.predict(features)
	}

	return predictionFromUpProbability(total / float64(len(f.forest))), nil
}

func (n *treeNode) predict(features []float64) float64 {
	node := n
	for !node.leaf {
		if features[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}

	return node.upProbability
}

type treeBuilder struct {
	features [][]float64
	labels   []Direction
	width    int
	mtry     int
	maxDepth int
	rng      *rand.Rand
}

func (b *treeBuilder) build(sample []int, depth int) *treeNode {
	ups := b.countUps(sample)
	leaf := &treeNode{leaf: true, upProbability: float64(ups) / float64(len(sample))}

	if depth >= b.maxDepth || len(sample) < minSplitSize || ups == 0 || ups == len(sample) {
		return leaf
	}

	feature, threshold, ok := b.bestSplit(sample, ups)
	if !ok {
		return leaf
	}

	left := make([]int, 0, len(sample))
	right := make([]int, 0, len(sample))

	for _, idx := range sample {
		if b.features[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      b.build(left, depth+1),
		right:     b.build(right, depth+1),
	}
}

func (b *treeBuilder) countUps(sample []int) int {
	ups := 0
	for _, idx := range sample {
		if b.labels[idx] == DirectionUp {
			ups++
		}
	}

	return ups
}

// bestSplit scans the candidate features for the threshold with the lowest weighted Gini
// impurity. Thresholds are midpoints between consecutive distinct values.
func (b *treeBuilder) bestSplit(sample []int, ups int) (int, float64, bool) {
	candidates := b.rng.Perm(b.width)[:b.mtry]

	n := float64(len(sample))
	bestImpurity := gini(float64(ups), n)
	bestFeature := -1
	bestThreshold := 0.0

	sorted := make([]int, len(sample))

	for _, feature := range candidates {
		copy(sorted, sample)
		sort.SliceStable(sorted, func(i, j int) bool {
			return b.features[sorted[i]][feature] < b.features[sorted[j]][feature]
		})

		leftUps := 0.0

		for i := 0; i < len(sorted)-1; i++ {
			if b.labels[sorted[i]] == DirectionUp {
				leftUps++
			}

			current := b.features[sorted[i]][feature]
			next := b.features[sorted[i+1]][feature]

			if current == next {
				continue
			}

			leftN := float64(i + 1)
			rightN := n - leftN
			impurity := (leftN*gini(leftUps, leftN) + rightN*gini(float64(ups)-leftUps, rightN)) / n

			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = (current + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func gini(ups, n float64) float64 {
	if n == 0 {
		return 0
	}

	p := ups / n

	return 1 - p*p - (1-p)*(1-p)
}
