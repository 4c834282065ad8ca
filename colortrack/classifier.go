package colortrack

import (
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// ObjectClassifier scores how well a candidate region of an image matches
// the appearance model held by the classifier. Alternative appearance
// models plug into the tracker through this capability alone.
type ObjectClassifier interface {
	ScoreObject(img *HSV, region Rectangle, mask *Mask) float64
}

const (
	// DefaultUpdateFactor is the blending weight for slow adaptation of
	// the reference signature.
	DefaultUpdateFactor = 0.1
	// Gaussian kernel bandwidth mapping histogram distance to weight
	defaultSigma = 0.1
)

// ColorHistClassifier maintains a reference color-distribution signature
// for one tracked target and weighs particle hypotheses against it.
// It implements the ObjectClassifier interface. Each target owns its own
// instance; scoring and model updates on the same instance are safe to
// issue from different goroutines.
type ColorHistClassifier struct {
	id      uuid.UUID
	bbox    Rectangle
	params  HistogramParams
	sigma   float64
	workers int

	mu        sync.RWMutex
	colorHist []float64
}

// ColorHistOption configures a ColorHistClassifier.
type ColorHistOption func(*ColorHistClassifier)

// WithSigma sets the Gaussian kernel bandwidth used when converting
// histogram distance to particle weight. Default is 0.1.
func WithSigma(sigma float64) ColorHistOption {
	return func(classifier *ColorHistClassifier) {
		classifier.sigma = sigma
	}
}

// WithWorkers sets how many goroutines score a particle batch.
// Values below 2 keep scoring sequential.
func WithWorkers(n int) ColorHistOption {
	return func(classifier *ColorHistClassifier) {
		classifier.workers = n
	}
}

// NewColorHistClassifier builds the reference signature from the initial
// bounding box of the target. Any mask held in params is not applied to
// the initial model. Malformed parameter shapes fail here rather than
// corrupting every frame's weights later.
func NewColorHistClassifier(img *HSV, bbox Rectangle, params HistogramParams, opts ...ColorHistOption) (*ColorHistClassifier, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid histogram parameters")
	}
	classifier := &ColorHistClassifier{
		id:      uuid.New(),
		bbox:    bbox,
		params:  params,
		sigma:   defaultSigma,
		workers: 1,
	}
	for _, opt := range opts {
		opt(classifier)
	}
	classifier.colorHist = ComputeObjectHistogram(img, bbox, params, nil)
	return classifier, nil
}

// ParticleWeights computes the new weight of every particle. This is the
// likelihood P(z|x), where z is the observation (color histogram) and x
// the state, following the function proposed in:
// Erkut Erdem, Severine Dubuisson and Isabelle Bloch.
// Fragments based tracking with adaptive cue integration. Computer Vision
// and Image Understanding, 116 (7):827-841.
//
// Each particle re-centers the reference bounding box on its (x, y)
// translation. Weights come back in input order, each in [0, 1], and are
// forced to zero for particles whose center lies outside the frame.
func (classifier *ColorHistClassifier) ParticleWeights(particles []Point, img *HSV, mask *Mask) []float64 {
	classifier.mu.RLock()
	reference := make([]float64, len(classifier.colorHist))
	copy(reference, classifier.colorHist)
	classifier.mu.RUnlock()

	// The signature may have drifted from unit mass after updates
	if sum := floats.Sum(reference); sum > 0 {
		floats.Scale(1.0/sum, reference)
	}

	weights := make([]float64, len(particles))
	classifier.forEachParticle(len(particles), func(i int) {
		weights[i] = classifier.particleWeight(particles[i], img, mask, reference)
	})
	return weights
}

// ScoreObject scores a single candidate region via its centroid.
func (classifier *ColorHistClassifier) ScoreObject(img *HSV, region Rectangle, mask *Mask) float64 {
	return classifier.ParticleWeights([]Point{region.Center()}, img, mask)[0]
}

// UpdateObjectHistogram replaces the reference signature with the linear
// combination (1-updateFactor)*old + updateFactor*newHistogram. The result
// is left unnormalized; scoring renormalizes the signature on read.
func (classifier *ColorHistClassifier) UpdateObjectHistogram(newHistogram []float64, updateFactor float64) error {
	if len(newHistogram) != classifier.params.Len() {
		return errors.Errorf("histogram length mismatch: got %d, want %d", len(newHistogram), classifier.params.Len())
	}
	if updateFactor < 0.0 || updateFactor > 1.0 {
		return errors.Errorf("update factor %f out of range [0, 1]", updateFactor)
	}
	classifier.mu.Lock()
	defer classifier.mu.Unlock()
	floats.Scale(1.0-updateFactor, classifier.colorHist)
	floats.AddScaled(classifier.colorHist, updateFactor, newHistogram)
	return nil
}

// GetID returns the classifier's identifier
func (classifier *ColorHistClassifier) GetID() uuid.UUID {
	return classifier.id
}

// GetParams returns the histogram parameters fixed at construction.
// The slices are shared; callers must treat them as read-only.
func (classifier *ColorHistClassifier) GetParams() HistogramParams {
	return classifier.params
}

// GetReferenceRegion returns the bounding box the model was built from
func (classifier *ColorHistClassifier) GetReferenceRegion() Rectangle {
	return classifier.bbox
}

// GetReferenceHistogram returns a copy of the current reference signature
func (classifier *ColorHistClassifier) GetReferenceHistogram() []float64 {
	classifier.mu.RLock()
	defer classifier.mu.RUnlock()
	hist := make([]float64, len(classifier.colorHist))
	copy(hist, classifier.colorHist)
	return hist
}

func (classifier *ColorHistClassifier) particleWeight(state Point, img *HSV, mask *Mask, reference []float64) float64 {
	bounds := img.Bounds()
	// An invalid hypothesis must never receive positive probability mass
	if state.X < float64(bounds.Min.X) || state.X >= float64(bounds.Max.X) ||
		state.Y < float64(bounds.Min.Y) || state.Y >= float64(bounds.Max.Y) {
		return 0.0
	}
	candidate := ComputeObjectHistogram(img, classifier.bbox.CenteredOn(state.X, state.Y), classifier.params, mask)
	// A zero-sum candidate stays all zero and lands at maximal distance
	// from any non-trivial reference
	dist := bhattacharyyaDistance(reference, candidate)
	return math.Exp(-(dist * dist) / (2.0 * classifier.sigma * classifier.sigma))
}

// forEachParticle runs fn for every index in [0, n), fanning out across
// the configured worker count. Each index writes only its own output
// slot, so the batch keeps input order regardless of scheduling.
func (classifier *ColorHistClassifier) forEachParticle(n int, fn func(int)) {
	workers := classifier.workers
	if workers > n {
		workers = n
	}
	if workers < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
}

// bhattacharyyaDistance is the metric derived from the Bhattacharyya
// coefficient between two probability mass functions of equal length:
// (1/sqrt(2)) * sqrt(sum((sqrt(p)-sqrt(q))^2)). It is symmetric and
// bounded in [0, 1], so particle weights cannot blow up numerically.
func bhattacharyyaDistance(p, q []float64) float64 {
	sum := 0.0
	for i := range p {
		diff := math.Sqrt(p[i]) - math.Sqrt(q[i])
		sum += diff * diff
	}
	return math.Sqrt(sum) / math.Sqrt2
}
