package calibration

// The nine-box grid is addressed row-major from the bottom-left corner:
// row is potential (1-3), column is performance (1-3). q1 is the
// low/low corner, q9 the high/high corner.
const (
	QuadrantRisk   = "q1"
	QuadrantCenter = "q5"
	QuadrantStar   = "q9"
)

type GridPosition struct {
	PotentialRow   int
	PerformanceCol int
}

// RepresentativeScores are the anchor values persisted when a move is
// expressed as a concrete score pair.
type RepresentativeScores struct {
	Performance float64
	Potential   float64
}

// QuadrantMap is the static bidirectional mapping between quadrant ids and
// grid positions. It is built once from thresholds and injected wherever
// quadrant derivation is needed.
type QuadrantMap struct {
	thresholds Thresholds
	positions  map[string]GridPosition
	ids        map[GridPosition]string
	buckets    map[string]string
	anchors    map[string]RepresentativeScores
}

func NewQuadrantMap(t Thresholds) *QuadrantMap {
	m := &QuadrantMap{
		thresholds: t,
		positions:  make(map[string]GridPosition, 9),
		ids:        make(map[GridPosition]string, 9),
		anchors:    make(map[string]RepresentativeScores, 9),
		buckets: map[string]string{
			"q1": BucketRisk,
			"q2": BucketNeutral,
			"q3": BucketCore,
			"q4": BucketNeutral,
			"q5": BucketCore,
			"q6": BucketHigh,
			"q7": BucketNeutral,
			"q8": BucketHigh,
			"q9": BucketStars,
		},
	}
	anchorFor := [4]float64{0, 1.5, 3.5, 4.5}
	n := 1
	for row := 1; row <= 3; row++ {
		for col := 1; col <= 3; col++ {
			id := quadrantID(n)
			pos := GridPosition{PotentialRow: row, PerformanceCol: col}
			m.positions[id] = pos
			m.ids[pos] = id
			m.anchors[id] = RepresentativeScores{
				Performance: anchorFor[col],
				Potential:   anchorFor[row],
			}
			n++
		}
	}
	return m
}

func quadrantID(n int) string {
	return "q" + string(rune('0'+n))
}

// Position returns the grid coordinates of a quadrant id.
func (m *QuadrantMap) Position(id string) (GridPosition, bool) {
	pos, ok := m.positions[id]
	return pos, ok
}

// ID is the exact inverse of Position.
func (m *QuadrantMap) ID(pos GridPosition) (string, bool) {
	id, ok := m.ids[pos]
	return id, ok
}

func (m *QuadrantMap) Bucket(id string) string {
	if bucket, ok := m.buckets[id]; ok {
		return bucket
	}
	return BucketNeutral
}

func (m *QuadrantMap) Representative(id string) (RepresentativeScores, bool) {
	scores, ok := m.anchors[id]
	return scores, ok
}

func levelIndex(level string) int {
	switch level {
	case LevelLow:
		return 1
	case LevelMedium:
		return 2
	case LevelHigh:
		return 3
	default:
		return 0
	}
}

// ToQuadrant maps a (performance level, potential level) pair to its
// quadrant id.
func (m *QuadrantMap) ToQuadrant(performanceLevel, potentialLevel string) (string, bool) {
	pos := GridPosition{
		PotentialRow:   levelIndex(potentialLevel),
		PerformanceCol: levelIndex(performanceLevel),
	}
	return m.ID(pos)
}

// DeriveQuadrant classifies both scores and looks the pair up. The center
// fallback is unreachable with a total classifier but kept so derivation
// itself stays total.
func (m *QuadrantMap) DeriveQuadrant(performanceScore, potentialScore float64) string {
	id, ok := m.ToQuadrant(m.thresholds.Classify(performanceScore), m.thresholds.Classify(potentialScore))
	if !ok {
		return QuadrantCenter
	}
	return id
}

// Distance is the Manhattan distance between two quadrants on the grid.
// Unknown ids measure zero.
func (m *QuadrantMap) Distance(fromID, toID string) int {
	from, okFrom := m.positions[fromID]
	to, okTo := m.positions[toID]
	if !okFrom || !okTo {
		return 0
	}
	return abs(to.PotentialRow-from.PotentialRow) + abs(to.PerformanceCol-from.PerformanceCol)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
