package engine

import "math"

// DetectionRisk rates how close the nearest seeker is on a 0-100 scale.
// Seekers beyond rangeTiles contribute nothing; cloaking halves the value.
func DetectionRisk(st *GameState, rangeTiles int) int {
	if len(st.Seekers) == 0 || rangeTiles <= 0 {
		return 0
	}
	d := math.Inf(1)
	for _, s := range st.Seekers {
		d = math.Min(d, s.Pos.Dist(st.Player.Pos))
	}
	if d > float64(rangeTiles) {
		return 0
	}
	v := int(math.Round((1 - d/float64(rangeTiles)) * 100))
	if st.Player.HasEffect(EffectCloaking) {
		v /= 2
	}
	return max(0, min(100, v))
}
