package cache

// State tracks how warm a collection is. Transitions are one-directional
// per refresh cycle: Empty until the first successful fetch, Warming while
// background processing is still filling the cache, Ready once every known
// image is processed or confirmed cached.
type State int32

const (
	Empty State = iota
	Warming
	Ready
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Warming:
		return "warming"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}
