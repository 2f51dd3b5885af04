package mention

// NoSelection marks that no suggestion has been highlighted explicitly.
const NoSelection = -1

// ClampMove moves current by delta and keeps the result inside [0, count-1].
func ClampMove(current, delta, count int) int {
	return max(0, min(current+delta, count-1))
}

// ResetSelection returns the index used before any navigation.
func ResetSelection() int {
	return NoSelection
}

// CommitIndex resolves the item to confirm: the highlighted one, or the first
// item when nothing was highlighted. Stale indexes are clamped to count.
func CommitIndex(selected, count int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	if selected < 0 {
		return 0, true
	}
	return min(selected, count-1), true
}
