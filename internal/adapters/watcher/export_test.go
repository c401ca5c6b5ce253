package watcher

// NewContentTrackerForTest exports the private content tracker for testing purposes.
func NewContentTrackerForTest() *contentTracker {
	return newContentTracker()
}
