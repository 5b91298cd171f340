package utils

// WindowStart returns the first timestamp inside the trailing window
// (now - window, now]. The result saturates at 0.
func WindowStart(now, window uint64) uint64 {
	if window > now {
		return 0
	}
	return now - window + 1
}

// Elapsed returns now - since, or 0 when since is in the future.
func Elapsed(since, now uint64) uint64 {
	if since >= now {
		return 0
	}
	return now - since
}
