package envfile

// DiffResult lists the KEY="VALUE" lines that differ between two entry sets.
// A key is reported in at most one of the three lists.
type DiffResult struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`
}

// Empty reports whether there are no differences
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares the locally held entries with incoming remote entries.
// Keys present on both sides with different values are reported as changed
// (with the incoming value) rather than as an addition plus a removal.
func Diff(current, incoming []Entry) DiffResult {
	currentLines := lineSet(current)
	incomingLines := lineSet(incoming)

	var addedRaw, removedRaw []Entry
	for _, e := range incoming {
		if !currentLines[e.Line()] {
			addedRaw = append(addedRaw, e)
		}
	}
	for _, e := range current {
		if !incomingLines[e.Line()] {
			removedRaw = append(removedRaw, e)
		}
	}

	changedKeys := make(map[string]bool)
	var changed []Entry
	if len(addedRaw) > 0 && len(removedRaw) > 0 {
		currentKeys := make(map[string]bool, len(current))
		for _, e := range current {
			currentKeys[e.Key] = true
		}
		for _, e := range addedRaw {
			if currentKeys[e.Key] {
				changed = append(changed, e)
				changedKeys[e.Key] = true
			}
		}
	}

	result := DiffResult{
		Added:   []string{},
		Removed: []string{},
		Changed: Lines(changed),
	}
	for _, e := range addedRaw {
		if !changedKeys[e.Key] {
			result.Added = append(result.Added, e.Line())
		}
	}
	for _, e := range removedRaw {
		if !changedKeys[e.Key] {
			result.Removed = append(result.Removed, e.Line())
		}
	}

	return result
}

func lineSet(entries []Entry) map[string]bool {
	set := make(map[string]bool, len(entries))
	for _, e := range entries {
		set[e.Line()] = true
	}
	return set
}
