package domain

// RequirementChange records a requirement whose declaration changed between
// two manifests.
type RequirementChange struct {
	// Name is the normalized package name.
	Name string

	// Old and New are the two declarations.
	Old Requirement
	New Requirement
}

// GroupDiff is the semantic difference of one dependency group. Slices are
// ordered by normalized package name.
type GroupDiff struct {
	Added   []Requirement
	Removed []Requirement
	Changed []RequirementChange
}

// Empty reports whether the group is unchanged.
func (d GroupDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// ManifestDiff is the semantic difference between two manifests. Formatting,
// declaration order, and comments never show up here.
type ManifestDiff struct {
	Packages    GroupDiff
	DevPackages GroupDiff

	SourcesAdded   []Source
	SourcesRemoved []Source

	// RuntimeChanged holds the old and new constraint when it changed.
	RuntimeChanged *[2]RuntimeConstraint
}

// Empty reports whether the two manifests are semantically identical.
func (d *ManifestDiff) Empty() bool {
	return d.Packages.Empty() && d.DevPackages.Empty() &&
		len(d.SourcesAdded) == 0 && len(d.SourcesRemoved) == 0 &&
		d.RuntimeChanged == nil
}

// GroupDiff returns the diff of the named group.
func (d *ManifestDiff) GroupDiff(name GroupName) GroupDiff {
	if name == GroupDev {
		return d.DevPackages
	}
	return d.Packages
}

// DiffManifests computes the semantic difference between two manifests.
func DiffManifests(oldM, newM *Manifest) *ManifestDiff {
	diff := &ManifestDiff{
		Packages:    diffGroup(oldM.Packages, newM.Packages),
		DevPackages: diffGroup(oldM.DevPackages, newM.DevPackages),
	}

	oldSources := make(map[string]Source, len(oldM.Sources))
	for _, src := range oldM.Sources {
		oldSources[src.Name] = src
	}
	newSources := make(map[string]Source, len(newM.Sources))
	for _, src := range newM.Sources {
		newSources[src.Name] = src
	}
	for _, src := range newM.Sources {
		if prev, ok := oldSources[src.Name]; !ok || prev != src {
			diff.SourcesAdded = append(diff.SourcesAdded, src)
		}
	}
	for _, src := range oldM.Sources {
		if next, ok := newSources[src.Name]; !ok || next != src {
			diff.SourcesRemoved = append(diff.SourcesRemoved, src)
		}
	}

	if oldM.Requires != newM.Requires {
		diff.RuntimeChanged = &[2]RuntimeConstraint{oldM.Requires, newM.Requires}
	}

	return diff
}

func diffGroup(oldReqs, newReqs []Requirement) GroupDiff {
	oldByName := make(map[string]Requirement, len(oldReqs))
	for _, req := range oldReqs {
		oldByName[req.NormalizedName()] = req
	}
	newByName := make(map[string]Requirement, len(newReqs))
	for _, req := range newReqs {
		newByName[req.NormalizedName()] = req
	}

	var diff GroupDiff

	added := make([]Requirement, 0)
	changed := make([]RequirementChange, 0)
	for _, req := range newReqs {
		name := req.NormalizedName()
		prev, existed := oldByName[name]
		switch {
		case !existed:
			added = append(added, req)
		case !prev.Equal(req):
			changed = append(changed, RequirementChange{Name: name, Old: prev, New: req})
		}
	}

	removed := make([]Requirement, 0)
	for _, req := range oldReqs {
		if _, kept := newByName[req.NormalizedName()]; !kept {
			removed = append(removed, req)
		}
	}

	SortRequirements(added)
	SortRequirements(removed)
	if len(added) > 0 {
		diff.Added = added
	}
	if len(removed) > 0 {
		diff.Removed = removed
	}
	if len(changed) > 0 {
		diff.Changed = changed
	}
	return diff
}
