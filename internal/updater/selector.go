package updater

import "time"

// Snapshot holds the current value of every category for one movie: the
// scalar field for value categories, an existence flag for relation ones.
type Snapshot map[Category]any

// SelectCategories applies the staleness policy per enabled category.
//
// Production year is always re-checked when anything else is refreshed, even
// if it already has a value: upstream years are low confidence.
func SelectCategories(snap Snapshot, enabled CategorySet, force bool, syncedAt *time.Time, intervalDays int, now time.Time) CategorySet {
	selected := make(CategorySet)
	for _, c := range enabled.Sorted() {
		if NeedsRefresh(snap[c], force, syncedAt, intervalDays, now) {
			selected.Add(c)
		}
	}
	if len(selected) > 0 && enabled.Has(CategoryProductionYear) {
		selected.Add(CategoryProductionYear)
	}
	return selected
}
