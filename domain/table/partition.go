package table

// Group is one partition of a record set, keyed by the string form of the
// grouping field's value
type Group struct {
	Key     string
	Records []Record
}

// Partition splits the record set into sub-collections keyed by the string
// form of the grouping field. Records with a null/missing grouping value are
// excluded rather than bucketed. Group order is first appearance in the
// source data; callers needing a display order must sort explicitly.
func (rs *RecordSet) Partition(field string) []Group {
	if rs == nil {
		return nil
	}
	index := make(map[string]int)
	var groups []Group
	for _, rec := range rs.records {
		key, ok := StringValue(rec[field])
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// GroupKeys returns the distinct non-null values of a field in first-appearance order
func (rs *RecordSet) GroupKeys(field string) []string {
	groups := rs.Partition(field)
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}

// Subset builds a record set view over a group's records, sharing the parent catalog
func (rs *RecordSet) Subset(records []Record) *RecordSet {
	if rs == nil {
		return nil
	}
	return &RecordSet{fields: rs.fields, records: records}
}
