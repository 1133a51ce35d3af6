package engine

// Store is an ordered, id-unique cache of records. Order is arrival order and
// is never re-sorted.
type Store struct {
	records []Record
	index   map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: map[string]int{}}
}

// ReplaceAll discards the current contents and inserts items in order.
// Later duplicates of an id are dropped.
func (s *Store) ReplaceAll(items []Record) int {
	s.Clear()
	return s.AppendPage(items)
}

// AppendPage adds items after the existing contents, skipping ids already
// present. It returns how many records were added.
func (s *Store) AppendPage(items []Record) int {
	added := 0
	for _, item := range items {
		if _, ok := s.index[item.ID]; ok {
			continue
		}
		s.index[item.ID] = len(s.records)
		s.records = append(s.records, item.Clone())
		added++
	}
	return added
}

// MergeRecord overwrites only the given keys on the record with id. It
// reports false when the id is not present (a stale merge).
func (s *Store) MergeRecord(id string, fields Fields) bool {
	pos, ok := s.index[id]
	if !ok {
		return false
	}
	rec := &s.records[pos]
	if rec.Fields == nil {
		rec.Fields = make(Fields, len(fields))
	}
	for k, v := range fields {
		rec.Fields[k] = v
	}
	return true
}

// Clear empties the store.
func (s *Store) Clear() {
	s.records = nil
	s.index = map[string]int{}
}

// Len returns the number of records held.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns a copy of the record with id.
func (s *Store) Get(id string) (Record, bool) {
	pos, ok := s.index[id]
	if !ok {
		return Record{}, false
	}
	return s.records[pos].Clone(), true
}

// All returns copies of every record in arrival order.
func (s *Store) All() []Record {
	out := make([]Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}
