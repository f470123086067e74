package rows

// ParseRecords validates the header in records[0] and parses every following
// record. Lines are numbered from 1 with the header on line 1.
func ParseRecords(records [][]string) (HeaderIndex, []*Row, error) {
	var header []string
	if len(records) > 0 {
		header = records[0]
	}
	idx, err := CheckHeader(header)
	if err != nil {
		return idx, nil, err
	}

	parsed := make([]*Row, 0, len(records))
	for i, record := range records[1:] {
		parsed = append(parsed, Parse(i+2, idx, record))
	}
	return idx, parsed, nil
}

// OutputHeader returns the header processed rows are written under. Output
// columns the header lacks go after the widest record, with blank names
// padding the header, so cells past the header are never overwritten.
func OutputHeader(header HeaderIndex, parsed []*Row) HeaderIndex {
	out := header.WithOutputColumns()
	if out.Width() == header.Width() {
		return out
	}
	names := header.Names()
	for _, r := range parsed {
		for len(names) < len(r.cells) {
			names = append(names, "")
		}
	}
	idx, _ := indexHeader(names)
	return idx.WithOutputColumns()
}

// Merge renders rows back into records under header. Input cells are copied
// unchanged and padded to the header width. Output cells of finished rows
// are written at their column positions; unfinished rows keep whatever
// those cells held.
func Merge(header HeaderIndex, parsed []*Row) [][]string {
	out := make([][]string, 0, len(parsed)+1)
	out = append(out, header.Names())

	for _, r := range parsed {
		record := make([]string, header.Width())
		copy(record, r.cells)
		if len(r.cells) > len(record) {
			record = append(record, r.cells[len(record):]...)
		}
		if r.Done() {
			for i, value := range r.Outputs() {
				if pos := header.Position(OutputColumns[i]); pos >= 0 {
					record[pos] = value
				}
			}
		}
		out = append(out, record)
	}
	return out
}
