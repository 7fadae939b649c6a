package tie

// index is a fixed bijection between strings and dense integer codes.
type index struct {
	items []string
	codes map[string]int
}

func newIndex(items []string) *index {
	x := &index{
		items: make([]string, 0, len(items)),
		codes: make(map[string]int, len(items)),
	}
	for _, item := range items {
		if _, seen := x.codes[item]; seen {
			continue
		}
		x.codes[item] = len(x.items)
		x.items = append(x.items, item)
	}
	return x
}

func (x *index) code(item string) (int, bool) {
	c, ok := x.codes[item]
	return c, ok
}

func (x *index) item(code int) string {
	return x.items[code]
}

func (x *index) len() int {
	return len(x.items)
}
