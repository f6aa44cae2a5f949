package virtual

// ItemProperties is the cached geometry of one item.
type ItemProperties struct {
	X, Y          int
	Width, Height int
	Kind          string
	// Measured is true once the size came from the item's own element
	// rather than from the kind estimate.
	Measured bool
}

// Rect returns the cached rectangle.
func (p ItemProperties) Rect() Rect {
	return NewRect(p.X, p.Y, p.Width, p.Height)
}

// propStore is an index-addressed arena of item properties. Keys map to
// slots; slots are never freed and are overwritten when a key reappears.
type propStore struct {
	slots []ItemProperties
	index map[string]int
}

func newPropStore() *propStore {
	return &propStore{index: make(map[string]int)}
}

// lookup returns a copy of the properties cached for key.
func (s *propStore) lookup(key string) (ItemProperties, bool) {
	i, ok := s.index[key]
	if !ok {
		return ItemProperties{}, false
	}
	return s.slots[i], true
}

// ensure returns the slot for key, creating it when missing. A slot whose
// kind changed is reset. Unmeasured slots are reseeded from seed.
func (s *propStore) ensure(key, kind string, seed Size) int {
	i, ok := s.index[key]
	if !ok {
		i = len(s.slots)
		s.slots = append(s.slots, ItemProperties{Kind: kind})
		s.index[key] = i
	} else if s.slots[i].Kind != kind {
		s.slots[i] = ItemProperties{Kind: kind}
	}
	if p := &s.slots[i]; !p.Measured {
		p.Width, p.Height = seed.Width, seed.Height
	}
	return i
}

// at returns the slot at i. The pointer is valid until the next ensure.
func (s *propStore) at(i int) *ItemProperties {
	return &s.slots[i]
}

// zeroSizes forgets every measured size so flow layout re-measures.
func (s *propStore) zeroSizes() {
	for i := range s.slots {
		s.slots[i].Width, s.slots[i].Height = 0, 0
		s.slots[i].Measured = false
	}
}
