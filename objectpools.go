package ui

// stackPool recycles the node stacks used by the tree traversals. Trees are
// walked on every synchronization, so the stacks are reused instead of being
// reallocated each time.
type stackPool struct {
	objects         [][]*StateNode
	capacity        int
	maxCapacity     int
	baseCapacity    int
	resizeThreshold int
	constructor     func() []*StateNode
}

func newStackPool(baseCapacity, maxCapacity, resizeThreshold int, constructor func() []*StateNode) *stackPool {
	return &stackPool{
		objects:         make([][]*StateNode, 0, baseCapacity),
		capacity:        baseCapacity,
		maxCapacity:     maxCapacity,
		baseCapacity:    baseCapacity,
		resizeThreshold: resizeThreshold,
		constructor:     constructor,
	}
}

func (p *stackPool) Get() []*StateNode {
	if len(p.objects) == 0 {
		return p.constructor()
	}

	lastIndex := len(p.objects) - 1
	obj := p.objects[lastIndex]
	p.objects[lastIndex] = nil
	p.objects = p.objects[:lastIndex]
	return obj
}

func (p *stackPool) Put(stack []*StateNode) {
	clear(stack)
	stack = stack[:0]
	if len(p.objects) >= p.capacity {
		if p.capacity+p.resizeThreshold > p.maxCapacity {
			return // drop it
		}
		p.adjustCapacity(p.capacity + p.resizeThreshold)
	}
	p.objects = append(p.objects, stack)

	if len(p.objects) <= p.capacity-2*p.resizeThreshold {
		p.adjustCapacity(p.capacity - p.resizeThreshold)
	}
}

func (p *stackPool) adjustCapacity(newCapacity int) {
	if newCapacity < p.baseCapacity {
		newCapacity = p.baseCapacity
	} else if newCapacity > p.maxCapacity {
		newCapacity = p.maxCapacity
	}
	p.capacity = newCapacity
}

func (p *stackPool) Len() int { return len(p.objects) }

func newNodeStack() []*StateNode {
	return make([]*StateNode, 0, 128)
}

// One pool per tree: the pool itself is not safe for concurrent use.
func defaultStackPool() *stackPool {
	return newStackPool(4, 32, 4, newNodeStack)
}
