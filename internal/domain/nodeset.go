package domain

// NodeSet is an indexed, read-only snapshot of the node tree. It is built
// once per update and never mutated afterwards.
type NodeSet struct {
	nodes    []Node
	index    map[string]int
	children map[string][]string
	hubID    string
}

// NewNodeSet indexes a flat node list. Duplicate IDs keep the first
// occurrence. The hub is only resolved when exactly one node has no parent.
func NewNodeSet(nodes []Node) *NodeSet {
	s := &NodeSet{
		nodes:    make([]Node, 0, len(nodes)),
		index:    make(map[string]int, len(nodes)),
		children: make(map[string][]string),
	}

	var roots []string
	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, dup := s.index[n.ID]; dup {
			continue
		}
		s.index[n.ID] = len(s.nodes)
		s.nodes = append(s.nodes, n)
		if n.ParentID == "" {
			roots = append(roots, n.ID)
		}
	}

	for _, n := range s.nodes {
		if n.ParentID == "" {
			continue
		}
		if _, ok := s.index[n.ParentID]; !ok {
			continue
		}
		s.children[n.ParentID] = append(s.children[n.ParentID], n.ID)
	}

	// Fill in child counts the repository did not supply
	for i := range s.nodes {
		if s.nodes[i].ChildCount == 0 {
			s.nodes[i].ChildCount = len(s.children[s.nodes[i].ID])
		}
	}

	if len(roots) == 1 {
		s.hubID = roots[0]
	}
	return s
}

// Len returns the number of indexed nodes
func (s *NodeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Nodes returns a copy of all nodes in input order
func (s *NodeSet) Nodes() []Node {
	if s == nil {
		return nil
	}
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Get looks up a node by ID
func (s *NodeSet) Get(id string) (Node, bool) {
	if s == nil {
		return Node{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return Node{}, false
	}
	return s.nodes[i], true
}

// Has reports whether id is in the snapshot
func (s *NodeSet) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Hub returns the single parentless node
func (s *NodeSet) Hub() (Node, bool) {
	if s == nil || s.hubID == "" {
		return Node{}, false
	}
	return s.Get(s.hubID)
}

// Themes returns the direct children of the hub in input order
func (s *NodeSet) Themes() []Node {
	hub, ok := s.Hub()
	if !ok {
		return nil
	}
	return s.lookup(s.children[hub.ID])
}

// Children returns the direct children of a theme. Nodes deeper than two
// levels below the hub are never returned.
func (s *NodeSet) Children(themeID string) []Node {
	if !s.IsTheme(themeID) {
		return nil
	}
	return s.lookup(s.children[themeID])
}

// IsTheme returns true if id is a direct child of the hub
func (s *NodeSet) IsTheme(id string) bool {
	hub, ok := s.Hub()
	if !ok {
		return false
	}
	n, ok := s.Get(id)
	return ok && n.ParentID == hub.ID
}

// ThemeOf returns the theme a subgraph belongs to
func (s *NodeSet) ThemeOf(subgraphID string) (Node, bool) {
	n, ok := s.Get(subgraphID)
	if !ok || !s.IsTheme(n.ParentID) {
		return Node{}, false
	}
	return s.Get(n.ParentID)
}

func (s *NodeSet) lookup(ids []string) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.nodes[s.index[id]])
	}
	return out
}
