package domain

import (
	"testing"
)

func sampleNodes() []Node {
	return []Node{
		{ID: "hub", Name: "Hub"},
		{ID: "t1", Name: "Theme 1", ParentID: "hub"},
		{ID: "t2", Name: "Theme 2", ParentID: "hub"},
		{ID: "s1", Name: "Sub 1", ParentID: "t1"},
		{ID: "s2", Name: "Sub 2", ParentID: "t1"},
		{ID: "deep", Name: "Deep", ParentID: "s1"},
		{ID: "orphan", Name: "Orphan", ParentID: "missing"},
	}
}

func TestNodeSetHierarchy(t *testing.T) {
	set := NewNodeSet(sampleNodes())

	t.Run("resolves hub", func(t *testing.T) {
		hub, ok := set.Hub()
		if !ok || hub.ID != "hub" {
			t.Fatalf("expected hub, got %v %v", hub, ok)
		}
	})

	t.Run("themes in input order", func(t *testing.T) {
		themes := set.Themes()
		if len(themes) != 2 || themes[0].ID != "t1" || themes[1].ID != "t2" {
			t.Errorf("unexpected themes: %v", themes)
		}
	})

	t.Run("children of a theme", func(t *testing.T) {
		children := set.Children("t1")
		if len(children) != 2 || children[0].ID != "s1" || children[1].ID != "s2" {
			t.Errorf("unexpected children: %v", children)
		}
	})

	t.Run("ignores levels below subgraphs", func(t *testing.T) {
		if got := set.Children("s1"); len(got) != 0 {
			t.Errorf("expected no children for a subgraph, got %v", got)
		}
	})

	t.Run("fills missing child counts", func(t *testing.T) {
		t1, _ := set.Get("t1")
		if t1.ChildCount != 2 {
			t.Errorf("expected child count 2, got %d", t1.ChildCount)
		}
	})

	t.Run("theme of subgraph", func(t *testing.T) {
		theme, ok := set.ThemeOf("s2")
		if !ok || theme.ID != "t1" {
			t.Errorf("expected t1, got %v %v", theme, ok)
		}
		if _, ok := set.ThemeOf("t1"); ok {
			t.Error("a theme has no theme parent")
		}
	})
}

func TestNodeSetDegenerate(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		set := NewNodeSet(nil)
		if _, ok := set.Hub(); ok {
			t.Error("expected no hub")
		}
		if len(set.Themes()) != 0 {
			t.Error("expected no themes")
		}
	})

	t.Run("two roots means no hub", func(t *testing.T) {
		set := NewNodeSet([]Node{{ID: "a"}, {ID: "b"}, {ID: "c", ParentID: "a"}})
		if _, ok := set.Hub(); ok {
			t.Error("expected no hub with two roots")
		}
		if set.IsTheme("c") {
			t.Error("expected no themes without a hub")
		}
	})

	t.Run("duplicates keep first", func(t *testing.T) {
		set := NewNodeSet([]Node{{ID: "a", Name: "first"}, {ID: "a", Name: "second"}})
		n, _ := set.Get("a")
		if n.Name != "first" || set.Len() != 1 {
			t.Errorf("expected first occurrence only, got %v (len %d)", n, set.Len())
		}
	})

	t.Run("nil set is safe", func(t *testing.T) {
		var set *NodeSet
		if set.Len() != 0 || set.Nodes() != nil {
			t.Error("expected empty nil set")
		}
		if _, ok := set.Get("x"); ok {
			t.Error("expected miss on nil set")
		}
	})
}

func TestNodeSetHas(t *testing.T) {
	set := NewNodeSet(sampleNodes())
	for _, id := range []string{"hub", "t1", "s2"} {
		if !set.Has(id) {
			t.Errorf("Has(%s) = false", id)
		}
	}
	if set.Has("nope") {
		t.Error("Has(nope) = true")
	}
	var empty *NodeSet
	if empty.Has("hub") {
		t.Error("nil set reports a node")
	}
}
