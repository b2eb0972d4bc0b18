package gotri

import "fmt"

type ActionType int

const (
	ActionPoint ActionType = iota
	ActionEdge
	ActionTriangle
)

func (t ActionType) String() string {
	switch t {
	case ActionPoint:
		return "point"
	case ActionEdge:
		return "edge"
	}
	return "triangle"
}

// MeshAction records one addition or removal. The entity is held by
// pointer, so undoing puts back the very same object with its links.
type MeshAction struct {
	Type     ActionType
	Added    bool
	Point    *Point
	Edge     *Edge
	Triangle *Triangle
}

func newMeshAction(typ ActionType, added bool, entity interface{}) *MeshAction {
	a := &MeshAction{Type: typ, Added: added}
	switch typ {
	case ActionPoint:
		a.Point = entity.(*Point)
		a.Point.Ref()
	case ActionEdge:
		a.Edge = entity.(*Edge)
		a.Edge.Ref()
	case ActionTriangle:
		a.Triangle = entity.(*Triangle)
		a.Triangle.Ref()
	}
	return a
}

// release drops the reference the action holds on its entity.
func (a *MeshAction) release() {
	switch a.Type {
	case ActionPoint:
		a.Point.Unref()
	case ActionEdge:
		a.Edge.Unref()
	case ActionTriangle:
		a.Triangle.Unref()
	}
}

// Undo applies the inverse of the action to m.
func (a *MeshAction) Undo(m *Mesh) {
	switch a.Type {
	case ActionPoint:
		if a.Added {
			a.Point.Remove()
		} else {
			m.addPoint(a.Point)
		}
	case ActionEdge:
		if a.Added {
			a.Edge.Remove()
		} else {
			m.addEdge(a.Edge)
		}
	case ActionTriangle:
		if a.Added {
			a.Triangle.Remove()
		} else {
			m.addTriangle(a.Triangle)
		}
	}
}

func (a *MeshAction) String() string {
	verb := "removed"
	if a.Added {
		verb = "added"
	}
	return fmt.Sprintf("%v %s", a.Type, verb)
}

func (m *Mesh) record(typ ActionType, added bool, entity interface{}) {
	if !m.recording || m.undoing {
		return
	}
	m.actions = append(m.actions, newMeshAction(typ, added, entity))
}

// BeginActionGroup starts logging mutations. Groups do not nest.
func (m *Mesh) BeginActionGroup() {
	m.checkAlive()
	if m.recording {
		panic("gotri: action group already open")
	}
	m.recording = true
}

// CommitActionGroup keeps the mutations of the open group.
func (m *Mesh) CommitActionGroup() {
	if !m.recording {
		panic("gotri: no action group open")
	}
	m.dropActions()
}

// UndoActionGroup reverts the mutations of the open group, newest first.
func (m *Mesh) UndoActionGroup() {
	if !m.recording {
		panic("gotri: no action group open")
	}
	m.undoing = true
	for i := len(m.actions) - 1; i >= 0; i-- {
		m.actions[i].Undo(m)
	}
	m.undoing = false
	m.dropActions()
}

// Actions returns the log of the open group.
func (m *Mesh) Actions() []*MeshAction {
	return m.actions
}

func (m *Mesh) Recording() bool {
	return m.recording
}

func (m *Mesh) dropActions() {
	for _, a := range m.actions {
		a.release()
	}
	m.actions = nil
	m.recording = false
}
