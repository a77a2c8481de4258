// Package trellis is a retained-mode 2D scene graph for diagram and board
// editors built on [Ebitengine], with z-index layering and a transactional
// drag-and-drop protocol.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := trellis.NewScene()
//	lane := trellis.NewShape("lane", 200, 400, trellis.Container{})
//	card := trellis.NewShape("card", 80, 40, &trellis.Movable{}, trellis.Selectable{})
//	lane.AddChild(card)
//	scene.Root().AddChild(lane)
//	trellis.Run(scene, trellis.RunConfig{Title: "Board", Width: 640, Height: 480})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Scene graph
//
// Every element is a [Node]. Nodes form a logical tree rooted at
// [Scene.Root]; children inherit their parent's transform. Behavior comes
// from traits passed to the constructor: [Movable], [Rotatable],
// [Selectable], [Container] and any value implementing the capability
// interfaces in traits.go.
//
// # Sections
//
// A [Section] is a subtree with its own coordinate space and
// [SpatialIndex]. Every attached node belongs to exactly one section, the
// nearest one above it. Nodes cache their transform relative to their
// section root, so moving a section does not touch its members.
//
// # Z-layers
//
// [Node.SetZIndex] overrides a node's stacking priority. Nodes whose
// resolved priority differs from their parent's are painted from a
// synthetic layer of their section while remaining logical children of
// their parent. Layers are kept sorted; within a layer nodes keep document
// order ([GetOrder], [GetPosition]). Inherited transform and visibility
// reach layered nodes on the next [Scene.Flush].
//
// # Drag and drop
//
// Pointer input drives a [DragController]. A press on a node starts the
// [Operation] its traits provide; presses elsewhere start the background
// operation (area selection, or panning with the middle button). The
// [MoveOperation] lifts the drag set onto the glass, resolves a drop target
// under each node on every sample, and on release either commits each node
// into its target or rolls it back from a snapshot. If no node commits, the
// whole gesture's undo scope is cancelled. Outcomes are reported as events
// registered with [Scene.On].
//
// # Animation and scripted input
//
// [TweenPosition], [TweenAlpha] and friends build a [TweenGroup]; register
// it with [Scene.Animate] to have it advanced every frame. Groups wait while
// their node is being dragged.
//
// [Scene.InjectDrag] and the other Inject methods queue synthetic pointer
// samples. [LoadScript] reads a YAML list of gestures and history commands
// that [Scene.SetScriptRunner] replays one step per frame.
//
// # Configuration
//
// [LoadConfig] layers built-in defaults, a YAML file and TRELLIS_*
// environment variables. Logging goes through logrus; see [Scene.SetLogger].
//
// [Ebitengine]: https://ebitengine.org
package trellis
