/*
Compworld is an entity/component runtime for simulation worlds. Every live game object is a tree of components
owned by a single root per world. Components are identified by handles which stay stable for the whole process
and across save files.

Frames

A world is updated by one frame goroutine. Each frame propagates world transforms from the root, updates every active
component implementing entity.Updateable, then applies the additions and removals submitted since the previous
frame. Any goroutine can submit additions and removals at any time; they never become visible in the middle of an
update pass. Removing a component removes its whole subtree.

Capabilities

A component declares what it can do by implementing entity.Updateable, entity.Renderable or entity.MinimapMarker.
The capabilities are tested once when a component becomes live and kept in per-capability views, so frames never
test the type of every component.

Snapshots

Manager.Snapshot flattens the components marked to be serialized. entity.Restore rebuilds a world from a snapshot,
deriving every index again and running PostSerialization hooks so that components can relink references.
Snapshots are encoded with MessagePack or JSON and stored in a directory, MongoDB, Redis or Redis Cluster.

Run a world

	import "github.com/colonyrt/compworld"

	func main() {
		compworld.RegisterKind("Colonist", &Colonist{})
		world, err := compworld.NewWorld(func() entity.Component {
			return compworld.NewBody("colony")
		})
		...
		world.Run()
	}

See cmd/compworld for a complete program and compworld.ini.sample for the configuration.
*/
package compworld
