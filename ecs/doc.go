// Package ecs provides ECS adapters for trellis notifications.
//
// The primary adapter is [NewDonburiStore], which bridges scene
// notifications (drag, drop, revert, rotation, section membership) into a
// [Donburi] world as typed events. Subscribe to [NotificationEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
