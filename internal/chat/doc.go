// Package chat implements the session, room, and presence coordination core
// for the ChatKaro service: unique display-name claiming, the static room
// catalog with live occupancy, room membership and typing state, public and
// private message routing, and reconnection continuity.
//
// A single Coordinator owns all shared state behind one mutex so that
// membership, typing, and message operations on the same room are strictly
// ordered relative to one another. Delivery to connections is fire and
// forget through the Sink interface; a slow receiver never stalls the
// coordinator.
package chat
