// Package event implements the typed publish/subscribe bus: a Channel
// maps event type ids to ordered subscriber lists, Post serializes an
// event once and fans out reference-counted views of that one buffer,
// and PostBuffer injects payloads that arrived off the wire.
//
// Channels are deliberately not synchronized internally; see Channel.
package event
