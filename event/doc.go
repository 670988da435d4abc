/*
Package event defines the request and response values exchanged between producers and modules.

A [Request] carries a [Kind] used for routing, an ID that's handed to the module as its per-request configuration, and an opaque payload.
A [Response] carries a [Status] and an opaque payload.
Neither type interprets its payload; encoding is agreed upon between a producer and the module handling the [Kind].
*/
package event
