/*
Package stream provides the [CommandStream], an in-process dispatcher that routes event requests to modules and delivers responses back to producers.

# Flow

Producers wrap an [event.Request] in a [StreamData] along with a caller value and a [Callback], and submit it with a [Sender].
The [CommandStream] takes each [StreamData] from its queue and handles it in a new goroutine:

 1. The request is taken from the [StreamData]. This happens exactly once.
 2. The [module.Module] registered for the request's kind is looked up in the [module.ServiceMap].
 3. The module builds a [module.Handler] using the request ID as configuration.
 4. The handler is invoked with the request.
 5. The [Callback] is called with the caller value and the response.

The queue is unbounded, so sending never blocks.
Requests are handled concurrently, and responses may be delivered in any order.

# Failures

If any step fails, then a [*DispatchError] is logged and passed to the function registered with [ErrorHandler], and the [StreamData] is discarded.
The [Callback] is NOT called when dispatch fails, and the producer receives no notification.
This is intentional: the [Callback] is a success channel only.
A producer that needs a guaranteed answer should use [Call] or [Pending], and await the result with a timeout.

Panics in modules, handlers, and callbacks are recovered and reported the same way, so one request can't take down the others.

# Lifecycle

A [CommandStream] is created with [New], given a routing table with [CommandStream.ModuleServiceMap], and then driven with [CommandStream.Run].
Running without a routing table returns [ErrConfiguration].

[CommandStream.Run] returns once every [Sender] (including the stream's own, released with [CommandStream.Close]) has been closed and the queue is empty, or when its context is cancelled.
Requests already being handled are not cancelled when the loop stops.
*/
package stream
