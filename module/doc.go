/*
Package module defines the contract between a dispatcher and the code that handles events.

A [Module] is registered for one or more [event.Kind] values.
For every request routed to it, the dispatcher asks the [Module] to build a [Handler] using the request ID as configuration, and then invokes that [Handler] once.
Any implementation of these two interfaces is interchangeable, which makes test doubles simple to write with [Func], [BuildFunc], and [HandlerFunc].

Registrations are collected with a [Registry], and [Registry.Build] produces the immutable [ServiceMap] a dispatcher routes with.
*/
package module
