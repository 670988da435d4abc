/*
Package eventsys routes event requests to the modules that handle them.

Producers submit a request, tagged with an event kind, to a command stream along with a callback.
The stream dispatches each request concurrently to the module registered for its kind, and calls the callback with the module's response.
Requests complete in whatever order their handlers finish, and one slow or failing handler never holds up the others.

The packages are layered like this:

  - [github.com/saylorsolutions/eventsys/event] defines requests and responses.
  - [github.com/saylorsolutions/eventsys/module] defines the module contract and the routing table.
  - [github.com/saylorsolutions/eventsys/stream] is the dispatcher.
  - [github.com/saylorsolutions/eventsys/modules] holds ready-made modules, including Lua scripted modules.
  - [github.com/saylorsolutions/eventsys/config] loads routes and settings from YAML and the environment.
  - [github.com/saylorsolutions/eventsys/gateway] exposes a stream to HTTP clients.

The eventsys command in cmd/eventsys ties these together.
*/
package eventsys
