package stream_test

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventsys/event"
	"github.com/saylorsolutions/eventsys/module"
	"github.com/saylorsolutions/eventsys/stream"
	"time"
)

func ExampleCommandStream() {
	// Modules are registered by event kind, and the resulting routing table is attached before running.
	modules, err := module.NewRegistry().
		Register("echo", module.Func(func(_ context.Context, req *event.Request) (event.Response, error) {
			return event.OK(req.Payload()), nil
		})).
		Build()
	if err != nil {
		panic(err)
	}
	cmds, err := stream.New[int]()
	if err != nil {
		panic(err)
	}
	if err := cmds.ModuleServiceMap(modules); err != nil {
		panic(err)
	}
	go func() {
		_ = cmds.Run(context.Background())
	}()

	// Producers get their own Sender, and close it when they're done.
	sender := cmds.Sender()
	defer sender.Close()
	defer cmds.Close()

	// The callback is only called on success, so a producer that waits should always use a timeout.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	caller, resp, err := stream.Call(sender, 42, event.MustRequest("echo", []byte("hi"))).Await(ctx)
	if err != nil {
		fmt.Println("No response:", err)
		return
	}
	fmt.Println(caller, string(resp.Payload))

	// Output:
	// 42 hi
}
