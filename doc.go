// Package rx provides a small set of push-based observable primitives for Go, built around
// a conditional buffering operator.
//
// # Observables and Observers
//
// An [Observable] pushes items to an [Observer] through three methods: OnNext for items, and OnError or OnCompleted
// to terminate the stream. A subscription receives zero or more items followed by at most one terminal notification,
// and notifications for one subscription are never delivered concurrently.
//
// Subscribe takes a context and returns a [Subscription]. Canceling the context and disposing the subscription
// are equivalent: both stop further notifications and release the resources held by the pipeline.
//
//	batches := rx.BufferWhile(rx.Range(0, 100), rx.CountGate(10))
//	sub := batches.Subscribe(ctx, rx.NewObserver(
//		func(batch []int) { fmt.Println(batch) },
//		func(err error) { fmt.Println("Error:", err) },
//		func() { fmt.Println("done") },
//	))
//	defer sub.Dispose()
//
// # Conditional buffering
//
// [BufferWhile] groups items into batches. A caller-supplied predicate, called once per item, decides whether the item
// extends the current batch or closes it. The predicate takes no arguments: it is a gate over some external state,
// such as a counter ([CountGate]) or a clock ([TimeGate]). The last batch is flushed when the source completes,
// and discarded when the source fails or the subscription is disposed.
//
// # Time
//
// Nothing in this package reads the wall clock implicitly. Functions that depend on time take a [Scheduler].
// Use [TimeScheduler] in production and the virtual-time scheduler from the rxtest package in tests.
//
// # Error handling
//
// Errors travel down the pipeline as OnError notifications. Operators that call user-provided functions,
// such as [Map] or [TryBufferWhile], turn returned errors into OnError and dispose their upstream subscription.
// Nothing is retried. Blocking functions, such as [ForEach] and [ToSlice], return the first error.
//
// # Channels
//
// [FromChan] and [ToChan] convert between observables and channel-based streams of [Try] containers,
// so observables can be combined with regular goroutine pipelines.
package rx
