// Package shutdown coordinates process termination.
//
// A Handler waits for SIGINT, SIGTERM or an explicit Trigger, then runs the
// registered hooks in reverse registration order under a shared timeout.
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("resp server", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
