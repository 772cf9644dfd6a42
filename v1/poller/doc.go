// Package poller waits for long-running control-plane operations to settle.
//
// A lifecycle operation such as creating or deleting an index is a single
// control-plane call followed by a wait. The wait repeatedly runs a status
// check until a target predicate holds, the timeout elapses, or the caller's
// context is cancelled:
//
//	p := poller.New(log)
//	res, err := p.Run(ctx, poller.Operation{
//	    Name:     "create_index",
//	    Resource: "Index",
//	    Action:   "creation",
//	    Hint:     "describe_index()",
//	    Timeout:  poller.DefaultTimeout,
//	    Call: func(ctx context.Context) error {
//	        return cp.CreateIndex(ctx, spec)
//	    },
//	    Check: func(ctx context.Context) (bool, error) {
//	        idx, err := cp.DescribeIndex(ctx, spec.Name)
//	        if err != nil {
//	            return false, err
//	        }
//	        return idx.Status == "Ready", nil
//	    },
//	})
//
// # Timeouts
//
// Timeouts are whole seconds. NoWait (-1) issues the call and returns at once
// without any status check. Any other negative value is rejected with an
// *ArgumentError before the call is made. Checks run every five seconds.
//
// # Terminal states
//
// Every run ends in exactly one of Succeeded, TimedOut, Cancelled or Failed.
// Errors from Call or Check are returned unmodified and end the run as Failed;
// the poller only retries on "not yet satisfied". A timeout yields a
// *TimeoutError and a cancellation an *InterruptedError, matching ErrTimeout
// and ErrInterrupted respectively. Both tell the caller how to look up the
// final status themselves.
//
// Cancellation is cooperative and driven by ctx. A context that can never be
// cancelled, such as context.Background(), leaves the timeout as the only
// way out.
package poller
