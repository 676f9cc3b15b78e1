/*
Package cadence is a frame-synchronized runtime for behavioral experiments: a
cooperative task scheduler that sequences trial routines in lock-step with a
display's refresh, and a survey flow interpreter that drives a page renderer
through a data-described control-flow tree.

It implements a "cooperative routines over an external frame loop"
architecture: the engine never owns a timer. Progress happens only when the
frame-loop driver ticks the scheduler, once per display refresh, and every
suspension is expressed as a task signal rather than a blocking wait.

# Concept

An experiment is a queue of routines (begin / each-frame / end phases of a
trial), scheduled FIFO on a Scheduler. Each tick, the current task is stepped
once and answers with a signal: advance, re-render this frame and step me
again, terminate, or still pending. Loop iterations and cancel paths are
nested Schedulers, opaque tasks from their parent's point of view.

Surveys are a second scheduling regime layered on top: the flow interpreter
walks a static tree of question blocks, conditionals, embedded-data
assignments and randomized groups, suspending at each page until the renderer
reports completion — a user-paced wait spanning arbitrarily many frames.

# Usage

	sess := cadence.NewSession("participant-7")
	sched := sess.Scheduler()

	sched.Add(trialBegin)
	sched.Add(trialEachFrame) // returns FlipRepeat until the trial ends
	sched.Add(trialEnd)

	ticker := clock.NewFrameTicker(60)
	if err := sess.Run(ctx, ticker, window.Flip); err != nil {
		log.Fatal(err)
	}

	if err := sess.SaveResults(ctx); err != nil {
		log.Fatal(err)
	}
*/
package cadence
