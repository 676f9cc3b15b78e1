package cadence_test

import (
	"context"
	"fmt"
	"os"

	cadence "github.com/openstimuli/cadence"
	"github.com/openstimuli/cadence/pkg/adapters/exprlang"
	"github.com/openstimuli/cadence/pkg/scheduler"
)

// Example runs a minimal two-routine experiment: an instruction screen that
// finishes immediately, then a trial routine that spans two frames.
func Example() {
	sess := cadence.NewSession("demo")

	sess.Scheduler().Add(func(ctx context.Context) (scheduler.Signal, error) {
		fmt.Println("instructions")
		return scheduler.Next, nil
	}, "instructions")

	frames := 0
	sess.Scheduler().Add(func(ctx context.Context) (scheduler.Signal, error) {
		frames++
		fmt.Printf("trial frame %d\n", frames)
		if frames < 2 {
			return scheduler.FlipRepeat, nil
		}
		return scheduler.Next, nil
	}, "trial")

	_ = sess.Run(context.Background(), instantTicker{}, nil)
	// Output:
	// instructions
	// trial frame 1
	// trial frame 2
}

// ExampleSession_ScheduleSurvey walks a two-page survey flow with a renderer
// that answers every question from a script, then prints the results artifact.
func ExampleSession_ScheduleSurvey() {
	sess := cadence.NewSession("demo-survey")
	renderer := &autoRenderer{answers: map[string]any{"first": "yes", "second": 3}}

	_ = sess.ScheduleSurvey(twoPageDoc(), renderer, exprlang.New())
	_ = sess.Run(context.Background(), instantTicker{}, nil)
	_ = sess.Results().EncodeSorted(os.Stdout)
	// Output:
	// {"first":"yes","second":3}
}
